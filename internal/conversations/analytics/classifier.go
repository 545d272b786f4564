package analytics

import (
	"strings"
	"time"
)

// Default markers the assistant embeds when it reveals pricing or the
// velvet-rope qualification gate. Overridable for deployments that use
// different prompt templates.
const (
	DefaultPricingRevealMarker = "[[pricing-reveal]]"
	DefaultVelvetRopeMarker    = "[[velvet-rope]]"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a conversation as the classifier sees it.
type Message struct {
	Role      Role
	Content   string
	CreatedAt time.Time
}

// Input bundles the conversation record, its transcript and the
// correlated CRM facts the classifier needs. Correlations are resolved
// by the caller so the classification itself stays pure.
type Input struct {
	ConversationID string
	VisitorID      string
	Active         bool
	StartedAt      time.Time
	EndedAt        time.Time
	Messages       []Message
	HasBooking     bool
	HasLead        bool
}

// Result is the derived analytics snapshot for one conversation.
type Result struct {
	ConversationID        string
	VisitorID             string
	MessageCount          int
	UserMessageCount      int
	AssistantMessageCount int
	DurationSeconds       int
	ServiceIdentified     *string
	Outcome               Outcome
	Objections            []Objection
	ReachedPricing        bool
	ReachedVelvetRope     bool
	DropoffAfterMessage   *int
	QualificationScore    int
}

// Config customizes the classifier's transcript markers. Zero values
// fall back to the defaults.
type Config struct {
	PricingRevealMarker string
	VelvetRopeMarker    string
}

// Classifier derives analytics from transcripts using fixed keyword
// tables compiled once at construction.
type Classifier struct {
	objections    []objectionEntry
	services      []serviceEntry
	pricingMarker string
	velvetMarker  string
}

// NewClassifier builds a classifier with the default keyword tables.
func NewClassifier(cfg Config) *Classifier {
	if cfg.PricingRevealMarker == "" {
		cfg.PricingRevealMarker = DefaultPricingRevealMarker
	}
	if cfg.VelvetRopeMarker == "" {
		cfg.VelvetRopeMarker = DefaultVelvetRopeMarker
	}
	return &Classifier{
		objections:    defaultObjectionTable(),
		services:      defaultServiceTable(),
		pricingMarker: cfg.PricingRevealMarker,
		velvetMarker:  cfg.VelvetRopeMarker,
	}
}

// signals holds the intermediate facts the outcome rules consult.
type signals struct {
	active        bool
	hasBooking    bool
	hasLead       bool
	pricingReveal bool
}

// outcomeRule is one entry in the ordered outcome decision list. Rules
// are evaluated top to bottom; the first match wins.
type outcomeRule struct {
	Outcome Outcome
	Applies func(s signals) bool
}

var outcomeRules = []outcomeRule{
	{OutcomeBookingMade, func(s signals) bool { return s.hasBooking }},
	{OutcomeLeadCaptured, func(s signals) bool { return s.hasLead }},
	{OutcomePricingShown, func(s signals) bool { return s.pricingReveal }},
	{OutcomeStillActive, func(s signals) bool { return s.active }},
	{OutcomeDroppedOff, func(s signals) bool { return true }},
}

// Classify analyzes one conversation and produces its snapshot.
func (c *Classifier) Classify(in Input) Result {
	result := Result{
		ConversationID: in.ConversationID,
		VisitorID:      in.VisitorID,
		MessageCount:   len(in.Messages),
	}

	pricingReveal := false
	for _, msg := range in.Messages {
		switch msg.Role {
		case RoleUser:
			result.UserMessageCount++
		case RoleAssistant:
			result.AssistantMessageCount++
			if strings.Contains(msg.Content, c.pricingMarker) {
				pricingReveal = true
			}
			if currencyPattern.MatchString(msg.Content) {
				result.ReachedPricing = true
			}
			if strings.Contains(msg.Content, c.velvetMarker) {
				result.ReachedVelvetRope = true
			}
		}
	}

	result.Objections = c.detectObjections(in.Messages)
	result.ServiceIdentified = c.identifyService(in.Messages)
	result.DurationSeconds = durationSeconds(in)

	result.Outcome = resolveOutcome(signals{
		active:        in.Active,
		hasBooking:    in.HasBooking,
		hasLead:       in.HasLead,
		pricingReveal: pricingReveal,
	})
	if result.Outcome == OutcomeDroppedOff {
		dropoff := result.UserMessageCount
		result.DropoffAfterMessage = &dropoff
	}

	result.QualificationScore = engagementScore(result, pricingReveal)
	return result
}

func resolveOutcome(s signals) Outcome {
	for _, rule := range outcomeRules {
		if rule.Applies(s) {
			return rule.Outcome
		}
	}
	return OutcomeDroppedOff
}

// detectObjections scans user messages against every category. The
// returned slice is deduplicated in table order; when nothing matched
// it is exactly [none_detected].
func (c *Classifier) detectObjections(messages []Message) []Objection {
	seen := make(map[Objection]bool, len(c.objections))
	for _, msg := range messages {
		if msg.Role != RoleUser {
			continue
		}
		for _, entry := range c.objections {
			if seen[entry.Category] {
				continue
			}
			for _, pattern := range entry.Patterns {
				if pattern.MatchString(msg.Content) {
					seen[entry.Category] = true
					break
				}
			}
		}
	}

	detected := make([]Objection, 0, len(seen))
	for _, entry := range c.objections {
		if seen[entry.Category] {
			detected = append(detected, entry.Category)
		}
	}
	if len(detected) == 0 {
		return []Objection{ObjectionNoneDetected}
	}
	return detected
}

// identifyService counts keyword hits per service vertical across the
// whole transcript. Highest count wins, ties broken by table order;
// nil when no vertical matched at all.
func (c *Classifier) identifyService(messages []Message) *string {
	best := ""
	bestCount := 0
	for _, entry := range c.services {
		count := 0
		for _, msg := range messages {
			for _, pattern := range entry.Patterns {
				count += len(pattern.FindAllStringIndex(msg.Content, -1))
			}
		}
		if count > bestCount {
			best = entry.Service
			bestCount = count
		}
	}
	if bestCount == 0 {
		return nil
	}
	return &best
}

func durationSeconds(in Input) int {
	end := in.EndedAt
	if end.IsZero() && len(in.Messages) > 0 {
		end = in.Messages[len(in.Messages)-1].CreatedAt
	}
	if end.IsZero() || in.StartedAt.IsZero() || end.Before(in.StartedAt) {
		return 0
	}
	return int(end.Sub(in.StartedAt) / time.Second)
}

// engagementScore is an additive engagement heuristic capped at 100.
// It measures conversation quality and is distinct from the CRM-level
// lead score.
func engagementScore(r Result, pricingReveal bool) int {
	score := 0
	if r.MessageCount >= 4 {
		score += 15
	}
	if r.MessageCount >= 8 {
		score += 15
	}
	if r.ServiceIdentified != nil {
		score += 20
	}
	if r.ReachedPricing {
		score += 15
	}
	if pricingReveal {
		score += 20
	}
	if len(r.Objections) == 1 && r.Objections[0] == ObjectionNoneDetected {
		score += 15
	}
	if score > 100 {
		score = 100
	}
	return score
}
