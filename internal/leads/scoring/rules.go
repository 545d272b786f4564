// Package scoring converts a contact's accumulated CRM evidence into a
// bounded qualification score. Every rule only ever adds points, each with
// its own cap; the sum is clamped to [0,100] and mapped to a coarse tier.
package scoring

import (
	"strings"

	"growthcore_backend/internal/leads/repository"

	"github.com/nyaruka/phonenumbers"
)

// Rule point values. A rule either awards its full value or nothing.
const (
	pointsEmail            = 5
	pointsPhone            = 5
	pointsCompany          = 10
	pointsBudgetSignal     = 10
	pointsHasInteraction   = 10
	pointsManyInteractions = 5 // more than two logged interactions
	pointsFormSubmitted    = 10
	pointsIntentKeywords   = 10
	pointsHasBooking       = 15
	pointsBookingConfirmed = 10
	pointsBookingCompleted = 15
)

// Qualification tiers, ordered descending. The first threshold the score
// meets wins, so the precedence is visible as data rather than control
// flow.
var tiers = []struct {
	Threshold int
	Name      string
}{
	{80, "customer"},
	{55, "qualified"},
	{35, "hot"},
	{15, "warm"},
	{0, "cold"},
}

// intentVocabulary is matched case-insensitively as substrings against
// interaction summaries. It covers both pricing intent and interest in a
// specific service line.
var intentVocabulary = []string{
	"pricing",
	"price",
	"quote",
	"cost",
	"how much",
	"growth audit",
	"automation",
	"fractional cto",
	"sprint",
}

// budgetKeys are contact metadata keys that count as a budget signal.
var budgetKeys = []string{"budget", "budget_range", "deal_size"}

// Result is the outcome of scoring one contact.
type Result struct {
	Score         int
	Qualification string
	Breakdown     map[string]int
}

// Evidence bundles everything the rules look at.
type Evidence struct {
	Contact      repository.Contact
	Interactions []repository.Interaction
	Bookings     []repository.Booking
}

// Compute runs the additive rule pass over a contact's evidence.
// phoneRegion is the default region for parsing national phone numbers.
func Compute(ev Evidence, phoneRegion string) Result {
	breakdown := make(map[string]int)
	award := func(rule string, points int, ok bool) {
		if ok {
			breakdown[rule] = points
		}
	}

	award("email", pointsEmail, ev.Contact.Email != nil && *ev.Contact.Email != "")
	award("phone", pointsPhone, hasValidPhone(ev.Contact, phoneRegion))
	award("company", pointsCompany, ev.Contact.Company != nil && *ev.Contact.Company != "")
	award("budget_signal", pointsBudgetSignal, hasBudgetSignal(ev.Contact.Metadata))

	chats := 0
	forms := 0
	for _, interaction := range ev.Interactions {
		switch interaction.Type {
		case "chat":
			chats++
		case "form":
			forms++
		}
	}
	award("has_interaction", pointsHasInteraction, chats > 0)
	award("many_interactions", pointsManyInteractions, len(ev.Interactions) > 2)
	award("form_submitted", pointsFormSubmitted, forms > 0)
	award("intent_keywords", pointsIntentKeywords, hasIntentKeywords(ev.Interactions))

	confirmed := false
	completed := false
	for _, booking := range ev.Bookings {
		switch booking.Status {
		case "confirmed":
			confirmed = true
		case "completed":
			completed = true
		}
	}
	award("has_booking", pointsHasBooking, len(ev.Bookings) > 0)
	award("booking_confirmed", pointsBookingConfirmed, confirmed)
	award("booking_completed", pointsBookingCompleted, completed)

	score := 0
	for _, points := range breakdown {
		score += points
	}
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	return Result{
		Score:         score,
		Qualification: qualify(score),
		Breakdown:     breakdown,
	}
}

// qualify maps a score to its tier by scanning thresholds high to low.
func qualify(score int) string {
	for _, tier := range tiers {
		if score >= tier.Threshold {
			return tier.Name
		}
	}
	return "cold"
}

func hasValidPhone(contact repository.Contact, phoneRegion string) bool {
	if contact.Phone == nil || *contact.Phone == "" {
		return false
	}
	region := contact.Country
	if region == "" {
		region = phoneRegion
	}
	parsed, err := phonenumbers.Parse(*contact.Phone, region)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(parsed)
}

func hasBudgetSignal(metadata map[string]string) bool {
	for _, key := range budgetKeys {
		if value, ok := metadata[key]; ok && value != "" {
			return true
		}
	}
	return false
}

func hasIntentKeywords(interactions []repository.Interaction) bool {
	for _, interaction := range interactions {
		summary := strings.ToLower(interaction.Summary)
		for _, keyword := range intentVocabulary {
			if strings.Contains(summary, keyword) {
				return true
			}
		}
	}
	return false
}
