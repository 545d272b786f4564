// Package analytics derives a structured outcome summary from a finished
// or ongoing conversation's messages and correlated CRM records.
package analytics

import "regexp"

// Objection is a detected category of buyer hesitation.
type Objection string

const (
	ObjectionPrice        Objection = "price"
	ObjectionTiming       Objection = "timing"
	ObjectionApproval     Objection = "approval_needed"
	ObjectionScopeUnclear Objection = "scope_unclear"
	ObjectionCompetitor   Objection = "competitor_comparison"
	ObjectionNoBudget     Objection = "no_budget"
	ObjectionNotAFit      Objection = "not_a_fit"
	ObjectionNoneDetected Objection = "none_detected"
)

// Outcome classifies how a conversation ended up.
type Outcome string

const (
	OutcomeBookingMade  Outcome = "booking_made"
	OutcomeLeadCaptured Outcome = "lead_captured"
	OutcomePricingShown Outcome = "pricing_shown"
	OutcomeStillActive  Outcome = "still_active"
	OutcomeDroppedOff   Outcome = "dropped_off"
)

// objectionTable maps each objection category to its trigger patterns.
// Every category's full pattern list is checked for every user message;
// detection never short-circuits after the first match in a message.
type objectionEntry struct {
	Category Objection
	Patterns []*regexp.Regexp
}

func defaultObjectionTable() []objectionEntry {
	return []objectionEntry{
		{ObjectionPrice, compileAll(
			`too expensive`,
			`can'?t afford`,
			`cheaper`,
			`out of (our|my) budget`,
			`costs? too much`,
			`price is (too )?high`,
		)},
		{ObjectionTiming, compileAll(
			`not (the )?right time`,
			`next (quarter|year)`,
			`too busy`,
			`maybe later`,
			`not ready( yet)?`,
		)},
		{ObjectionApproval, compileAll(
			`ask my (boss|manager|team)`,
			`need (to get )?approval`,
			`check with`,
			`run (it|this) by`,
		)},
		{ObjectionScopeUnclear, compileAll(
			`not sure what`,
			`what exactly`,
			`don'?t understand`,
			`how does (this|it) work`,
			`what do (you|we) get`,
		)},
		{ObjectionCompetitor, compileAll(
			`other (agencies|vendors|options|providers)`,
			`competitor`,
			`comparing`,
			`versus`,
			`\bvs\.?\b`,
		)},
		{ObjectionNoBudget, compileAll(
			`no budget`,
			`budget is gone`,
			`can'?t spend`,
			`zero budget`,
		)},
		{ObjectionNotAFit, compileAll(
			`not (a good )?fit`,
			`not for us`,
			`don'?t need`,
			`doesn'?t apply to us`,
		)},
	}
}

// serviceEntry maps a service vertical to its interest keywords. Matches
// are counted across user and assistant messages; the highest count wins,
// ties broken by declaration order.
type serviceEntry struct {
	Service  string
	Patterns []*regexp.Regexp
}

func defaultServiceTable() []serviceEntry {
	return []serviceEntry{
		{"growth-audit", compileAll(
			`growth audit`,
			`\baudit\b`,
			`funnel review`,
			`growth strategy`,
		)},
		{"automation-sprint", compileAll(
			`automation`,
			`workflow`,
			`integration`,
			`\bsprint\b`,
		)},
		{"fractional-cto", compileAll(
			`\bcto\b`,
			`technical leadership`,
			`architecture review`,
			`engineering strategy`,
		)},
	}
}

// currencyPattern recognizes a currency-formatted number in assistant
// text, the independent "pricing was reached" signal.
var currencyPattern = regexp.MustCompile(`[$€£]\s?\d[\d,]*(\.\d{2})?`)

func compileAll(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(`(?i)`+p))
	}
	return compiled
}
