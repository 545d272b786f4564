package analytics

import (
	"testing"
	"time"
)

func userMsg(content string) Message      { return Message{Role: RoleUser, Content: content} }
func assistantMsg(content string) Message { return Message{Role: RoleAssistant, Content: content} }

func TestClassify_BookingOutranksPricingShown(t *testing.T) {
	c := NewClassifier(Config{})
	result := c.Classify(Input{
		ConversationID: "c1",
		HasBooking:     true,
		Messages: []Message{
			userMsg("what does the growth audit cost?"),
			assistantMsg("The express tier is $2,500. " + DefaultPricingRevealMarker),
			userMsg("great, book me in"),
		},
	})
	if result.Outcome != OutcomeBookingMade {
		t.Fatalf("expected booking_made, got %s", result.Outcome)
	}
	if !result.ReachedPricing {
		t.Fatal("expected reachedPricing from the currency amount")
	}
	if result.DropoffAfterMessage != nil {
		t.Fatalf("expected nil dropoff, got %d", *result.DropoffAfterMessage)
	}
}

func TestClassify_OutcomePriorityOrder(t *testing.T) {
	c := NewClassifier(Config{})
	cases := []struct {
		name string
		in   Input
		want Outcome
	}{
		{"lead over pricing", Input{HasLead: true, Messages: []Message{assistantMsg(DefaultPricingRevealMarker)}}, OutcomeLeadCaptured},
		{"pricing reveal", Input{Messages: []Message{assistantMsg("here are our packages " + DefaultPricingRevealMarker)}}, OutcomePricingShown},
		{"still active", Input{Active: true, Messages: []Message{userMsg("hi")}}, OutcomeStillActive},
		{"dropped off", Input{Messages: []Message{userMsg("hi"), assistantMsg("hello!")}}, OutcomeDroppedOff},
	}
	for _, tc := range cases {
		if got := c.Classify(tc.in).Outcome; got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestClassify_CurrencyAloneIsNotPricingShown(t *testing.T) {
	c := NewClassifier(Config{})
	result := c.Classify(Input{
		Messages: []Message{
			userMsg("ballpark?"),
			assistantMsg("engagements start around $5,000 depending on scope"),
		},
	})
	if result.Outcome != OutcomeDroppedOff {
		t.Fatalf("expected dropped_off, got %s", result.Outcome)
	}
	if !result.ReachedPricing {
		t.Fatal("expected reachedPricing signal to be reported independently")
	}
}

func TestClassify_DropoffRecordsUserMessageCount(t *testing.T) {
	c := NewClassifier(Config{})
	result := c.Classify(Input{
		Messages: []Message{
			userMsg("hello"),
			assistantMsg("hi there"),
			userMsg("never mind"),
		},
	})
	if result.Outcome != OutcomeDroppedOff {
		t.Fatalf("expected dropped_off, got %s", result.Outcome)
	}
	if result.DropoffAfterMessage == nil || *result.DropoffAfterMessage != 2 {
		t.Fatalf("expected dropoff after 2 user messages, got %v", result.DropoffAfterMessage)
	}
}

func TestDetectObjections_NoneDetectedIsExclusive(t *testing.T) {
	c := NewClassifier(Config{})

	empty := c.Classify(Input{})
	if len(empty.Objections) != 1 || empty.Objections[0] != ObjectionNoneDetected {
		t.Fatalf("expected exactly [none_detected], got %v", empty.Objections)
	}

	withObjection := c.Classify(Input{Messages: []Message{
		userMsg("honestly this is too expensive and I need to check with my boss"),
	}})
	for _, o := range withObjection.Objections {
		if o == ObjectionNoneDetected {
			t.Fatalf("none_detected must not appear alongside %v", withObjection.Objections)
		}
	}
	if len(withObjection.Objections) != 2 {
		t.Fatalf("expected price and approval_needed, got %v", withObjection.Objections)
	}
	if withObjection.Objections[0] != ObjectionPrice || withObjection.Objections[1] != ObjectionApproval {
		t.Fatalf("expected table order [price approval_needed], got %v", withObjection.Objections)
	}
}

func TestDetectObjections_AssistantMessagesIgnored(t *testing.T) {
	c := NewClassifier(Config{})
	result := c.Classify(Input{Messages: []Message{
		assistantMsg("some clients initially say it is too expensive"),
	}})
	if len(result.Objections) != 1 || result.Objections[0] != ObjectionNoneDetected {
		t.Fatalf("assistant text must not trigger objections, got %v", result.Objections)
	}
}

func TestIdentifyService_HighestCountWinsTieByOrder(t *testing.T) {
	c := NewClassifier(Config{})

	automation := c.Classify(Input{Messages: []Message{
		userMsg("we want automation for our workflow"),
		assistantMsg("our automation sprint covers exactly that"),
		userMsg("maybe an audit too"),
	}})
	if automation.ServiceIdentified == nil || *automation.ServiceIdentified != "automation-sprint" {
		t.Fatalf("expected automation-sprint, got %v", automation.ServiceIdentified)
	}

	tie := c.Classify(Input{Messages: []Message{
		userMsg("is this an audit or an automation thing?"),
	}})
	if tie.ServiceIdentified == nil || *tie.ServiceIdentified != "growth-audit" {
		t.Fatalf("expected tie broken toward growth-audit, got %v", tie.ServiceIdentified)
	}

	none := c.Classify(Input{Messages: []Message{userMsg("hello")}})
	if none.ServiceIdentified != nil {
		t.Fatalf("expected nil service, got %q", *none.ServiceIdentified)
	}
}

func TestEngagementScore_AdditiveAndCapped(t *testing.T) {
	c := NewClassifier(Config{})

	messages := []Message{
		userMsg("tell me about the growth audit"),
		assistantMsg("happy to walk you through it"),
		userMsg("what does it cost?"),
		assistantMsg("the express tier is $2,500 " + DefaultPricingRevealMarker),
		userMsg("interesting"),
		assistantMsg(DefaultVelvetRopeMarker + " before we go further, a few questions"),
		userMsg("sure"),
		assistantMsg("great"),
	}
	full := c.Classify(Input{Active: true, Messages: messages})
	// 15+15 message thresholds, 20 service, 15 pricing, 20 reveal, 15 no objections = 100.
	if full.QualificationScore != 100 {
		t.Fatalf("expected score 100, got %d", full.QualificationScore)
	}
	if !full.ReachedVelvetRope {
		t.Fatal("expected velvet-rope marker detection")
	}

	bare := c.Classify(Input{Active: true, Messages: []Message{userMsg("hi")}})
	if bare.QualificationScore != 15 {
		t.Fatalf("expected only the no-objections bonus, got %d", bare.QualificationScore)
	}
}

func TestClassify_CountsAndDuration(t *testing.T) {
	c := NewClassifier(Config{})
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	result := c.Classify(Input{
		StartedAt: start,
		EndedAt:   start.Add(150 * time.Second),
		Messages: []Message{
			userMsg("hi"),
			assistantMsg("hello"),
			userMsg("bye"),
		},
	})
	if result.MessageCount != 3 || result.UserMessageCount != 2 || result.AssistantMessageCount != 1 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if result.DurationSeconds != 150 {
		t.Fatalf("expected 150s duration, got %d", result.DurationSeconds)
	}
}

func TestClassify_DurationFallsBackToLastMessage(t *testing.T) {
	c := NewClassifier(Config{})
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	result := c.Classify(Input{
		Active:    true,
		StartedAt: start,
		Messages: []Message{
			{Role: RoleUser, Content: "hi", CreatedAt: start.Add(90 * time.Second)},
		},
	})
	if result.DurationSeconds != 90 {
		t.Fatalf("expected 90s duration, got %d", result.DurationSeconds)
	}
}

func TestClassify_CustomMarkers(t *testing.T) {
	c := NewClassifier(Config{PricingRevealMarker: "<price>", VelvetRopeMarker: "<gate>"})
	result := c.Classify(Input{Messages: []Message{
		assistantMsg("here you go <price> and <gate>"),
	}})
	if result.Outcome != OutcomePricingShown {
		t.Fatalf("expected pricing_shown with custom marker, got %s", result.Outcome)
	}
	if !result.ReachedVelvetRope {
		t.Fatal("expected custom velvet-rope marker detection")
	}

	ignoresDefault := c.Classify(Input{Messages: []Message{
		assistantMsg(DefaultPricingRevealMarker),
	}})
	if ignoresDefault.Outcome == OutcomePricingShown {
		t.Fatal("default marker must not match when overridden")
	}
}
