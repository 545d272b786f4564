package scoring

import (
	"testing"

	"growthcore_backend/internal/leads/repository"
)

func strptr(s string) *string { return &s }

func TestCompute_ContactWithPricingInterestScoresHot(t *testing.T) {
	// Email + company + chat interactions mentioning pricing:
	// 5 + 10 + 10 + 10 = 35.
	ev := Evidence{
		Contact: repository.Contact{
			Email:   strptr("ceo@example.com"),
			Company: strptr("Example Corp"),
		},
		Interactions: []repository.Interaction{
			{Type: "chat", Summary: "Asked about pricing for the growth audit"},
			{Type: "chat", Summary: "Compared pricing tiers"},
		},
	}

	result := Compute(ev, "US")
	if result.Score != 35 {
		t.Fatalf("expected score 35, got %d (breakdown %v)", result.Score, result.Breakdown)
	}
	if result.Qualification != "hot" {
		t.Fatalf("expected qualification hot, got %q", result.Qualification)
	}
}

func TestCompute_EmptyContactIsCold(t *testing.T) {
	result := Compute(Evidence{}, "US")
	if result.Score != 0 {
		t.Fatalf("expected score 0, got %d", result.Score)
	}
	if result.Qualification != "cold" {
		t.Fatalf("expected cold, got %q", result.Qualification)
	}
	if len(result.Breakdown) != 0 {
		t.Fatalf("expected empty breakdown, got %v", result.Breakdown)
	}
}

func TestCompute_ScoreIsClampedTo100(t *testing.T) {
	// Maximal evidence sums past 100 and must clamp.
	ev := Evidence{
		Contact: repository.Contact{
			Email:    strptr("ceo@example.com"),
			Company:  strptr("Example Corp"),
			Phone:    strptr("+12025550123"),
			Metadata: map[string]string{"budget": "50k"},
		},
		Interactions: []repository.Interaction{
			{Type: "chat", Summary: "pricing question"},
			{Type: "chat", Summary: "follow up"},
			{Type: "form", Summary: "contact form"},
		},
		Bookings: []repository.Booking{
			{Status: "confirmed"},
			{Status: "completed"},
		},
	}

	result := Compute(ev, "US")
	if result.Score != 100 {
		t.Fatalf("expected clamped score 100, got %d (breakdown %v)", result.Score, result.Breakdown)
	}
	if result.Qualification != "customer" {
		t.Fatalf("expected customer, got %q", result.Qualification)
	}
}

func TestCompute_InvalidPhoneAwardsNothing(t *testing.T) {
	ev := Evidence{
		Contact: repository.Contact{Phone: strptr("not-a-number")},
	}
	result := Compute(ev, "US")
	if _, ok := result.Breakdown["phone"]; ok {
		t.Fatalf("invalid phone must not score: %v", result.Breakdown)
	}
}

func TestCompute_TwoInteractionsGetNoVolumeBonus(t *testing.T) {
	ev := Evidence{
		Interactions: []repository.Interaction{
			{Type: "chat", Summary: "hello"},
			{Type: "chat", Summary: "hello again"},
		},
	}
	result := Compute(ev, "US")
	if _, ok := result.Breakdown["many_interactions"]; ok {
		t.Fatal("volume bonus requires more than two interactions")
	}

	ev.Interactions = append(ev.Interactions, repository.Interaction{Type: "chat", Summary: "third"})
	result = Compute(ev, "US")
	if _, ok := result.Breakdown["many_interactions"]; !ok {
		t.Fatal("three interactions should earn the volume bonus")
	}
}

func TestQualify_IsMonotonicInScore(t *testing.T) {
	rank := map[string]int{"cold": 0, "warm": 1, "hot": 2, "qualified": 3, "customer": 4}

	prev := qualify(0)
	for score := 1; score <= 100; score++ {
		current := qualify(score)
		if rank[current] < rank[prev] {
			t.Fatalf("score %d: tier %q ranks below %q at score %d", score, current, prev, score-1)
		}
		prev = current
	}
}

func TestQualify_TierBoundaries(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{0, "cold"},
		{14, "cold"},
		{15, "warm"},
		{34, "warm"},
		{35, "hot"},
		{54, "hot"},
		{55, "qualified"},
		{79, "qualified"},
		{80, "customer"},
		{100, "customer"},
	}
	for _, tc := range cases {
		if got := qualify(tc.score); got != tc.want {
			t.Fatalf("score %d: expected %q, got %q", tc.score, tc.want, got)
		}
	}
}
