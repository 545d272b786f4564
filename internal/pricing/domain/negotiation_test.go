package domain

import (
	"testing"

	"growthcore_backend/platform/apperr"
)

func openState(t *testing.T, baseCents int64) State {
	t.Helper()
	entry := CatalogEntry{Service: "growth-audit", Tier: "express", BasePriceCents: baseCents, Currency: "USD"}
	return NewState("conv-1", entry)
}

func TestNegotiate_FourStepsReachFloorExactly(t *testing.T) {
	// Base price 10000.00: 3% steps against a 10% cap means step four is
	// clamped to the floor (3+3+3+1).
	s := openState(t, 1000000)

	expected := []int64{30000, 60000, 90000, 100000}
	for i, want := range expected {
		var err error
		s, err = Apply(s, ActionNegotiate)
		if err != nil {
			t.Fatalf("step %d: unexpected error: %v", i+1, err)
		}
		if s.DiscountAppliedCents != want {
			t.Fatalf("step %d: discount %d, want %d", i+1, s.DiscountAppliedCents, want)
		}
		if s.CurrentPriceCents != 1000000-want {
			t.Fatalf("step %d: current price %d, want %d", i+1, s.CurrentPriceCents, 1000000-want)
		}
	}

	if s.Phase != PhaseFloor {
		t.Fatalf("after four steps expected phase %q, got %q", PhaseFloor, s.Phase)
	}

	s, err := Apply(s, ActionNegotiate)
	if err != nil {
		t.Fatalf("fifth negotiate: unexpected error: %v", err)
	}
	if s.Phase != PhaseTerminated {
		t.Fatalf("fifth negotiate at floor: expected %q, got %q", PhaseTerminated, s.Phase)
	}
}

func TestNudge_IsIdempotent(t *testing.T) {
	s := openState(t, 1000000)

	s, err := Apply(s, ActionNudge)
	if err != nil {
		t.Fatalf("first nudge: unexpected error: %v", err)
	}
	if s.DiscountAppliedCents != 50000 {
		t.Fatalf("first nudge: discount %d, want 50000", s.DiscountAppliedCents)
	}
	if s.Phase != PhaseAnchored {
		t.Fatalf("first nudge from initial: phase %q, want %q", s.Phase, PhaseAnchored)
	}

	again, err := Apply(s, ActionNudge)
	if err != nil {
		t.Fatalf("second nudge: unexpected error: %v", err)
	}
	if again != s {
		t.Fatalf("second nudge changed state: %+v != %+v", again, s)
	}
}

func TestNudge_AfterNegotiationKeepsPhase(t *testing.T) {
	s := openState(t, 1000000)

	s, _ = Apply(s, ActionNegotiate)
	s, err := Apply(s, ActionNudge)
	if err != nil {
		t.Fatalf("nudge: unexpected error: %v", err)
	}
	if s.Phase != PhaseNegotiating {
		t.Fatalf("nudge after negotiate: phase %q, want %q", s.Phase, PhaseNegotiating)
	}
	if s.DiscountAppliedCents != 80000 {
		t.Fatalf("discount %d, want 80000", s.DiscountAppliedCents)
	}
}

func TestDiscount_NeverExceedsFloorAndNeverDecreases(t *testing.T) {
	s := openState(t, 999999) // awkward base exercises integer division

	floor := s.floorCents()
	prev := int64(0)
	actions := []Action{ActionNudge, ActionNegotiate, ActionNegotiate, ActionNegotiate, ActionNegotiate}
	for i, action := range actions {
		next, err := Apply(s, action)
		if err != nil {
			t.Fatalf("action %d (%s): unexpected error: %v", i, action, err)
		}
		if next.DiscountAppliedCents < prev {
			t.Fatalf("action %d (%s): discount decreased %d -> %d", i, action, prev, next.DiscountAppliedCents)
		}
		if next.DiscountAppliedCents > floor {
			t.Fatalf("action %d (%s): discount %d exceeds floor %d", i, action, next.DiscountAppliedCents, floor)
		}
		if next.CurrentPriceCents != next.BasePriceCents-next.DiscountAppliedCents {
			t.Fatalf("action %d (%s): price invariant broken", i, action)
		}
		prev = next.DiscountAppliedCents
		s = next
		if s.Phase.Terminal() {
			break
		}
	}
}

func TestAccept_ClosesFromAnyNonTerminalPhase(t *testing.T) {
	for _, setup := range [][]Action{
		{},
		{ActionNudge},
		{ActionNegotiate},
		{ActionNegotiate, ActionNegotiate, ActionNegotiate, ActionNegotiate},
	} {
		s := openState(t, 1000000)
		for _, a := range setup {
			s, _ = Apply(s, a)
		}
		price := s.CurrentPriceCents

		s, err := Apply(s, ActionAccept)
		if err != nil {
			t.Fatalf("accept after %v: unexpected error: %v", setup, err)
		}
		if s.Phase != PhaseClosed {
			t.Fatalf("accept after %v: phase %q, want %q", setup, s.Phase, PhaseClosed)
		}
		if s.CurrentPriceCents != price {
			t.Fatalf("accept after %v: contract price changed %d -> %d", setup, price, s.CurrentPriceCents)
		}
	}
}

func TestTerminalStatesAreAbsorbing(t *testing.T) {
	for _, closer := range []Action{ActionAccept, ActionReject} {
		s := openState(t, 1000000)
		s, _ = Apply(s, closer)

		for _, action := range []Action{ActionAccept, ActionReject, ActionNegotiate, ActionNudge} {
			next, err := Apply(s, action)
			if err == nil {
				t.Fatalf("%s after %s: expected error, got none", action, closer)
			}
			if !apperr.Is(err, apperr.KindConflict) {
				t.Fatalf("%s after %s: expected conflict error, got %v", action, closer, err)
			}
			if next != s {
				t.Fatalf("%s after %s: terminal state mutated", action, closer)
			}
		}
	}
}

func TestPriceFor_UnknownPairIsHardError(t *testing.T) {
	catalog := NewCatalog(DefaultCatalogEntries())

	if _, err := catalog.PriceFor("growth-audit", "express"); err != nil {
		t.Fatalf("known pair: unexpected error: %v", err)
	}

	_, err := catalog.PriceFor("growth-audit", "platinum")
	if err == nil {
		t.Fatal("unknown tier: expected error, got none")
	}
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("unknown tier: expected not found, got %v", err)
	}
}
