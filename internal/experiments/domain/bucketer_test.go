package domain

import (
	"fmt"
	"math"
	"testing"
)

func greetingRegistry() *Registry {
	return NewRegistry([]Experiment{
		{
			ID:      "q-greeting",
			Name:    "Assistant greeting style",
			Traffic: 1.0,
			Variants: []Variant{
				{ID: "control", Weight: 0.33},
				{ID: "direct", Weight: 0.33},
				{ID: "playful", Weight: 0.34},
			},
		},
	})
}

func TestAssign_DeterministicAcrossRepeatedCalls(t *testing.T) {
	b := NewBucketer(greetingRegistry())

	first := b.Assign("q-greeting", "v1", true)
	for i := 0; i < 1000; i++ {
		if got := b.Assign("q-greeting", "v1", true); got != first {
			t.Fatalf("call %d: expected stable variant %q, got %q", i, first, got)
		}
	}
}

func TestAssign_NoConsentReturnsControl(t *testing.T) {
	b := NewBucketer(greetingRegistry())

	for i := 0; i < 100; i++ {
		visitor := fmt.Sprintf("visitor-%d", i)
		if got := b.Assign("q-greeting", visitor, false); got != "control" {
			t.Fatalf("visitor %q without consent: expected control, got %q", visitor, got)
		}
	}
}

func TestAssign_UnknownExperimentReturnsControl(t *testing.T) {
	b := NewBucketer(greetingRegistry())

	if got := b.Assign("does-not-exist", "v1", true); got != ControlVariantID {
		t.Fatalf("expected %q for unknown experiment, got %q", ControlVariantID, got)
	}
}

func TestAssign_TrafficGateSendsExcludedVisitorsToControl(t *testing.T) {
	registry := NewRegistry([]Experiment{
		{
			ID:      "gated",
			Traffic: 0.2,
			Variants: []Variant{
				{ID: "control", Weight: 0.5},
				{ID: "treatment", Weight: 0.5},
			},
		},
	})
	b := NewBucketer(registry)

	treatment := 0
	const n = 10000
	for i := 0; i < n; i++ {
		if b.Assign("gated", fmt.Sprintf("visitor-%d", i), true) == "treatment" {
			treatment++
		}
	}

	// Traffic 0.2 with a 50/50 split means ~10% of visitors land in
	// treatment. Allow a generous statistical margin.
	share := float64(treatment) / n
	if share < 0.07 || share > 0.13 {
		t.Fatalf("treatment share %.4f outside expected band around 0.10", share)
	}
}

func TestAssign_DistributionConvergesToWeights(t *testing.T) {
	b := NewBucketer(greetingRegistry())

	counts := map[string]int{}
	const n = 20000
	for i := 0; i < n; i++ {
		counts[b.Assign("q-greeting", fmt.Sprintf("visitor-%d", i), true)]++
	}

	expected := map[string]float64{"control": 0.33, "direct": 0.33, "playful": 0.34}
	for variant, want := range expected {
		got := float64(counts[variant]) / n
		if math.Abs(got-want) > 0.03 {
			t.Fatalf("variant %q share %.4f, expected within 0.03 of %.2f", variant, got, want)
		}
	}
}

func TestAssign_IndependentBucketsPerExperiment(t *testing.T) {
	registry := NewRegistry([]Experiment{
		{ID: "exp-a", Traffic: 1.0, Variants: []Variant{{ID: "a1", Weight: 0.5}, {ID: "a2", Weight: 0.5}}},
		{ID: "exp-b", Traffic: 1.0, Variants: []Variant{{ID: "b1", Weight: 0.5}, {ID: "b2", Weight: 0.5}}},
	})
	b := NewBucketer(registry)

	// The same visitor population should not be split identically across
	// two experiments: buckets must decorrelate by experiment id.
	same := 0
	const n = 2000
	for i := 0; i < n; i++ {
		visitor := fmt.Sprintf("visitor-%d", i)
		a := b.Assign("exp-a", visitor, true)
		bv := b.Assign("exp-b", visitor, true)
		if (a == "a1") == (bv == "b1") {
			same++
		}
	}
	share := float64(same) / n
	if share > 0.6 || share < 0.4 {
		t.Fatalf("cross-experiment agreement %.4f suggests correlated buckets", share)
	}
}
