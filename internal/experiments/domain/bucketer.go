package domain

import "hash/fnv"

// bucketResolution slices the hash space into 10000 buckets, giving four
// decimal digits of assignment granularity.
const bucketResolution = 10000

// ControlVariantID is returned when no experiment definition can answer the
// assignment, so callers always receive a usable variant.
const ControlVariantID = "control"

// Bucketer assigns visitors to experiment variants deterministically. The
// same (visitor, experiment) pair always yields the same variant, so the
// assignment is stable across requests without any server-side session
// state. All degenerate inputs resolve to the control variant rather than
// an error: an experiment bug must never block the funnel.
type Bucketer struct {
	registry *Registry
}

// NewBucketer creates a bucketer over the given registry.
func NewBucketer(registry *Registry) *Bucketer {
	return &Bucketer{registry: registry}
}

// Assign returns the variant ID for a visitor in an experiment.
//
// Without consent, or for an unknown experiment, the first-listed variant
// (control) is returned. Otherwise the visitor hashes into a bucket in
// [0,1); visitors beyond the experiment's traffic allocation get control,
// and the rest are renormalized over the declared variant weights. The
// first variant whose cumulative weight reaches the bucket wins, walking
// variants in declaration order.
func (b *Bucketer) Assign(experimentID, visitorID string, hasConsent bool) string {
	exp, ok := b.registry.Get(experimentID)
	if !ok || len(exp.Variants) == 0 {
		return ControlVariantID
	}

	control := exp.Variants[0].ID
	if !hasConsent {
		return control
	}

	bucket := hashBucket(visitorID, experimentID)
	if exp.Traffic <= 0 || bucket > exp.Traffic {
		return control
	}

	normalized := bucket / exp.Traffic
	var cumulative float64
	for _, variant := range exp.Variants {
		cumulative += variant.Weight
		if cumulative >= normalized {
			return variant.ID
		}
	}

	// Weights summing below 1.0 leave a tail of unassigned buckets.
	return control
}

// hashBucket maps (visitorID, experimentID) to [0,1). The key order gives a
// visitor independent, decorrelated buckets per experiment.
func hashBucket(visitorID, experimentID string) float64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(visitorID + ":" + experimentID))
	return float64(h.Sum32()%bucketResolution) / bucketResolution
}
