package domain

import "growthcore_backend/platform/apperr"

// Phase is the negotiation lifecycle phase.
type Phase string

const (
	PhaseInitial     Phase = "initial"
	PhaseAnchored    Phase = "anchored"
	PhaseNegotiating Phase = "negotiating"
	PhaseFloor       Phase = "floor"
	PhaseClosed      Phase = "closed"
	PhaseTerminated  Phase = "terminated"
)

// Terminal reports whether the phase is absorbing. A closed or terminated
// negotiation can never be resurrected; the conversation restarts fresh.
func (p Phase) Terminal() bool {
	return p == PhaseClosed || p == PhaseTerminated
}

// Action is a negotiation move taken during the conversation.
type Action string

const (
	ActionAccept    Action = "accept"
	ActionReject    Action = "reject"
	ActionNegotiate Action = "negotiate"
	ActionNudge     Action = "nudge"
)

// Discount limits, in basis points of the base price. The floor is a
// strict ceiling on the total discount regardless of how many steps were
// used to reach it.
const (
	floorBps         = 1000 // 10% maximum total discount
	negotiateStepBps = 300  // 3% per negotiate step
	nudgeBps         = 500  // 5% one-time proactive incentive
)

// State is the per-conversation negotiation state. Operations return a new
// value; the caller persists it. Version carries the optimistic
// concurrency token for the stored record.
type State struct {
	ConversationID       string
	Service              string
	Tier                 string
	Currency             string
	BasePriceCents       int64
	CurrentPriceCents    int64
	DiscountAppliedCents int64
	NudgeTriggered       bool
	Phase                Phase
	Version              int64
}

// NewState opens a negotiation at the list price for a catalog entry.
func NewState(conversationID string, entry CatalogEntry) State {
	return State{
		ConversationID:    conversationID,
		Service:           entry.Service,
		Tier:              entry.Tier,
		Currency:          entry.Currency,
		BasePriceCents:    entry.BasePriceCents,
		CurrentPriceCents: entry.BasePriceCents,
		Phase:             PhaseInitial,
	}
}

func (s State) floorCents() int64 {
	return s.BasePriceCents * floorBps / 10000
}

func (s State) headroomCents() int64 {
	return s.floorCents() - s.DiscountAppliedCents
}

// AtFloor reports whether the maximum discount has been reached.
func (s State) AtFloor() bool {
	return s.headroomCents() <= 0
}

// Apply advances the negotiation by one action and returns the new state.
// It is pure: callers may invoke it speculatively (e.g. a price preview)
// and discard the result.
func Apply(s State, action Action) (State, error) {
	if s.Phase.Terminal() {
		return s, apperr.Conflict("negotiation already concluded").WithOp("pricing.Apply")
	}

	switch action {
	case ActionAccept:
		s.Phase = PhaseClosed
		return s, nil

	case ActionReject:
		s.Phase = PhaseTerminated
		return s, nil

	case ActionNegotiate:
		// At the floor, another negotiate ends the conversation. Visitors
		// cannot loop negotiate indefinitely fishing for more discount.
		if s.AtFloor() {
			s.Phase = PhaseTerminated
			return s, nil
		}
		return s.applyDiscount(s.BasePriceCents*negotiateStepBps/10000, PhaseNegotiating), nil

	case ActionNudge:
		if s.NudgeTriggered {
			return s, nil
		}
		next := PhaseNegotiating
		switch s.Phase {
		case PhaseInitial:
			// An incentive has been shown but the visitor has not yet
			// engaged in back-and-forth.
			next = PhaseAnchored
		case PhaseAnchored, PhaseNegotiating:
			next = s.Phase
		}
		out := s.applyDiscount(s.BasePriceCents*nudgeBps/10000, next)
		out.NudgeTriggered = true
		return out, nil

	default:
		return s, apperr.BadRequest("unknown negotiation action").WithOp("pricing.Apply")
	}
}

// applyDiscount adds a discount increment capped by the remaining floor
// headroom and returns the updated state. nonFloorPhase is used when
// headroom remains after the increment.
func (s State) applyDiscount(incrementCents int64, nonFloorPhase Phase) State {
	headroom := s.headroomCents()
	if incrementCents > headroom {
		incrementCents = headroom
	}
	s.DiscountAppliedCents += incrementCents
	s.CurrentPriceCents = s.BasePriceCents - s.DiscountAppliedCents
	if s.AtFloor() {
		s.Phase = PhaseFloor
	} else {
		s.Phase = nonFloorPhase
	}
	return s
}
