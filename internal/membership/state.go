package membership

import (
	"github.com/congregateapp/congregate/internal/model"
)

// State is the feature-level lifecycle position of one user. It is never
// stored; StateOf recomputes it from the persisted status tuple.
type State string

const (
	StateNoRequest      State = "no_request"
	StatePendingReview  State = "pending_review"
	StateApprovedMember State = "approved_member"
	StateDeniedUnmuted  State = "denied_unmuted"
	StateDeniedMuted    State = "denied_muted"
)

type Event string

const (
	EventSubmit      Event = "submit"
	EventResubmit    Event = "resubmit"
	EventApprove     Event = "approve"
	EventDenyUnmuted Event = "deny_unmuted"
	EventDenyMuted   Event = "deny_muted"
)

// Transition is one row of the lifecycle table. The table is the
// authority on which (state, event) pairs are legal; anything absent is
// rejected before it touches storage.
type Transition struct {
	From  State
	Event Event
	To    State
}

// Transitions enumerates every legal move. Approve and deny are valid
// from any state that has a request on file, because the admin surface
// lets reviewers revisit already-resolved requests from the Approved and
// Rejected tabs. Re-reviews are idempotent in effect.
var Transitions = []Transition{
	{StateNoRequest, EventSubmit, StatePendingReview},

	{StatePendingReview, EventResubmit, StatePendingReview},
	{StatePendingReview, EventApprove, StateApprovedMember},
	{StatePendingReview, EventDenyUnmuted, StateDeniedUnmuted},
	{StatePendingReview, EventDenyMuted, StateDeniedMuted},

	{StateApprovedMember, EventApprove, StateApprovedMember},
	{StateApprovedMember, EventDenyUnmuted, StateDeniedUnmuted},
	{StateApprovedMember, EventDenyMuted, StateDeniedMuted},

	{StateDeniedUnmuted, EventResubmit, StatePendingReview},
	{StateDeniedUnmuted, EventApprove, StateApprovedMember},
	{StateDeniedUnmuted, EventDenyUnmuted, StateDeniedUnmuted},
	{StateDeniedUnmuted, EventDenyMuted, StateDeniedMuted},

	{StateDeniedMuted, EventApprove, StateApprovedMember},
	{StateDeniedMuted, EventDenyUnmuted, StateDeniedUnmuted},
	{StateDeniedMuted, EventDenyMuted, StateDeniedMuted},
}

// Next resolves a (state, event) pair against the table. The second
// return is false when the move is not legal.
func Next(from State, event Event) (State, bool) {
	for _, t := range Transitions {
		if t.From == from && t.Event == event {
			return t.To, true
		}
	}
	return from, false
}

// StateOf classifies a persisted status tuple. Membership dominates, then
// the request flags. A muted request that was never denied still counts as
// pending for lifecycle purposes; the mute is enforced separately by
// CanSubmit and the deriver.
func StateOf(status model.MembershipStatus) State {
	if status.Membership {
		return StateApprovedMember
	}
	r := status.PendingRequest
	if r == nil {
		return StateNoRequest
	}
	if !r.Resolved {
		return StatePendingReview
	}
	if r.Approved != nil && !*r.Approved {
		if r.Muted {
			return StateDeniedMuted
		}
		return StateDeniedUnmuted
	}

	// Resolved approval without the membership flag means membership was
	// reverted out of band. The user starts over.
	return StateNoRequest
}

// CanSubmit reports whether a submit or resubmit is permitted for the
// given tuple. Members have nothing to request and muted users are
// blocked outright, whatever the rest of the tuple says.
func CanSubmit(status model.MembershipStatus) bool {
	if status.Membership {
		return false
	}
	if status.PendingRequest != nil && status.PendingRequest.Muted {
		return false
	}
	return true
}
