package membership

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/congregateapp/congregate/internal/model"
)

func TestStateOf(t *testing.T) {
	tests := []struct {
		name     string
		status   model.MembershipStatus
		expected State
	}{
		{
			name:     "no request",
			status:   status(false, nil),
			expected: StateNoRequest,
		},
		{
			name:     "member",
			status:   status(true, nil),
			expected: StateApprovedMember,
		},
		{
			name: "member with old denial on file",
			status: status(true, &model.MembershipRequest{
				Resolved: true,
				Approved: boolPtr(false),
			}),
			expected: StateApprovedMember,
		},
		{
			name:     "open request",
			status:   status(false, &model.MembershipRequest{Resolved: false}),
			expected: StatePendingReview,
		},
		{
			name: "open request under mute",
			status: status(false, &model.MembershipRequest{
				Resolved: false,
				Muted:    true,
			}),
			expected: StatePendingReview,
		},
		{
			name: "denied",
			status: status(false, &model.MembershipRequest{
				Resolved: true,
				Approved: boolPtr(false),
			}),
			expected: StateDeniedUnmuted,
		},
		{
			name: "denied and muted",
			status: status(false, &model.MembershipRequest{
				Resolved: true,
				Approved: boolPtr(false),
				Muted:    true,
			}),
			expected: StateDeniedMuted,
		},
		{
			name: "approval reverted",
			status: status(false, &model.MembershipRequest{
				Resolved: true,
				Approved: boolPtr(true),
			}),
			expected: StateNoRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StateOf(tt.status))
		})
	}
}

func TestNextLegalMoves(t *testing.T) {
	tests := []struct {
		from  State
		event Event
		to    State
	}{
		{StateNoRequest, EventSubmit, StatePendingReview},
		{StatePendingReview, EventApprove, StateApprovedMember},
		{StatePendingReview, EventDenyUnmuted, StateDeniedUnmuted},
		{StatePendingReview, EventDenyMuted, StateDeniedMuted},
		{StatePendingReview, EventResubmit, StatePendingReview},
		{StateDeniedUnmuted, EventResubmit, StatePendingReview},
		{StateDeniedUnmuted, EventDenyMuted, StateDeniedMuted},
		{StateDeniedMuted, EventDenyUnmuted, StateDeniedUnmuted},
		{StateDeniedMuted, EventApprove, StateApprovedMember},
		{StateApprovedMember, EventDenyMuted, StateDeniedMuted},
	}

	for _, tt := range tests {
		next, ok := Next(tt.from, tt.event)
		assert.True(t, ok, "%s + %s", tt.from, tt.event)
		assert.Equal(t, tt.to, next, "%s + %s", tt.from, tt.event)
	}
}

func TestNextRejectsIllegalMoves(t *testing.T) {
	tests := []struct {
		from  State
		event Event
	}{
		{StateNoRequest, EventApprove},
		{StateNoRequest, EventDenyUnmuted},
		{StateNoRequest, EventResubmit},
		{StateApprovedMember, EventSubmit},
		{StateApprovedMember, EventResubmit},
		{StateDeniedMuted, EventSubmit},
		{StateDeniedMuted, EventResubmit},
		{StateDeniedUnmuted, EventSubmit},
		{StatePendingReview, EventSubmit},
	}

	for _, tt := range tests {
		_, ok := Next(tt.from, tt.event)
		assert.False(t, ok, "%s + %s", tt.from, tt.event)
	}
}

func TestEveryStateHasAnAdminExit(t *testing.T) {
	// Any state with a request on file can always be moved by a reviewer,
	// so nobody gets stranded.
	for _, from := range []State{StatePendingReview, StateDeniedUnmuted, StateDeniedMuted} {
		_, ok := Next(from, EventApprove)
		assert.True(t, ok, "approve from %s", from)
	}
}

func TestCanSubmit(t *testing.T) {
	assert.True(t, CanSubmit(status(false, nil)))
	assert.True(t, CanSubmit(status(false, &model.MembershipRequest{Resolved: false})))
	assert.True(t, CanSubmit(status(false, &model.MembershipRequest{
		Resolved: true,
		Approved: boolPtr(false),
	})))

	assert.False(t, CanSubmit(status(true, nil)))
	assert.False(t, CanSubmit(status(false, &model.MembershipRequest{Muted: true})))
	assert.False(t, CanSubmit(status(false, &model.MembershipRequest{
		Resolved: true,
		Approved: boolPtr(false),
		Muted:    true,
	})))
}
