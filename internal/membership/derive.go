package membership

import (
	"github.com/congregateapp/congregate/internal/model"
)

// rule is one row of the ordered decision table. Rules are evaluated top
// to bottom and the first match wins; they are NOT independent, so the
// order of ruleTable is part of the contract and covered by tests.
type rule struct {
	name  string
	match func(model.MembershipStatus) bool
	build func(model.MembershipStatus) Card
}

var ruleTable = []rule{
	{
		// Accepted members see no action regardless of any request on file.
		name: "member",
		match: func(s model.MembershipStatus) bool {
			return s.Membership
		},
		build: func(model.MembershipStatus) Card {
			return Card{Action: PrimaryAction{Kind: ActionNone}}
		},
	},
	{
		// Muted with a resolved denial on file: the denial and the mute
		// notice stay readable, the form inside the dialog is disabled.
		name: "muted-denied",
		match: func(s model.MembershipStatus) bool {
			r := s.PendingRequest
			return r != nil && r.Muted && r.Resolved && r.Approved != nil && !*r.Approved
		},
		build: func(s model.MembershipStatus) Card {
			r := s.PendingRequest
			return Card{
				Message:     strPtr(MsgProhibited),
				ButtonLabel: strPtr(LabelRead),
				Action: PrimaryAction{
					Kind:    ActionRead,
					Prefill: r.Message,
					Reason:  r.Reason,
					Muted:   true,
				},
			}
		},
	},
	{
		// Muted without a concrete denial (e.g. freshly muted while the
		// request was still open): prohibition message, nothing actionable.
		name: "muted",
		match: func(s model.MembershipStatus) bool {
			return s.PendingRequest != nil && s.PendingRequest.Muted
		},
		build: func(model.MembershipStatus) Card {
			return Card{
				Message: strPtr(MsgProhibited),
				Action:  PrimaryAction{Kind: ActionNone},
			}
		},
	},
	{
		// First-time requester, or a previously approved user whose
		// membership was reverted: start fresh.
		name: "fresh",
		match: func(s model.MembershipStatus) bool {
			r := s.PendingRequest
			if r == nil {
				return true
			}
			return r.Resolved && r.Approved != nil && *r.Approved
		},
		build: func(model.MembershipStatus) Card {
			return Card{
				Message:     strPtr(MsgNotMember),
				ButtonLabel: strPtr(LabelRequest),
				Action:      PrimaryAction{Kind: ActionRequest},
			}
		},
	},
	{
		// Open request awaiting review: the member may edit and resend.
		name: "pending",
		match: func(s model.MembershipStatus) bool {
			return !s.PendingRequest.Resolved
		},
		build: func(s model.MembershipStatus) Card {
			return Card{
				Message:     strPtr(MsgPending),
				ButtonLabel: strPtr(LabelResubmit),
				Action: PrimaryAction{
					Kind:    ActionResubmit,
					Prefill: s.PendingRequest.Message,
				},
			}
		},
	},
	{
		// Denied and not muted: readable reviewer feedback with a live
		// resubmission form underneath it.
		name: "denied",
		match: func(s model.MembershipStatus) bool {
			r := s.PendingRequest
			return r.Resolved && r.Approved != nil && !*r.Approved
		},
		build: func(s model.MembershipStatus) Card {
			r := s.PendingRequest
			return Card{
				Message:     strPtr(MsgDenied),
				ButtonLabel: strPtr(LabelRead),
				Action: PrimaryAction{
					Kind:    ActionRead,
					Prefill: r.Message,
					Reason:  r.Reason,
					Muted:   false,
				},
			}
		},
	},
}

// Derive maps a status tuple to exactly one card. Pure function, no IO.
func Derive(status model.MembershipStatus) Card {
	for _, r := range ruleTable {
		if r.match(status) {
			return r.build(status)
		}
	}

	// Resolved request with Approved unset does not occur in valid data.
	return Card{Action: PrimaryAction{Kind: ActionNone}}
}
