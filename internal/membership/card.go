// Package membership holds the pure state logic behind the membership
// request lifecycle: deriving the member-facing card from a status tuple
// and classifying the tuple against the feature-level state machine.
// Nothing in this package performs IO.
package membership

import (
	"github.com/congregateapp/congregate/internal/model"
)

type ActionKind string

const (
	ActionNone     ActionKind = "none"
	ActionRequest  ActionKind = "request"
	ActionResubmit ActionKind = "resubmit"
	ActionRead     ActionKind = "read"
)

// PrimaryAction is a tagged variant: Kind selects which of the remaining
// fields carry meaning. Prefill is set for resubmit and read, Reason and
// Muted only for read.
type PrimaryAction struct {
	Kind    ActionKind `json:"kind"`
	Prefill string     `json:"prefill,omitempty"`
	Reason  *string    `json:"reason,omitempty"`
	Muted   bool       `json:"muted,omitempty"`
}

// Card is the single presentation derived from a MembershipStatus. The
// read action is deliberately overloaded: with Muted false it opens a
// dialog whose message field and submit control stay enabled (a working
// resubmission form under the reviewer feedback), with Muted true the same
// dialog renders everything disabled. That overload is what separates
// "denied, can retry" from "muted, blocked".
type Card struct {
	Message     *string       `json:"message"`
	ButtonLabel *string       `json:"buttonLabel"`
	Action      PrimaryAction `json:"action"`
}

const (
	MsgProhibited = "You are prohibited from making future membership requests."
	MsgPending    = "Your membership request is awaiting review."
	MsgDenied     = "Your membership request was denied. Read the reviewer response for details."
	MsgNotMember  = "You are not a member yet. Request membership to join the congregation."

	LabelRequest  = "Request Membership"
	LabelResubmit = "Edit Request"
	LabelRead     = "Read Request"
)

// CardResponse pairs the raw status tuple with its derived card, so the
// client renders exactly what the server decided.
type CardResponse struct {
	Status model.MembershipStatus `json:"status"`
	State  State                  `json:"state"`
	Card   Card                   `json:"card"`
}

func strPtr(s string) *string { return &s }
