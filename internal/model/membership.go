package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	MembershipTabPending  = "pending"
	MembershipTabApproved = "approved"
	MembershipTabRejected = "rejected"

	MembershipSearchFieldName  = "name"
	MembershipSearchFieldEmail = "email"

	MembershipDecisionApprove = "approve"
	MembershipDecisionDeny    = "deny"
)

// MembershipRequest is the one live request record a user has, kept across
// resolutions. Approved is only meaningful once Resolved is true.
type MembershipRequest struct {
	Id             uuid.UUID `json:"id"`
	UserId         uuid.UUID `json:"userId"`
	Message        string    `json:"message"`
	Resolved       bool      `json:"resolved"`
	Approved       *bool     `json:"approved"`
	Reason         *string   `json:"reason"`
	Muted          bool      `json:"muted"`
	CreateDatetime time.Time `json:"createDatetime"`
	UpdateDatetime time.Time `json:"updateDatetime"`
}

// MembershipStatus is the server-owned status tuple for one user.
// PendingRequest is nil only if the user has never requested membership.
type MembershipStatus struct {
	Membership     bool               `json:"membership"`
	PendingRequest *MembershipRequest `json:"pendingRequest"`
}

// MembershipReview is one row of the append-only review history.
type MembershipReview struct {
	Id             uuid.UUID `json:"id"`
	RequestId      uuid.UUID `json:"requestId"`
	UserId         uuid.UUID `json:"userId"`
	ReviewerId     uuid.UUID `json:"reviewerId"`
	Approved       bool      `json:"approved"`
	Muted          bool      `json:"muted"`
	Reason         *string   `json:"reason"`
	Message        string    `json:"message"`
	CreateDatetime time.Time `json:"createDatetime"`
}

type MembershipSubmitRequest struct {
	Message string `json:"message"`
}

type MembershipReviewRequest struct {
	Decision string  `json:"decision"`
	Muted    bool    `json:"muted"`
	Reason   *string `json:"reason"`
}

type MembershipSearchQuery struct {
	Tab   string
	Field string
	Term  string
	Page  int
	Limit int
}

type MembershipRequestListItem struct {
	RequestId      uuid.UUID `json:"requestId"`
	UserId         uuid.UUID `json:"userId"`
	Fullname       string    `json:"fullname"`
	Email          string    `json:"email"`
	Membership     bool      `json:"membership"`
	Message        string    `json:"message"`
	Resolved       bool      `json:"resolved"`
	Approved       *bool     `json:"approved"`
	Reason         *string   `json:"reason"`
	Muted          bool      `json:"muted"`
	UpdateDatetime time.Time `json:"updateDatetime"`
}

type MembershipDecisionTemplateData struct {
	Fullname string
	Approved bool
	Reason   *string
}

type MembershipRequestListResponse struct {
	Items []MembershipRequestListItem `json:"items"`
	Page  int                         `json:"page"`
	Limit int                         `json:"limit"`
	Total int                         `json:"total"`
}
