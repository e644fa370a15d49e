package model

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
)

const (
	FragmentHeader = "header"
	FragmentFooter = "footer"
)

// SitePage stores a web-builder page as an opaque section document. The
// server never interprets Sections beyond checking it is valid JSON.
type SitePage struct {
	Id             uuid.UUID
	Slug           string
	Title          string
	Published      bool
	Sections       sonic.NoCopyRawMessage
	CreateDatetime time.Time
	UpdateDatetime time.Time
	CreateUserId   uuid.UUID
	UpdateUserId   uuid.UUID
}

// SiteFragment is a singleton layout document (header or footer).
type SiteFragment struct {
	Name           string                 `json:"name"`
	Content        sonic.NoCopyRawMessage `json:"content"`
	UpdateDatetime time.Time              `json:"updateDatetime"`
	UpdateUserId   uuid.UUID              `json:"updateUserId"`
}

type SitePageUpsertRequest struct {
	Slug      string                 `json:"slug"`
	Title     string                 `json:"title"`
	Published bool                   `json:"published"`
	Sections  sonic.NoCopyRawMessage `json:"sections"`
}

type SiteFragmentUpdateRequest struct {
	Content sonic.NoCopyRawMessage `json:"content"`
}

type SitePageResponse struct {
	Id             uuid.UUID              `json:"id"`
	Slug           string                 `json:"slug"`
	Title          string                 `json:"title"`
	Published      bool                   `json:"published"`
	Sections       sonic.NoCopyRawMessage `json:"sections"`
	UpdateDatetime time.Time              `json:"updateDatetime"`
}
