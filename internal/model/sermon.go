package model

import (
	"time"

	"github.com/google/uuid"
)

type Sermon struct {
	Id                 uuid.UUID
	Title              string
	Speaker            string
	Passage            *string
	Description        *string
	MediaURL           *string
	ThumbnailObjectKey *string
	DeliveredOn        time.Time
	CreateDatetime     time.Time
	UpdateDatetime     time.Time
	CreateUserId       uuid.UUID
	UpdateUserId       uuid.UUID
}

type SermonUpsertRequest struct {
	Title       string  `json:"title"`
	Speaker     string  `json:"speaker"`
	Passage     *string `json:"passage"`
	Description *string `json:"description"`
	MediaURL    *string `json:"mediaUrl"`
	DeliveredOn string  `json:"deliveredOn"`
}

type SermonResponse struct {
	Id           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Speaker      string    `json:"speaker"`
	Passage      *string   `json:"passage"`
	Description  *string   `json:"description"`
	MediaURL     *string   `json:"mediaUrl"`
	ThumbnailURL *string   `json:"thumbnailUrl"`
	DeliveredOn  time.Time `json:"deliveredOn"`
}
