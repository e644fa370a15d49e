package model

import (
	"time"

	"github.com/google/uuid"
)

type RecurrenceFreq string

const (
	RecurrenceNone    RecurrenceFreq = "none"
	RecurrenceDaily   RecurrenceFreq = "daily"
	RecurrenceWeekly  RecurrenceFreq = "weekly"
	RecurrenceMonthly RecurrenceFreq = "monthly"
)

type EventSeries struct {
	Id              uuid.UUID      `json:"id"`
	Title           string         `json:"title"`
	Description     *string        `json:"description"`
	Location        *string        `json:"location"`
	StartDatetime   time.Time      `json:"startDatetime"`
	DurationMinutes int            `json:"durationMinutes"`
	MembersOnly     bool           `json:"membersOnly"`
	Capacity        *int           `json:"capacity"`
	Freq            RecurrenceFreq `json:"freq"`
	Interval        int            `json:"interval"`
	Until           *time.Time     `json:"until"`
	CreateDatetime  time.Time      `json:"createDatetime"`
	UpdateDatetime  time.Time      `json:"updateDatetime"`
	CreateUserId    uuid.UUID      `json:"createUserId"`
	UpdateUserId    uuid.UUID      `json:"updateUserId"`
}

// EventInstance is one materialized occurrence of a series. Override fields
// are nil when the instance inherits the series value.
type EventInstance struct {
	Id                  uuid.UUID `json:"id"`
	SeriesId            uuid.UUID `json:"seriesId"`
	StartDatetime       time.Time `json:"startDatetime"`
	EndDatetime         time.Time `json:"endDatetime"`
	Cancelled           bool      `json:"cancelled"`
	MembersOnlyOverride *bool     `json:"membersOnlyOverride"`
	CapacityOverride    *int      `json:"capacityOverride"`
	CreateDatetime      time.Time `json:"createDatetime"`
	UpdateDatetime      time.Time `json:"updateDatetime"`
}

type EventRegistration struct {
	Id             uuid.UUID
	InstanceId     uuid.UUID
	UserId         uuid.UUID
	CreateDatetime time.Time
}

type EventSeriesCreateRequest struct {
	Title           string  `json:"title"`
	Description     *string `json:"description"`
	Location        *string `json:"location"`
	StartDatetime   string  `json:"startDatetime"`
	DurationMinutes int     `json:"durationMinutes"`
	MembersOnly     bool    `json:"membersOnly"`
	Capacity        *int    `json:"capacity"`
	Freq            string  `json:"freq"`
	Interval        int     `json:"interval"`
	Until           *string `json:"until"`
}

type EventInstanceOverrideRequest struct {
	Cancelled   *bool `json:"cancelled"`
	MembersOnly *bool `json:"membersOnly"`
	Capacity    *int  `json:"capacity"`
}

type EventInstanceResponse struct {
	Id              uuid.UUID `json:"id"`
	SeriesId        uuid.UUID `json:"seriesId"`
	Title           string    `json:"title"`
	Description     *string   `json:"description"`
	Location        *string   `json:"location"`
	StartDatetime   time.Time `json:"startDatetime"`
	EndDatetime     time.Time `json:"endDatetime"`
	Cancelled       bool      `json:"cancelled"`
	MembersOnly     bool      `json:"membersOnly"`
	Capacity        *int      `json:"capacity"`
	RegisteredCount int       `json:"registeredCount"`
	Registered      bool      `json:"registered"`
}
