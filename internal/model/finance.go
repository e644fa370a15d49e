package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RefundStatus string

const (
	RefundStatusPending   RefundStatus = "pending"
	RefundStatusProcessed RefundStatus = "processed"
	RefundStatusDenied    RefundStatus = "denied"
)

type Donation struct {
	Id               uuid.UUID       `json:"id"`
	UserId           *uuid.UUID      `json:"userId"`
	Fund             string          `json:"fund"`
	Amount           decimal.Decimal `json:"amount"`
	Reference        string          `json:"reference"`
	ReceivedDatetime time.Time       `json:"receivedDatetime"`
	CreateDatetime   time.Time       `json:"createDatetime"`
}

type Refund struct {
	Id                 uuid.UUID       `json:"id"`
	DonationId         uuid.UUID       `json:"donationId"`
	Amount             decimal.Decimal `json:"amount"`
	Reason             string          `json:"reason"`
	Status             RefundStatus    `json:"status"`
	ProcessorReference *string         `json:"processorReference"`
	CreateDatetime     time.Time       `json:"createDatetime"`
	UpdateDatetime     time.Time       `json:"updateDatetime"`
	CreateUserId       uuid.UUID       `json:"createUserId"`
	UpdateUserId       uuid.UUID       `json:"updateUserId"`
}

type DonationCreateRequest struct {
	UserId    *string `json:"userId"`
	Fund      string  `json:"fund"`
	Amount    string  `json:"amount"`
	Reference string  `json:"reference"`
}

type RefundCreateRequest struct {
	DonationId string `json:"donationId"`
	Amount     string `json:"amount"`
	Reason     string `json:"reason"`
}

type RefundProcessRequest struct {
	ProcessorReference string `json:"processorReference"`
	Denied             bool   `json:"denied"`
}

type FundTotal struct {
	Fund  string          `json:"fund"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

type FinancialReportResponse struct {
	From       time.Time       `json:"from"`
	To         time.Time       `json:"to"`
	Funds      []FundTotal     `json:"funds"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
}
