package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TourType string

const (
	TourDomestic      TourType = "domestic"
	TourInternational TourType = "international"
)

type Tour struct {
	ID           int64           `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	TourType     TourType        `json:"tour_type"`
	Category     string          `json:"category"`
	Destinations string          `json:"destinations,omitempty"`
	Duration     string          `json:"duration,omitempty"`
	Price        decimal.Decimal `json:"price"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type TourFilter struct {
	TourType *TourType
	Category string
	Search   string
}

type Visa struct {
	ID             int64           `json:"id"`
	Country        string          `json:"country"`
	Category       string          `json:"category,omitempty"`
	Price          decimal.Decimal `json:"price"`
	ProcessingTime string          `json:"processing_time,omitempty"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type VisaFilter struct {
	Category string
	Search   string
}
