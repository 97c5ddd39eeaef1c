package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ExternalBookingRecord is one row of the external ledger after canonicalization.
type ExternalBookingRecord struct {
	BookingRef    string            `json:"booking_ref" validate:"required"`
	CustomerName  string            `json:"customer_name" validate:"required"`
	CustomerEmail string            `json:"customer_email,omitempty"`
	PhoneNumber   string            `json:"phone_number,omitempty"`
	TourDate      time.Time         `json:"tour_date"`
	TourName      string            `json:"tour_name"`
	TotalPrice    decimal.Decimal   `json:"total_price"`
	Currency      string            `json:"currency"`
	Source        Channel           `json:"source"`
	NumberOfAdult int               `json:"number_of_adult"`
	NumberOfChild int               `json:"number_of_child,omitempty"`
	MeetingPoint  string            `json:"meeting_point,omitempty"`
	Note          string            `json:"note,omitempty"`
	RowNumber     int               `json:"row_number"`
	RawRow        map[string]string `json:"raw_row"`
}

// EmailMeta describes the most recent ingestion message linked to a booking.
type EmailMeta struct {
	MessageID     string          `json:"message_id"`
	Subject       string          `json:"subject"`
	ReceivedAt    time.Time       `json:"received_at"`
	ParsedPayload json.RawMessage `json:"parsed_payload,omitempty"`
}

// InternalBookingRecord is a persisted booking reshaped for matching.
type InternalBookingRecord struct {
	ID            int64           `json:"id"`
	BookingRef    string          `json:"booking_ref"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email,omitempty"`
	PhoneNumber   string          `json:"phone_number,omitempty"`
	TourDate      time.Time       `json:"tour_date"`
	TourName      string          `json:"tour_name"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	Currency      string          `json:"currency"`
	Source        Channel         `json:"source"`
	NumberOfAdult int             `json:"number_of_adult"`
	NumberOfChild int             `json:"number_of_child,omitempty"`
	MeetingPoint  string          `json:"meeting_point,omitempty"`
	Note          string          `json:"note,omitempty"`
	Status        BookingStatus   `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Email         *EmailMeta      `json:"email,omitempty"`
}
