package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Booking is a row of the booking store written by the email ingestion pipeline.
// This service only reads it.
type Booking struct {
	ID            int64           `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	BookingRef    string          `gorm:"size:100;index" json:"booking_ref"`
	CustomerName  string          `gorm:"size:255" json:"customer_name"`
	CustomerEmail string          `gorm:"size:255" json:"customer_email"`
	PhoneNumber   string          `gorm:"size:50" json:"phone_number"`
	TourDate      time.Time       `gorm:"index" json:"tour_date"`
	TourName      string          `gorm:"size:255" json:"tour_name"`
	TotalPrice    decimal.Decimal `gorm:"type:decimal(14,2)" json:"total_price"`
	Currency      string          `gorm:"size:10" json:"currency"`
	Channel       string          `gorm:"size:50;index" json:"channel"`
	NumberOfAdult int             `json:"number_of_adult"`
	NumberOfChild int             `json:"number_of_child"`
	MeetingPoint  string          `gorm:"size:255" json:"meeting_point"`
	Note          string          `gorm:"type:text" json:"note"`
	Status        string          `gorm:"size:30;index" json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (Booking) TableName() string {
	return "bookings"
}
