package model

import "time"

// BookingEmail links an inbound confirmation email to the booking parsed from it.
type BookingEmail struct {
	ID         int64     `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	BookingID  int64     `gorm:"not null;index" json:"booking_id"`
	MessageID  string    `gorm:"size:255" json:"message_id"`
	Subject    string    `gorm:"size:500" json:"subject"`
	ReceivedAt time.Time `gorm:"index" json:"received_at"`
	ParsedData string    `gorm:"type:text" json:"parsed_data"`
}

func (BookingEmail) TableName() string {
	return "booking_emails"
}
