package dao

import (
	"fmt"

	"github.com/radhian/booking-reconciliation/infra/db/model"
	"github.com/radhian/booking-reconciliation/utils"
)

// keeps IN lists well below driver parameter limits
const emailLookupChunk = 500

func (d *dao) GetBookings(filter BookingFilter) ([]model.Booking, error) {
	query := d.db.Model(&model.Booking{})

	if !filter.Range.Start.IsZero() {
		query = query.Where("tour_date >= ?", utils.DateOnly(filter.Range.Start))
	}
	if !filter.Range.End.IsZero() {
		query = query.Where("tour_date < ?", utils.DateOnly(filter.Range.End).AddDate(0, 0, 1))
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN (?)", filter.Statuses)
	}

	var bookings []model.Booking
	if err := query.Order("tour_date ASC").Order("id ASC").Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	return bookings, nil
}

// GetLatestBookingEmails returns, per booking, the most recently received linked email.
func (d *dao) GetLatestBookingEmails(bookingIDs []int64) (map[int64]model.BookingEmail, error) {
	latest := make(map[int64]model.BookingEmail, len(bookingIDs))

	for start := 0; start < len(bookingIDs); start += emailLookupChunk {
		end := start + emailLookupChunk
		if end > len(bookingIDs) {
			end = len(bookingIDs)
		}

		var emails []model.BookingEmail
		if err := d.db.
			Where("booking_id IN (?)", bookingIDs[start:end]).
			Order("received_at DESC").
			Order("id DESC").
			Find(&emails).Error; err != nil {
			return nil, fmt.Errorf("failed to query booking emails: %w", err)
		}

		for _, e := range emails {
			if _, seen := latest[e.BookingID]; !seen {
				latest[e.BookingID] = e
			}
		}
	}

	return latest, nil
}
