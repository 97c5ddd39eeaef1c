package aggregator

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/labstack/gommon/log"
	"github.com/radhian/booking-reconciliation/entity"
	"github.com/radhian/booking-reconciliation/infra/db/dao"
	"github.com/radhian/booking-reconciliation/infra/db/model"
	"github.com/radhian/booking-reconciliation/utils"
)

// BookingStore is the slice of the persistence layer the aggregator reads from.
type BookingStore interface {
	GetBookings(filter dao.BookingFilter) ([]model.Booking, error)
	GetLatestBookingEmails(bookingIDs []int64) (map[int64]model.BookingEmail, error)
}

type Aggregator interface {
	Load(ctx context.Context, dateRange entity.DateRange, statuses []entity.BookingStatus) (*Dataset, error)
}

type aggregator struct {
	store BookingStore
}

func NewAggregator(store BookingStore) Aggregator {
	return &aggregator{store: store}
}

// Load reads bookings in the range with one of the given statuses (all statuses when empty)
// and attaches the most recently received email of each booking.
func (a *aggregator) Load(ctx context.Context, dateRange entity.DateRange, statuses []entity.BookingStatus) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	filter := dao.BookingFilter{Range: dateRange}
	for _, s := range statuses {
		filter.Statuses = append(filter.Statuses, string(s))
	}

	bookings, err := a.store.GetBookings(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load internal bookings: %w", err)
	}

	ids := make([]int64, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.ID)
	}

	emails, err := a.store.GetLatestBookingEmails(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking emails: %w", err)
	}

	records := make([]entity.InternalBookingRecord, 0, len(bookings))
	for _, b := range bookings {
		record := toRecord(b)
		if e, ok := emails[b.ID]; ok {
			record.Email = toEmailMeta(e)
		}
		records = append(records, record)
	}

	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].TourDate.Equal(records[j].TourDate) {
			return records[i].TourDate.Before(records[j].TourDate)
		}
		return records[i].ID < records[j].ID
	})

	log.Infof("[Aggregator] Loaded %d internal bookings (%d with email metadata)", len(records), len(emails))
	return &Dataset{Records: records}, nil
}

func toRecord(b model.Booking) entity.InternalBookingRecord {
	return entity.InternalBookingRecord{
		ID:            b.ID,
		BookingRef:    strings.TrimSpace(b.BookingRef),
		CustomerName:  strings.TrimSpace(b.CustomerName),
		CustomerEmail: strings.TrimSpace(b.CustomerEmail),
		PhoneNumber:   strings.TrimSpace(b.PhoneNumber),
		TourDate:      b.TourDate,
		TourName:      strings.TrimSpace(b.TourName),
		TotalPrice:    b.TotalPrice,
		Currency:      strings.ToUpper(strings.TrimSpace(b.Currency)),
		Source:        utils.ClassifyChannel(b.Channel),
		NumberOfAdult: b.NumberOfAdult,
		NumberOfChild: b.NumberOfChild,
		MeetingPoint:  b.MeetingPoint,
		Note:          b.Note,
		Status:        entity.BookingStatus(strings.ToLower(strings.TrimSpace(b.Status))),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func toEmailMeta(e model.BookingEmail) *entity.EmailMeta {
	meta := &entity.EmailMeta{
		MessageID:  e.MessageID,
		Subject:    e.Subject,
		ReceivedAt: e.ReceivedAt,
	}

	switch {
	case e.ParsedData == "":
	case json.Valid([]byte(e.ParsedData)):
		meta.ParsedPayload = json.RawMessage(e.ParsedData)
	default:
		// not JSON, keep it as a quoted string
		raw, err := json.Marshal(e.ParsedData)
		if err == nil {
			meta.ParsedPayload = raw
		}
	}
	return meta
}
