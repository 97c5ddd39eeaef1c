package aggregator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/radhian/booking-reconciliation/entity"
	"github.com/radhian/booking-reconciliation/infra/db/dao"
	"github.com/radhian/booking-reconciliation/infra/db/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	bookings   []model.Booking
	emails     map[int64]model.BookingEmail
	bookingErr error
	emailErr   error

	gotFilter dao.BookingFilter
	gotIDs    []int64
}

func (f *fakeStore) GetBookings(filter dao.BookingFilter) ([]model.Booking, error) {
	f.gotFilter = filter
	return f.bookings, f.bookingErr
}

func (f *fakeStore) GetLatestBookingEmails(ids []int64) (map[int64]model.BookingEmail, error) {
	f.gotIDs = ids
	return f.emails, f.emailErr
}

func date(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

func newStore() *fakeStore {
	return &fakeStore{
		bookings: []model.Booking{
			{ID: 3, BookingRef: "V-3", CustomerName: "Cara", TourDate: date(5), Channel: "Viator.com", Status: "Confirmed", Currency: "usd", TotalPrice: decimal.NewFromInt(50)},
			{ID: 1, BookingRef: "G-1", CustomerName: "Ann", TourDate: date(1), Channel: "GetYourGuide", Status: "cancelled"},
			{ID: 2, BookingRef: "K-2", CustomerName: "Ben", TourDate: date(1), Channel: "klook", Status: "completed"},
			{ID: 4, BookingRef: "W-4", CustomerName: "Dan", TourDate: date(2), Channel: "", Status: "pending"},
		},
		emails: map[int64]model.BookingEmail{
			3: {BookingID: 3, MessageID: "m-3", Subject: "New booking", ParsedData: `{"ref":"V-3"}`},
			2: {BookingID: 2, MessageID: "m-2", ParsedData: "plain text body"},
		},
	}
}

func TestLoad(t *testing.T) {
	store := newStore()
	agg := NewAggregator(store)

	rng := entity.DateRange{Start: date(1), End: date(30)}
	ds, err := agg.Load(context.Background(), rng, []entity.BookingStatus{entity.BookingStatusConfirmed, entity.BookingStatusCancelled})
	require.NoError(t, err)

	assert.Equal(t, rng, store.gotFilter.Range)
	assert.Equal(t, []string{"confirmed", "cancelled"}, store.gotFilter.Statuses)
	assert.ElementsMatch(t, []int64{1, 2, 3, 4}, store.gotIDs)

	require.Len(t, ds.Records, 4)
	var ids []int64
	for _, r := range ds.Records {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []int64{1, 2, 4, 3}, ids)

	viator := ds.Records[3]
	assert.Equal(t, entity.ChannelViator, viator.Source)
	assert.Equal(t, entity.BookingStatusConfirmed, viator.Status)
	assert.Equal(t, "USD", viator.Currency)
	require.NotNil(t, viator.Email)
	assert.Equal(t, "m-3", viator.Email.MessageID)
	assert.JSONEq(t, `{"ref":"V-3"}`, string(viator.Email.ParsedPayload))

	klook := ds.Records[1]
	require.NotNil(t, klook.Email)
	assert.Equal(t, `"plain text body"`, string(klook.Email.ParsedPayload))

	assert.Nil(t, ds.Records[0].Email)
	assert.Equal(t, entity.ChannelManual, ds.Records[2].Source)
}

func TestLoadErrors(t *testing.T) {
	t.Run("booking query", func(t *testing.T) {
		store := newStore()
		store.bookingErr = errors.New("connection refused")
		_, err := NewAggregator(store).Load(context.Background(), entity.DateRange{}, nil)
		assert.ErrorIs(t, err, store.bookingErr)
	})

	t.Run("email query", func(t *testing.T) {
		store := newStore()
		store.emailErr = errors.New("timeout")
		_, err := NewAggregator(store).Load(context.Background(), entity.DateRange{}, nil)
		assert.ErrorIs(t, err, store.emailErr)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewAggregator(newStore()).Load(ctx, entity.DateRange{}, nil)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestDatasetViews(t *testing.T) {
	ds, err := NewAggregator(newStore()).Load(context.Background(), entity.DateRange{}, nil)
	require.NoError(t, err)

	confirmed := ds.Confirmed()
	require.Len(t, confirmed, 2)
	assert.Equal(t, int64(2), confirmed[0].ID)
	assert.Equal(t, int64(3), confirmed[1].ID)

	cancelled := ds.Cancelled()
	require.Len(t, cancelled, 1)
	assert.Equal(t, int64(1), cancelled[0].ID)

	byChannel := ds.ByChannel()
	assert.Len(t, byChannel[entity.ChannelKlook], 1)
	assert.Len(t, byChannel[entity.ChannelManual], 1)

	stats := ds.Stats()
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 1, stats.ByStatus[entity.BookingStatusPending])
	assert.Equal(t, 1, stats.ByChannel[entity.ChannelGetYourGuide])

	assert.Len(t, ds.Records, 4, "views must not modify the dataset")
}
