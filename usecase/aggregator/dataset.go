package aggregator

import (
	"github.com/radhian/booking-reconciliation/entity"
)

// Dataset holds the internal bookings of one run. Views return new slices and never
// modify Records.
type Dataset struct {
	Records []entity.InternalBookingRecord
}

// Confirmed returns bookings in a confirmed-like status.
func (d *Dataset) Confirmed() []entity.InternalBookingRecord {
	return d.filter(func(r entity.InternalBookingRecord) bool { return r.Status.IsConfirmedLike() })
}

func (d *Dataset) Cancelled() []entity.InternalBookingRecord {
	return d.filter(func(r entity.InternalBookingRecord) bool { return r.Status.IsCancelled() })
}

func (d *Dataset) ByChannel() map[entity.Channel][]entity.InternalBookingRecord {
	out := make(map[entity.Channel][]entity.InternalBookingRecord)
	for _, r := range d.Records {
		out[r.Source] = append(out[r.Source], r)
	}
	return out
}

func (d *Dataset) Stats() entity.InternalStats {
	stats := entity.InternalStats{
		Total:     len(d.Records),
		ByStatus:  make(map[entity.BookingStatus]int),
		ByChannel: make(map[entity.Channel]int),
	}
	for _, r := range d.Records {
		stats.ByStatus[r.Status]++
	}
	for ch, records := range d.ByChannel() {
		stats.ByChannel[ch] = len(records)
	}
	return stats
}

func (d *Dataset) filter(keep func(entity.InternalBookingRecord) bool) []entity.InternalBookingRecord {
	out := make([]entity.InternalBookingRecord, 0)
	for _, r := range d.Records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
