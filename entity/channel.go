package entity

// Channel is the sales platform a booking originated from.
type Channel string

const (
	ChannelGetYourGuide Channel = "getyourguide"
	ChannelViator       Channel = "viator"
	ChannelKlook        Channel = "klook"
	ChannelAirbnb       Channel = "airbnb"
	ChannelTripAdvisor  Channel = "tripadvisor"
	ChannelTraveloka    Channel = "traveloka"
	ChannelWebsite      Channel = "website"
	ChannelManual       Channel = "manual"
)

// KnownChannels is the closed channel set in reporting order.
var KnownChannels = []Channel{
	ChannelGetYourGuide,
	ChannelViator,
	ChannelKlook,
	ChannelAirbnb,
	ChannelTripAdvisor,
	ChannelTraveloka,
	ChannelWebsite,
	ChannelManual,
}

func (c Channel) IsKnown() bool {
	for _, k := range KnownChannels {
		if c == k {
			return true
		}
	}
	return false
}

// BookingStatus is the lifecycle state of an internal booking.
type BookingStatus string

const (
	BookingStatusPending     BookingStatus = "pending"
	BookingStatusConfirmed   BookingStatus = "confirmed"
	BookingStatusAssigned    BookingStatus = "assigned"
	BookingStatusCompleted   BookingStatus = "completed"
	BookingStatusCancelled   BookingStatus = "cancelled"
	BookingStatusNoShow      BookingStatus = "no_show"
	BookingStatusRescheduled BookingStatus = "rescheduled"
)

// ConfirmedLikeStatuses denote an active or realized booking.
var ConfirmedLikeStatuses = []BookingStatus{
	BookingStatusConfirmed,
	BookingStatusAssigned,
	BookingStatusCompleted,
}

func (s BookingStatus) IsConfirmedLike() bool {
	for _, c := range ConfirmedLikeStatuses {
		if s == c {
			return true
		}
	}
	return false
}

func (s BookingStatus) IsCancelled() bool {
	return s == BookingStatusCancelled
}
