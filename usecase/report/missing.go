package report

import (
	"github.com/radhian/booking-reconciliation/entity"
)

var genericMissingReasons = []string{
	"confirmation email never reached the ingestion inbox",
	"email was received but the parser could not extract a booking",
	"booking reference or tour date differs between the ledger and the system",
	"booking was entered in the ledger by hand and never confirmed by email",
}

var channelMissingReasons = map[entity.Channel]string{
	entity.ChannelGetYourGuide: "GetYourGuide amendments can replace the original booking reference",
	entity.ChannelViator:       "Viator bookings confirmed in the supplier portal may not send an email",
	entity.ChannelKlook:        "Klook vouchers are sometimes issued without a confirmation email",
	entity.ChannelAirbnb:       "Airbnb experience emails often omit the booking reference",
	entity.ChannelTraveloka:    "Traveloka confirmations can arrive as attachments the parser skips",
	entity.ChannelWebsite:      "website bookings are created directly and may lack a linked email",
	entity.ChannelManual:       "manual bookings are not created from email",
}

// missingBookings lists external records the engine could not find internally.
func missingBookings(matches []entity.MatchResult) []entity.MissingBooking {
	out := make([]entity.MissingBooking, 0)
	for _, m := range matches {
		if m.Status != entity.MatchStatusMissing || m.External == nil {
			continue
		}
		reasons := append([]string{}, genericMissingReasons...)
		if r, ok := channelMissingReasons[m.External.Source]; ok {
			reasons = append(reasons, r)
		}
		out = append(out, entity.MissingBooking{
			External:   *m.External,
			Confidence: m.Confidence,
			Note:       m.Note,
			Reasons:    reasons,
		})
	}
	return out
}
