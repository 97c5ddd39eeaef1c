package utils

import (
	"strings"

	"github.com/radhian/booking-reconciliation/entity"
)

var channelPatterns = []struct {
	pattern string
	channel entity.Channel
}{
	{"getyourguide", entity.ChannelGetYourGuide},
	{"gyg", entity.ChannelGetYourGuide},
	{"viator", entity.ChannelViator},
	{"klook", entity.ChannelKlook},
	{"airbnb", entity.ChannelAirbnb},
	{"tripadvisor", entity.ChannelTripAdvisor},
	{"traveloka", entity.ChannelTraveloka},
	{"website", entity.ChannelWebsite},
	{"direct", entity.ChannelWebsite},
	{"manual", entity.ChannelManual},
}

// ClassifyChannel maps a free-form source string onto the closed channel set.
// Matching is a case-insensitive substring test; unknown sources are manual.
func ClassifyChannel(source string) entity.Channel {
	s := strings.ToLower(source)
	compact := strings.Join(strings.Fields(s), "")
	for _, p := range channelPatterns {
		if strings.Contains(s, p.pattern) || strings.Contains(compact, p.pattern) {
			return p.channel
		}
	}
	return entity.ChannelManual
}
