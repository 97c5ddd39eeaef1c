package report

import (
	"fmt"
	"sort"

	"github.com/radhian/booking-reconciliation/consts"
	"github.com/radhian/booking-reconciliation/entity"
	"github.com/radhian/booking-reconciliation/utils"
)

type rebooking struct {
	cancelled entity.InternalBookingRecord
	rebooked  entity.InternalBookingRecord
	score     float64
	reasons   []string
}

// findOrphans returns confirmed-like records that no match claimed and that are not cancelled.
func findOrphans(internal []entity.InternalBookingRecord, matches []entity.MatchResult, cancelled []entity.InternalBookingRecord) []entity.InternalBookingRecord {
	claimed := make(map[int64]bool, len(matches))
	for _, m := range matches {
		if m.Internal != nil {
			claimed[m.Internal.ID] = true
		}
	}
	cancelledIDs := make(map[int64]bool, len(cancelled))
	for _, c := range cancelled {
		cancelledIDs[c.ID] = true
	}

	orphans := make([]entity.InternalBookingRecord, 0)
	for _, r := range internal {
		if r.Status.IsConfirmedLike() && !claimed[r.ID] && !cancelledIDs[r.ID] {
			orphans = append(orphans, r)
		}
	}
	return orphans
}

// findRebookings links cancelled bookings to confirmed ones created shortly after the
// cancellation for what looks like the same customer. A confirmed booking joins at most one pair.
func (b *builder) findRebookings(internal, cancelled []entity.InternalBookingRecord) []rebooking {
	var confirmed []entity.InternalBookingRecord
	for _, r := range internal {
		if r.Status.IsConfirmedLike() {
			confirmed = append(confirmed, r)
		}
	}

	used := make(map[int64]bool)
	var out []rebooking
	for _, c := range cancelled {
		cancelledAt := c.UpdatedAt
		if cancelledAt.IsZero() {
			cancelledAt = c.CreatedAt
		}

		for _, r := range confirmed {
			if used[r.ID] || r.ID == c.ID {
				continue
			}
			if !utils.WithinDays(cancelledAt, r.CreatedAt, b.cfg.RebookingWindowDays) {
				continue
			}

			score, reasons := b.linkScore(c, r)
			if score > consts.RebookingMinScore && len(reasons) >= consts.RebookingMinSignals {
				used[r.ID] = true
				out = append(out, rebooking{cancelled: c, rebooked: r, score: utils.Clamp01(score), reasons: reasons})
			}
		}
	}
	return out
}

func (b *builder) linkScore(cancelled, rebooked entity.InternalBookingRecord) (float64, []string) {
	var score float64
	var reasons []string

	if sameEmail(cancelled.CustomerEmail, rebooked.CustomerEmail) {
		score += consts.RebookingEmailScore
		reasons = append(reasons, fmt.Sprintf("same customer email (%s)", utils.NormalizeEmail(rebooked.CustomerEmail)))
	}

	nameSim := utils.Clamp01(b.cfg.Similarity(utils.NormalizeName(cancelled.CustomerName), utils.NormalizeName(rebooked.CustomerName)))
	if nameSim > consts.RebookingNameThreshold {
		score += nameSim * consts.RebookingNameWeight
		reasons = append(reasons, fmt.Sprintf("similar customer name (%.0f%%)", nameSim*100))
	}

	tourSim := utils.Clamp01(b.cfg.Similarity(cancelled.TourName, rebooked.TourName))
	if tourSim > consts.RebookingTourThreshold {
		score += tourSim * consts.RebookingTourWeight
		reasons = append(reasons, fmt.Sprintf("similar tour (%.0f%%)", tourSim*100))
	}

	return score, reasons
}

func sameEmail(a, b string) bool {
	if utils.IsPlaceholderEmail(a) || utils.IsPlaceholderEmail(b) {
		return false
	}
	return utils.NormalizeEmail(a) == utils.NormalizeEmail(b)
}

// buildPRReview lists orphans and rebooking candidates, highest priority first.
func buildPRReview(orphans []entity.InternalBookingRecord, rebookings []rebooking) []entity.PRReviewItem {
	items := make([]entity.PRReviewItem, 0, len(orphans)+len(rebookings))

	for i := range orphans {
		o := orphans[i]
		reasons := []string{"confirmed in system but not found in the external ledger"}
		if o.Email != nil && o.Email.Subject != "" {
			reasons = append(reasons, fmt.Sprintf("created from email %q", o.Email.Subject))
		}
		if o.BookingRef == "" {
			reasons = append(reasons, "booking reference missing in system")
		}
		items = append(items, entity.PRReviewItem{
			Type:     entity.PRReviewOrphan,
			Priority: entity.SeverityMedium,
			Booking:  &o,
			Reasons:  reasons,
		})
	}

	for i := range rebookings {
		rb := rebookings[i]
		items = append(items, entity.PRReviewItem{
			Type:      entity.PRReviewRebooking,
			Priority:  entity.SeverityHigh,
			Cancelled: &rb.cancelled,
			Rebooked:  &rb.rebooked,
			Score:     rb.score,
			Reasons:   rb.reasons,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Priority.Rank() > items[j].Priority.Rank()
	})
	return items
}
