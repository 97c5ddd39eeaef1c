package matching

import (
	"fmt"
	"math"
	"sort"

	"github.com/labstack/gommon/log"
	"github.com/radhian/booking-reconciliation/consts"
	"github.com/radhian/booking-reconciliation/entity"
	"github.com/radhian/booking-reconciliation/utils"
)

const noCandidatesNote = "no candidates (different date or source)"

type EngineConfig struct {
	AcceptThreshold    float64
	AmbiguousThreshold float64
	// AmbiguityMargin is the lead an accepted best candidate needs over a runner-up that
	// reached AmbiguousThreshold.
	AmbiguityMargin float64
	Similarity      utils.Similarity
	// NormalizePhone defaults to utils.NormalizePhone.
	NormalizePhone func(string) string
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		AcceptThreshold:    consts.MatchAcceptThreshold,
		AmbiguousThreshold: consts.MatchAmbiguousThreshold,
		AmbiguityMargin:    consts.MatchAmbiguityMargin,
		Similarity:         utils.DiceCoefficient,
		NormalizePhone:     utils.NormalizePhone,
	}
}

type Engine interface {
	// Match returns one result per external record, in input order.
	Match(external []entity.ExternalBookingRecord, internal []entity.InternalBookingRecord) []entity.MatchResult
}

type engine struct {
	cfg EngineConfig
}

func NewEngine(cfg EngineConfig) Engine {
	def := DefaultEngineConfig()
	if cfg.AcceptThreshold <= 0 {
		cfg.AcceptThreshold = def.AcceptThreshold
	}
	if cfg.AmbiguousThreshold <= 0 {
		cfg.AmbiguousThreshold = def.AmbiguousThreshold
	}
	if cfg.AmbiguityMargin <= 0 {
		cfg.AmbiguityMargin = def.AmbiguityMargin
	}
	if cfg.Similarity == nil {
		cfg.Similarity = def.Similarity
	}
	if cfg.NormalizePhone == nil {
		cfg.NormalizePhone = def.NormalizePhone
	}
	return &engine{cfg: cfg}
}

type candidate struct {
	index int
	score float64
}

// matchState tracks claims for a single Match call.
type matchState struct {
	internal []entity.InternalBookingRecord
	claimed  []bool
	byRef    map[string][]int
}

func newMatchState(internal []entity.InternalBookingRecord) *matchState {
	st := &matchState{
		internal: internal,
		claimed:  make([]bool, len(internal)),
		byRef:    make(map[string][]int),
	}
	for i, r := range internal {
		if key := utils.NormalizeRef(r.BookingRef); key != "" {
			st.byRef[key] = append(st.byRef[key], i)
		}
	}
	return st
}

func (e *engine) Match(external []entity.ExternalBookingRecord, internal []entity.InternalBookingRecord) []entity.MatchResult {
	st := newMatchState(internal)
	results := make([]entity.MatchResult, 0, len(external))

	counts := make(map[entity.MatchStatus]int)
	for i := range external {
		ext := external[i]
		res := e.matchOne(&ext, st)
		counts[res.Status]++
		results = append(results, res)
	}

	log.Infof("[MatchEngine] Matched %d external against %d internal: perfect=%d partial=%d ambiguous=%d missing=%d cancelled=%d",
		len(external), len(internal),
		counts[entity.MatchStatusPerfect], counts[entity.MatchStatusPartial],
		counts[entity.MatchStatusAmbiguous], counts[entity.MatchStatusMissing],
		counts[entity.MatchStatusCancelled])

	return results
}

func (e *engine) matchOne(ext *entity.ExternalBookingRecord, st *matchState) entity.MatchResult {
	if idx, ok := st.exactMatch(ext); ok {
		st.claimed[idx] = true
		in := st.internal[idx]
		if in.Status.IsCancelled() {
			return entity.MatchResult{
				Status:        entity.MatchStatusCancelled,
				External:      ext,
				Internal:      &in,
				Confidence:    1,
				Discrepancies: []entity.Discrepancy{},
				Note:          "booking is cancelled in the system",
			}
		}
		return e.compare(ext, &in, "")
	}

	candidates := e.rank(ext, st)
	if len(candidates) == 0 {
		return entity.MatchResult{
			Status:        entity.MatchStatusMissing,
			External:      ext,
			Confidence:    0,
			Discrepancies: []entity.Discrepancy{},
			Note:          noCandidatesNote,
		}
	}

	best := candidates[0]
	if len(candidates) > 1 && e.ambiguous(best.score, candidates[1].score) {
		return entity.MatchResult{
			Status:        entity.MatchStatusAmbiguous,
			External:      ext,
			Confidence:    best.score,
			Discrepancies: []entity.Discrepancy{},
			Note: fmt.Sprintf("ambiguous: top candidates scored %d%% and %d%%",
				percent(best.score), percent(candidates[1].score)),
		}
	}

	if best.score >= e.cfg.AcceptThreshold {
		st.claimed[best.index] = true
		in := st.internal[best.index]
		return e.compare(ext, &in, fmt.Sprintf("fuzzy match (%d%% confident)", percent(best.score)))
	}

	return entity.MatchResult{
		Status:        entity.MatchStatusMissing,
		External:      ext,
		Confidence:    best.score,
		Discrepancies: []entity.Discrepancy{},
		Note:          fmt.Sprintf("best match only %d%% confident", percent(best.score)),
	}
}

// exactMatch returns the first unclaimed internal record with the same normalized
// reference, preferring records that are not cancelled.
func (st *matchState) exactMatch(ext *entity.ExternalBookingRecord) (int, bool) {
	key := utils.NormalizeRef(ext.BookingRef)
	if key == "" {
		return 0, false
	}

	cancelled := -1
	for _, idx := range st.byRef[key] {
		if st.claimed[idx] {
			continue
		}
		if !st.internal[idx].Status.IsCancelled() {
			return idx, true
		}
		if cancelled < 0 {
			cancelled = idx
		}
	}
	if cancelled >= 0 {
		return cancelled, true
	}
	return 0, false
}

// rank scores unclaimed active records on the same day and channel, best first.
func (e *engine) rank(ext *entity.ExternalBookingRecord, st *matchState) []candidate {
	var out []candidate
	for i, in := range st.internal {
		if st.claimed[i] || in.Status.IsCancelled() {
			continue
		}
		if in.Source != ext.Source || !utils.SameDate(in.TourDate, ext.TourDate) {
			continue
		}
		out = append(out, candidate{index: i, score: e.score(ext, &in)})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].score > out[j].score
	})
	return out
}

// score combines the signals available on both records, weights re-normalized.
func (e *engine) score(ext *entity.ExternalBookingRecord, in *entity.InternalBookingRecord) float64 {
	extRef, inRef := utils.NormalizeRef(ext.BookingRef), utils.NormalizeRef(in.BookingRef)
	extName, inName := utils.NormalizeName(ext.CustomerName), utils.NormalizeName(in.CustomerName)

	var refMatch, sameDate float64
	if extRef == inRef {
		refMatch = 1
	}
	if utils.SameDate(ext.TourDate, in.TourDate) {
		sameDate = 1
	}

	return utils.WeightedScore(
		utils.Signal{Weight: consts.WeightBookingRef, Value: refMatch, Present: extRef != "" && inRef != ""},
		utils.Signal{Weight: consts.WeightCustomerName, Value: e.similarity(extName, inName), Present: extName != "" && inName != ""},
		utils.Signal{Weight: consts.WeightTourDate, Value: sameDate, Present: !ext.TourDate.IsZero() && !in.TourDate.IsZero()},
		utils.Signal{Weight: consts.WeightTourName, Value: e.similarity(ext.TourName, in.TourName), Present: ext.TourName != "" && in.TourName != ""},
	)
}

func (e *engine) similarity(a, b string) float64 {
	return utils.Clamp01(e.cfg.Similarity(a, b))
}

func percent(score float64) int {
	return int(math.Round(score * 100))
}

// ambiguous reports whether the runner-up is too close to the best candidate to pick either.
// Below the accept threshold any plausible runner-up is enough; above it the best must also
// lead by less than the margin.
func (e *engine) ambiguous(best, second float64) bool {
	if second < e.cfg.AmbiguousThreshold {
		return false
	}
	if best < e.cfg.AcceptThreshold {
		return true
	}
	return best-second < e.cfg.AmbiguityMargin
}
