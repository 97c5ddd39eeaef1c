package report

import (
	"sort"

	"github.com/radhian/booking-reconciliation/consts"
	"github.com/radhian/booking-reconciliation/entity"
)

// sourceAccuracy scores each channel with at least one matched pair.
func sourceAccuracy(matches []entity.MatchResult) []entity.SourceAccuracy {
	bySource := make(map[entity.Channel]*entity.SourceAccuracy)
	seenIssue := make(map[entity.Channel]map[string]bool)

	for _, m := range matches {
		if !m.Status.IsMatched() || m.External == nil {
			continue
		}
		src := m.External.Source
		acc, ok := bySource[src]
		if !ok {
			acc = &entity.SourceAccuracy{Source: src, CommonIssues: []string{}}
			bySource[src] = acc
			seenIssue[src] = make(map[string]bool)
		}

		acc.TotalMatched++
		if m.Status == entity.MatchStatusPerfect {
			acc.Perfect++
		} else {
			acc.Partial++
		}

		for _, d := range m.Discrepancies {
			issue := d.Note
			if issue == "" {
				issue = d.Field + " mismatch"
			}
			if len(acc.CommonIssues) < consts.MaxCommonIssues && !seenIssue[src][issue] {
				seenIssue[src][issue] = true
				acc.CommonIssues = append(acc.CommonIssues, issue)
			}
		}
	}

	out := make([]entity.SourceAccuracy, 0, len(bySource))
	for _, ch := range entity.KnownChannels {
		acc, ok := bySource[ch]
		if !ok {
			continue
		}
		acc.Accuracy = (float64(acc.Perfect) + 0.5*float64(acc.Partial)) / float64(acc.TotalMatched) * 100
		out = append(out, *acc)
	}
	return out
}

// fieldAccuracy reports, per tracked field, how often matched pairs agreed.
func fieldAccuracy(matches []entity.MatchResult) []entity.FieldAccuracy {
	total := 0
	for _, m := range matches {
		if m.Status.IsMatched() {
			total++
		}
	}
	out := make([]entity.FieldAccuracy, 0, len(entity.TrackedFields))
	if total == 0 {
		return out
	}

	type pair struct{ ext, in string }
	for _, field := range entity.TrackedFields {
		fa := entity.FieldAccuracy{Field: field, TotalCompared: total, TopDiscrepancies: []entity.DiscrepancyCount{}}
		counts := make(map[pair]int)
		var order []pair

		for _, m := range matches {
			if !m.Status.IsMatched() {
				continue
			}
			for _, d := range m.Discrepancies {
				if d.Field != field {
					continue
				}
				fa.Mismatches++
				p := pair{d.ExternalValue, d.InternalValue}
				if counts[p] == 0 {
					order = append(order, p)
				}
				counts[p]++
				break
			}
		}

		sort.SliceStable(order, func(i, j int) bool {
			return counts[order[i]] > counts[order[j]]
		})
		for i, p := range order {
			if i == consts.MaxTopDiscrepancies {
				break
			}
			fa.TopDiscrepancies = append(fa.TopDiscrepancies, entity.DiscrepancyCount{
				ExternalValue: p.ext,
				InternalValue: p.in,
				Count:         counts[p],
			})
		}

		fa.Accuracy = float64(total-fa.Mismatches) / float64(total) * 100
		out = append(out, fa)
	}
	return out
}
