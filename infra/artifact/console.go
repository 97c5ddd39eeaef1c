package artifact

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/labstack/gommon/color"
	"github.com/radhian/booking-reconciliation/entity"
)

const consoleRecommendations = 3

// PrintSummary writes the human-readable run summary. Colours are dropped automatically
// when out is not a terminal.
func PrintSummary(out io.Writer, report entity.Report) {
	c := color.New()
	c.SetOutput(out)
	if _, ok := out.(*os.File); !ok {
		c.Disable()
	}

	s := report.Summary
	pct := func(n int) float64 {
		if s.TotalExternal == 0 {
			return 0
		}
		return float64(n) / float64(s.TotalExternal) * 100
	}

	c.Println(c.Bold("Reconciliation summary"))
	c.Printf("  External records:   %d\n", s.TotalExternal)
	c.Printf("  Internal records:   %d (confirmed %d, cancelled %d)\n", s.TotalInternal, s.InternalConfirmed, s.InternalCancelled)
	if line := channelBreakdown(report.Metadata.InternalStats); line != "" {
		c.Printf("  Internal by source: %s\n", line)
	}
	c.Printf("  %s %d (%.1f%%)\n", c.Green("Perfect:          "), s.Perfect, pct(s.Perfect))
	c.Printf("  %s %d (%.1f%%)\n", c.Yellow("Partial:          "), s.Partial, pct(s.Partial))
	c.Printf("  %s %d (%.1f%%)\n", c.Red("Missing:          "), s.Missing, pct(s.Missing))
	c.Printf("  %s %d (%.1f%%)\n", c.Magenta("Ambiguous:        "), s.Ambiguous, pct(s.Ambiguous))
	c.Printf("  Orphans:            %d\n", s.Orphans)
	c.Printf("  Match rate:         %s\n", c.Bold(formatPercent(s.MatchRate)))

	if len(report.PRReview) > 0 {
		c.Printf("  Items for review:   %d\n", len(report.PRReview))
	}

	recs := report.ParserAnalysis.Recommendations
	if len(recs) == 0 {
		return
	}
	c.Println()
	c.Println(c.Bold("Top recommendations"))
	for i, r := range recs {
		if i == consoleRecommendations {
			break
		}
		c.Printf("  %d. [%s] %s (%d affected)\n", i+1, priorityLabel(c, r.Priority), r.Title, r.AffectedCount)
	}
}

func priorityLabel(c *color.Color, p entity.Severity) string {
	switch p {
	case entity.SeverityHigh:
		return c.Red(string(p))
	case entity.SeverityMedium:
		return c.Yellow(string(p))
	}
	return c.Cyan(string(p))
}

// channelBreakdown lists loaded internal bookings per channel in reporting order.
func channelBreakdown(stats entity.InternalStats) string {
	var parts []string
	for _, ch := range entity.KnownChannels {
		if n := stats.ByChannel[ch]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", ch, n))
		}
	}
	return strings.Join(parts, ", ")
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
