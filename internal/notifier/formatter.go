package notifier

import (
	"fmt"
	"strings"
	"time"

	"EarningsRadar/internal/model"
)

func passMark(pass bool) string {
	if pass {
		return "✅"
	}
	return "❌"
}

// FormatAnalysisReport renders one analysis result as a Telegram message.
func FormatAnalysisReport(res *model.AnalysisResult) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>%s</b> @ %.2f | %s\n\n", res.Ticker, res.CurrentPrice, time.Now().Format("2006-01-02")))

	m := res.Metrics
	b.WriteString("📈 <b>Metrics:</b>\n")
	b.WriteString(fmt.Sprintf("  avg volume: %.0f %s\n", m.AvgVolume, passMark(m.AvgVolumePass)))
	b.WriteString(fmt.Sprintf("  IV30/RV30: %.2f %s\n", m.IV30RV30, passMark(m.IV30RV30Pass)))
	b.WriteString(fmt.Sprintf("  term slope: %.5f %s\n", m.TSSlope, passMark(m.TSSlopePass)))
	b.WriteString(fmt.Sprintf("  expected move: %s\n\n", res.ExpectedMove))

	switch res.Recommendation {
	case model.Recommended:
		b.WriteString("🟢 <b>Recommended</b>\n")
	case model.Consider:
		b.WriteString("🟡 <b>Consider</b>\n")
	default:
		b.WriteString("🔴 <b>Avoid</b>\n")
	}

	if s := res.OptimalSpread; s != nil {
		b.WriteString("\n🗓 <b>Optimal calendar spread:</b>\n")
		b.WriteString(fmt.Sprintf("  strike %.2f, %s / %s\n", s.Strike, s.FrontExpiration, s.BackExpiration))
		b.WriteString(fmt.Sprintf("  cost %.2f | IV diff %.3f (front %.3f, back %.3f)\n", s.Cost, s.IVDifferential, s.FrontIV, s.BackIV))
		b.WriteString(fmt.Sprintf("  liquidity %.1f/%.1f | %d days between | %d to front\n", s.FrontLiquidity, s.BackLiquidity, s.DaysBetweenExpirations, s.DaysToFrontExpiration))
		b.WriteString(fmt.Sprintf("  score: %.2f\n", s.Score))
	}

	return b.String()
}

// FormatScanSummary renders the outcome of one watchlist scan.
func FormatScanSummary(total, recommended, failed int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🔍 <b>Earnings scan</b> | %s\n\n", time.Now().Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("tickers scanned: %d\n", total))
	b.WriteString(fmt.Sprintf("recommended: %d\n", recommended))
	if failed > 0 {
		b.WriteString(fmt.Sprintf("failed: %d\n", failed))
	}
	return b.String()
}

// FormatWatchlist renders the current watchlist.
func FormatWatchlist(tickers []string) string {
	if len(tickers) == 0 {
		return "watchlist is empty"
	}
	return "👁 <b>Watchlist:</b> " + strings.Join(tickers, ", ")
}
