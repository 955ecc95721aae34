package notifier

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"MarketPredictor/internal/coordinator"
	"MarketPredictor/internal/model"
	"MarketPredictor/internal/recorder"
)

func directionEmoji(d model.Direction) string {
	switch d {
	case model.DirectionUp:
		return "📈"
	case model.DirectionDown:
		return "📉"
	default:
		return "➖"
	}
}

// FormatRunReport renders one completed run as a Telegram HTML message.
func FormatRunReport(res *coordinator.Result) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🔮 <b>Market Predictions</b> | %s\n\n", res.CompletedAt.Format("2006-01-02 15:04")))

	symbols := make([]string, 0, len(res.Predictions))
	for s := range res.Predictions {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	for _, symbol := range symbols {
		p := res.Predictions[symbol]
		b.WriteString(fmt.Sprintf("%s <b>%s</b> (%s)\n", directionEmoji(p.Direction), p.Market, symbol))
		b.WriteString(fmt.Sprintf("   %s %+.2f%% | confidence %.0f%%\n", p.Direction, p.Magnitude, p.Confidence))
		b.WriteString(fmt.Sprintf("   technical %+.3f | sentiment %+.3f\n", p.TechnicalScore, p.SentimentScore))
		if p.ReducedConfidence {
			b.WriteString("   ⚠️ reduced confidence: sentiment sources unavailable\n")
		}
		b.WriteString("\n")
	}

	if res.Sentiment != nil {
		ok := len(res.Sentiment.Sources) - res.Sentiment.SourcesFailed
		b.WriteString(fmt.Sprintf("📰 sentiment %+.3f from %d/%d sources\n",
			res.Sentiment.Weighted, ok, len(res.Sentiment.Sources)))
	}
	b.WriteString(fmt.Sprintf("⏱ run took %.0fs", res.Duration.Seconds()))

	return b.String()
}

// FormatStatus renders the coordinator status for a /status reply.
func FormatStatus(st coordinator.Status) string {
	var b strings.Builder
	b.WriteString("📦 <b>Predictor Status</b>\n\n")
	b.WriteString(fmt.Sprintf("state: %s\n", st.State))
	if st.Running {
		b.WriteString(fmt.Sprintf("progress: %.0f%% — %s", st.Progress.Percentage, st.Progress.Stage))
		if st.Progress.CurrentSource != "" {
			b.WriteString(fmt.Sprintf(" (%s)", st.Progress.CurrentSource))
		}
		b.WriteString(fmt.Sprintf("\nETA: %.0fs\n", st.Progress.ETASeconds))
	}
	if !st.LastSuccess.IsZero() {
		b.WriteString(fmt.Sprintf("last success: %s\n", st.LastSuccess.Format("2006-01-02 15:04")))
	}
	if st.LastError != "" {
		b.WriteString(fmt.Sprintf("last error: %s\n", st.LastError))
	}
	for _, q := range st.Quota {
		b.WriteString(fmt.Sprintf("quota %s: %d/%d used\n", q.Provider, q.Calls, q.Limit))
	}
	return b.String()
}

// FormatRecent renders persisted prediction history for a /recent reply.
func FormatRecent(rows []recorder.PredictionRow, hours int) string {
	if len(rows) == 0 {
		return fmt.Sprintf("No predictions recorded in the last %dh.", hours)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("🗂 <b>Predictions — last %dh</b>\n\n", hours))
	limit := len(rows)
	if limit > 10 {
		limit = 10
	}
	for _, row := range rows[:limit] {
		b.WriteString(fmt.Sprintf("%s %s %s %+.2f%% (%.0f%%) — %s\n",
			directionEmoji(model.Direction(row.Direction)), row.Symbol, row.Direction,
			row.Magnitude, row.Confidence, row.Timestamp.Format("01-02 15:04")))
	}
	if len(rows) > limit {
		b.WriteString(fmt.Sprintf("… and %d more\n", len(rows)-limit))
	}
	return b.String()
}

// FormatFailure renders a failed run for notification.
func FormatFailure(err error, at time.Time) string {
	return fmt.Sprintf("❌ <b>Prediction run failed</b> | %s\n\n%v", at.Format("2006-01-02 15:04"), err)
}
