package bot

import (
	"fmt"
	"strings"

	"reelog/internal/insights"
	"reelog/internal/store"
)

const greeting = "Hi! I keep your viewing diary and make recommendations.\n" +
	"Commands: /add /last /stats /recommend /progress /help"

const helpText = "Available commands:\n" +
	"/add - record a viewing\n" +
	"/last - recent viewings\n" +
	"/stats - totals by type and genre\n" +
	"/recommend - picks based on your favorite genres\n" +
	"/progress - activity compared with the previous period\n" +
	"/cancel - abort the current dialogue\n" +
	"/help - this message"

func renderLast(views []store.ViewingEvent) string {
	lines := make([]string, 0, len(views))
	for _, view := range views {
		lines = append(lines, fmt.Sprintf("%s - %g/10, %s (%s) %s",
			view.Name, view.UserRate, view.Type, view.Genre,
			view.ViewDate.Format(store.DateLayout)))
	}
	return strings.Join(lines, "\n")
}

func renderStats(stats *insights.UserStats) string {
	var b strings.Builder
	b.WriteString("By type:\n")
	for _, row := range stats.PerType {
		fmt.Fprintf(&b, "%s - %d logged, %d minutes, avg rating %s\n",
			row.Type, row.Count, row.TotalMinutes, formatAvg(row.AvgRating))
	}
	if len(stats.TopGenres) > 0 {
		b.WriteString("\nTop genres:\n")
		for _, genre := range stats.TopGenres {
			fmt.Fprintf(&b, "%s - %d\n", genre.Genre, genre.Count)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderRecommendations(recs []store.CatalogEntry) string {
	lines := make([]string, 0, len(recs)+1)
	lines = append(lines, "Worth watching:")
	for _, rec := range recs {
		line := fmt.Sprintf("%s (%s) - %s, IMDB %s", rec.Name, rec.Type, rec.Genre, formatAvg(rec.IMDBRate))
		if rec.Certificate != "" {
			line += ", certificate " + rec.Certificate
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func renderProgress(report *insights.ProgressReport, windowDays int) string {
	return fmt.Sprintf(
		"The last %d days compared with the %d before:\n"+
			"Current period: %s\n"+
			"Previous period: %s",
		windowDays, windowDays,
		renderPeriod(report.Current), renderPeriod(report.Previous))
}

func renderPeriod(period insights.PeriodStats) string {
	return fmt.Sprintf("%d viewings, avg rating %s, %d minutes",
		period.Count, formatAvg(period.AvgRating), period.TotalMinutes)
}

func formatAvg(value *float64) string {
	if value == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *value)
}
