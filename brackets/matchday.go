package brackets

import (
	"fmt"
	"slices"
	"time"

	"github.com/Dosada05/tournament-engine/models"
)

// GroupMatchdays buckets the matches of round-robin family and group
// formats into matchdays; round k of every group shares matchday k.
// Other formats have no matchdays.
func GroupMatchdays(b *models.Bracket, cal models.Calendar) []models.Matchday {
	var roundSets [][]*models.Round
	switch b.Format {
	case models.FormatRoundRobin, models.FormatLeague:
		roundSets = append(roundSets, b.League.Rounds)
	case models.FormatGroupStage, models.FormatGroupPlayoffs:
		for _, g := range b.Groups.Groups {
			roundSets = append(roundSets, g.Rounds)
		}
	default:
		return nil
	}

	byIndex := make(map[int][]*models.Match)
	maxIndex := 0
	for _, rounds := range roundSets {
		for _, r := range rounds {
			byIndex[r.Index] = append(byIndex[r.Index], r.Matches...)
			maxIndex = max(maxIndex, r.Index)
		}
	}

	out := make([]models.Matchday, 0, maxIndex)
	for idx := 1; idx <= maxIndex; idx++ {
		matches := byIndex[idx]
		start, end := cal.Window(idx - 1)
		md := models.Matchday{
			Index:       idx,
			Name:        fmt.Sprintf("Matchday %d", idx),
			WindowStart: start,
			WindowEnd:   end,
			MatchIDs:    make([]string, 0, len(matches)),
			Total:       len(matches),
		}
		for _, m := range matches {
			md.MatchIDs = append(md.MatchIDs, m.ID)
			if m.IsCompleted() {
				md.Completed++
			}
		}
		md.Status = progressStatus(md.Completed, md.Total)
		out = append(out, md)
	}
	return out
}

func progressStatus(completed, total int) models.MatchdayStatus {
	switch {
	case total > 0 && completed == total:
		return models.MatchdayCompleted
	case completed > 0:
		return models.MatchdayInProgress
	}
	return models.MatchdayPending
}

// BuildSeason groups matchdays by the ISO week of their window start.
// Matchdays without a window land in Unscheduled.
func BuildSeason(matchdays []models.Matchday) models.Season {
	type weekKey struct{ year, week int }
	var (
		season models.Season
		keys   []weekKey
	)
	weeks := make(map[weekKey]*models.Week)

	for _, md := range matchdays {
		if md.WindowStart == nil {
			season.Unscheduled = append(season.Unscheduled, md)
			continue
		}
		year, week := md.WindowStart.ISOWeek()
		k := weekKey{year, week}
		w, ok := weeks[k]
		if !ok {
			w = &models.Week{Year: year, Number: week, Start: weekStart(*md.WindowStart)}
			weeks[k] = w
			keys = append(keys, k)
		}
		w.Matchdays = append(w.Matchdays, md)
	}

	slices.SortFunc(keys, func(a, b weekKey) int {
		if a.year != b.year {
			return a.year - b.year
		}
		return a.week - b.week
	})

	totalDone, totalAll := 0, 0
	for _, k := range keys {
		w := weeks[k]
		done, all := 0, 0
		for _, md := range w.Matchdays {
			done += md.Completed
			all += md.Total
		}
		w.Status = progressStatus(done, all)
		totalDone += done
		totalAll += all
		season.Weeks = append(season.Weeks, *w)
	}
	for _, md := range season.Unscheduled {
		totalDone += md.Completed
		totalAll += md.Total
	}
	season.Status = progressStatus(totalDone, totalAll)
	return season
}

// weekStart returns Monday 00:00 of t's week in t's location.
func weekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -offset)
}

// OpeningMatchdays returns the matchdays whose window starts in (from, to].
func OpeningMatchdays(matchdays []models.Matchday, from, to time.Time) []models.Matchday {
	var out []models.Matchday
	for _, md := range matchdays {
		if md.WindowStart == nil {
			continue
		}
		if md.WindowStart.After(from) && !md.WindowStart.After(to) {
			out = append(out, md)
		}
	}
	return out
}
