package usecase

import (
	"sort"
	"time"

	"chore-clash/internal/entity"
)

// toDay collapses a timestamp to its UTC calendar day.
func toDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// uniqueDays collapses timestamps to unique UTC days, sorted descending.
func uniqueDays(timestamps []time.Time) []time.Time {
	seen := make(map[time.Time]struct{}, len(timestamps))
	days := make([]time.Time, 0, len(timestamps))
	for _, t := range timestamps {
		day := toDay(t)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })
	return days
}

// CalculateStreak derives the current and best consecutive-day streaks from
// a child's submission timestamps.
//
// protectionDays only answers whether the streak is still alive: if the gap
// between now and the most recent active day exceeds it, the current streak
// is 0 no matter what came before. It never fabricates missed days into the
// count — the backward walk requires each counted day to be exactly one
// calendar day before the previous one, so any real gap stops it.
func CalculateStreak(timestamps []time.Time, protectionDays int, now time.Time) (current, best int) {
	days := uniqueDays(timestamps)
	if len(days) == 0 {
		return 0, 0
	}

	today := toDay(now)
	daysSinceMostRecent := int(today.Sub(days[0]).Hours() / 24)

	run := 1
	best = 1
	for i := 1; i < len(days); i++ {
		if days[i-1].Sub(days[i]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}

	if daysSinceMostRecent > protectionDays {
		return 0, best
	}
	return leadingRun(days), best
}

// leadingRun counts strictly consecutive days starting from the most recent.
func leadingRun(days []time.Time) int {
	if len(days) == 0 {
		return 0
	}
	run := 1
	for i := 1; i < len(days); i++ {
		if days[i-1].Sub(days[i]) != 24*time.Hour {
			break
		}
		run++
	}
	return run
}

// StreakBonusPercent is the informational display percentage: 10/15/20% at
// 3/5/7+ days. It never feeds the milestone awarder.
func StreakBonusPercent(current int) int {
	switch {
	case current >= 7:
		return 20
	case current >= 5:
		return 15
	case current >= 3:
		return 10
	default:
		return 0
	}
}

// ApplySubmission folds one submission into the incremental per-chore
// streak: same-day resubmission is a no-op, the next calendar day increments
// Current, any other gap resets Current to 1 and marks the streak disrupted.
// Returns false when nothing changed.
func ApplySubmission(streak *entity.Streak, submittedAt time.Time) bool {
	day := toDay(submittedAt)

	if streak.Current == 0 {
		streak.Current = 1
		streak.Best = 1
		streak.LastIncrementDate = day
		streak.IsDisrupted = false
		return true
	}

	last := toDay(streak.LastIncrementDate)
	switch {
	case day.Equal(last) || day.Before(last):
		return false
	case day.Sub(last) == 24*time.Hour:
		streak.Current++
		if streak.Current > streak.Best {
			streak.Best = streak.Current
		}
		streak.LastIncrementDate = day
		streak.IsDisrupted = false
	default:
		streak.Current = 1
		streak.LastIncrementDate = day
		streak.IsDisrupted = true
	}
	return true
}
