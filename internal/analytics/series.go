// Package analytics turns raw mood samples into chart-ready series. Everything
// here is a pure function over its inputs; persistence and provider calls live
// in the services layer.
package analytics

import "time"

// Sample is a single mood rating at a point in time.
type Sample struct {
	Mood int
	At   time.Time
}

// SeriesPoint is one calendar-day bucket of a trailing window. AverageMood is
// nil when the day has no samples, which callers must render distinctly from a
// low mood.
type SeriesPoint struct {
	Day         string   `json:"day"`
	AverageMood *float64 `json:"averageMood"`
	SampleCount int      `json:"sampleCount"`
}

// DailySeries buckets samples into the trailing window of exactly `days`
// calendar days ending at now's date, oldest first. Samples outside the window
// are ignored. The mean is not rounded; presentation decides that.
func DailySeries(samples []Sample, days int, now time.Time) []SeriesPoint {
	if days <= 0 {
		return nil
	}

	points := make([]SeriesPoint, 0, days)
	loc := now.Location()

	for offset := days - 1; offset >= 0; offset-- {
		day := now.AddDate(0, 0, -offset)
		dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)

		sum, count := 0, 0
		for _, s := range samples {
			t := s.At.In(loc)
			if t.Year() == dayStart.Year() && t.YearDay() == dayStart.YearDay() {
				sum += s.Mood
				count++
			}
		}

		point := SeriesPoint{
			Day:         dayLabel(dayStart, days),
			SampleCount: count,
		}
		if count > 0 {
			avg := float64(sum) / float64(count)
			point.AverageMood = &avg
		}
		points = append(points, point)
	}

	return points
}

// dayLabel uses weekday abbreviations for week-sized windows and a short date
// for longer ones, matching how the dashboard charts label the axis.
func dayLabel(day time.Time, days int) string {
	if days <= 7 {
		return day.Format("Mon")
	}
	return day.Format("Jan 2")
}
