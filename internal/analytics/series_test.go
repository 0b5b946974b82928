package analytics

import (
	"testing"
	"time"
)

var testNow = time.Date(2025, time.March, 15, 14, 30, 0, 0, time.UTC)

func daysAgo(n int, hour int) time.Time {
	d := testNow.AddDate(0, 0, -n)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, time.UTC)
}

func TestDailySeriesEmptyInput(t *testing.T) {
	points := DailySeries(nil, 7, testNow)

	if len(points) != 7 {
		t.Fatalf("expected 7 points, got %d", len(points))
	}
	for i, p := range points {
		if p.AverageMood != nil {
			t.Errorf("point %d: expected absent average, got %v", i, *p.AverageMood)
		}
		if p.SampleCount != 0 {
			t.Errorf("point %d: expected 0 samples, got %d", i, p.SampleCount)
		}
	}
}

func TestDailySeriesAveragesAndGaps(t *testing.T) {
	samples := []Sample{
		{Mood: 2, At: daysAgo(6, 9)},
		{Mood: 4, At: daysAgo(6, 18)},
		{Mood: 5, At: daysAgo(3, 12)},
	}

	points := DailySeries(samples, 7, testNow)

	if len(points) != 7 {
		t.Fatalf("expected 7 points, got %d", len(points))
	}

	// Oldest first: index 0 is 6 days ago.
	if points[0].AverageMood == nil || *points[0].AverageMood != 3.0 {
		t.Errorf("day -6: expected average 3.0, got %v", points[0].AverageMood)
	}
	if points[0].SampleCount != 2 {
		t.Errorf("day -6: expected 2 samples, got %d", points[0].SampleCount)
	}
	if points[3].AverageMood == nil || *points[3].AverageMood != 5.0 {
		t.Errorf("day -3: expected average 5.0, got %v", points[3].AverageMood)
	}
	for _, i := range []int{1, 2, 4, 5, 6} {
		if points[i].AverageMood != nil {
			t.Errorf("day index %d: expected absent average, got %v", i, *points[i].AverageMood)
		}
	}
}

func TestDailySeriesChronologicalLabels(t *testing.T) {
	points := DailySeries(nil, 7, testNow)

	// 2025-03-15 is a Saturday, so the window runs Sun..Sat.
	want := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	for i, p := range points {
		if p.Day != want[i] {
			t.Errorf("point %d: expected label %q, got %q", i, want[i], p.Day)
		}
	}
}

func TestDailySeriesUnroundedMean(t *testing.T) {
	samples := []Sample{
		{Mood: 3, At: daysAgo(0, 8)},
		{Mood: 4, At: daysAgo(0, 20)},
	}

	points := DailySeries(samples, 7, testNow)

	last := points[6]
	if last.AverageMood == nil || *last.AverageMood != 3.5 {
		t.Errorf("expected today's average 3.5, got %v", last.AverageMood)
	}
}

func TestDailySeriesIgnoresSamplesOutsideWindow(t *testing.T) {
	samples := []Sample{
		{Mood: 1, At: daysAgo(10, 12)},
		{Mood: 5, At: daysAgo(0, 12)},
	}

	points := DailySeries(samples, 7, testNow)

	total := 0
	for _, p := range points {
		total += p.SampleCount
	}
	if total != 1 {
		t.Errorf("expected only 1 sample inside the window, got %d", total)
	}
}

func TestDailySeriesDeterministic(t *testing.T) {
	samples := []Sample{
		{Mood: 2, At: daysAgo(5, 10)},
		{Mood: 3, At: daysAgo(2, 11)},
		{Mood: 5, At: daysAgo(2, 16)},
	}

	first := DailySeries(samples, 7, testNow)
	second := DailySeries(samples, 7, testNow)

	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		a, b := first[i], second[i]
		if a.Day != b.Day || a.SampleCount != b.SampleCount {
			t.Errorf("point %d differs between runs", i)
		}
		switch {
		case a.AverageMood == nil && b.AverageMood == nil:
		case a.AverageMood != nil && b.AverageMood != nil && *a.AverageMood == *b.AverageMood:
		default:
			t.Errorf("point %d average differs between runs", i)
		}
	}
}

func TestDailySeriesThirtyDayWindow(t *testing.T) {
	points := DailySeries(nil, 30, testNow)

	if len(points) != 30 {
		t.Fatalf("expected 30 points, got %d", len(points))
	}
	if points[29].Day != "Mar 15" {
		t.Errorf("expected last label Mar 15, got %q", points[29].Day)
	}
	if points[0].Day != "Feb 14" {
		t.Errorf("expected first label Feb 14, got %q", points[0].Day)
	}
}
