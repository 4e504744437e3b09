package editorial

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSelectSequenceFromEpoch(t *testing.T) {
	cal := DefaultCalendar(date(2025, time.January, 1))
	n := len(cal.Topics)
	if n != 30 {
		t.Fatalf("expected 30 topics in the default rotation, got %d", n)
	}

	cases := []struct {
		day  time.Time
		want int
	}{
		{date(2025, time.January, 1), 0},
		{date(2025, time.January, 2), 1},
		{date(2025, time.January, 30), 29},
		{date(2025, time.January, 31), 0},
		{date(2025, time.February, 15), 15},
	}
	for _, tc := range cases {
		got, topic := cal.Select(tc.day)
		if got != tc.want {
			t.Errorf("Select(%s) index = %d, want %d", tc.day.Format("2006-01-02"), got, tc.want)
		}
		if topic != cal.Topics[tc.want] {
			t.Errorf("Select(%s) topic mismatch for index %d", tc.day.Format("2006-01-02"), tc.want)
		}
	}
}

func TestSelectIsPeriodic(t *testing.T) {
	cal := DefaultCalendar(date(2025, time.January, 1))
	n := len(cal.Topics)

	for _, start := range []time.Time{
		date(2025, time.January, 1),
		date(2025, time.March, 17),
		date(2024, time.November, 30),
	} {
		for _, periods := range []int{1, 2, 12} {
			later := start.AddDate(0, 0, periods*n)
			i1, _ := cal.Select(start)
			i2, _ := cal.Select(later)
			if i1 != i2 {
				t.Errorf("index changed across %d full periods: %s -> %d, %s -> %d",
					periods, start.Format("2006-01-02"), i1, later.Format("2006-01-02"), i2)
			}
		}
	}
}

func TestSelectBeforeEpochStaysInRange(t *testing.T) {
	cal := DefaultCalendar(date(2025, time.January, 1))
	n := len(cal.Topics)

	// Walk a stretch of dates straddling the epoch; the index must always be
	// a valid position and the day before the epoch must wrap to the end.
	for offset := -75; offset <= 75; offset++ {
		day := cal.Epoch.AddDate(0, 0, offset)
		idx, _ := cal.Select(day)
		if idx < 0 || idx >= n {
			t.Fatalf("Select(%s) index %d out of range [0,%d)", day.Format("2006-01-02"), idx, n)
		}
	}

	if idx, _ := cal.Select(date(2024, time.December, 31)); idx != n-1 {
		t.Errorf("day before epoch: index = %d, want %d", idx, n-1)
	}
}

func TestSelectIgnoresTimeOfDayAndZone(t *testing.T) {
	cal := DefaultCalendar(date(2025, time.January, 1))
	kyiv := time.FixedZone("EET", 2*60*60)

	morning := time.Date(2025, time.January, 10, 0, 30, 0, 0, kyiv)
	evening := time.Date(2025, time.January, 10, 23, 45, 0, 0, kyiv)

	i1, _ := cal.Select(morning)
	i2, _ := cal.Select(evening)
	if i1 != i2 {
		t.Errorf("same calendar day resolved to different indexes: %d vs %d", i1, i2)
	}
}
