package v1

import (
	"testing"
	"time"
)

func TestOldEnough(t *testing.T) {
	now := time.Date(2025, time.June, 15, 10, 30, 0, 0, time.UTC)

	cases := []struct {
		name     string
		birthday time.Time
		want     bool
	}{
		{"13th birthday today", time.Date(2012, time.June, 15, 0, 0, 0, 0, time.UTC), true},
		{"13th birthday tomorrow", time.Date(2012, time.June, 16, 0, 0, 0, 0, time.UTC), false},
		{"13th birthday yesterday", time.Date(2012, time.June, 14, 0, 0, 0, 0, time.UTC), true},
		{"adult", time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC), true},
		{"toddler", time.Date(2023, time.March, 3, 0, 0, 0, 0, time.UTC), false},
		{"twelve years and eleven months", time.Date(2012, time.July, 15, 0, 0, 0, 0, time.UTC), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := oldEnough(tc.birthday, now); got != tc.want {
				t.Fatalf("oldEnough(%s) = %v, want %v", tc.birthday.Format("2006-01-02"), got, tc.want)
			}
		})
	}
}

func TestOldEnoughIgnoresTimeOfDay(t *testing.T) {
	// Late in the evening of the 13th birthday still counts.
	now := time.Date(2025, time.June, 15, 23, 59, 0, 0, time.UTC)
	birthday := time.Date(2012, time.June, 15, 23, 59, 30, 0, time.UTC)
	if !oldEnough(birthday, now) {
		t.Fatal("date comparison must not depend on time of day")
	}
}
