package model

import (
	"testing"
	"time"
)

func TestClockOf(t *testing.T) {
	c := ClockOf(time.Date(2024, 1, 1, 7, 30, 15, 0, time.UTC))
	if c != (Clock{Hour: 7, Minute: 30, Second: 15}) {
		t.Fatalf("unexpected clock %v", c)
	}
	if c.String() != "07:30:15" {
		t.Fatalf("unexpected string %s", c)
	}
}

func TestClockValid(t *testing.T) {
	cases := []struct {
		c    Clock
		want bool
	}{
		{Clock{}, true},
		{Clock{Hour: 23, Minute: 59, Second: 59}, true},
		{Clock{Hour: 24}, false},
		{Clock{Minute: -1}, false},
		{Clock{Second: 60}, false},
	}
	for _, tc := range cases {
		if got := tc.c.Valid(); got != tc.want {
			t.Errorf("%v: got %v want %v", tc.c, got, tc.want)
		}
	}
}
