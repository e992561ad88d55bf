package common

import (
	"testing"
	"time"
)

func TestMedianTime(t *testing.T) {
	base := time.Unix(1000, 0)
	at := func(secs ...int64) []time.Time {
		res := []time.Time{}
		for _, s := range secs {
			res = append(res, base.Add(time.Duration(s)*time.Second))
		}
		return res
	}

	for _, c := range []struct {
		in  []time.Time
		out time.Time
	}{
		{at(5, 3, 4, 2, 1), base.Add(3 * time.Second)},
		{at(6, 3, 2, 4, 5, 1), base.Add(4 * time.Second)},
		{at(1), base.Add(time.Second)},
	} {
		got := MedianTime(c.in)
		if !got.Equal(c.out) {
			t.Errorf("MedianTime(%v) => %v != %v", c.in, got, c.out)
		}
	}

	if m := MedianTime([]time.Time{}); !m.IsZero() {
		t.Errorf("Empty slice should have returned the zero time")
	}
}
