package priority

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

func ptr(t time.Time) *time.Time { return &t }

func TestCalcKnownValues(t *testing.T) {
	// importance 5, due in 1h: 0.6*1 + 0.4*(1/2) = 0.8
	due := now.Add(time.Hour)
	assert.Equal(t, 0.8, Calc(5, &due, now))

	// importance 1, no deadline: 0.6*0.2 + 0.4*(1/49) ~= 0.13
	assert.Equal(t, 0.13, Calc(1, nil, now))
}

func TestCalcOverdueClampsToMaxUrgency(t *testing.T) {
	overdue := now.Add(-72 * time.Hour)
	justDue := now

	// Any past due date scores the same as "due right now".
	assert.Equal(t, Calc(4, &justDue, now), Calc(4, &overdue, now))

	// importance 5 overdue: 0.6 + 0.4 = 1.0, the scale maximum.
	assert.Equal(t, 1.0, Calc(5, &overdue, now))
}

func TestCalcMonotonicInDueDate(t *testing.T) {
	prev := 2.0
	for h := 0; h <= 200; h += 4 {
		due := now.Add(time.Duration(h) * time.Hour)
		score := Calc(3, &due, now)
		assert.LessOrEqual(t, score, prev, "score must not increase as the deadline recedes (h=%d)", h)
		prev = score
	}
}

func TestCalcBoundsAndDeterminism(t *testing.T) {
	dates := []*time.Time{
		nil,
		ptr(now.Add(-time.Hour)),
		ptr(now),
		ptr(now.Add(30 * time.Minute)),
		ptr(now.Add(24 * time.Hour)),
		ptr(now.Add(365 * 24 * time.Hour)),
	}
	for imp := -1; imp <= 7; imp++ {
		for _, due := range dates {
			got := Calc(imp, due, now)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
			assert.Equal(t, got, Calc(imp, due, now))
		}
	}
}

func TestCalcImportanceDefaults(t *testing.T) {
	// Unset importance behaves like the default, out-of-range clamps.
	assert.Equal(t, Calc(DefaultImportance, nil, now), Calc(0, nil, now))
	assert.Equal(t, Calc(DefaultImportance, nil, now), Calc(-3, nil, now))
	assert.Equal(t, Calc(5, nil, now), Calc(99, nil, now))
}

func TestCalcRoundedToTwoDecimals(t *testing.T) {
	due := now.Add(7 * time.Hour)
	got := Calc(2, &due, now)
	assert.Equal(t, got, math.Round(got*100)/100)
}
