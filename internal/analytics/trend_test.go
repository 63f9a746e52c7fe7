// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package analytics

import (
	"errors"
	"testing"
	"time"

	"github.com/calderonm/vianda/internal/config"
	"github.com/calderonm/vianda/internal/dataset"
	"github.com/calderonm/vianda/internal/filter"
	"github.com/calderonm/vianda/internal/models"
)

// trendFixture spreads compliance answers over three months so the
// composite runs 70 (January), 80 (February), 100 (March).
func trendFixture(t *testing.T) dataset.View {
	t.Helper()
	day := func(month, d int) time.Time {
		return time.Date(2026, time.Month(month), d, 0, 0, 0, 0, time.UTC)
	}
	return testView(t,
		// January: schedule 50, verified 100 -> 0.6*50 + 0.4*100 = 70.
		dataset.Record{Timestamp: day(1, 5), Answers: answers(
			[]string{"delivered_on_schedule", "delivery_verified"}, nil)},
		dataset.Record{Timestamp: day(1, 20), Answers: answers(
			[]string{"delivery_verified"}, []string{"delivered_on_schedule"})},
		// February: schedule 100, verified 50 -> 80.
		dataset.Record{Timestamp: day(2, 3), Answers: answers(
			[]string{"delivered_on_schedule", "delivery_verified"}, nil)},
		dataset.Record{Timestamp: day(2, 17), Answers: answers(
			[]string{"delivered_on_schedule"}, []string{"delivery_verified"})},
		// March: everything favorable -> 100.
		dataset.Record{Timestamp: day(3, 1), Answers: answers(
			[]string{"delivered_on_schedule", "delivery_verified"}, nil)},
		dataset.Record{Timestamp: day(3, 28), Answers: answers(
			[]string{"delivered_on_schedule", "delivery_verified"}, nil)},
	)
}

func TestTrendDimensionComposite(t *testing.T) {
	e := testEngine(t)
	got, err := e.Trend(trendFixture(t), config.DimCompliance, "", 3)
	if err != nil {
		t.Fatalf("Trend() error = %v", err)
	}

	if len(got.Points) != 3 {
		t.Fatalf("Points = %+v, want 3 months", got.Points)
	}
	wantValues := []float64{70.0, 80.0, 100.0}
	for i, want := range wantValues {
		if got.Points[i].Value != want {
			t.Errorf("Points[%d].Value = %v, want %v", i, got.Points[i].Value, want)
		}
	}
	if !got.Points[0].Month.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Points[0].Month = %v, want January 1st", got.Points[0].Month)
	}

	// (100-70)/70*100 = 42.857...
	if got.ChangePct != 42.86 {
		t.Errorf("ChangePct = %v, want 42.86", got.ChangePct)
	}
	if got.Direction != models.TrendImproving || !got.Defined {
		t.Errorf("Direction = %q Defined = %v, want improving/defined", got.Direction, got.Defined)
	}
}

func TestTrendWindowsLastMonths(t *testing.T) {
	e := testEngine(t)
	got, err := e.Trend(trendFixture(t), config.DimCompliance, "", 2)
	if err != nil {
		t.Fatalf("Trend() error = %v", err)
	}
	if len(got.Points) != 2 {
		t.Fatalf("Points = %+v, want the last 2 months", got.Points)
	}
	if got.Points[0].Value != 80.0 || got.Points[1].Value != 100.0 {
		t.Errorf("Points = %+v, want [80 100]", got.Points)
	}
	// (100-80)/80*100 = 25.
	if got.ChangePct != 25.0 {
		t.Errorf("ChangePct = %v, want 25.0", got.ChangePct)
	}
}

func TestTrendSingleIndicator(t *testing.T) {
	e := testEngine(t)
	got, err := e.Trend(trendFixture(t), config.DimCompliance, "delivered_on_schedule", 3)
	if err != nil {
		t.Fatalf("Trend() error = %v", err)
	}
	if len(got.Points) != 3 {
		t.Fatalf("Points = %+v, want 3 months", got.Points)
	}
	// Raw yes-rates: 50, 100, 100.
	if got.Points[0].Value != 50.0 || got.Points[2].Value != 100.0 {
		t.Errorf("Points = %+v", got.Points)
	}
	if got.Direction != models.TrendImproving {
		t.Errorf("Direction = %q, want improving", got.Direction)
	}
	if got.Indicator != "delivered_on_schedule" {
		t.Errorf("Indicator = %q", got.Indicator)
	}
}

func TestTrendSingleMonthIsStableUndefined(t *testing.T) {
	e := testEngine(t)
	v := testView(t,
		dataset.Record{Timestamp: march(1), Answers: answers(
			[]string{"delivered_on_schedule", "delivery_verified"}, nil)},
	)
	got, err := e.Trend(v, config.DimCompliance, "", 3)
	if err != nil {
		t.Fatalf("Trend() error = %v", err)
	}
	if got.Defined {
		t.Error("one month of data should not define a trend")
	}
	if got.Direction != models.TrendStable || got.ChangePct != 0 {
		t.Errorf("Direction = %q ChangePct = %v, want stable/0", got.Direction, got.ChangePct)
	}
	if len(got.Points) != 1 {
		t.Errorf("Points = %+v, want the single month for charting", got.Points)
	}
}

func TestTrendZeroBaseIsStable(t *testing.T) {
	e := testEngine(t)
	v := testView(t,
		dataset.Record{Timestamp: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
			Answers: answers(nil, []string{"delivered_on_schedule"})},
		dataset.Record{Timestamp: time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
			Answers: answers([]string{"delivered_on_schedule"}, nil)},
	)
	got, err := e.Trend(v, config.DimCompliance, "delivered_on_schedule", 3)
	if err != nil {
		t.Fatalf("Trend() error = %v", err)
	}
	// A zero base month cannot express a percent change.
	if got.ChangePct != 0 || got.Direction != models.TrendStable {
		t.Errorf("ChangePct = %v Direction = %q, want 0/stable", got.ChangePct, got.Direction)
	}
	if !got.Defined {
		t.Error("two months define a trend even when the base is zero")
	}
}

func TestTrendStableBand(t *testing.T) {
	e := testEngine(t)
	// 96% then 100%: a 4.17% relative change sits inside the 5% band.
	var january []dataset.Record
	for i := 0; i < 25; i++ {
		r := dataset.Record{Timestamp: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)}
		if i == 0 {
			r.Answers = answers(nil, []string{"delivered_on_schedule"})
		} else {
			r.Answers = answers([]string{"delivered_on_schedule"}, nil)
		}
		january = append(january, r)
	}
	february := dataset.Record{Timestamp: time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC),
		Answers: answers([]string{"delivered_on_schedule"}, nil)}

	got, err := e.Trend(testView(t, append(january, february)...),
		config.DimCompliance, "delivered_on_schedule", 3)
	if err != nil {
		t.Fatalf("Trend() error = %v", err)
	}
	if got.Direction != models.TrendStable {
		t.Errorf("Direction = %q, want stable inside the band", got.Direction)
	}
	if got.ChangePct != 4.17 {
		t.Errorf("ChangePct = %v, want 4.17", got.ChangePct)
	}
}

func TestTrendUnknownDimensionAndIndicator(t *testing.T) {
	e := testEngine(t)
	if _, err := e.Trend(testView(t), "punctuality", "", 3); !errors.Is(err, filter.ErrUnknownDimension) {
		t.Errorf("unknown dimension error = %v", err)
	}
	if _, err := e.Trend(testView(t), config.DimCompliance, "warp_speed", 3); !errors.Is(err, filter.ErrUnknownDimension) {
		t.Errorf("unknown indicator error = %v", err)
	}
}
