// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package analytics

import (
	"errors"
	"testing"

	"github.com/calderonm/vianda/internal/config"
	"github.com/calderonm/vianda/internal/dataset"
	"github.com/calderonm/vianda/internal/filter"
)

func TestDistributionsAnswerSplit(t *testing.T) {
	e := testEngine(t)
	v := testView(t,
		dataset.Record{Timestamp: march(1), Answers: answers(
			[]string{"delivered_on_schedule", "delivery_verified"}, nil)},
		dataset.Record{Timestamp: march(2), Answers: answers(
			[]string{"delivered_on_schedule"}, []string{"delivery_verified"})},
		dataset.Record{Timestamp: march(3), Answers: answers(
			[]string{"delivery_verified"}, []string{"delivered_on_schedule"})},
		dataset.Record{Timestamp: march(4), Answers: answers(
			[]string{"delivery_verified"}, nil)},
	)

	got, err := e.Distributions(v, config.DimCompliance)
	if err != nil {
		t.Fatalf("Distributions() error = %v", err)
	}

	if got.Records != 4 || len(got.Answers) != 2 {
		t.Fatalf("got %d records, %d answers", got.Records, len(got.Answers))
	}

	schedule := got.Answers[0]
	if schedule.Indicator != "delivered_on_schedule" {
		t.Fatalf("Answers[0] = %+v, want configured order", schedule)
	}
	if schedule.Yes != 2 || schedule.No != 1 || schedule.Missing != 1 {
		t.Errorf("schedule counts = %+v", schedule)
	}
	if schedule.YesPct != 50.0 || schedule.NoPct != 25.0 || schedule.MissingPct != 25.0 {
		t.Errorf("schedule pcts = %+v, want shares of all records", schedule)
	}

	verified := got.Answers[1]
	if verified.Yes != 3 || verified.No != 1 || verified.Missing != 0 {
		t.Errorf("verified counts = %+v", verified)
	}
}

func TestDistributionsUnknownDimension(t *testing.T) {
	e := testEngine(t)
	if _, err := e.Distributions(testView(t), "morale"); !errors.Is(err, filter.ErrUnknownDimension) {
		t.Errorf("Distributions() error = %v, want ErrUnknownDimension", err)
	}
}

func TestLabelDistributionWeekdayOrder(t *testing.T) {
	e := testEngine(t)
	weekday := func(name string) map[string]string {
		return map[string]string{config.LabelWeekday: name}
	}
	v := testView(t,
		dataset.Record{Timestamp: march(1), Labels: weekday("Viernes")},
		dataset.Record{Timestamp: march(2), Labels: weekday("Lunes")},
		dataset.Record{Timestamp: march(3), Labels: weekday("Viernes")},
		dataset.Record{Timestamp: march(4), Labels: weekday("Lunes")},
		dataset.Record{Timestamp: march(5), Labels: weekday("Miércoles")},
		dataset.Record{Timestamp: march(6)}, // no weekday, left out
	)

	got, err := e.LabelDistribution(v, config.LabelWeekday)
	if err != nil {
		t.Fatalf("LabelDistribution() error = %v", err)
	}

	if got.Total != 5 {
		t.Errorf("Total = %d, want 5 labeled records", got.Total)
	}
	wantOrder := []string{"Lunes", "Miércoles", "Viernes"}
	if len(got.Buckets) != len(wantOrder) {
		t.Fatalf("Buckets = %+v", got.Buckets)
	}
	for i, want := range wantOrder {
		if got.Buckets[i].Value != want {
			t.Errorf("Buckets[%d] = %q, want %q", i, got.Buckets[i].Value, want)
		}
	}
	if got.Buckets[0].Count != 2 || got.Buckets[0].Pct != 40.0 {
		t.Errorf("Lunes bucket = %+v, want 2 at 40.0%%", got.Buckets[0])
	}
}

func TestLabelDistributionSitesByDescendingCount(t *testing.T) {
	e := testEngine(t)
	site := func(name string) map[string]string {
		return map[string]string{config.LabelSite: name}
	}
	v := testView(t,
		dataset.Record{Timestamp: march(1), Labels: site("Comuna 2")},
		dataset.Record{Timestamp: march(2), Labels: site("Comuna 2")},
		dataset.Record{Timestamp: march(3), Labels: site("Comuna 1")},
		dataset.Record{Timestamp: march(4), Labels: site("Comuna 3")},
		dataset.Record{Timestamp: march(5), Labels: site("Comuna 3")},
	)

	got, err := e.LabelDistribution(v, config.LabelSite)
	if err != nil {
		t.Fatalf("LabelDistribution() error = %v", err)
	}
	// Count ties break alphabetically.
	wantOrder := []string{"Comuna 2", "Comuna 3", "Comuna 1"}
	for i, want := range wantOrder {
		if got.Buckets[i].Value != want {
			t.Errorf("Buckets[%d] = %q, want %q", i, got.Buckets[i].Value, want)
		}
	}
}

func TestLabelDistributionUnknownLabel(t *testing.T) {
	e := testEngine(t)
	if _, err := e.LabelDistribution(testView(t), "altitude"); !errors.Is(err, filter.ErrUnknownDimension) {
		t.Errorf("LabelDistribution() error = %v, want ErrUnknownDimension", err)
	}
}
