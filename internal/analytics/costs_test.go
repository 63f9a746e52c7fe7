// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package analytics

import (
	"testing"

	"github.com/calderonm/vianda/internal/config"
	"github.com/calderonm/vianda/internal/dataset"
)

func TestCostStats(t *testing.T) {
	e := testEngine(t)
	v := testView(t,
		dataset.Record{Timestamp: march(1),
			Answers: answers([]string{"transfer_required"}, nil),
			Amounts: map[string]float64{config.AmountTransferCost: 10000}},
		dataset.Record{Timestamp: march(2),
			Answers: answers([]string{"transfer_required"}, nil),
			Amounts: map[string]float64{config.AmountTransferCost: 15000}},
		// Amount present but no transfer reported: ignored.
		dataset.Record{Timestamp: march(3),
			Answers: answers(nil, []string{"transfer_required"}),
			Amounts: map[string]float64{config.AmountTransferCost: 99999}},
		dataset.Record{Timestamp: march(4),
			Answers: answers([]string{"community_support_needed"}, nil),
			Amounts: map[string]float64{config.AmountSupportCost: 5000}},
		// Flag unanswered: ignored.
		dataset.Record{Timestamp: march(5),
			Amounts: map[string]float64{config.AmountSupportCost: 7777}},
	)

	got := e.CostStats(v)

	tr := got.Transfer
	if !tr.Defined || tr.Count != 2 {
		t.Fatalf("Transfer = %+v, want 2 flagged records", tr)
	}
	if tr.Min != 10000 || tr.Max != 15000 || tr.Mean != 12500 || tr.Total != 25000 {
		t.Errorf("Transfer = %+v", tr)
	}

	sp := got.Support
	if !sp.Defined || sp.Count != 1 || sp.Total != 5000 {
		t.Errorf("Support = %+v", sp)
	}
	if sp.Min != 5000 || sp.Max != 5000 || sp.Mean != 5000 {
		t.Errorf("Support bounds = %+v", sp)
	}

	if got.CombinedTotal != 30000 {
		t.Errorf("CombinedTotal = %v, want 30000", got.CombinedTotal)
	}
}

func TestCostStatsFlaggedWithoutAmountCountsAsZero(t *testing.T) {
	e := testEngine(t)
	v := testView(t,
		dataset.Record{Timestamp: march(1),
			Answers: answers([]string{"transfer_required"}, nil),
			Amounts: map[string]float64{config.AmountTransferCost: 8000}},
		dataset.Record{Timestamp: march(2),
			Answers: answers([]string{"transfer_required"}, nil)},
	)

	got := e.CostStats(v)
	if got.Transfer.Count != 2 || got.Transfer.Min != 0 || got.Transfer.Mean != 4000 {
		t.Errorf("Transfer = %+v, want min 0 and mean 4000", got.Transfer)
	}
}

func TestCostStatsNoFlaggedRecords(t *testing.T) {
	e := testEngine(t)
	v := testView(t,
		dataset.Record{Timestamp: march(1),
			Answers: answers(nil, []string{"transfer_required", "community_support_needed"})},
	)

	got := e.CostStats(v)
	if got.Transfer.Defined || got.Support.Defined {
		t.Errorf("no flagged rows should leave stats undefined: %+v", got)
	}
	if got.Transfer.Count != 0 || got.CombinedTotal != 0 {
		t.Errorf("zero-data stats = %+v", got)
	}
}
