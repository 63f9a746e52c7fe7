// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package analytics

import (
	"os"
	"testing"
	"time"

	"github.com/calderonm/vianda/internal/config"
	"github.com/calderonm/vianda/internal/dataset"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	os.Clearenv()
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}
	return New(cfg)
}

// answers builds a tri-state answer map; keys absent from both lists stay
// missing.
func answers(yes, no []string) map[string]dataset.Answer {
	m := make(map[string]dataset.Answer, len(yes)+len(no))
	for _, k := range yes {
		m[k] = dataset.AnswerYes
	}
	for _, k := range no {
		m[k] = dataset.AnswerNo
	}
	return m
}

func march(day int) time.Time {
	return time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC)
}

func testView(t *testing.T, records ...dataset.Record) dataset.View {
	t.Helper()
	ds := dataset.NewDataset(1, "test", march(31), records, 0)
	return dataset.NewView(ds)
}
