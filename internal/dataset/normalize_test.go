// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package dataset

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNormalizeValidRows(t *testing.T) {
	cfg := testConfig(t)
	n := NewNormalizer(cfg)

	data := buildCSV(t,
		testRow(map[string]string{"fecha": "2026-03-10", "valor_trasbordo": "15000"}),
		testRow(map[string]string{"fecha": "10/04/2026", "trasbordo": "NO", "comuna": "Comuna 5"}),
	)

	records, skipped, err := n.Normalize(data)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}

	first := records[0]
	if first.ID != "row-00001" {
		t.Errorf("first record ID = %q, want row-00001", first.ID)
	}
	if !first.Timestamp.Equal(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("first record Timestamp = %v", first.Timestamp)
	}
	if got := first.Label("site"); got != "Comuna 1" {
		t.Errorf("first record site = %q", got)
	}
	if got := first.Answer("transfer_required"); got != AnswerYes {
		t.Errorf("first record transfer_required = %v, want yes", got)
	}
	if got := first.Amount("transfer_cost"); got != 15000 {
		t.Errorf("first record transfer_cost = %v, want 15000", got)
	}

	second := records[1]
	if !second.Timestamp.Equal(time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("second record Timestamp = %v, want 2026-04-10 (day-first layout)", second.Timestamp)
	}
	if got := second.Answer("transfer_required"); got != AnswerNo {
		t.Errorf("second record transfer_required = %v, want no", got)
	}
	if got := second.Label("site"); got != "Comuna 5" {
		t.Errorf("second record site = %q", got)
	}
}

func TestNormalizeSkipsRowsWithBadDates(t *testing.T) {
	cfg := testConfig(t)
	n := NewNormalizer(cfg)

	data := buildCSV(t,
		testRow(map[string]string{"fecha": "2026-03-10"}),
		testRow(map[string]string{"fecha": "no es una fecha"}),
		testRow(map[string]string{"fecha": ""}),
		testRow(map[string]string{"fecha": "2026-03-12"}),
	)

	records, skipped, err := n.Normalize(data)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if skipped != 2 {
		t.Errorf("skipped = %d, want 2", skipped)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}

	// Row numbering counts skipped rows so IDs stay stable across loads.
	if records[0].ID != "row-00001" || records[1].ID != "row-00004" {
		t.Errorf("record IDs = %q, %q; want row-00001, row-00004", records[0].ID, records[1].ID)
	}
}

func TestNormalizeMissingColumnsIsSchemaMismatch(t *testing.T) {
	cfg := testConfig(t)
	n := NewNormalizer(cfg)

	// Drop two configured columns from the header.
	var header []string
	for _, col := range testColumns {
		if col == "trasbordo" || col == "valor_apoyo" {
			continue
		}
		header = append(header, col)
	}
	data := []byte(strings.Join(header, ",") + "\n")

	_, _, err := n.Normalize(data)
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("Normalize() error = %v, want ErrSchemaMismatch", err)
	}

	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("error is not a *SchemaError: %v", err)
	}
	if len(schemaErr.Missing) != 2 {
		t.Fatalf("Missing = %v, want 2 columns", schemaErr.Missing)
	}
	if schemaErr.Missing[0] != "trasbordo" || schemaErr.Missing[1] != "valor_apoyo" {
		t.Errorf("Missing = %v, want sorted [trasbordo valor_apoyo]", schemaErr.Missing)
	}
}

func TestNormalizeEmptyPayloadIsSchemaMismatch(t *testing.T) {
	cfg := testConfig(t)
	n := NewNormalizer(cfg)

	_, _, err := n.Normalize(nil)
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("Normalize(nil) error = %v, want ErrSchemaMismatch", err)
	}
}

func TestNormalizeHeaderOnlyYieldsEmptyDataset(t *testing.T) {
	cfg := testConfig(t)
	n := NewNormalizer(cfg)

	records, skipped, err := n.Normalize(buildCSV(t))
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(records) != 0 || skipped != 0 {
		t.Errorf("records = %d, skipped = %d; want 0, 0", len(records), skipped)
	}
}

func TestNormalizeUnknownTokenReadsAsMissing(t *testing.T) {
	cfg := testConfig(t)
	n := NewNormalizer(cfg)

	data := buildCSV(t,
		testRow(map[string]string{"comunicacion_efectiva": "TAL VEZ"}),
	)

	records, _, err := n.Normalize(data)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if got := records[0].Answer("effective_communication"); got != AnswerMissing {
		t.Errorf("effective_communication = %v, want missing", got)
	}
}

func TestNormalizeAmountCoercion(t *testing.T) {
	cfg := testConfig(t)
	n := NewNormalizer(cfg)

	data := buildCSV(t,
		testRow(map[string]string{"valor_trasbordo": "12500.50", "valor_apoyo": ""}),
		testRow(map[string]string{"valor_trasbordo": "$50.000", "valor_apoyo": "sin costo"}),
	)

	records, _, err := n.Normalize(data)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if got := records[0].Amount("transfer_cost"); got != 12500.50 {
		t.Errorf("transfer_cost = %v, want 12500.50", got)
	}
	if got := records[0].Amount("support_cost"); got != 0 {
		t.Errorf("empty support_cost = %v, want 0", got)
	}
	// Free-text and formatted cells coerce to zero instead of failing the row.
	if got := records[1].Amount("transfer_cost"); got != 0 {
		t.Errorf("formatted transfer_cost = %v, want 0", got)
	}
	if got := records[1].Amount("support_cost"); got != 0 {
		t.Errorf("free-text support_cost = %v, want 0", got)
	}
}

func TestNormalizeIgnoresExtraColumns(t *testing.T) {
	cfg := testConfig(t)
	n := NewNormalizer(cfg)

	header := strings.Join(append(append([]string{}, testColumns...), "observaciones"), ",")
	row := testRow(nil)
	var cells []string
	for _, col := range testColumns {
		cells = append(cells, row[col])
	}
	cells = append(cells, "texto libre")
	data := []byte(header + "\n" + strings.Join(cells, ",") + "\n")

	records, _, err := n.Normalize(data)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	if _, ok := records[0].Labels["observaciones"]; ok {
		t.Error("extra column leaked into record labels")
	}
}

func TestNormalizeStripsHeaderBOM(t *testing.T) {
	cfg := testConfig(t)
	n := NewNormalizer(cfg)

	data := append([]byte("\ufeff"), buildCSV(t, testRow(nil))...)

	records, _, err := n.Normalize(data)
	if err != nil {
		t.Fatalf("Normalize() with BOM error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	if !records[0].Timestamp.Equal(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Timestamp = %v, want parsed date despite BOM", records[0].Timestamp)
	}
}

func TestNormalizeShortRowReadsEmptyCells(t *testing.T) {
	cfg := testConfig(t)
	n := NewNormalizer(cfg)

	// Sheets drop trailing empty cells: a row ending after the weekday
	// column must still parse, with everything after it missing.
	row := testRow(nil)
	var cells []string
	for _, col := range testColumns[:5] {
		cells = append(cells, row[col])
	}
	data := []byte(strings.Join(testColumns, ",") + "\n" + strings.Join(cells, ",") + "\n")

	records, skipped, err := n.Normalize(data)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	if got := records[0].Label("weekday"); got != "Lunes" {
		t.Errorf("weekday = %q, want Lunes", got)
	}
	if got := records[0].Answer("easy_site_access"); got != AnswerMissing {
		t.Errorf("truncated answer = %v, want missing", got)
	}
}
