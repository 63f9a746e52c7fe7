// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/calderonm/vianda/internal/config"
	"github.com/calderonm/vianda/internal/logging"
)

// Normalizer converts raw CSV bytes into Records according to the schema
// config. Source columns are resolved once against the header, then every
// row is translated to internal keys; nothing downstream ever touches a
// source column name.
type Normalizer struct {
	dateColumn  string
	dateFormats []string

	// source column -> internal key
	labelColumns  map[string]string
	answerColumns map[string]string
	amountColumns map[string]string
}

// NewNormalizer builds a Normalizer from the schema and dimension config.
func NewNormalizer(cfg *config.Config) *Normalizer {
	n := &Normalizer{
		dateColumn:    cfg.Schema.DateColumn,
		dateFormats:   cfg.Schema.DateFormats,
		labelColumns:  make(map[string]string),
		answerColumns: make(map[string]string),
		amountColumns: make(map[string]string),
	}
	for key, column := range cfg.Schema.LabelColumns {
		n.labelColumns[column] = key
	}
	for key, column := range cfg.Schema.AmountColumns {
		n.amountColumns[column] = key
	}
	for _, dim := range cfg.Dimensions {
		for _, ind := range dim.Indicators {
			n.answerColumns[ind.Column] = ind.Key
		}
	}
	return n
}

// columnIndexes maps the resolved header positions for one load.
type columnIndexes struct {
	date    int
	labels  map[string]int // label key -> column index
	answers map[string]int // indicator key -> column index
	amounts map[string]int // amount key -> column index
	extra   []string       // header columns outside the schema
}

// Normalize parses CSV bytes into Records. The header must carry every
// configured column or the whole load fails with a SchemaError; row-level
// failures (unparseable date) skip the row and count it instead.
func (n *Normalizer) Normalize(data []byte) (records []Record, skipped int, err error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1 // sheets export ragged rows when trailing cells are empty
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, &SchemaError{Missing: n.requiredColumns()}
		}
		return nil, 0, fmt.Errorf("%w: reading csv header: %v", ErrSourceUnavailable, err)
	}

	idx, err := n.resolveHeader(header)
	if err != nil {
		return nil, 0, err
	}
	if len(idx.extra) > 0 {
		logging.Warn().
			Strs("columns", idx.extra).
			Msg("Source has columns outside the configured schema, ignoring them")
	}

	unknownTokens := make(map[string]int)
	row := 0
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("%w: reading csv row %d: %v", ErrSourceUnavailable, row+1, err)
		}
		row++

		record, ok := n.normalizeRow(row, fields, idx, unknownTokens)
		if !ok {
			skipped++
			continue
		}
		records = append(records, record)
	}

	for token, count := range unknownTokens {
		logging.Warn().
			Str("token", token).
			Int("occurrences", count).
			Msg("Unrecognized survey answer treated as missing")
	}
	if skipped > 0 {
		logging.Warn().
			Int("skipped", skipped).
			Int("kept", len(records)).
			Msg("Rows excluded by validation during load")
	}

	return records, skipped, nil
}

// resolveHeader locates every configured column in the header. Cells are
// trimmed and the UTF-8 BOM sheets prepend to the first cell is stripped.
func (n *Normalizer) resolveHeader(header []string) (*columnIndexes, error) {
	position := make(map[string]int, len(header))
	for i, cell := range header {
		name := strings.TrimSpace(cell)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if _, dup := position[name]; !dup {
			position[name] = i
		}
	}

	idx := &columnIndexes{
		date:    -1,
		labels:  make(map[string]int),
		answers: make(map[string]int),
		amounts: make(map[string]int),
	}
	var missing []string

	if i, ok := position[n.dateColumn]; ok {
		idx.date = i
	} else {
		missing = append(missing, n.dateColumn)
	}
	for column, key := range n.labelColumns {
		if i, ok := position[column]; ok {
			idx.labels[key] = i
		} else {
			missing = append(missing, column)
		}
	}
	for column, key := range n.answerColumns {
		if i, ok := position[column]; ok {
			idx.answers[key] = i
		} else {
			missing = append(missing, column)
		}
	}
	for column, key := range n.amountColumns {
		if i, ok := position[column]; ok {
			idx.amounts[key] = i
		} else {
			missing = append(missing, column)
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &SchemaError{Missing: missing}
	}

	known := make(map[int]struct{}, len(position))
	known[idx.date] = struct{}{}
	for _, i := range idx.labels {
		known[i] = struct{}{}
	}
	for _, i := range idx.answers {
		known[i] = struct{}{}
	}
	for _, i := range idx.amounts {
		known[i] = struct{}{}
	}
	for name, i := range position {
		if _, ok := known[i]; !ok && name != "" {
			idx.extra = append(idx.extra, name)
		}
	}
	sort.Strings(idx.extra)

	return idx, nil
}

// normalizeRow converts one data row. Returns ok=false when the row must be
// skipped, which only happens for a missing or unparseable date.
func (n *Normalizer) normalizeRow(row int, fields []string, idx *columnIndexes, unknownTokens map[string]int) (Record, bool) {
	cell := func(i int) string {
		if i < 0 || i >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[i])
	}

	timestamp, ok := n.parseDate(cell(idx.date))
	if !ok {
		logging.Debug().
			Int("row", row).
			Str("value", cell(idx.date)).
			Msg("Skipping row with unparseable date")
		return Record{}, false
	}

	record := Record{
		ID:        fmt.Sprintf("row-%05d", row),
		Row:       row,
		Timestamp: timestamp,
		Labels:    make(map[string]string, len(idx.labels)),
		Answers:   make(map[string]Answer, len(idx.answers)),
		Amounts:   make(map[string]float64, len(idx.amounts)),
	}

	for key, i := range idx.labels {
		record.Labels[key] = cell(i)
	}
	for key, i := range idx.answers {
		raw := cell(i)
		answer, known := ParseAnswer(raw)
		if !known {
			unknownTokens[raw]++
		}
		record.Answers[key] = answer
	}
	for key, i := range idx.amounts {
		record.Amounts[key] = parseAmount(cell(i))
	}

	return record, true
}

// parseDate tries the configured layouts in order.
func (n *Normalizer) parseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range n.dateFormats {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseAmount converts a monetary cell. Anything that is not a plain number
// reads as 0, matching how the sheet's blank and free-text cells behave.
func parseAmount(value string) float64 {
	if value == "" {
		return 0
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return f
}

// requiredColumns lists every configured source column, for the schema
// error raised on an empty payload.
func (n *Normalizer) requiredColumns() []string {
	columns := make([]string, 0, 1+len(n.labelColumns)+len(n.answerColumns)+len(n.amountColumns))
	columns = append(columns, n.dateColumn)
	for column := range n.labelColumns {
		columns = append(columns, column)
	}
	for column := range n.answerColumns {
		columns = append(columns, column)
	}
	for column := range n.amountColumns {
		columns = append(columns, column)
	}
	sort.Strings(columns)
	return columns
}
