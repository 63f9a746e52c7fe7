// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package dataset

import (
	"strings"
	"time"
)

// Answer is the tri-state value of one survey question. Missing is the zero
// value so an absent map entry and an empty cell read the same.
//
// Keeping Missing distinct from No matters for scoring: an indicator's rate
// is computed over answered records only, so a site where nobody answered a
// question reports "undefined" instead of a fake 0%.
type Answer int8

const (
	AnswerMissing Answer = iota
	AnswerYes
	AnswerNo
)

// String returns the wire form used in JSON payloads and logs.
func (a Answer) String() string {
	switch a {
	case AnswerYes:
		return "yes"
	case AnswerNo:
		return "no"
	default:
		return "missing"
	}
}

// Answered reports whether the question was actually answered.
func (a Answer) Answered() bool {
	return a != AnswerMissing
}

// ParseAnswer maps a raw survey cell to its tri-state answer. Matching is
// case-insensitive after trimming. The vocabulary mirrors what the field
// forms actually produce: Spanish yes/no, single letters, spreadsheet
// booleans, and numeric 1/0.
//
// Empty cells and the literal NAN parse to Missing with known=true. Any
// other token is Missing with known=false so the loader can log it once.
func ParseAnswer(raw string) (answer Answer, known bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "SI", "SÍ", "S", "TRUE", "VERDADERO", "1":
		return AnswerYes, true
	case "NO", "N", "FALSE", "FALSO", "0":
		return AnswerNo, true
	case "", "NAN", "NA", "N/A":
		return AnswerMissing, true
	default:
		return AnswerMissing, false
	}
}

// Record is one delivery observation from the survey sheet, normalized at
// the load boundary. Downstream code never sees raw source columns: labels,
// answers, and amounts are keyed by the internal schema keys.
type Record struct {
	// ID is derived from the source row number ("row-00042") and is stable
	// across identical loads of the same sheet.
	ID string

	// Row is the 1-based data row in the source, excluding the header.
	Row int

	// Timestamp is the observation date. Always valid: rows whose date
	// cannot be parsed are skipped at load time, not carried with a zero.
	Timestamp time.Time

	// Labels holds categorical fields (site, route, node, weekday, driver,
	// delivery_time, vehicle, manager). Values may be empty.
	Labels map[string]string

	// Answers holds the tri-state survey answers keyed by indicator key.
	Answers map[string]Answer

	// Amounts holds monetary fields (transfer_cost, support_cost) in COP.
	// Unparseable and empty cells are 0.
	Amounts map[string]float64
}

// Label returns the value for a label key, or "" when absent.
func (r *Record) Label(key string) string {
	return r.Labels[key]
}

// Answer returns the tri-state answer for an indicator key. Absent entries
// read as Missing.
func (r *Record) Answer(key string) Answer {
	return r.Answers[key]
}

// Amount returns the monetary value for an amount key, or 0 when absent.
func (r *Record) Amount(key string) float64 {
	return r.Amounts[key]
}
