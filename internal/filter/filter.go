// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package filter

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/calderonm/vianda/internal/config"
)

// Caller-input errors for the query surface. The API layer maps them with
// errors.Is: ErrInvalidFilter to 400, ErrUnknownDimension to 404.
var (
	// ErrInvalidFilter marks a filter the caller can correct; the message
	// always names the offending predicate.
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrUnknownDimension marks an analysis dimension or grouping key
	// outside the configured set.
	ErrUnknownDimension = errors.New("unknown dimension")
)

// dateLayouts accepted in start_date/end_date query params.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// Spec is a parsed filter: an optional date range plus multi-select values
// per label key. Distinct keys combine with AND, values within one key with
// OR. The zero Spec is the identity filter.
//
// Specs are part of cache keys, so Parse always produces the canonical
// form: values sorted and deduplicated, empty selections dropped, dates at
// day granularity.
type Spec struct {
	From   *time.Time          `json:"from,omitempty"`
	To     *time.Time          `json:"to,omitempty"`
	Labels map[string][]string `json:"labels,omitempty"`
}

// FilterableLabels returns the label keys the query surface accepts, in
// documentation order. Vehicle and manager are grouping keys only; the
// dashboard never filters on them.
func FilterableLabels() []string {
	return []string{
		config.LabelSite,
		config.LabelRoute,
		config.LabelNode,
		config.LabelWeekday,
		config.LabelDriver,
		config.LabelDeliveryTime,
	}
}

// Parse builds a Spec from query params. Filter params are start_date,
// end_date, and one param per filterable label key with comma-separated
// values; repeated params merge. Params outside the filter vocabulary are
// ignored so operation params (months, group_by) can share the query
// string. maxValues bounds the total selected values per key.
func Parse(values url.Values, maxValues int) (Spec, error) {
	var spec Spec

	from, err := parseDateParam(values, "start_date")
	if err != nil {
		return Spec{}, err
	}
	to, err := parseDateParam(values, "end_date")
	if err != nil {
		return Spec{}, err
	}
	spec.From = from
	spec.To = to

	for _, key := range FilterableLabels() {
		raw, ok := values[key]
		if !ok {
			continue
		}
		selected := splitValues(raw)
		if len(selected) == 0 {
			continue
		}
		if maxValues > 0 && len(selected) > maxValues {
			return Spec{}, fmt.Errorf("%w: %s selects %d values, limit is %d",
				ErrInvalidFilter, key, len(selected), maxValues)
		}
		if spec.Labels == nil {
			spec.Labels = make(map[string][]string)
		}
		spec.Labels[key] = selected
	}

	if err := spec.Validate(); err != nil {
		return Spec{}, err
	}
	return spec, nil
}

// Validate checks the date range. An inverted range is an error rather than
// an empty result, so a dashboard mistake cannot masquerade as "no data".
func (s Spec) Validate() error {
	if s.From != nil && s.To != nil && s.From.After(*s.To) {
		return fmt.Errorf("%w: start_date %s is after end_date %s",
			ErrInvalidFilter, s.From.Format("2006-01-02"), s.To.Format("2006-01-02"))
	}
	return nil
}

// IsEmpty reports whether the spec is the identity filter.
func (s Spec) IsEmpty() bool {
	return s.From == nil && s.To == nil && len(s.Labels) == 0
}

// parseDateParam reads one date param at day granularity.
func parseDateParam(values url.Values, name string) (*time.Time, error) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return &day, nil
	}
	return nil, fmt.Errorf("%w: %s %q is not a date (want 2006-01-02 or RFC3339)",
		ErrInvalidFilter, name, raw)
}

// splitValues flattens repeated params and comma lists into a sorted,
// deduplicated selection.
func splitValues(raw []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, chunk := range raw {
		for _, v := range strings.Split(chunk, ",") {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
