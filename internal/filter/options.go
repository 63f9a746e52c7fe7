// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package filter

import (
	"github.com/calderonm/vianda/internal/config"
	"github.com/calderonm/vianda/internal/dataset"
)

// WeekdayOrder is the natural order for dia_entrega values.
var WeekdayOrder = []string{
	"Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado", "Domingo",
}

// DeliveryTimeOrder is the ordinal order for the delivery duration buckets.
var DeliveryTimeOrder = []string{
	"Menos de media hora",
	"Entre media y una hora",
	"Más de una hora",
}

// Options returns the selectable values per filterable label, drawn from
// the snapshot. Weekdays and delivery-time buckets come back in natural
// order; everything else stays alphabetical. Labels with no values in the
// snapshot map to empty lists so the dashboard can still render the
// control.
func Options(ds *dataset.Dataset) map[string][]string {
	options := make(map[string][]string, len(FilterableLabels()))
	for _, key := range FilterableLabels() {
		values := ds.LabelValues(key)
		switch key {
		case config.LabelWeekday:
			values = OrderValues(values, WeekdayOrder)
		case config.LabelDeliveryTime:
			values = OrderValues(values, DeliveryTimeOrder)
		}
		if values == nil {
			values = []string{}
		}
		options[key] = values
	}
	return options
}

// OrderValues reorders values to follow the canonical order, keeping only
// values actually present. Values outside the canonical list (typos, new
// buckets) keep their alphabetical order after the known ones, so nothing
// silently disappears from the selectors.
func OrderValues(values []string, canonical []string) []string {
	if len(values) == 0 {
		return values
	}
	present := make(map[string]bool, len(values))
	for _, v := range values {
		present[v] = true
	}

	ordered := make([]string, 0, len(values))
	known := make(map[string]bool, len(canonical))
	for _, c := range canonical {
		known[c] = true
		if present[c] {
			ordered = append(ordered, c)
		}
	}
	for _, v := range values {
		if !known[v] {
			ordered = append(ordered, v)
		}
	}
	return ordered
}
