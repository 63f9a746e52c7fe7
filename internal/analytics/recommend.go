// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package analytics

import (
	"github.com/calderonm/vianda/internal/dataset"
	"github.com/calderonm/vianda/internal/models"
)

// advice is the canned action for one underperforming indicator. Horizons
// follow the field protocol: urgent items always go to short term, promoted
// items go to short term only when the indicator is critical, everything
// else is medium term.
type advice struct {
	text    string
	urgent  bool
	promote bool
}

// adviceByIndicator maps indicator keys to their remediation texts. The
// texts are the program's agreed wording and are served verbatim.
var adviceByIndicator = map[string]advice{
	"easy_site_access": {
		text:    "Realizar un estudio detallado de rutas y accesos para mejorar el acceso a los comedores con dificultades.",
		promote: true,
	},
	"vehicle_reaches_site": {
		text:    "Realizar un estudio detallado de rutas y accesos para mejorar el acceso a los comedores con dificultades.",
		promote: true,
	},
	"transfer_required": {
		text: "Evaluar la posibilidad de utilizar vehículos más pequeños para zonas de difícil acceso.",
	},
	"community_support_needed": {
		text: "Establecer acuerdos formales con líderes comunitarios para facilitar el apoyo en las entregas.",
	},
	"delivery_delays": {
		text:    "Optimizar la programación de rutas considerando los tiempos adicionales para comedores de difícil acceso.",
		promote: true,
	},
	"food_safety_compromised": {
		text:   "Implementar protocolos específicos para preservar la inocuidad de los alimentos en condiciones de trasbordos.",
		urgent: true,
	},
	"delivered_on_schedule": {
		text:    "Establecer un sistema de seguimiento en tiempo real para monitorear el cumplimiento de entregas.",
		promote: true,
	},
	"delivery_verified": {
		text: "Implementar un sistema digital de verificación de alimentos con listas de chequeo electrónicas.",
	},
	"vehicle_clean_good_condition": {
		text:    "Establecer un protocolo de verificación de limpieza y estado del vehículo antes de cada jornada.",
		promote: true,
	},
	"food_quality_quantity": {
		text:   "Reforzar los controles de calidad de alimentos antes de su carga en los vehículos.",
		urgent: true,
	},
	"containers_per_food_type": {
		text: "Estandarizar el uso de contenedores específicos para cada tipo de alimento con etiquetado claro.",
	},
	"driver_attitude": {
		text: "Implementar talleres de sensibilización y capacitación en servicio al cliente y trabajo en equipo.",
	},
	"assistant_attitude": {
		text: "Implementar talleres de sensibilización y capacitación en servicio al cliente y trabajo en equipo.",
	},
	"manager_attitude": {
		text: "Implementar talleres de sensibilización y capacitación en servicio al cliente y trabajo en equipo.",
	},
	"receiving_willingness": {
		text: "Desarrollar protocolos claros para el proceso de recepción y establecer tiempos estimados para cada etapa.",
	},
	"effective_communication": {
		text: "Establecer canales de comunicación efectivos y un glosario común para todos los actores involucrados.",
	},
	"issue_resolution": {
		text: "Implementar un sistema de registro y seguimiento de incidencias para asegurar su resolución.",
	},
}

// longTermProgram is always recommended regardless of current scores.
var longTermProgram = []string{
	"Implementar un sistema integral de monitoreo y evaluación continua del proceso de entrega.",
	"Establecer un programa de capacitación permanente para todo el personal involucrado en el proceso.",
	"Desarrollar un plan de mejora continua con revisiones trimestrales de los indicadores clave.",
}

// Recommendations derives suggested actions from the current problem
// report. Critical items are processed before alerts so shared texts keep
// their most urgent placement; duplicates are dropped preserving first
// occurrence.
func (e *Engine) Recommendations(v dataset.View) *models.Recommendations {
	report := e.Problems(v)

	out := &models.Recommendations{
		ShortTerm:  []string{},
		MediumTerm: []string{},
		LongTerm:   append([]string{}, longTermProgram...),
	}
	seenShort := make(map[string]bool)
	seenMedium := make(map[string]bool)

	add := func(p models.Problem, critical bool) {
		a, ok := adviceByIndicator[p.Indicator]
		if !ok {
			return
		}
		if a.urgent || (a.promote && critical) {
			if !seenShort[a.text] {
				seenShort[a.text] = true
				out.ShortTerm = append(out.ShortTerm, a.text)
			}
			return
		}
		if !seenMedium[a.text] {
			seenMedium[a.text] = true
			out.MediumTerm = append(out.MediumTerm, a.text)
		}
	}

	for _, p := range report.Critical {
		add(p, true)
	}
	for _, p := range report.Alerts {
		add(p, false)
	}

	return out
}
