// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package dataset

import (
	"encoding/csv"
	"os"
	"strings"
	"testing"

	"github.com/calderonm/vianda/internal/config"
)

// testColumns is the full source header in sheet order: date, the eight
// label columns, the seventeen survey questions, and the two amounts.
var testColumns = []string{
	"fecha",
	"comuna",
	"ruta",
	"nodo",
	"dia_entrega",
	"conductor_auxiliar",
	"tiempo_de_entrega_de_alimentos",
	"placa_vehiculo",
	"Gestor_principal",
	"comedor_facil_Acceso",
	"vehiculo_puede_llegar_a_sitio",
	"trasbordo",
	"ingreso_apoyo_comunidad",
	"demora_entregas",
	"inocuidad_comprometida",
	"entrega_en_dia_programado",
	"alimentos_debidamente_entregados",
	"vehiculo_limpio_buen_estado",
	"alimentos_de_calidad_cantidad",
	"contenedores_para_cada_tipoalimento",
	"actitud_conductor_respetuosa_colaborativa",
	"actitud_auxiliar_respetuosa_colaborativa",
	"actitud_gestora_respetuosa_colaborativa",
	"buena_disposicion_recibir_mercados",
	"comunicacion_efectiva",
	"resolucion_inconvenientes",
	"valor_trasbordo",
	"valor_apoyo",
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	os.Clearenv()
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("loading default config: %v", err)
	}
	return cfg
}

// testRow returns a fully answered row; tests override individual cells.
func testRow(overrides map[string]string) map[string]string {
	row := map[string]string{
		"fecha":                          "2026-03-10",
		"comuna":                         "Comuna 1",
		"ruta":                           "Ruta A",
		"nodo":                           "Nodo 1",
		"dia_entrega":                    "Lunes",
		"conductor_auxiliar":             "Juan Pérez",
		"tiempo_de_entrega_de_alimentos": "Menos de media hora",
		"placa_vehiculo":                 "ABC123",
		"Gestor_principal":               "María Gómez",
		"valor_trasbordo":                "0",
		"valor_apoyo":                    "0",
	}
	for _, col := range testColumns[9:26] {
		row[col] = "SI"
	}
	for col, val := range overrides {
		row[col] = val
	}
	return row
}

// buildCSV renders rows against testColumns, header included.
func buildCSV(t *testing.T, rows ...map[string]string) []byte {
	t.Helper()
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write(testColumns); err != nil {
		t.Fatalf("writing header: %v", err)
	}
	for _, row := range rows {
		record := make([]string, len(testColumns))
		for i, col := range testColumns {
			record[i] = row[col]
		}
		if err := w.Write(record); err != nil {
			t.Fatalf("writing row: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatalf("flushing csv: %v", err)
	}
	return []byte(sb.String())
}
