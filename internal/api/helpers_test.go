// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package api

import (
	"context"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/calderonm/vianda/internal/analytics"
	"github.com/calderonm/vianda/internal/auth"
	"github.com/calderonm/vianda/internal/cache"
	"github.com/calderonm/vianda/internal/config"
	"github.com/calderonm/vianda/internal/dataset"
	"github.com/calderonm/vianda/internal/models"
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

// stubSource is a controllable in-memory Source.
type stubSource struct {
	mu      sync.Mutex
	payload []byte
	err     error
}

func (s *stubSource) Fetch(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.payload, nil
}

func (s *stubSource) Describe() string { return "stub" }

func (s *stubSource) set(payload []byte, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payload, s.err = payload, err
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

// testEnv bundles the wired API surface around an in-memory source. The
// hub is nil; WebSocket tests build their own environment.
type testEnv struct {
	cfg     *config.Config
	store   *dataset.Store
	source  *stubSource
	handler *Handler
	router  http.Handler
}

// newTestEnv builds the environment with default configuration and the
// given rows staged in the source. Nothing is loaded yet; call load.
func newTestEnv(t *testing.T, rows ...map[string]string) *testEnv {
	return newTestEnvConfigured(t, nil, rows...)
}

// newTestEnvConfigured is newTestEnv with a configuration hook applied
// before anything is constructed.
func newTestEnvConfigured(t *testing.T, configure func(*config.Config), rows ...map[string]string) *testEnv {
	t.Helper()

	cfg := testConfig(t)
	// Manual-trigger throttling is opted into per test.
	cfg.Refresh.MinTriggerInterval = 0
	if configure != nil {
		configure(cfg)
	}

	src := &stubSource{payload: buildCSV(t, rows...)}
	store := dataset.NewStore(cfg, src)
	handler := NewHandler(cfg, store, analytics.New(cfg), cache.New(cfg.Cache), nil, "test")

	authmw, err := auth.NewMiddleware(cfg.Security)
	if err != nil {
		t.Fatalf("building auth middleware: %v", err)
	}

	return &testEnv{
		cfg:     cfg,
		store:   store,
		source:  src,
		handler: handler,
		router:  NewRouter(handler, authmw).SetupChi(),
	}
}

func (e *testEnv) load(t *testing.T) {
	t.Helper()
	if _, err := e.store.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
}

func (e *testEnv) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) post(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, nil)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) *models.APIResponse {
	t.Helper()
	var resp models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding envelope: %v (body %q)", err, rec.Body.String())
	}
	return &resp
}

// dataAs re-marshals the envelope's data into a typed DTO.
func dataAs(t *testing.T, resp *models.APIResponse, target interface{}) {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("re-marshaling data: %v", err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		t.Fatalf("decoding data: %v", err)
	}
}

// wantEnvelopeError asserts status code, error envelope shape, and code.
func wantEnvelopeError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) *models.APIResponse {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %q)", rec.Code, status, rec.Body.String())
	}
	resp := decodeEnvelope(t, rec)
	if resp.Status != "error" {
		t.Errorf("envelope status = %q, want %q", resp.Status, "error")
	}
	if resp.Error == nil {
		t.Fatal("envelope error is nil")
	}
	if resp.Error.Code != code {
		t.Errorf("error code = %q, want %q", resp.Error.Code, code)
	}
	return resp
}
