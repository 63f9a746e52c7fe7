// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package config

// Label keys used in SchemaConfig.LabelColumns and filter requests.
const (
	LabelSite         = "site"          // comuna served by the delivery
	LabelRoute        = "route"         // distribution route
	LabelNode         = "node"          // distribution node
	LabelWeekday      = "weekday"       // scheduled delivery weekday
	LabelDriver       = "driver"        // driver/assistant pair
	LabelDeliveryTime = "delivery_time" // reported delivery duration bucket
	LabelVehicle      = "vehicle"       // vehicle plate
	LabelManager      = "manager"       // site manager (gestora)
)

// Amount keys used in SchemaConfig.AmountColumns.
const (
	AmountTransferCost = "transfer_cost"
	AmountSupportCost  = "support_cost"
)

// Dimension keys for the four service quality dimensions.
const (
	DimAccessibility = "accessibility"
	DimCompliance    = "compliance"
	DimVehicle       = "vehicle"
	DimAttitudes     = "attitudes"
)

// Indicator keys the engine reads directly: the compliance pair feeds the
// cross tabulation, the cost pair flags rows carrying extraordinary costs.
const (
	IndicatorDeliveredOnSchedule = "delivered_on_schedule"
	IndicatorDeliveryVerified    = "delivery_verified"
	IndicatorTransferRequired    = "transfer_required"
	IndicatorCommunitySupport    = "community_support_needed"
)

// defaultSchema returns the column mapping for the VERCOAL survey sheet.
func defaultSchema() SchemaConfig {
	return SchemaConfig{
		DateColumn: "fecha",
		DateFormats: []string{
			"2006-01-02",
			"02/01/2006",
			"2/1/2006",
			"2006-01-02 15:04:05",
			"2006-01-02T15:04:05Z07:00",
		},
		LabelColumns: map[string]string{
			LabelSite:         "comuna",
			LabelRoute:        "ruta",
			LabelNode:         "nodo",
			LabelWeekday:      "dia_entrega",
			LabelDriver:       "conductor_auxiliar",
			LabelDeliveryTime: "tiempo_de_entrega_de_alimentos",
			LabelVehicle:      "placa_vehiculo",
			LabelManager:      "Gestor_principal",
		},
		AmountColumns: map[string]string{
			AmountTransferCost: "valor_trasbordo",
			AmountSupportCost:  "valor_apoyo",
		},
	}
}

// defaultDimensions returns the survey indicator catalog. Weights within a
// dimension are relative; the engine normalizes them over the indicators
// that have answered rows. Inverted indicators are questions where "yes"
// reports a problem, so their score is the no-rate.
func defaultDimensions() []DimensionConfig {
	return []DimensionConfig{
		{
			Key:   DimAccessibility,
			Label: "Accesibilidad",
			Indicators: []IndicatorConfig{
				{Key: "easy_site_access", Column: "comedor_facil_Acceso", Label: "Acceso Fácil al Comedor", Weight: 0.30},
				{Key: "vehicle_reaches_site", Column: "vehiculo_puede_llegar_a_sitio", Label: "Vehículo Llega Directamente", Weight: 0.30},
				{Key: IndicatorTransferRequired, Column: "trasbordo", Label: "Necesidad de Trasbordo", Weight: 0.10, Invert: true},
				{Key: IndicatorCommunitySupport, Column: "ingreso_apoyo_comunidad", Label: "Necesidad de Apoyo Comunitario", Weight: 0.10, Invert: true},
				{Key: "delivery_delays", Column: "demora_entregas", Label: "Demoras en Otras Entregas", Weight: 0.10, Invert: true},
				{Key: "food_safety_compromised", Column: "inocuidad_comprometida", Label: "Inocuidad Comprometida", Weight: 0.10, Invert: true},
			},
		},
		{
			Key:   DimCompliance,
			Label: "Cumplimiento",
			Indicators: []IndicatorConfig{
				{Key: IndicatorDeliveredOnSchedule, Column: "entrega_en_dia_programado", Label: "Entrega en Día Programado", Weight: 0.60},
				{Key: IndicatorDeliveryVerified, Column: "alimentos_debidamente_entregados", Label: "Verificación de Alimentos", Weight: 0.40},
			},
		},
		{
			Key:   DimVehicle,
			Label: "Vehículo",
			Indicators: []IndicatorConfig{
				{Key: "vehicle_clean_good_condition", Column: "vehiculo_limpio_buen_estado", Label: "Vehículo Limpio y en Buen Estado", Weight: 0.30},
				{Key: "food_quality_quantity", Column: "alimentos_de_calidad_cantidad", Label: "Calidad y Cantidad de Alimentos", Weight: 0.40},
				{Key: "containers_per_food_type", Column: "contenedores_para_cada_tipoalimento", Label: "Contenedores Adecuados", Weight: 0.30},
			},
		},
		{
			Key:   DimAttitudes,
			Label: "Actitudes",
			Indicators: []IndicatorConfig{
				{Key: "driver_attitude", Column: "actitud_conductor_respetuosa_colaborativa", Label: "Actitud del Conductor", Weight: 1},
				{Key: "assistant_attitude", Column: "actitud_auxiliar_respetuosa_colaborativa", Label: "Actitud del Auxiliar", Weight: 1},
				{Key: "manager_attitude", Column: "actitud_gestora_respetuosa_colaborativa", Label: "Actitud de la Gestora", Weight: 1},
				{Key: "receiving_willingness", Column: "buena_disposicion_recibir_mercados", Label: "Disposición para Recibir", Weight: 1},
				{Key: "effective_communication", Column: "comunicacion_efectiva", Label: "Comunicación Efectiva", Weight: 1},
				{Key: "issue_resolution", Column: "resolucion_inconvenientes", Label: "Resolución de Inconvenientes", Weight: 1},
			},
		},
	}
}
