package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APICalls счетчик вызовов HTTP API
	APICalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_calls_total",
			Help: "Вызовы HTTP API калькулятора",
		},
		[]string{"endpoint", "status"},
	)

	// Estimates счетчик расчетов ежемесячного платежа
	Estimates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "estimates_total",
			Help: "Количество расчетов платежа",
		},
		[]string{"source", "status"},
	)

	// DatasetLoads счетчик загрузок таблиц комиссий
	DatasetLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataset_loads_total",
			Help: "Загрузки таблиц комиссий банков",
		},
		[]string{"source", "status"},
	)

	// CheckoutActions счетчик нажатий на кнопку оформления
	CheckoutActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_actions_total",
			Help: "Переходы к оформлению рассрочки",
		},
		[]string{"outcome"},
	)

	// ActiveWidgets число открытых виджетов
	ActiveWidgets = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "widgets_active",
			Help: "Количество открытых виджетов калькулятора",
		},
	)
)
