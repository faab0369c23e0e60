package metric

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP метрики - количество запросов
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Общее количество HTTP запросов",
		},
		[]string{"method", "endpoint", "status"},
	)

	// HTTP метрики - время обработки запросов
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Время обработки HTTP запросов в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status"},
	)

	// HTTP метрики - количество ошибок
	httpErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Общее количество HTTP ошибок",
		},
		[]string{"method", "endpoint", "status"},
	)

	// WS метрики - количество активных соединений
	wsActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ws_active_connections",
			Help: "Количество активных WebSocket соединений",
		},
	)

	versusActiveRooms = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "versus_active_rooms",
			Help: "Количество живых комнат викторины",
		},
	)

	versusCommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "versus_commands_total",
			Help: "Количество обработанных команд комнат по типу и результату",
		},
		[]string{"command", "outcome"},
	)

	versusGamesStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "versus_games_started_total",
			Help: "Количество запущенных игр",
		},
	)
)

// RecordHTTPMetrics записывает метрики HTTP запроса
func RecordHTTPMetrics(method, endpoint string, status int, duration time.Duration) {
	strStatus := strconv.Itoa(status)

	httpRequestsTotal.WithLabelValues(method, endpoint, strStatus).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint, strStatus).Observe(duration.Seconds())

	// Записываем ошибки (статус >= 400)
	if status >= 400 {
		httpErrorsTotal.WithLabelValues(method, endpoint, strStatus).Inc()
	}
}

func IncrementWSActiveConnections() {
	wsActiveConnections.Inc()
}

func DecrementWSActiveConnections() {
	wsActiveConnections.Dec()
}

func SetActiveRooms(count int) {
	versusActiveRooms.Set(float64(count))
}

// RecordCommand считает команду комнаты. outcome: ok, rejected, not_found, failed
func RecordCommand(command, outcome string) {
	versusCommandsTotal.WithLabelValues(command, outcome).Inc()
}

func IncrementGamesStarted() {
	versusGamesStarted.Inc()
}
