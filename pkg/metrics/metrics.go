package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор Prometheus метрик сервиса
// Все методы безопасны для nil-получателя: при выключенных метриках сервис передает nil
type Metrics struct {
	serviceName string

	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// База данных
	DBQueryDuration     *prometheus.HistogramVec
	DBQueryErrors       *prometheus.CounterVec
	DBOpenConnections   *prometheus.GaugeVec
	DBInUseConnections  *prometheus.GaugeVec
	DBIdleConnections   *prometheus.GaugeVec
	DBWaitCount         *prometheus.GaugeVec

	// Домен
	SlotsGenerated    *prometheus.CounterVec
	SlotClaims        *prometheus.CounterVec
	SlotRepairs       *prometheus.CounterVec
	WebhookDeliveries *prometheus.CounterVec
}

// New создает метрики и регистрирует их в глобальном реестре Prometheus
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry создает метрики в указанном реестре (используется в тестах)
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		serviceName: serviceName,

		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "path", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"service", "operation"}),

		DBQueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of failed database queries",
		}, []string{"service", "operation"}),

		DBOpenConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_open_connections",
			Help: "Number of established connections to the database",
		}, []string{"service"}),

		DBInUseConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_in_use_connections",
			Help: "Number of connections currently in use",
		}, []string{"service"}),

		DBIdleConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_idle_connections",
			Help: "Number of idle connections",
		}, []string{"service"}),

		DBWaitCount: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_wait_count",
			Help: "Total number of connections waited for",
		}, []string{"service"}),

		SlotsGenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "slots_generated_total",
			Help: "Number of slot rows created by the generator",
		}, []string{"service", "resource"}),

		SlotClaims: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "slot_claims_total",
			Help: "Slot claim attempts by outcome",
		}, []string{"service", "outcome"}),

		SlotRepairs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "slot_repairs_total",
			Help: "Slot rows repaired by forced releases and the reconciler",
		}, []string{"service", "kind"}),

		WebhookDeliveries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "webhook_deliveries_total",
			Help: "Webhook deliveries by event and outcome",
		}, []string{"service", "event", "outcome"}),
	}
}

// ObserveHTTPRequest фиксирует завершенный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(m.serviceName, method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.serviceName, method, path).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует выполненный SQL запрос
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(m.serviceName, operation).Observe(duration.Seconds())
	if err != nil {
		m.DBQueryErrors.WithLabelValues(m.serviceName, operation).Inc()
	}
}

// SetDBPoolStats обновляет метрики пула соединений
func (m *Metrics) SetDBPoolStats(open, inUse, idle int, waitCount int64) {
	if m == nil {
		return
	}
	m.DBOpenConnections.WithLabelValues(m.serviceName).Set(float64(open))
	m.DBInUseConnections.WithLabelValues(m.serviceName).Set(float64(inUse))
	m.DBIdleConnections.WithLabelValues(m.serviceName).Set(float64(idle))
	m.DBWaitCount.WithLabelValues(m.serviceName).Set(float64(waitCount))
}

// AddSlotsGenerated увеличивает счетчик созданных слотов
func (m *Metrics) AddSlotsGenerated(resourceID string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.SlotsGenerated.WithLabelValues(m.serviceName, resourceID).Add(float64(n))
}

// IncSlotClaim фиксирует исход попытки захвата слота (claimed, unavailable, error)
func (m *Metrics) IncSlotClaim(outcome string) {
	if m == nil {
		return
	}
	m.SlotClaims.WithLabelValues(m.serviceName, outcome).Inc()
}

// AddSlotRepairs увеличивает счетчик исправленных строк (forced_release, reconcile_cleared, reconcile_assigned)
func (m *Metrics) AddSlotRepairs(kind string, n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.SlotRepairs.WithLabelValues(m.serviceName, kind).Add(float64(n))
}

// IncWebhookDelivery фиксирует исход доставки вебхука (delivered, failed, dropped)
func (m *Metrics) IncWebhookDelivery(event, outcome string) {
	if m == nil {
		return
	}
	m.WebhookDeliveries.WithLabelValues(m.serviceName, event, outcome).Inc()
}
