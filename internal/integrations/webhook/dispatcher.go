package webhook

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/m04kA/ISB-BookingService/internal/domain"
)

// Исходы доставки для метрик
const (
	outcomeDelivered = "delivered"
	outcomeFailed    = "failed"
	outcomeDropped   = "dropped"
)

// Sender отправляет одно уведомление (реализуется *Client)
type Sender interface {
	Send(ctx context.Context, deliveryID string, payload Payload) error
}

// Metrics получатель метрик доставки
type Metrics interface {
	IncWebhookDelivery(event, outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// DispatcherConfig параметры очереди и повторов
type DispatcherConfig struct {
	Workers      int
	QueueSize    int
	MaxRetries   int           // дополнительные попытки после первой
	RetryBackoff time.Duration // задержка перед первой повторной попыткой, дальше удваивается
	RateLimit    float64       // запросов в секунду на всех воркеров
	RateBurst    int
}

type job struct {
	deliveryID string
	payload    Payload
}

// Dispatcher асинхронно доставляет уведомления о бронированиях
// Notify никогда не блокирует вызывающего: при переполненной очереди уведомление отбрасывается
type Dispatcher struct {
	sender       Sender
	cfg          DispatcherConfig
	limiter      *rate.Limiter
	metrics      Metrics
	logger       Logger
	timeProvider TimeProvider

	queue  chan job
	group  *errgroup.Group
	cancel context.CancelFunc

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher создает диспетчер; воркеры запускаются методом Start
func NewDispatcher(sender Sender, cfg DispatcherConfig, metrics Metrics, logger Logger) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 1
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	return &Dispatcher{
		sender:       sender,
		cfg:          cfg,
		limiter:      rate.NewLimiter(limit, cfg.RateBurst),
		metrics:      metrics,
		logger:       logger,
		timeProvider: &RealTimeProvider{},
		queue:        make(chan job, cfg.QueueSize),
	}
}

// Start запускает воркеров доставки
func (d *Dispatcher) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	group, groupCtx := errgroup.WithContext(runCtx)
	for i := 0; i < d.cfg.Workers; i++ {
		group.Go(func() error {
			for j := range d.queue {
				d.deliver(groupCtx, j)
			}
			return nil
		})
	}
	d.group = group

	d.logger.Info("Webhook dispatcher started: workers=%d, queue=%d, max_retries=%d",
		d.cfg.Workers, d.cfg.QueueSize, d.cfg.MaxRetries)
}

// Notify ставит уведомление о бронировании в очередь
// Снимок полей делается в момент вызова
func (d *Dispatcher) Notify(event string, booking *domain.Booking) {
	j := job{
		deliveryID: uuid.NewString(),
		payload:    NewPayload(event, booking, d.timeProvider.Now()),
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.logger.Warn("Webhook: dispatcher closed, dropping %s for booking id=%d", event, booking.ID)
		d.incDelivery(event, outcomeDropped)
		return
	}

	select {
	case d.queue <- j:
	default:
		d.logger.Warn("Webhook: queue full, dropping %s for booking id=%d", event, booking.ID)
		d.incDelivery(event, outcomeDropped)
	}
}

// Close перестает принимать уведомления и дожидается доставки очереди
// Если ctx истекает раньше, незавершенные доставки прерываются
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrDispatcherClosed
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	if d.group == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- d.group.Wait() }()

	select {
	case err := <-done:
		d.cancel()
		return err
	case <-ctx.Done():
		d.cancel()
		<-done
		return ctx.Err()
	}
}

// deliver отправляет уведомление с ограниченным числом повторов и экспоненциальной задержкой
func (d *Dispatcher) deliver(ctx context.Context, j job) {
	event, bookingID := j.payload.Event, j.payload.BookingID
	backoff := d.cfg.RetryBackoff

	for attempt := 0; attempt <= d.cfg.MaxRetries; attempt++ {
		if err := d.limiter.Wait(ctx); err != nil {
			d.logger.Error("Webhook: %s for booking id=%d abandoned: %v", event, bookingID, err)
			d.incDelivery(event, outcomeFailed)
			return
		}

		err := d.sender.Send(ctx, j.deliveryID, j.payload)
		if err == nil {
			d.logger.Info("Webhook: %s delivered for booking id=%d (delivery=%s, attempt=%d)",
				event, bookingID, j.deliveryID, attempt+1)
			d.incDelivery(event, outcomeDelivered)
			return
		}

		d.logger.Warn("Webhook: %s for booking id=%d failed on attempt %d: %v", event, bookingID, attempt+1, err)

		if attempt == d.cfg.MaxRetries || errors.Is(err, context.Canceled) || ctx.Err() != nil {
			break
		}

		if !sleep(ctx, backoff) {
			break
		}
		backoff *= 2
	}

	d.logger.Error("Webhook: giving up on %s for booking id=%d (delivery=%s)", event, bookingID, j.deliveryID)
	d.incDelivery(event, outcomeFailed)
}

func (d *Dispatcher) incDelivery(event, outcome string) {
	if d.metrics != nil {
		d.metrics.IncWebhookDelivery(event, outcome)
	}
}

// sleep ждет duration или отмены ctx; false - ctx отменен
func sleep(ctx context.Context, duration time.Duration) bool {
	if duration <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// NopNotifier используется, когда вебхук не настроен
type NopNotifier struct{}

// Notify ничего не делает
func (NopNotifier) Notify(string, *domain.Booking) {}
