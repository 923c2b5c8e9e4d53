package slot_extender

import (
	"context"
	"time"
)

// SlotGenerator генератор слотов
type SlotGenerator interface {
	Generate(ctx context.Context, resourceID string, date time.Time) (int, error)
}

// Catalog список объектов
type Catalog interface {
	Resources() []string
}

// Calendar календарь, задающий "сегодня"
type Calendar interface {
	Today(t time.Time) time.Time
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

// Config параметры фоновой генерации
type Config struct {
	Interval  time.Duration
	DaysAhead int // сегодня включительно
}

// Extender фоновая задача, заранее создающая слоты на DaysAhead дней вперед
// для всех объектов каталога
type Extender struct {
	generator    SlotGenerator
	catalog      Catalog
	calendar     Calendar
	cfg          Config
	logger       Logger
	timeProvider TimeProvider
}

// New создает фоновую задачу
func New(generator SlotGenerator, catalog Catalog, calendar Calendar, cfg Config, logger Logger) *Extender {
	return &Extender{
		generator:    generator,
		catalog:      catalog,
		calendar:     calendar,
		cfg:          cfg,
		logger:       logger,
		timeProvider: &RealTimeProvider{},
	}
}

// WithTimeProvider устанавливает кастомный TimeProvider (для тестирования)
func (e *Extender) WithTimeProvider(tp TimeProvider) *Extender {
	e.timeProvider = tp
	return e
}

// Run выполняет генерацию сразу и затем каждые Interval, пока ctx не отменен
func (e *Extender) Run(ctx context.Context) {
	e.logger.Info("SlotExtender: started, interval=%s, days_ahead=%d", e.cfg.Interval, e.cfg.DaysAhead)

	ticker := time.NewTicker(e.cfg.Interval)
	defer ticker.Stop()

	for {
		e.Extend(ctx)

		select {
		case <-ctx.Done():
			e.logger.Info("SlotExtender: stopped")
			return
		case <-ticker.C:
		}
	}
}

// Extend один проход генерации, возвращает число созданных слотов
// Ошибка по одной дате логируется и не прерывает проход
func (e *Extender) Extend(ctx context.Context) int {
	today := e.calendar.Today(e.timeProvider.Now())

	var created, failed int
	for _, resourceID := range e.catalog.Resources() {
		for day := 0; day < e.cfg.DaysAhead; day++ {
			if ctx.Err() != nil {
				return created
			}

			date := today.AddDate(0, 0, day)
			n, err := e.generator.Generate(ctx, resourceID, date)
			if err != nil {
				failed++
				e.logger.Warn("SlotExtender: failed to generate slots for %s on %s: %v",
					resourceID, date.Format("2006-01-02"), err)
				continue
			}
			created += n
		}
	}

	if created > 0 || failed > 0 {
		e.logger.Info("SlotExtender: created %d slots, %d dates failed", created, failed)
	}
	return created
}
