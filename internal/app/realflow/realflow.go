package realflow

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"lobmonitor/internal/domain"
	"lobmonitor/internal/shared/retry"
	"lobmonitor/internal/usecase/presenter"
)

// Session — то, что планировщик дёргает между тиками. *usecase.Session подходит.
type Session interface {
	Tick(ctx context.Context) domain.TickReport
	Configure(next domain.Settings) error
	Settings() domain.Settings
}

// Pinger — проверка доступности источника.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ErrStopped — цикл не запущен или уже остановлен.
var ErrStopped = errors.New("flow is not running")

type call struct {
	fn    func(Session) error
	reply chan error
}

// Flow это внешний по отношению к ядру таймер. Раз в interval вызывает Tick и
// отдаёт отчёт рендерам. Все обращения к сессии идут из одной горутины Run,
// поэтому ядру блокировки не нужны. Если тик дольше interval, пропущенные
// срабатывания time.Ticker схлопываются.
type Flow struct {
	session  Session
	out      presenter.Presenter
	interval time.Duration
	logger   *zap.Logger
	calls    chan call
	done     chan struct{}
}

func New(session Session, out presenter.Presenter, interval time.Duration, logger *zap.Logger) *Flow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Flow{
		session:  session,
		out:      out,
		interval: interval,
		logger:   logger,
		calls:    make(chan call),
		done:     make(chan struct{}),
	}
}

// Run крутит тики до отмены ctx. Первый тик: сразу.
func (f *Flow) Run(ctx context.Context) error {
	defer close(f.done)
	f.logger.Info("flow started", zap.Duration("interval", f.interval))

	f.tick(ctx)
	t := time.NewTicker(f.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			f.logger.Info("flow stopped")
			return nil
		case <-t.C:
			f.tick(ctx)
		case c := <-f.calls:
			c.reply <- c.fn(f.session)
		}
	}
}

func (f *Flow) tick(ctx context.Context) {
	start := time.Now()
	rep := f.session.Tick(ctx)
	if ctx.Err() != nil {
		return
	}
	failed := 0
	for _, s := range rep.Symbols {
		if s.Err != nil {
			failed++
		}
	}
	f.logger.Debug("tick",
		zap.Int("symbols", len(rep.Symbols)),
		zap.Int("failed", failed),
		zap.Duration("took", time.Since(start)))
	if f.out == nil {
		return
	}
	if err := f.out.Render(rep); err != nil {
		f.logger.Warn("render failed", zap.Error(err))
	}
}

// Do выполняет fn над сессией в горутине цикла, между тиками.
func (f *Flow) Do(ctx context.Context, fn func(Session) error) error {
	c := call{fn: fn, reply: make(chan error, 1)}
	select {
	case f.calls <- c:
	case <-f.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-c.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Update применяет fn к текущим настройкам и сохраняет результат за один заход
// в цикл, так что параллельные правки не теряются. Ошибка fn отменяет правку.
func (f *Flow) Update(ctx context.Context, fn func(domain.Settings) (domain.Settings, error)) (domain.Settings, error) {
	var out domain.Settings
	err := f.Do(ctx, func(s Session) error {
		next, err := fn(s.Settings())
		if err != nil {
			return err
		}
		if err := s.Configure(next); err != nil {
			return err
		}
		out = s.Settings()
		return nil
	})
	return out, err
}

// Settings — текущие настройки сессии.
func (f *Flow) Settings(ctx context.Context) (domain.Settings, error) {
	var out domain.Settings
	err := f.Do(ctx, func(s Session) error {
		out = s.Settings()
		return nil
	})
	return out, err
}

// Probe проверяет источник перед стартом с бэкоффом. Ошибка не фатальна:
// дашборд всё равно стартует и показывает ошибки по символам.
func Probe(ctx context.Context, p Pinger, attempts int, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	err := retry.WithRetry(ctx, attempts, 500*time.Millisecond, p.Ping)
	if err != nil {
		logger.Warn("market data source is not reachable yet", zap.Error(err))
		return err
	}
	logger.Info("market data source reachable")
	return nil
}
