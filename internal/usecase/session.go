package usecase

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lobmonitor/internal/domain"
	"lobmonitor/internal/usecase/history"
	"lobmonitor/internal/usecase/trend"
)

// Session — всё состояние одного дашборда: история и прошлые значения по символам.
// Не потокобезопасна: Tick и Configure вызываются из одной горутины планировщика.
type Session struct {
	id       string
	md       domain.MarketData
	settings domain.Settings
	history  *history.Store
	trends   *trend.Tracker
	logger   *zap.Logger
	now      func() time.Time
}

type Option func(*Session)

// WithClock подменяет источник времени (для тестов).
func WithClock(now func() time.Time) Option { return func(s *Session) { s.now = now } }

// WithID задаёт идентификатор сессии вместо случайного.
func WithID(id string) Option { return func(s *Session) { s.id = id } }

func NewSession(md domain.MarketData, settings domain.Settings, logger *zap.Logger, opts ...Option) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	settings.Symbols = domain.NormalizeSymbols(settings.Symbols)
	s := &Session{
		id:       uuid.NewString(),
		md:       md,
		settings: settings,
		history:  history.NewStore(settings.HistoryLen),
		trends:   trend.NewTracker(),
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	s.logger = logger.With(zap.String("session", s.id))
	return s
}

func (s *Session) ID() string       { return s.id }
func (s *Session) Endpoint() string { return s.md.Endpoint() }

// Settings — копия текущих настроек.
func (s *Session) Settings() domain.Settings {
	out := s.settings
	out.Symbols = append([]string(nil), s.settings.Symbols...)
	return out
}

// Configure применяет новые настройки. Смена длины истории применяется к буферам
// лениво; состояние снятых с выбора символов сохраняется.
func (s *Session) Configure(next domain.Settings) error {
	next.Symbols = domain.NormalizeSymbols(next.Symbols)
	if err := next.Validate(); err != nil {
		return err
	}
	s.settings = next
	s.history.SetCapacity(next.HistoryLen)
	s.logger.Info("settings changed",
		zap.Strings("symbols", next.Symbols),
		zap.Int("depth_limit", next.DepthLimit),
		zap.Int("history_len", next.HistoryLen))
	return nil
}

// History — текущая история символа от старых к новым.
func (s *Session) History(symbol string) []domain.HistorySample {
	return s.history.Samples(symbol)
}
