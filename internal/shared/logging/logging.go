package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options — уровень, окружение и куда писать.
type Options struct {
	Level string // debug | info | warn | error
	Env   string // local: консольный вывод, иначе JSON
	File  string // пусто: stderr
}

// New собирает zap-логгер. Терминальному дашборду нужен File: stderr занят экраном.
func New(o Options) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if o.Level != "" {
		if err := lvl.UnmarshalText([]byte(o.Level)); err != nil {
			return nil, fmt.Errorf("log level %q: %w", o.Level, err)
		}
	}

	cfg := zap.NewProductionConfig()
	if o.Env == "local" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	if o.File != "" {
		cfg.OutputPaths = []string{o.File}
		cfg.ErrorOutputPaths = []string{o.File}
	}
	return cfg.Build()
}
