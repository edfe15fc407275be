package presenter

import (
	"errors"

	"lobmonitor/internal/domain"
)

// Presenter — рендер результатов тика (терминал, веб, health).
// Форматирование чисел — ответственность рендера.
type Presenter interface {
	Render(report domain.TickReport) error
}

// Multi раздаёт отчёт всем рендерам; ошибка одного не мешает остальным.
type Multi []Presenter

func (m Multi) Render(report domain.TickReport) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Render(report); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Func — адаптер обычной функции к Presenter.
type Func func(report domain.TickReport) error

func (f Func) Render(report domain.TickReport) error { return f(report) }
