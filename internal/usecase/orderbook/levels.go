package orderbook

import (
	"fmt"
	"slices"
	"sort"

	"github.com/shopspring/decimal"

	"lobmonitor/internal/domain"
)

// ParseLevels переводит строки биржи в числа. Порядок сохраняется.
// Нечисловая цена или объём — ошибка разбора ответа.
func ParseLevels(orders []domain.Order) ([]domain.Level, error) {
	out := make([]domain.Level, 0, len(orders))
	for i, o := range orders {
		p, err := decimal.NewFromString(o.Price)
		if err != nil {
			return nil, fmt.Errorf("level %d: price %q: %w", i, o.Price, err)
		}
		q, err := decimal.NewFromString(o.Quantity)
		if err != nil {
			return nil, fmt.Errorf("level %d: quantity %q: %w", i, o.Quantity, err)
		}
		pf, _ := p.Float64()
		qf, _ := q.Float64()
		out = append(out, domain.Level{Price: pf, Size: qf})
	}
	return out, nil
}

// SortedBids — копия бидов по убыванию цены, не длиннее limit (limit <= 0 — без обрезки).
func SortedBids(levels []domain.Level, limit int) []domain.Level {
	out := slices.Clone(levels)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	return truncate(out, limit)
}

// SortedAsks — копия асков по возрастанию цены, не длиннее limit.
func SortedAsks(levels []domain.Level, limit int) []domain.Level {
	out := slices.Clone(levels)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return truncate(out, limit)
}

func truncate(xs []domain.Level, limit int) []domain.Level {
	if limit > 0 && len(xs) > limit {
		return xs[:limit]
	}
	return xs
}
