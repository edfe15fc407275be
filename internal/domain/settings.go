package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Допустимые значения для выбора в UI
var DepthLevels = []int{5, 10, 20, 50, 100}

const (
	HistoryMin  = 30
	HistoryMax  = 600
	HistoryStep = 30
)

// DefaultSymbols — фиксированный список для выбора; допускаются и любые другие строки.
var DefaultSymbols = []string{"BTCUSDT", "ETHUSDT", "BNBUSDT"}

// NormalizeSymbols приводит к верхнему регистру, убирает пустые и дубли, порядок сохраняет.
func NormalizeSymbols(xs []string) []string {
	seen := make(map[string]struct{}, len(xs))
	out := make([]string, 0, len(xs))
	for _, v := range xs {
		v = strings.ToUpper(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Validate проверяет границы, которые задаёт интерфейс настройки.
// Пустой список символов допустим: тик просто ничего не делает.
func (s Settings) Validate() error {
	if !slices.Contains(DepthLevels, s.DepthLimit) {
		return fmt.Errorf("depth_limit %d: must be one of %v", s.DepthLimit, DepthLevels)
	}
	if s.HistoryLen < HistoryMin || s.HistoryLen > HistoryMax {
		return fmt.Errorf("history_len %d: must be within [%d, %d]", s.HistoryLen, HistoryMin, HistoryMax)
	}
	return nil
}

// NextDepth / PrevDepth — соседние значения из DepthLevels (по кругу не ходим).
func NextDepth(cur int) int {
	for _, v := range DepthLevels {
		if v > cur {
			return v
		}
	}
	return DepthLevels[len(DepthLevels)-1]
}

func PrevDepth(cur int) int {
	for i := len(DepthLevels) - 1; i >= 0; i-- {
		if DepthLevels[i] < cur {
			return DepthLevels[i]
		}
	}
	return DepthLevels[0]
}

// ClampHistory держит длину истории в [HistoryMin, HistoryMax].
func ClampHistory(n int) int {
	return min(max(n, HistoryMin), HistoryMax)
}
