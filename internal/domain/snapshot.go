package domain

import "time"

// SymbolSnapshot — всё, что рендеру нужно по одному символу за тик.
// При Err != nil остальные поля, кроме Symbol и History, не заполнены.
type SymbolSnapshot struct {
	Symbol  string
	Price   float64
	Depth   *DepthSummary
	Trends  Trends
	History []HistorySample
	Err     error
}

// TickReport — результат одного тика по всем выбранным символам.
type TickReport struct {
	SessionID  string
	At         time.Time
	Endpoint   string
	DepthLimit int
	HistoryLen int
	Symbols    []SymbolSnapshot
	Notice     string
}

// Healthy — хотя бы один символ дал данные, либо символы не выбраны.
func (r TickReport) Healthy() bool {
	if len(r.Symbols) == 0 {
		return true
	}
	for _, s := range r.Symbols {
		if s.Err == nil {
			return true
		}
	}
	return false
}
