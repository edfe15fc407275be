package httpapi

import "lobmonitor/internal/domain"

// Виды ошибок по символу
const (
	ErrKindFetch     = "fetch"
	ErrKindEmptyBook = "empty_book"
	ErrKindInternal  = "internal"
)

type SymbolError struct {
	Kind     string `json:"kind"`
	Op       string `json:"op,omitempty"` // ticker | depth
	Endpoint string `json:"endpoint,omitempty"`
	Message  string `json:"message"`
}

type SymbolSnapshot struct {
	Symbol  string                 `json:"symbol"`
	Price   *float64               `json:"price,omitempty"`
	Depth   *domain.DepthSummary   `json:"depth,omitempty"`
	Trends  *domain.Trends         `json:"trends,omitempty"`
	History []domain.HistorySample `json:"history"`
	Error   *SymbolError           `json:"error,omitempty"`
}

type SnapshotResponse struct {
	SessionID  string           `json:"sessionId"`
	At         string           `json:"at"`
	Endpoint   string           `json:"endpoint"`
	DepthLimit int              `json:"depthLimit"`
	HistoryLen int              `json:"historyLen"`
	Notice     string           `json:"notice,omitempty"`
	Symbols    []SymbolSnapshot `json:"symbols"`
}

type SymbolsResponse struct {
	Available []string `json:"available"`
	Selected  []string `json:"selected"`
}

// SettingsRequest — частичное обновление: отсутствующие поля не меняются.
type SettingsRequest struct {
	Symbols    *[]string `json:"symbols"`
	DepthLimit *int      `json:"depth_limit"`
	HistoryLen *int      `json:"history_len"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
