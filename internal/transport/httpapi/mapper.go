package httpapi

import (
	"errors"
	"time"

	"lobmonitor/internal/domain"
)

// NewSnapshotResponse маппит отчёт тика в JSON-ответ.
func NewSnapshotResponse(r domain.TickReport) SnapshotResponse {
	out := SnapshotResponse{
		SessionID:  r.SessionID,
		At:         r.At.UTC().Format(time.RFC3339Nano),
		Endpoint:   r.Endpoint,
		DepthLimit: r.DepthLimit,
		HistoryLen: r.HistoryLen,
		Notice:     r.Notice,
		Symbols:    make([]SymbolSnapshot, 0, len(r.Symbols)),
	}
	for _, s := range r.Symbols {
		out.Symbols = append(out.Symbols, symbolSnapshot(s))
	}
	return out
}

func symbolSnapshot(s domain.SymbolSnapshot) SymbolSnapshot {
	out := SymbolSnapshot{Symbol: s.Symbol, History: s.History}
	if out.History == nil {
		out.History = []domain.HistorySample{}
	}
	if s.Err != nil {
		out.Error = symbolError(s.Err)
		return out
	}
	price, trends := s.Price, s.Trends
	out.Price = &price
	out.Trends = &trends
	out.Depth = s.Depth
	return out
}

func symbolError(err error) *SymbolError {
	var eb *domain.EmptyBookError
	if errors.As(err, &eb) {
		return &SymbolError{Kind: ErrKindEmptyBook, Op: "depth", Endpoint: eb.Endpoint, Message: err.Error()}
	}
	var fe *domain.FetchError
	if errors.As(err, &fe) {
		return &SymbolError{Kind: ErrKindFetch, Op: fe.Op, Endpoint: fe.Endpoint, Message: err.Error()}
	}
	return &SymbolError{Kind: ErrKindInternal, Message: err.Error()}
}
