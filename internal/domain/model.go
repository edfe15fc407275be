package domain

import (
	"context"
	"time"
)

// Базовые доменные сущности

// Order — сырой уровень стакана в том виде, в котором его отдаёт биржа.
type Order struct {
	Price    string
	Quantity string
}

// OrderBook — сырой стакан. Порядок уровней — как у источника.
type OrderBook struct {
	Symbol    string
	Exchange  string
	Timestamp int64
	Asks      []Order
	Bids      []Order
}

// Level — распарсенный уровень стакана.
type Level struct {
	Price float64 `json:"price"`
	Size  float64 `json:"size"`
}

// DepthSummary — метрики по верху стакана плюс обе стороны для таблицы глубины.
// Bids отсортированы по убыванию цены, Asks — по возрастанию, обе обрезаны до limit.
type DepthSummary struct {
	BestBidPrice float64 `json:"best_bid_price"`
	BestBidSize  float64 `json:"best_bid_size"`
	BestAskPrice float64 `json:"best_ask_price"`
	BestAskSize  float64 `json:"best_ask_size"`
	Spread       float64 `json:"spread"`
	Mid          float64 `json:"mid"`
	RelSpreadBps float64 `json:"rel_spread_bps"`
	Bids         []Level `json:"bids"`
	Asks         []Level `json:"asks"`
}

// HistorySample — одна точка истории по символу. После создания не меняется.
type HistorySample struct {
	Timestamp time.Time `json:"ts"`
	Price     float64   `json:"price"`
	Mid       float64   `json:"mid"`
	Bid       float64   `json:"bid"`
	Ask       float64   `json:"ask"`
}

// Параметры опроса, которые может менять пользователь
type Settings struct {
	Symbols    []string `json:"symbols"`
	DepthLimit int      `json:"depth_limit"`
	HistoryLen int      `json:"history_len"`
}

// Контракт источника рыночных данных
type MarketData interface {
	Name() string
	Endpoint() string
	FetchQuote(ctx context.Context, symbol string) (float64, error)
	FetchDepth(ctx context.Context, symbol string, limit int) (*OrderBook, error)
}
