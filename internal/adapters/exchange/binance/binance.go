package binanceadapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"lobmonitor/internal/domain"

	gbinance "github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/shopspring/decimal"
)

const (
	MainURL    = "https://api.binance.com"
	TestnetURL = "https://testnet.binance.vision"
)

// BinanceExchange — только публичные read-only эндпоинты, ключи не нужны.
type BinanceExchange struct {
	client *gbinance.Client
}

// New создаёт клиента к baseURL. timeout <= 0: таймаут http.Client по умолчанию.
func New(baseURL string, timeout time.Duration) *BinanceExchange {
	client := gbinance.NewClient("", "")
	client.BaseURL = baseURL
	client.HTTPClient = &http.Client{Timeout: max(timeout, 0)}
	return &BinanceExchange{client: client}
}

func (b *BinanceExchange) Name() string     { return "Binance" }
func (b *BinanceExchange) Endpoint() string { return b.client.BaseURL }

// Ping — проверка доступности источника перед стартом опроса.
func (b *BinanceExchange) Ping(ctx context.Context) error {
	if err := b.client.NewPingService().Do(ctx); err != nil {
		return fmt.Errorf("binance: ping %s: %w", b.Endpoint(), describe(err))
	}
	return nil
}

// FetchQuote — цена последней сделки.
func (b *BinanceExchange) FetchQuote(ctx context.Context, symbol string) (float64, error) {
	prices, err := b.client.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		return 0, b.fetchErr(symbol, "ticker", describe(err))
	}
	for _, p := range prices {
		if p == nil || (p.Symbol != "" && p.Symbol != symbol) {
			continue
		}
		v, err := decimal.NewFromString(p.Price)
		if err != nil {
			return 0, b.fetchErr(symbol, "ticker", fmt.Errorf("price %q is not numeric: %w", p.Price, err))
		}
		f, _ := v.Float64()
		return f, nil
	}
	return 0, b.fetchErr(symbol, "ticker", errors.New("no price in response"))
}

// FetchDepth — сырой стакан глубиной limit; уровни в порядке ответа биржи.
// limit <= 0: глубина по умолчанию у биржи.
func (b *BinanceExchange) FetchDepth(ctx context.Context, symbol string, limit int) (*domain.OrderBook, error) {
	svc := b.client.NewDepthService().Symbol(symbol)
	if limit > 0 {
		svc = svc.Limit(limit)
	}
	depth, err := svc.Do(ctx)
	if err != nil {
		return nil, b.fetchErr(symbol, "depth", describe(err))
	}

	ob := &domain.OrderBook{
		Symbol:    symbol,
		Exchange:  b.Name(),
		Timestamp: time.Now().UnixMilli(),
	}
	for _, a := range depth.Asks {
		ob.Asks = append(ob.Asks, domain.Order{Price: a.Price, Quantity: a.Quantity})
	}
	for _, d := range depth.Bids {
		ob.Bids = append(ob.Bids, domain.Order{Price: d.Price, Quantity: d.Quantity})
	}
	return ob, nil
}

func (b *BinanceExchange) fetchErr(symbol, op string, err error) error {
	return &domain.FetchError{Symbol: symbol, Op: op, Endpoint: b.Endpoint(), Err: err}
}

// describe — на 451/403 и прочих не-JSON ответах APIError приходит пустым.
func describe(err error) error {
	var apiErr *common.APIError
	if errors.As(err, &apiErr) && apiErr.Code == 0 && apiErr.Message == "" {
		return fmt.Errorf("non-2xx response without API error body (restricted location?): %w", err)
	}
	return err
}
