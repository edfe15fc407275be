package testutils

import (
	"context"
	"fmt"
	"sync"

	"lobmonitor/internal/domain"
)

// Book описывает стакан для фейка, пары {price, size} строками, как у биржи.
type Book struct {
	Bids [][2]string
	Asks [][2]string
}

// Step — ответ источника по символу на одном тике.
type Step struct {
	Price    float64
	Book     Book
	QuoteErr error
	DepthErr error
}

// FakeMarketData отдаёт заранее заданные шаги по символам; последний шаг повторяется.
type FakeMarketData struct {
	URL   string
	Steps map[string][]Step

	mu     sync.Mutex
	pos    map[string]int
	Calls  []string
	Limits []int
}

func NewFakeMarketData(url string) *FakeMarketData {
	return &FakeMarketData{URL: url, Steps: map[string][]Step{}, pos: map[string]int{}}
}

func (f *FakeMarketData) On(symbol string, steps ...Step) *FakeMarketData {
	f.Steps[symbol] = append(f.Steps[symbol], steps...)
	return f
}

func (f *FakeMarketData) Name() string     { return "fake" }
func (f *FakeMarketData) Endpoint() string { return f.URL }

func (f *FakeMarketData) current(symbol string) (Step, error) {
	steps, ok := f.Steps[symbol]
	if !ok || len(steps) == 0 {
		return Step{}, fmt.Errorf("unknown symbol %s", symbol)
	}
	i := min(f.pos[symbol], len(steps)-1)
	return steps[i], nil
}

func (f *FakeMarketData) FetchQuote(_ context.Context, symbol string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "ticker:"+symbol)
	st, err := f.current(symbol)
	if err != nil {
		f.pos[symbol]++
		return 0, err
	}
	if st.QuoteErr != nil {
		f.pos[symbol]++
		return 0, st.QuoteErr
	}
	return st.Price, nil
}

// FetchDepth завершает шаг символа.
func (f *FakeMarketData) FetchDepth(_ context.Context, symbol string, limit int) (*domain.OrderBook, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "depth:"+symbol)
	f.Limits = append(f.Limits, limit)
	st, err := f.current(symbol)
	f.pos[symbol]++
	if err != nil {
		return nil, err
	}
	if st.DepthErr != nil {
		return nil, st.DepthErr
	}
	ob := &domain.OrderBook{Symbol: symbol, Exchange: f.Name()}
	for _, b := range st.Book.Bids {
		ob.Bids = append(ob.Bids, domain.Order{Price: b[0], Quantity: b[1]})
	}
	for _, a := range st.Book.Asks {
		ob.Asks = append(ob.Asks, domain.Order{Price: a[0], Quantity: a[1]})
	}
	return ob, nil
}

// Top — стакан из одного уровня с каждой стороны.
func Top(bid, ask string) Book {
	return Book{Bids: [][2]string{{bid, "1"}}, Asks: [][2]string{{ask, "1"}}}
}
