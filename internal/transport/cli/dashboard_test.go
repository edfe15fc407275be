package cli

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mum4k/termdash/keyboard"
	"go.uber.org/zap"

	"lobmonitor/internal/domain"
)

func TestDashboardClearsChartWhenNoSymbols(t *testing.T) {
	d, err := NewDashboard()
	if err != nil {
		t.Fatal(err)
	}
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	withData := domain.TickReport{
		At:         at,
		DepthLimit: 20,
		Symbols: []domain.SymbolSnapshot{{
			Symbol: "BTCUSDT",
			Price:  100,
			Depth:  &domain.DepthSummary{BestBidPrice: 99, BestAskPrice: 101, Mid: 100},
			History: []domain.HistorySample{
				{Timestamp: at, Mid: 100, Bid: 99, Ask: 101},
				{Timestamp: at.Add(time.Second), Mid: 101, Bid: 100, Ask: 102},
			},
		}},
	}
	if err := d.Render(withData); err != nil {
		t.Fatal(err)
	}
	if d.charted != 2 {
		t.Fatalf("charted = %d, want 2", d.charted)
	}

	empty := domain.TickReport{At: at, DepthLimit: 20, Notice: "select at least one symbol"}
	if err := d.Render(empty); err != nil {
		t.Fatal(err)
	}
	if d.focus != "" || d.charted != 0 {
		t.Fatalf("focus=%q charted=%d, want empty chart", d.focus, d.charted)
	}
}

type lockedController struct {
	mu sync.Mutex
	s  domain.Settings
}

func (c *lockedController) Update(_ context.Context, fn func(domain.Settings) (domain.Settings, error)) (domain.Settings, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, err := fn(c.s)
	if err != nil {
		return domain.Settings{}, err
	}
	c.s = next
	return next, nil
}

func (c *lockedController) get() domain.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s
}

func TestRepeatedKeysAccumulate(t *testing.T) {
	ctrl := &lockedController{s: domain.Settings{Symbols: []string{"BTCUSDT"}, DepthLimit: 20, HistoryLen: 180}}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, k := range "]]++" {
		handleKey(ctx, cancel, nil, ctrl, nil, keyboard.Key(k), zap.NewNop())
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		s := ctrl.get()
		if s.DepthLimit == 100 && s.HistoryLen == 240 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("settings = %+v, want depth 100 and history 240", s)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
