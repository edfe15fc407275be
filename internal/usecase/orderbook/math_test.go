package orderbook

import (
	"math"
	"reflect"
	"testing"

	"lobmonitor/internal/domain"
)

func ob(bids, asks [][2]string) *domain.OrderBook {
	ob := &domain.OrderBook{Symbol: "BTCUSDT"}
	for _, b := range bids {
		ob.Bids = append(ob.Bids, domain.Order{Price: b[0], Quantity: b[1]})
	}
	for _, a := range asks {
		ob.Asks = append(ob.Asks, domain.Order{Price: a[0], Quantity: a[1]})
	}
	return ob
}

func TestDeriveExact(t *testing.T) {
	cases := []struct{ bid, ask float64 }{
		{100.0, 100.2},
		{101.0, 101.4},
		{0.00001234, 0.00001236},
		{64123.45, 64123.46},
	}
	for _, c := range cases {
		s := Derive(domain.Level{Price: c.bid, Size: 1}, domain.Level{Price: c.ask, Size: 2})
		if s.Mid != (c.ask+c.bid)/2 {
			t.Fatalf("mid=%v want=%v", s.Mid, (c.ask+c.bid)/2)
		}
		if s.Spread != c.ask-c.bid {
			t.Fatalf("spread=%v want=%v", s.Spread, c.ask-c.bid)
		}
		want := (c.ask - c.bid) / ((c.ask + c.bid) / 2) * 10_000
		if math.Abs(s.RelSpreadBps-want) > 1e-9 {
			t.Fatalf("bps=%v want=%v", s.RelSpreadBps, want)
		}
		if s.BestBidSize != 1 || s.BestAskSize != 2 {
			t.Fatalf("sizes=%v/%v want=1/2", s.BestBidSize, s.BestAskSize)
		}
	}
}

func TestDeriveZeroMid(t *testing.T) {
	s := Derive(domain.Level{}, domain.Level{})
	if s.RelSpreadBps != 0 {
		t.Fatalf("bps=%v want=0", s.RelSpreadBps)
	}
	if math.IsNaN(s.RelSpreadBps) || math.IsInf(s.RelSpreadBps, 0) {
		t.Fatalf("bps is not finite: %v", s.RelSpreadBps)
	}
}

func TestSummarizeScenario(t *testing.T) {
	s, ok, err := Summarize(ob([][2]string{{"100.0", "1"}}, [][2]string{{"100.2", "1"}}), 20)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if math.Abs(s.Mid-100.1) > 1e-9 {
		t.Fatalf("mid=%v want=100.1", s.Mid)
	}
	if math.Abs(s.Spread-0.2) > 1e-9 {
		t.Fatalf("spread=%v want=0.2", s.Spread)
	}
	if math.Abs(s.RelSpreadBps-19.98) > 0.01 {
		t.Fatalf("bps=%v want≈19.98", s.RelSpreadBps)
	}
}

func TestSummarizeTopOfBookNotResorted(t *testing.T) {
	// источник отдал лучший бид первым, дальше порядок перемешан
	book := ob(
		[][2]string{{"100", "1"}, {"98", "1"}, {"99", "1"}},
		[][2]string{{"101", "1"}, {"103", "1"}, {"102", "1"}},
	)
	s, ok, err := Summarize(book, 2)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if s.BestBidPrice != 100 || s.BestAskPrice != 101 {
		t.Fatalf("top=%v/%v want=100/101", s.BestBidPrice, s.BestAskPrice)
	}
	wantBids := []domain.Level{{Price: 100, Size: 1}, {Price: 99, Size: 1}}
	wantAsks := []domain.Level{{Price: 101, Size: 1}, {Price: 102, Size: 1}}
	if !reflect.DeepEqual(s.Bids, wantBids) {
		t.Fatalf("bids=%v want=%v", s.Bids, wantBids)
	}
	if !reflect.DeepEqual(s.Asks, wantAsks) {
		t.Fatalf("asks=%v want=%v", s.Asks, wantAsks)
	}
}

func TestSummarizeUsesFirstEntriesEvenIfNotBest(t *testing.T) {
	book := ob([][2]string{{"99", "1"}, {"100", "3"}}, [][2]string{{"102", "1"}, {"101", "4"}})
	s, _, _ := Summarize(book, 10)
	if s.BestBidPrice != 99 || s.BestAskPrice != 102 {
		t.Fatalf("top=%v/%v want=99/102", s.BestBidPrice, s.BestAskPrice)
	}
	if s.Bids[0].Price != 100 || s.Asks[0].Price != 101 {
		t.Fatalf("table head=%v/%v want=100/101", s.Bids[0].Price, s.Asks[0].Price)
	}
}

func TestSummarizeEmptySides(t *testing.T) {
	for name, book := range map[string]*domain.OrderBook{
		"nil":    nil,
		"noBids": ob(nil, [][2]string{{"1", "1"}}),
		"noAsks": ob([][2]string{{"1", "1"}}, nil),
		"none":   ob(nil, nil),
	} {
		_, ok, err := Summarize(book, 5)
		if ok || err != nil {
			t.Fatalf("%s: ok=%v err=%v want absent", name, ok, err)
		}
	}
}

func TestSummarizeMalformed(t *testing.T) {
	_, ok, err := Summarize(ob([][2]string{{"abc", "1"}}, [][2]string{{"1", "1"}}), 5)
	if err == nil || ok {
		t.Fatalf("ok=%v err=%v want parse error", ok, err)
	}
}

func TestSummarizeIdempotent(t *testing.T) {
	book := ob([][2]string{{"100", "1"}, {"99.5", "2"}}, [][2]string{{"100.5", "1"}, {"101", "2"}})
	a, _, _ := Summarize(book, 5)
	b, _, _ := Summarize(book, 5)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("summaries differ:\n%v\n%v", a, b)
	}
	if book.Bids[0].Price != "100" || book.Bids[1].Price != "99.5" {
		t.Fatalf("input mutated: %v", book.Bids)
	}
}
