package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lobmonitor/internal/domain"
	"lobmonitor/internal/testutils"
	"lobmonitor/internal/usecase"
)

const endpoint = "https://testnet.binance.vision"

func clock() func() time.Time {
	t := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newSession(md domain.MarketData, symbols ...string) *usecase.Session {
	return usecase.NewSession(md, domain.Settings{Symbols: symbols, DepthLimit: 20, HistoryLen: 30},
		zap.NewNop(), usecase.WithClock(clock()), usecase.WithID("test"))
}

func TestTickScenarioBTCUSDT(t *testing.T) {
	md := testutils.NewFakeMarketData(endpoint).On("BTCUSDT",
		testutils.Step{Price: 100.1, Book: testutils.Top("100.0", "100.2")},
		testutils.Step{Price: 101.3, Book: testutils.Top("101.0", "101.4")},
	)
	s := newSession(md, "BTCUSDT")

	rep := s.Tick(context.Background())
	require.Len(t, rep.Symbols, 1)
	snap := rep.Symbols[0]
	require.NoError(t, snap.Err)
	require.NotNil(t, snap.Depth)
	assert.InDelta(t, 100.1, snap.Depth.Mid, 1e-9)
	assert.InDelta(t, 0.2, snap.Depth.Spread, 1e-9)
	assert.InDelta(t, 19.98, snap.Depth.RelSpreadBps, 0.01)
	for _, c := range []domain.Change{snap.Trends.Price, snap.Trends.Mid, snap.Trends.Bid, snap.Trends.Ask} {
		assert.Equal(t, domain.Unknown, c.Direction)
	}
	assert.Equal(t, endpoint, rep.Endpoint)
	assert.Equal(t, "test", rep.SessionID)

	rep = s.Tick(context.Background())
	snap = rep.Symbols[0]
	require.NoError(t, snap.Err)
	assert.InDelta(t, 101.2, snap.Depth.Mid, 1e-9)
	assert.Equal(t, domain.Up, snap.Trends.Mid.Direction)
	assert.Equal(t, domain.Up, snap.Trends.Bid.Direction)
	assert.Equal(t, domain.Up, snap.Trends.Ask.Direction)
	assert.Equal(t, domain.Up, snap.Trends.Price.Direction)
	assert.InDelta(t, 1.1, snap.Trends.Mid.Delta, 1e-9)

	require.Len(t, snap.History, 2)
	assert.True(t, snap.History[0].Timestamp.Before(snap.History[1].Timestamp))
	assert.Equal(t, 101.0, snap.History[1].Bid)
	assert.Equal(t, 101.4, snap.History[1].Ask)
}

func TestTickFailureDoesNotBlockOtherSymbols(t *testing.T) {
	md := testutils.NewFakeMarketData(endpoint).
		On("BTCUSDT", testutils.Step{QuoteErr: errors.New("http 451")}).
		On("ETHUSDT", testutils.Step{Price: 2000, Book: testutils.Top("1999.9", "2000.1")}).
		On("BNBUSDT", testutils.Step{Price: 600, DepthErr: errors.New("connection reset")})
	s := newSession(md, "BTCUSDT", "ETHUSDT", "BNBUSDT")

	rep := s.Tick(context.Background())
	require.Len(t, rep.Symbols, 3)

	var fe *domain.FetchError
	require.ErrorAs(t, rep.Symbols[0].Err, &fe)
	assert.Equal(t, "BTCUSDT", fe.Symbol)
	assert.Equal(t, "ticker", fe.Op)
	assert.Equal(t, endpoint, fe.Endpoint)
	assert.Contains(t, rep.Symbols[0].Err.Error(), "http 451")

	require.NoError(t, rep.Symbols[1].Err)
	assert.InDelta(t, 2000.0, rep.Symbols[1].Depth.Mid, 1e-9)
	assert.Len(t, s.History("ETHUSDT"), 1)

	require.ErrorAs(t, rep.Symbols[2].Err, &fe)
	assert.Equal(t, "depth", fe.Op)
	assert.Empty(t, s.History("BNBUSDT"))

	assert.True(t, rep.Healthy())
}

func TestTickEmptyBookIsDistinct(t *testing.T) {
	md := testutils.NewFakeMarketData(endpoint).On("NEWUSDT",
		testutils.Step{Price: 1, Book: testutils.Book{Bids: [][2]string{{"1", "1"}}}},
	)
	s := newSession(md, "NEWUSDT")

	snap := s.Tick(context.Background()).Symbols[0]
	require.ErrorIs(t, snap.Err, domain.ErrEmptyBook)
	var fe *domain.FetchError
	assert.False(t, errors.As(snap.Err, &fe))

	var eb *domain.EmptyBookError
	require.ErrorAs(t, snap.Err, &eb)
	assert.False(t, eb.NoBids)
	assert.True(t, eb.NoAsks)
	assert.Nil(t, snap.Depth)
	assert.Empty(t, s.History("NEWUSDT"))
}

func TestTickFailedTickKeepsPreviousValues(t *testing.T) {
	md := testutils.NewFakeMarketData(endpoint).On("BTCUSDT",
		testutils.Step{Price: 100, Book: testutils.Top("100", "101")},
		testutils.Step{QuoteErr: errors.New("timeout")},
		testutils.Step{Price: 99, Book: testutils.Top("99", "100")},
	)
	s := newSession(md, "BTCUSDT")

	s.Tick(context.Background())
	failed := s.Tick(context.Background()).Symbols[0]
	require.Error(t, failed.Err)
	assert.Len(t, failed.History, 1)

	snap := s.Tick(context.Background()).Symbols[0]
	require.NoError(t, snap.Err)
	assert.Equal(t, domain.Down, snap.Trends.Price.Direction)
	assert.Equal(t, 100.0, snap.Trends.Price.Previous)
}

func TestTickMalformedDepthIsFetchError(t *testing.T) {
	md := testutils.NewFakeMarketData(endpoint).On("BTCUSDT",
		testutils.Step{Price: 1, Book: testutils.Top("oops", "1")},
	)
	snap := newSession(md, "BTCUSDT").Tick(context.Background()).Symbols[0]

	var fe *domain.FetchError
	require.ErrorAs(t, snap.Err, &fe)
	assert.Equal(t, "depth", fe.Op)
}

func TestTickNoSymbols(t *testing.T) {
	md := testutils.NewFakeMarketData(endpoint)
	rep := newSession(md).Tick(context.Background())
	assert.Empty(t, rep.Symbols)
	assert.NotEmpty(t, rep.Notice)
	assert.Empty(t, md.Calls)
}

func TestTickSequentialOrderAndDepthLimit(t *testing.T) {
	md := testutils.NewFakeMarketData(endpoint).
		On("BTCUSDT", testutils.Step{Price: 1, Book: testutils.Top("1", "2")}).
		On("ETHUSDT", testutils.Step{Price: 1, Book: testutils.Top("1", "2")})
	newSession(md, "BTCUSDT", "ETHUSDT").Tick(context.Background())

	assert.Equal(t, []string{"ticker:BTCUSDT", "depth:BTCUSDT", "ticker:ETHUSDT", "depth:ETHUSDT"}, md.Calls)
	assert.Equal(t, []int{20, 20}, md.Limits)
}

func TestConfigureShrinksHistory(t *testing.T) {
	md := testutils.NewFakeMarketData(endpoint).On("BTCUSDT", testutils.Step{Price: 1, Book: testutils.Top("1", "2")})
	s := usecase.NewSession(md, domain.Settings{Symbols: []string{"BTCUSDT"}, DepthLimit: 5, HistoryLen: 60},
		zap.NewNop(), usecase.WithClock(clock()))
	for i := 0; i < 50; i++ {
		s.Tick(context.Background())
	}
	require.Len(t, s.History("BTCUSDT"), 50)
	last := s.History("BTCUSDT")[49].Timestamp

	require.NoError(t, s.Configure(domain.Settings{Symbols: []string{"btcusdt"}, DepthLimit: 10, HistoryLen: 30}))
	h := s.History("BTCUSDT")
	assert.Len(t, h, 30)
	assert.Equal(t, last, h[29].Timestamp)

	rep := s.Tick(context.Background())
	assert.Len(t, rep.Symbols[0].History, 30)
	assert.Equal(t, 10, rep.DepthLimit)
	assert.Equal(t, []string{"BTCUSDT"}, s.Settings().Symbols)
}

func TestConfigureRejectsInvalid(t *testing.T) {
	s := newSession(testutils.NewFakeMarketData(endpoint), "BTCUSDT")
	require.Error(t, s.Configure(domain.Settings{Symbols: []string{"BTCUSDT"}, DepthLimit: 3, HistoryLen: 30}))
	require.Error(t, s.Configure(domain.Settings{Symbols: []string{"BTCUSDT"}, DepthLimit: 5, HistoryLen: 1000}))
	assert.Equal(t, 20, s.Settings().DepthLimit)
}

func TestTickStopsOnCancelledContext(t *testing.T) {
	md := testutils.NewFakeMarketData(endpoint).On("BTCUSDT", testutils.Step{Price: 1, Book: testutils.Top("1", "2")})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rep := newSession(md, "BTCUSDT").Tick(ctx)
	assert.Empty(t, rep.Symbols)
	assert.Empty(t, md.Calls)
}
