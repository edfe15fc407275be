package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"lobmonitor/internal/domain"
	"lobmonitor/internal/usecase/orderbook"
	"lobmonitor/internal/usecase/trend"
)

const noSymbolsNotice = "select at least one symbol"

// Tick — один проход конвейера по всем выбранным символам, по очереди:
// цена → стакан → метрики → история → тренды.
// Ошибка одного символа попадает в его снапшот и не мешает остальным.
// Повторов внутри тика нет: повтор — это следующий тик.
func (s *Session) Tick(ctx context.Context) domain.TickReport {
	at := s.now()
	rep := domain.TickReport{
		SessionID:  s.id,
		At:         at,
		Endpoint:   s.md.Endpoint(),
		DepthLimit: s.settings.DepthLimit,
		HistoryLen: s.settings.HistoryLen,
	}
	if len(s.settings.Symbols) == 0 {
		rep.Notice = noSymbolsNotice
		return rep
	}

	for _, sym := range s.settings.Symbols {
		if ctx.Err() != nil {
			break
		}
		snap := s.tickSymbol(ctx, sym, at)
		if snap.Err != nil {
			s.logger.Warn("symbol tick failed",
				zap.String("symbol", sym),
				zap.String("endpoint", rep.Endpoint),
				zap.Bool("empty_book", errors.Is(snap.Err, domain.ErrEmptyBook)),
				zap.Error(snap.Err))
		}
		rep.Symbols = append(rep.Symbols, snap)
	}
	return rep
}

func (s *Session) tickSymbol(ctx context.Context, sym string, at time.Time) domain.SymbolSnapshot {
	snap := domain.SymbolSnapshot{Symbol: sym}
	fail := func(err error) domain.SymbolSnapshot {
		snap.Err = err
		snap.History = s.history.Samples(sym)
		return snap
	}

	price, err := s.md.FetchQuote(ctx, sym)
	if err != nil {
		return fail(s.asFetchError(sym, "ticker", err))
	}
	ob, err := s.md.FetchDepth(ctx, sym, s.settings.DepthLimit)
	if err != nil {
		return fail(s.asFetchError(sym, "depth", err))
	}
	sum, ok, err := orderbook.Summarize(ob, s.settings.DepthLimit)
	if err != nil {
		return fail(s.asFetchError(sym, "depth", err))
	}
	if !ok {
		eb := &domain.EmptyBookError{Symbol: sym, Endpoint: s.md.Endpoint(), NoBids: true, NoAsks: true}
		if ob != nil {
			eb.NoBids, eb.NoAsks = len(ob.Bids) == 0, len(ob.Asks) == 0
		}
		return fail(eb)
	}

	s.history.Append(sym, domain.HistorySample{
		Timestamp: at,
		Price:     price,
		Mid:       sum.Mid,
		Bid:       sum.BestBidPrice,
		Ask:       sum.BestAskPrice,
	})
	snap.Trends = s.trends.Observe(sym, trend.Values{
		Price: price,
		Mid:   sum.Mid,
		Bid:   sum.BestBidPrice,
		Ask:   sum.BestAskPrice,
	})
	snap.Price = price
	snap.Depth = &sum
	snap.History = s.history.Samples(sym)
	return snap
}

func (s *Session) asFetchError(sym, op string, err error) error {
	var fe *domain.FetchError
	if errors.As(err, &fe) {
		return err
	}
	return &domain.FetchError{Symbol: sym, Op: op, Endpoint: s.md.Endpoint(), Err: err}
}
