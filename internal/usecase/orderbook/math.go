package orderbook

import (
	"lobmonitor/internal/domain"
)

const bpsFactor = 10_000

// Derive — метрики по верху стакана. Чистая функция.
//
//	spread = ask - bid
//	mid    = (ask + bid) / 2
//	bps    = spread / mid * 10000, 0 при mid == 0
//
// bid <= ask не проверяем: у неперекрещенного стакана это гарантирует биржа.
func Derive(bid, ask domain.Level) domain.DepthSummary {
	spread := ask.Price - bid.Price
	mid := (ask.Price + bid.Price) / 2
	var bps float64
	if mid != 0 {
		bps = spread / mid * bpsFactor
	}
	return domain.DepthSummary{
		BestBidPrice: bid.Price,
		BestBidSize:  bid.Size,
		BestAskPrice: ask.Price,
		BestAskSize:  ask.Size,
		Spread:       spread,
		Mid:          mid,
		RelSpreadBps: bps,
	}
}

// Summarize строит DepthSummary из сырого стакана.
// Верх стакана — ПЕРВЫЙ бид и ПЕРВЫЙ аск ответа, без пересортировки: источник
// отдаёт их уже лучшими. Полные стороны для таблицы сортируются явно и режутся до limit.
// ok == false, если хотя бы одна сторона пустая.
func Summarize(ob *domain.OrderBook, limit int) (sum domain.DepthSummary, ok bool, err error) {
	if ob == nil || len(ob.Bids) == 0 || len(ob.Asks) == 0 {
		return domain.DepthSummary{}, false, nil
	}
	bids, err := ParseLevels(ob.Bids)
	if err != nil {
		return domain.DepthSummary{}, false, err
	}
	asks, err := ParseLevels(ob.Asks)
	if err != nil {
		return domain.DepthSummary{}, false, err
	}

	sum = Derive(bids[0], asks[0])
	sum.Bids = SortedBids(bids, limit)
	sum.Asks = SortedAsks(asks, limit)
	return sum, true, nil
}
