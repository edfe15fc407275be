package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mum4k/termdash/cell"

	"lobmonitor/internal/domain"
	"lobmonitor/internal/shared/format"
)

// segment — кусок текста одного цвета для text-виджета.
type segment struct {
	text  string
	color cell.Color
}

func plain(s string) segment { return segment{text: s, color: cell.ColorDefault} }

func trendColor(d domain.Direction) cell.Color {
	switch d {
	case domain.Up:
		return cell.ColorGreen
	case domain.Down:
		return cell.ColorRed
	default:
		return cell.ColorDefault
	}
}

// decimalsFor подбирает точность по порядку цены. BTC в центах, мелочь до 8 знаков.
func decimalsFor(v float64) int {
	switch {
	case v >= 1000:
		return 2
	case v >= 1:
		return 4
	default:
		return 8
	}
}

func statusSegments(r domain.TickReport, focus string) []segment {
	out := []segment{
		plain(fmt.Sprintf("endpoint %s | depth %d | history %d | ", r.Endpoint, r.DepthLimit, r.HistoryLen)),
		plain("updated " + r.At.Format("15:04:05")),
	}
	if focus != "" {
		out = append(out, plain(" | chart "+focus))
	}
	out = append(out, plain("\n"))
	if r.Notice != "" {
		out = append(out, segment{text: r.Notice + "\n", color: cell.ColorYellow})
	}
	out = append(out, plain("q quit  [ ] depth  - + history  Tab chart  1-9 symbols"))
	return out
}

func metricSegments(s domain.SymbolSnapshot) []segment {
	out := []segment{plain(s.Symbol + "\n")}
	if s.Err != nil {
		color := cell.ColorRed
		if errors.Is(s.Err, domain.ErrEmptyBook) {
			color = cell.ColorYellow
		}
		return append(out, segment{text: "  " + s.Err.Error() + "\n", color: color})
	}
	if s.Depth == nil {
		return append(out, plain("  waiting for data\n"))
	}
	d := s.Depth
	dec := decimalsFor(s.Price)
	return append(out,
		plain("  Last   "), segment{text: format.Change(s.Price, s.Trends.Price, dec) + "\n", color: trendColor(s.Trends.Price.Direction)},
		plain("  Mid    "), segment{text: format.Change(d.Mid, s.Trends.Mid, dec) + "\n", color: trendColor(s.Trends.Mid.Direction)},
		plain("  Bid    "), segment{text: format.Price(d.BestBidPrice, dec) + " " + format.Arrow(s.Trends.Bid.Direction), color: trendColor(s.Trends.Bid.Direction)},
		plain(" x " + format.Price(d.BestBidSize, 4) + "\n"),
		plain("  Ask    "), segment{text: format.Price(d.BestAskPrice, dec) + " " + format.Arrow(s.Trends.Ask.Direction), color: trendColor(s.Trends.Ask.Direction)},
		plain(" x " + format.Price(d.BestAskSize, 4) + "\n"),
		plain("  Spread " + format.Price(d.Spread, dec) + " (" + format.Bps(d.RelSpreadBps) + ")\n"),
	)
}

// depthText — таблица «биды | аски» построчно, не длиннее limit.
func depthText(s domain.SymbolSnapshot, limit int) string {
	if s.Depth == nil {
		if len(s.History) == 0 {
			return "waiting for data"
		}
		return "no fresh book for " + s.Symbol
	}
	d := s.Depth
	dec := decimalsFor(d.Mid)
	var b strings.Builder
	fmt.Fprintf(&b, "%s top %d levels\n", s.Symbol, limit)
	fmt.Fprintf(&b, "%14s %14s | %-14s %-14s\n", "bid size", "bid", "ask", "ask size")
	rows := max(len(d.Bids), len(d.Asks))
	for i := 0; i < rows && i < limit; i++ {
		var bp, bs, ap, as string
		if i < len(d.Bids) {
			bp, bs = format.Price(d.Bids[i].Price, dec), format.Price(d.Bids[i].Size, 4)
		}
		if i < len(d.Asks) {
			ap, as = format.Price(d.Asks[i].Price, dec), format.Price(d.Asks[i].Size, 4)
		}
		fmt.Fprintf(&b, "%14s %14s | %-14s %-14s\n", bs, bp, ap, as)
	}
	return b.String()
}

// series — значения mid/bid/ask из истории и подписи оси X по времени.
func series(h []domain.HistorySample) (mid, bid, ask []float64, labels map[int]string) {
	mid = make([]float64, len(h))
	bid = make([]float64, len(h))
	ask = make([]float64, len(h))
	labels = make(map[int]string)
	step := max(len(h)/5, 1)
	for i, p := range h {
		mid[i], bid[i], ask[i] = p.Mid, p.Bid, p.Ask
		if i%step == 0 {
			labels[i] = p.Timestamp.Format("15:04:05")
		}
	}
	return mid, bid, ask, labels
}
