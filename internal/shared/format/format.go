package format

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"lobmonitor/internal/domain"
)

var printer = message.NewPrinter(language.English)

// Price форматирует как "64,123.45", с разделителем тысяч и decimals знаков после точки.
func Price(v float64, decimals int) string {
	return printer.Sprintf("%.*f", decimals, v)
}

// Delta — знаковое изменение "+0.20" / "-1.10".
func Delta(v float64, decimals int) string {
	return printer.Sprintf("%+.*f", decimals, v)
}

// Bps — относительный спред "19.98 bps".
func Bps(v float64) string {
	return printer.Sprintf("%.1f bps", v)
}

// Arrow — стрелка направления; пусто, пока прошлого значения нет.
func Arrow(d domain.Direction) string {
	switch d {
	case domain.Up:
		return "▲"
	case domain.Down:
		return "▼"
	case domain.Flat:
		return "→"
	default:
		return ""
	}
}

// Change — "101.20 ▲ (+1.10)" либо просто цена на первом тике.
func Change(v float64, c domain.Change, decimals int) string {
	s := Price(v, decimals)
	if c.Direction == domain.Unknown {
		return s
	}
	return s + " " + Arrow(c.Direction) + " (" + Delta(c.Delta, decimals) + ")"
}
