package domain

import "fmt"

// Direction — направление изменения значения относительно прошлого тика.
type Direction int

const (
	Unknown Direction = iota // прошлого значения ещё нет
	Up
	Down
	Flat
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Flat:
		return "flat"
	default:
		return "unknown"
	}
}

func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Direction) UnmarshalText(b []byte) error {
	switch string(b) {
	case "up":
		*d = Up
	case "down":
		*d = Down
	case "flat":
		*d = Flat
	case "unknown":
		*d = Unknown
	default:
		return fmt.Errorf("direction %q: must be up, down, flat or unknown", b)
	}
	return nil
}

// Change — результат сравнения одного поля с его прошлым значением.
// Previous и Delta имеют смысл только при Direction != Unknown.
type Change struct {
	Direction Direction `json:"direction"`
	Previous  float64   `json:"previous,omitempty"`
	Delta     float64   `json:"delta,omitempty"`
}

// Trends — независимые классификации четырёх полей за один тик.
type Trends struct {
	Price Change `json:"price"`
	Mid   Change `json:"mid"`
	Bid   Change `json:"bid"`
	Ask   Change `json:"ask"`
}
