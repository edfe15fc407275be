package trend

import "lobmonitor/internal/domain"

// Classify сравнивает текущее значение с прошлым; previous == nil значит, прошлого нет.
func Classify(current float64, previous *float64) domain.Direction {
	switch {
	case previous == nil:
		return domain.Unknown
	case current > *previous:
		return domain.Up
	case current < *previous:
		return domain.Down
	default:
		return domain.Flat
	}
}

func change(current float64, previous *float64) domain.Change {
	c := domain.Change{Direction: Classify(current, previous)}
	if previous != nil {
		c.Previous = *previous
		c.Delta = current - *previous
	}
	return c
}

// Values это значения одного тика по символу.
type Values struct {
	Price float64
	Mid   float64
	Bid   float64
	Ask   float64
}

// LastValues хранит значения прошлого тика, nil если их ещё не было.
type LastValues struct {
	Price *float64
	Mid   *float64
	Bid   *float64
	Ask   *float64
}

// Tracker хранит прошлые значения по символам.
// Не потокобезопасен: принадлежит одной сессии.
type Tracker struct {
	last map[string]*LastValues
}

func NewTracker() *Tracker { return &Tracker{last: make(map[string]*LastValues)} }

// get-or-create
func (t *Tracker) values(symbol string) *LastValues {
	lv, ok := t.last[symbol]
	if !ok {
		lv = &LastValues{}
		t.last[symbol] = lv
	}
	return lv
}

// Observe сначала классифицирует каждое поле против его собственного прошлого
// значения, затем перезаписывает все четыре разом. Порядок важен.
func (t *Tracker) Observe(symbol string, cur Values) domain.Trends {
	lv := t.values(symbol)
	out := domain.Trends{
		Price: change(cur.Price, lv.Price),
		Mid:   change(cur.Mid, lv.Mid),
		Bid:   change(cur.Bid, lv.Bid),
		Ask:   change(cur.Ask, lv.Ask),
	}
	*lv = LastValues{Price: ptr(cur.Price), Mid: ptr(cur.Mid), Bid: ptr(cur.Bid), Ask: ptr(cur.Ask)}
	return out
}

// Last возвращает копию прошлых значений символа.
func (t *Tracker) Last(symbol string) (LastValues, bool) {
	lv, ok := t.last[symbol]
	if !ok {
		return LastValues{}, false
	}
	return *lv, true
}

func ptr(v float64) *float64 { return &v }
