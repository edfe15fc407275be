package cli

import (
	"slices"

	"github.com/mum4k/termdash/keyboard"

	"lobmonitor/internal/domain"
)

// Action — что делает нажатая клавиша.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionDepthNext
	ActionDepthPrev
	ActionHistoryMore
	ActionHistoryLess
	ActionFocusNext
	ActionToggleSymbol
)

// Command — действие плюс номер символа для ActionToggleSymbol (с нуля).
type Command struct {
	Action Action
	Index  int
}

// ParseKey переводит клавишу в команду:
//
//	q, Esc   выход
//	] / [    следующая / предыдущая глубина
//	+ / -    история ±30 тиков
//	Tab      следующий символ на графике и в таблице
//	1..9     выбрать / снять символ из списка доступных
func ParseKey(k keyboard.Key) Command {
	switch k {
	case 'q', 'Q', keyboard.KeyEsc:
		return Command{Action: ActionQuit}
	case ']':
		return Command{Action: ActionDepthNext}
	case '[':
		return Command{Action: ActionDepthPrev}
	case '+', '=':
		return Command{Action: ActionHistoryMore}
	case '-', '_':
		return Command{Action: ActionHistoryLess}
	case keyboard.KeyTab:
		return Command{Action: ActionFocusNext}
	}
	if k >= '1' && k <= '9' {
		return Command{Action: ActionToggleSymbol, Index: int(k - '1')}
	}
	return Command{}
}

// Apply возвращает новые настройки и признак, что они изменились.
// available — список символов, по которому адресуются цифры.
func Apply(s domain.Settings, cmd Command, available []string) (domain.Settings, bool) {
	next := s
	next.Symbols = slices.Clone(s.Symbols)

	switch cmd.Action {
	case ActionDepthNext:
		next.DepthLimit = domain.NextDepth(s.DepthLimit)
	case ActionDepthPrev:
		next.DepthLimit = domain.PrevDepth(s.DepthLimit)
	case ActionHistoryMore:
		next.HistoryLen = domain.ClampHistory(s.HistoryLen + domain.HistoryStep)
	case ActionHistoryLess:
		next.HistoryLen = domain.ClampHistory(s.HistoryLen - domain.HistoryStep)
	case ActionToggleSymbol:
		if cmd.Index < 0 || cmd.Index >= len(available) {
			return s, false
		}
		sym := available[cmd.Index]
		if i := slices.Index(next.Symbols, sym); i >= 0 {
			next.Symbols = slices.Delete(next.Symbols, i, i+1)
		} else {
			next.Symbols = append(next.Symbols, sym)
		}
		return next, true
	default:
		return s, false
	}
	return next, next.DepthLimit != s.DepthLimit || next.HistoryLen != s.HistoryLen
}
