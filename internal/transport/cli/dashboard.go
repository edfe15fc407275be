package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/mum4k/termdash"
	"github.com/mum4k/termdash/cell"
	"github.com/mum4k/termdash/container"
	"github.com/mum4k/termdash/container/grid"
	"github.com/mum4k/termdash/keyboard"
	"github.com/mum4k/termdash/linestyle"
	"github.com/mum4k/termdash/terminal/tcell"
	"github.com/mum4k/termdash/terminal/terminalapi"
	"github.com/mum4k/termdash/widgets/linechart"
	"github.com/mum4k/termdash/widgets/text"
	"go.uber.org/zap"

	"lobmonitor/internal/domain"
)

const redrawInterval = 250 * time.Millisecond

// Controller — правка настроек работающего цикла (realflow.Flow).
type Controller interface {
	Update(ctx context.Context, fn func(domain.Settings) (domain.Settings, error)) (domain.Settings, error)
}

// errUnchanged — клавиша ничего не меняет, правку не применяем.
var errUnchanged = errors.New("settings unchanged")

// Dashboard — терминальный рендер. Render вызывается из цикла тиков,
// клавиатура — из горутины termdash, поэтому состояние под мьютексом.
type Dashboard struct {
	mu      sync.Mutex
	status  *text.Text
	metrics *text.Text
	depth   *text.Text
	chart   *linechart.LineChart

	focus string
	last  domain.TickReport
	// число точек на графике сейчас
	charted int
}

func NewDashboard() (*Dashboard, error) {
	status, err := text.New()
	if err != nil {
		return nil, fmt.Errorf("status widget: %w", err)
	}
	metrics, err := text.New(text.WrapAtWords())
	if err != nil {
		return nil, fmt.Errorf("metrics widget: %w", err)
	}
	depth, err := text.New()
	if err != nil {
		return nil, fmt.Errorf("depth widget: %w", err)
	}
	chart, err := linechart.New(
		linechart.AxesCellOpts(cell.FgColor(cell.ColorWhite)),
		linechart.YLabelCellOpts(cell.FgColor(cell.ColorCyan)),
		linechart.XLabelCellOpts(cell.FgColor(cell.ColorCyan)),
	)
	if err != nil {
		return nil, fmt.Errorf("line chart: %w", err)
	}
	d := &Dashboard{status: status, metrics: metrics, depth: depth, chart: chart}
	if err := d.status.Write("waiting for data"); err != nil {
		return nil, err
	}
	return d, nil
}

// Render — реализация presenter.Presenter.
func (d *Dashboard) Render(r domain.TickReport) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.last = r
	if !slices.ContainsFunc(r.Symbols, func(s domain.SymbolSnapshot) bool { return s.Symbol == d.focus }) {
		d.focus = ""
		if len(r.Symbols) > 0 {
			d.focus = r.Symbols[0].Symbol
		}
	}
	return d.redraw()
}

// FocusNext переключает символ на графике и в таблице глубины.
func (d *Dashboard) FocusNext() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	syms := d.last.Symbols
	if len(syms) == 0 {
		return nil
	}
	i := slices.IndexFunc(syms, func(s domain.SymbolSnapshot) bool { return s.Symbol == d.focus })
	d.focus = syms[(i+1)%len(syms)].Symbol
	return d.redraw()
}

func (d *Dashboard) redraw() error {
	r := d.last

	d.status.Reset()
	if err := writeSegments(d.status, statusSegments(r, d.focus)); err != nil {
		return err
	}

	d.metrics.Reset()
	for _, s := range r.Symbols {
		if err := writeSegments(d.metrics, metricSegments(s)); err != nil {
			return err
		}
	}

	d.depth.Reset()
	var focused domain.SymbolSnapshot
	for _, s := range r.Symbols {
		if s.Symbol == d.focus {
			focused = s
		}
	}
	if d.focus == "" {
		if err := d.drawChart(nil); err != nil {
			return err
		}
		if r.Notice == "" {
			return nil
		}
		return d.depth.Write(r.Notice)
	}
	if err := d.depth.Write(depthText(focused, r.DepthLimit)); err != nil {
		return err
	}

	return d.drawChart(focused.History)
}

// drawChart перерисовывает mid/bid/ask; пустая история очищает график.
func (d *Dashboard) drawChart(h []domain.HistorySample) error {
	mid, bid, ask, labels := series(h)
	if err := d.chart.Series("bid", bid,
		linechart.SeriesCellOpts(cell.FgColor(cell.ColorGreen)), linechart.SeriesXLabels(labels)); err != nil {
		return err
	}
	if err := d.chart.Series("ask", ask,
		linechart.SeriesCellOpts(cell.FgColor(cell.ColorRed)), linechart.SeriesXLabels(labels)); err != nil {
		return err
	}
	if err := d.chart.Series("mid", mid,
		linechart.SeriesCellOpts(cell.FgColor(cell.ColorYellow)), linechart.SeriesXLabels(labels)); err != nil {
		return err
	}
	d.charted = len(mid)
	return nil
}

func writeSegments(t *text.Text, segs []segment) error {
	for _, s := range segs {
		if err := t.Write(s.text, text.WriteCellOpts(cell.FgColor(s.color))); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dashboard) layout() ([]container.Option, error) {
	b := grid.New()
	b.Add(
		grid.RowHeightPerc(12,
			grid.Widget(d.status, container.Border(linestyle.Light), container.BorderTitle(" LOB monitor "))),
		grid.RowHeightPerc(88,
			grid.ColWidthPerc(35,
				grid.Widget(d.metrics, container.Border(linestyle.Light), container.BorderTitle(" Metrics "))),
			grid.ColWidthPerc(65,
				grid.RowHeightPerc(50,
					grid.Widget(d.chart, container.Border(linestyle.Light), container.BorderTitle(" Mid / bid / ask history "))),
				grid.RowHeightPerc(50,
					grid.Widget(d.depth, container.Border(linestyle.Light), container.BorderTitle(" Order book "))),
			),
		),
	)
	return b.Build()
}

// Run держит терминал до отмены ctx или нажатия q/Esc.
// available — список символов, который адресуют клавиши 1..9.
func Run(ctx context.Context, d *Dashboard, ctrl Controller, available []string, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	t, err := tcell.New(tcell.ColorMode(terminalapi.ColorMode256))
	if err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer t.Close()

	opts, err := d.layout()
	if err != nil {
		return fmt.Errorf("build layout: %w", err)
	}
	c, err := container.New(t, opts...)
	if err != nil {
		return fmt.Errorf("root container: %w", err)
	}

	onKey := func(k *terminalapi.Keyboard) {
		handleKey(ctx, cancel, d, ctrl, available, k.Key, logger)
	}
	return termdash.Run(ctx, t, c,
		termdash.RedrawInterval(redrawInterval),
		termdash.KeyboardSubscriber(onKey))
}

func handleKey(ctx context.Context, quit context.CancelFunc, d *Dashboard, ctrl Controller,
	available []string, k keyboard.Key, logger *zap.Logger) {
	cmd := ParseKey(k)
	switch cmd.Action {
	case ActionNone:
		return
	case ActionQuit:
		quit()
		return
	case ActionFocusNext:
		if err := d.FocusNext(); err != nil {
			logger.Warn("redraw failed", zap.Error(err))
		}
		return
	}
	// Update ждёт конца текущего тика, клавиатуру не держим.
	go func() {
		_, err := ctrl.Update(ctx, func(cur domain.Settings) (domain.Settings, error) {
			next, changed := Apply(cur, cmd, available)
			if !changed {
				return cur, errUnchanged
			}
			return next, nil
		})
		if err != nil && !errors.Is(err, errUnchanged) && ctx.Err() == nil {
			logger.Warn("settings update failed", zap.Error(err))
		}
	}()
}
