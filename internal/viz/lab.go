package viz

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/acidbase/internal/chem"
	"github.com/san-kum/acidbase/internal/instruments"
	"github.com/san-kum/acidbase/internal/journal"
	"github.com/san-kum/acidbase/internal/solution"
)

const (
	sliderWidth     = 32
	barWidth        = 40
	historyCapacity = 120
	// fineStep and coarseStep are the log10 increments applied by h/l and H/L.
	fineStep   = 0.1
	coarseStep = 1.0
)

// Recorder stores readings taken from the bench.
type Recorder interface {
	Record(ctx context.Context, r journal.Reading) (int64, error)
}

type concMsg chem.Concentrations

type recordedMsg struct {
	id  int64
	err error
}

// Lab is the bench for one solution.
type Lab struct {
	sol         *solution.Solution
	species     chem.SpeciesTable
	theme       Theme
	changes     chan chem.Concentrations
	done        chan struct{}
	closeOnce   *sync.Once
	unsubscribe func()
	params      []string
	selected    int
	conc        chem.Concentrations
	err         error
	phHistory   []float64
	recorder    Recorder
	status      string
	meter       *instruments.PHMeter
	paper       *instruments.PHPaper
	bulb        *instruments.Conductivity
	magnifier   *instruments.Magnifier
}

// NewLab builds a bench for sol. recorder may be nil.
func NewLab(sol *solution.Solution, species chem.SpeciesTable, theme Theme, recorder Recorder) Lab {
	params := make([]string, 0, 2)
	for name := range sol.GetParams() {
		params = append(params, name)
	}
	sort.Strings(params)

	changes := make(chan chem.Concentrations, 1)
	unsubscribe := sol.Subscribe(func(c chem.Concentrations) {
		select {
		case changes <- c:
		default:
			select {
			case <-changes:
			default:
			}
			changes <- c
		}
	})

	l := Lab{
		sol:         sol,
		species:     species,
		theme:       theme,
		changes:     changes,
		done:        make(chan struct{}),
		closeOnce:   &sync.Once{},
		unsubscribe: unsubscribe,
		params:      params,
		recorder:    recorder,
		phHistory:   make([]float64, 0, historyCapacity),
		meter:       instruments.NewPHMeter(),
		paper:       instruments.NewPHPaper(),
		bulb:        instruments.NewConductivity(),
		magnifier:   instruments.NewMagnifier(),
	}
	c, err := sol.Concentrations()
	l.apply(c, err)
	return l
}

func (l Lab) Init() tea.Cmd {
	return l.waitForChange()
}

// waitForChange blocks until the solution changes or the lab is closed.
func (l Lab) waitForChange() tea.Cmd {
	ch, done := l.changes, l.done
	return func() tea.Msg {
		select {
		case c := <-ch:
			return concMsg(c)
		case <-done:
			return nil
		}
	}
}

// Close stops listening to the solution and releases a pending
// waitForChange. It is safe to call more than once.
func (l Lab) Close() {
	if l.closeOnce == nil {
		return
	}
	l.closeOnce.Do(func() {
		l.unsubscribe()
		close(l.done)
	})
}

func (l *Lab) apply(c chem.Concentrations, err error) {
	l.err = err
	if err != nil {
		return
	}
	l.conc = c
	for _, in := range []instruments.Instrument{l.meter, l.paper, l.bulb, l.magnifier} {
		in.Reset()
		in.Observe(c)
	}
	l.phHistory = append(l.phHistory, l.meter.Value())
	if len(l.phHistory) > historyCapacity {
		l.phHistory = l.phHistory[1:]
	}
}

func (l Lab) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case concMsg:
		l.apply(chem.Concentrations(msg), nil)
		return l, l.waitForChange()
	case recordedMsg:
		if msg.err != nil {
			l.status = ErrorText.Render("record failed: " + msg.err.Error())
		} else {
			l.status = fmt.Sprintf("recorded reading #%d", msg.id)
		}
		return l, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			l.Close()
			return l, tea.Quit
		case "up", "k":
			if l.selected > 0 {
				l.selected--
			}
		case "down", "j":
			if l.selected < len(l.params)-1 {
				l.selected++
			}
		case "left", "h":
			l.adjust(-fineStep)
		case "right", "l":
			l.adjust(fineStep)
		case "H":
			l.adjust(-coarseStep)
		case "L":
			l.adjust(coarseStep)
		case "r":
			return l, l.record()
		}
	}
	return l, nil
}

// adjust moves the selected input by decades on a log scale.
func (l *Lab) adjust(decades float64) {
	if len(l.params) == 0 {
		return
	}
	name := l.params[l.selected]
	v := l.sol.GetParams()[name] * math.Pow(10, decades)
	if err := l.sol.SetParam(name, v); err != nil {
		l.err = err
	}
}

func (l Lab) record() tea.Cmd {
	if l.recorder == nil {
		return func() tea.Msg { return recordedMsg{err: fmt.Errorf("no journal attached")} }
	}
	r, err := journal.Take(l.sol, time.Now())
	if err != nil {
		return func() tea.Msg { return recordedMsg{err: err} }
	}
	rec := l.recorder
	return func() tea.Msg {
		id, err := rec.Record(context.Background(), r)
		return recordedMsg{id: id, err: err}
	}
}

func (l Lab) paramRange(name string) chem.Range {
	if name == "strength" {
		return chem.WeakStrengthRange
	}
	return chem.ConcentrationRange
}

func logPosition(v float64, r chem.Range) float64 {
	lo, hi := math.Log10(r.Min), math.Log10(r.Max)
	return (math.Log10(v) - lo) / (hi - lo)
}

func (t Theme) speciesColor(kind chem.Kind, s chem.Species) lipgloss.Color {
	switch s {
	case chem.H3O:
		return t.H3O
	case chem.OH:
		return t.OH
	case chem.H2O:
		return t.Water
	}
	if kind.IsBase() {
		return t.Base
	}
	return t.Acid
}

func (l Lab) View() string {
	var b strings.Builder
	kind := l.sol.Kind()

	title := lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	b.WriteString("\n  " + title.Render(strings.ToUpper(strings.ReplaceAll(kind.String(), "_", " "))) + "\n")
	b.WriteString("  " + Separator(52) + "\n\n")

	values := l.sol.GetParams()
	for i, name := range l.params {
		v := values[name]
		label := MetricLabel.Render(name)
		if i == l.selected {
			label = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff")).Bold(true).Width(14).Render("▸ " + name)
		}
		b.WriteString(fmt.Sprintf("  %s %s %s\n", label, Slider(logPosition(v, l.paramRange(name)), sliderWidth, i == l.selected), MetricValue.Render(fmt.Sprintf("%.2e", v))))
	}
	if len(l.params) == 0 {
		b.WriteString("  " + Subtle.Render("pure water has no adjustable inputs") + "\n")
	}
	b.WriteString("\n")

	if l.err != nil {
		b.WriteString("  " + ErrorText.Render(l.err.Error()) + "\n\n")
	}

	graph := l.viewGraph(kind)
	tools := l.viewTools()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, Panel.Render(graph), "  ", Panel.Render(tools)))
	b.WriteString("\n\n")

	b.WriteString("  " + MetricLabel.Render("pH history") + " " + SparklineChart(l.phHistory, 40) + "\n")
	if l.status != "" {
		b.WriteString("  " + l.status + "\n")
	}

	hint := func(k, d string) string { return KeyHint.Render(k) + Subtle.Render(" "+d+"  ") }
	b.WriteString("\n  " + hint("j/k", "select") + hint("h/l", "adjust") + hint("H/L", "x10") + hint("r", "record") + hint("esc", "back") + hint("q", "quit") + "\n")
	return b.String()
}

func (l Lab) viewGraph(kind chem.Kind) string {
	var b strings.Builder
	b.WriteString(MetricLabel.Render("concentration") + Subtle.Render(" mol/L, log scale") + "\n")
	for _, bar := range instruments.Graph(l.conc) {
		n := int(bar.Height * barWidth)
		fill := lipgloss.NewStyle().Foreground(l.theme.speciesColor(kind, bar.Species)).Render(strings.Repeat("█", n))
		rest := lipgloss.NewStyle().Foreground(l.theme.Muted).Render(strings.Repeat("·", barWidth-n))
		val := fmt.Sprintf("%.2e", bar.Concentration)
		if bar.OffScale {
			val += "*"
		}
		b.WriteString(fmt.Sprintf("%-5s %s%s %s\n", l.species.Symbol(bar.Species), fill, rest, val))
	}
	return b.String()
}

func (l Lab) viewTools() string {
	var b strings.Builder
	b.WriteString(MetricLabel.Render("pH meter") + MetricValue.Render(l.meter.Display()) + "\n")
	b.WriteString(MetricLabel.Render("pH paper") + Swatch(l.paper.Color(), 6) + "\n")
	b.WriteString(MetricLabel.Render("conductivity") + Bulb(l.bulb.Value()) + " " + ProgressBar(l.bulb.Value(), 12) + "\n")
	b.WriteString(MetricLabel.Render("magnifier") + "\n")

	counts := l.magnifier.Counts()
	for _, s := range l.conc.Species() {
		if s == chem.H2O {
			continue
		}
		b.WriteString(fmt.Sprintf("  %-5s %4d\n", l.species.Symbol(s), counts[s]))
	}
	return b.String()
}
