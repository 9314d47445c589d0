// Package tui 是目录的终端浏览界面（moviecat browse），状态变化同样经由 catalog.Reduce。
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/John-Robertt/moviecat/internal/catalog"
)

// LoadFunc 执行一次数据集加载（通常是 load.Execute 的闭包）。
type LoadFunc func(ctx context.Context) catalog.Event

type loadedMsg struct {
	ev catalog.Event
}

// Model 是 bubbletea 模型。
type Model struct {
	ctx      context.Context
	load     LoadFunc
	fallback string

	state  catalog.State
	focus  int
	reject error

	spinner spinner.Model
	help    help.Model
	keys    keyMap
	styles  styles
	width   int
}

// New 构造模型；Init 时发起加载。
func New(ctx context.Context, load LoadFunc, fallbackImage string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		ctx:      ctx,
		load:     load,
		fallback: fallbackImage,
		state:    catalog.NewState(),
		spinner:  sp,
		help:     help.New(),
		keys:     defaultKeys(),
		styles:   defaultStyles(),
		width:    80,
	}
}

// State 返回当前快照。
func (m Model) State() catalog.State { return m.state }

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

func (m Model) loadCmd() tea.Cmd {
	if m.load == nil {
		return nil
	}
	ctx, load := m.ctx, m.load
	return func() tea.Msg {
		if ctx == nil {
			ctx = context.Background()
		}
		return loadedMsg{ev: load(ctx)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.dispatch(msg.ev)
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if m.state.Load != catalog.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	dims := catalog.Dimensions()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Next):
		m.focus = (m.focus + 1) % len(dims)
	case key.Matches(msg, m.keys.Prev):
		m.focus = (m.focus + len(dims) - 1) % len(dims)
	case key.Matches(msg, m.keys.Right):
		m.cycle(dims[m.focus], 1)
	case key.Matches(msg, m.keys.Left):
		m.cycle(dims[m.focus], -1)
	case key.Matches(msg, m.keys.Clear):
		m.dispatch(catalog.FilterChanged{Dim: dims[m.focus], Value: ""})
	}
	return m, nil
}

// cycle 在“未选择”+选项之间循环移动当前维度的选择。
func (m *Model) cycle(d catalog.Dimension, step int) {
	choices := append([]string{""}, m.state.Options.For(d)...)
	cur := 0
	for i, v := range choices {
		if v == m.state.Filters.Get(d) {
			cur = i
			break
		}
	}
	next := (cur + step + len(choices)) % len(choices)
	m.dispatch(catalog.FilterChanged{Dim: d, Value: choices[next]})
}

func (m *Model) dispatch(ev catalog.Event) {
	next, err := catalog.Reduce(m.state, ev)
	m.reject = err
	if err == nil {
		m.state = next
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Movie Catalog"))
	b.WriteString("\n")
	b.WriteString(m.selectsView())
	b.WriteString("\n\n")

	switch m.state.View() {
	case catalog.ViewLoading:
		b.WriteString(m.spinner.View() + " Loading movies...\n")
		b.WriteString(m.placeholdersView())
	case catalog.ViewError:
		b.WriteString(m.styles.Error.Render("Failed to load movies: " + m.state.Err.Error()))
	case catalog.ViewEmpty:
		b.WriteString(m.styles.Empty.Render(catalog.EmptyMessage))
	case catalog.ViewGrid:
		count := fmt.Sprintf("%d of %d movies", len(m.state.Visible), len(m.state.Records))
		if m.state.Filters.Active() {
			count += " (filtered)"
		}
		b.WriteString(m.styles.Muted.Render(count))
		b.WriteString("\n")
		b.WriteString(m.gridView())
	}
	b.WriteString("\n")
	if m.reject != nil {
		b.WriteString(m.styles.Error.Render(m.reject.Error()))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func (m Model) selectsView() string {
	dims := catalog.Dimensions()
	parts := make([]string, 0, len(dims))
	for i, d := range dims {
		text := "Select " + d.Label()
		if v := m.state.Filters.Get(d); v != "" {
			text = d.Label() + ": " + v
		}
		st := m.styles.Select
		if i == m.focus {
			st = m.styles.Focused
		}
		parts = append(parts, st.Render(text))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) perRow() int {
	n := m.width / (cardWidth + 4)
	if n < 1 {
		n = 1
	}
	return n
}

func (m Model) placeholdersView() string {
	boxes := make([]string, catalog.PlaceholderCount)
	for i := range boxes {
		boxes[i] = m.styles.Placeholder.Render(strings.Repeat("░", cardWidth))
	}
	return m.rows(boxes)
}

func (m Model) gridView() string {
	cards := catalog.Cards(m.state.Visible, m.fallback)
	boxes := make([]string, 0, len(cards))
	for _, c := range cards {
		body := strings.Join([]string{
			m.styles.CardTitle.Render(c.Title),
			m.styles.Muted.Render(c.Image),
			m.styles.Label.Render("Languages:") + " " + c.Languages,
			m.styles.Label.Render("Countries:") + " " + c.Countries,
			m.styles.Label.Render("Genres:") + " " + c.Genres,
		}, "\n")
		boxes = append(boxes, m.styles.Card.Render(body))
	}
	return m.rows(boxes)
}

func (m Model) rows(boxes []string) string {
	per := m.perRow()
	rows := make([]string, 0, len(boxes)/per+1)
	for i := 0; i < len(boxes); i += per {
		end := min(i+per, len(boxes))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, boxes[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
