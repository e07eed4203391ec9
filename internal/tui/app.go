package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"korean_news_vn/internal/logger"
	"korean_news_vn/internal/metrics"
	"korean_news_vn/internal/models"
	"korean_news_vn/internal/translator"
	"korean_news_vn/internal/view"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Controller is the part of controller.Controller the terminal UI drives.
type Controller interface {
	State() models.ViewState
	Start(ctx context.Context) error
	Refresh(ctx context.Context) error
	SelectSource(ctx context.Context, id string) error
	SetAutoRefresh(enabled bool)
	Subscribe() (<-chan models.ViewState, func())
}

// StateChanged carries a new snapshot from the controller.
type StateChanged struct{ State models.ViewState }

// OpDone reports the end of a refresh or source switch.
type OpDone struct{ Err error }

// Translated carries a live translation for one card.
type Translated struct {
	ID   int
	Text string
}

type keyMap struct {
	Refresh   key.Binding
	Auto      key.Binding
	Next      key.Binding
	Prev      key.Binding
	Up        key.Binding
	Down      key.Binding
	Translate key.Binding
	Quit      key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Auto, k.Prev, k.Next, k.Translate, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Up, k.Down}}
}

var keys = keyMap{
	Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "làm mới")),
	Auto:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", view.AutoRefreshLabel)),
	Next:      key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→", "nguồn sau")),
	Prev:      key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("←", "nguồn trước")),
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "lên")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "xuống")),
	Translate: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "dịch lại")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "thoát")),
}

// App is the root Bubble Tea model. It never mutates ViewState itself: every
// change goes through the controller and comes back as StateChanged.
type App struct {
	ctx        context.Context
	ctrl       Controller
	translator translator.Translator
	metrics    *metrics.Metrics

	updates     <-chan models.ViewState
	unsubscribe func()

	state       models.ViewState
	cursor      int
	translated  map[int]string
	translating map[int]bool
	spinner     spinner.Model
	help        help.Model
	width       int
}

// NewApp subscribes to ctrl. t may be nil, which disables the translate key.
func NewApp(ctx context.Context, ctrl Controller, t translator.Translator, m *metrics.Metrics) App {
	updates, unsubscribe := ctrl.Subscribe()
	return App{
		ctx:         ctx,
		ctrl:        ctrl,
		translator:  t,
		metrics:     m,
		updates:     updates,
		unsubscribe: unsubscribe,
		state:       ctrl.State(),
		translated:  make(map[int]string),
		translating: make(map[int]bool),
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(categoryStyle)),
		help:        help.New(),
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.waitForState(), a.spinner.Tick, a.run(a.ctrl.Start))
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.help.Width = msg.Width
		return a, nil

	case StateChanged:
		a.state = msg.State
		if a.cursor >= len(a.state.Items) {
			a.cursor = max(len(a.state.Items)-1, 0)
		}
		return a, a.waitForState()

	case OpDone:
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
			logger.Log.Warnf("Refresh failed: %v", msg.Err)
		}
		return a, nil

	case Translated:
		delete(a.translating, msg.ID)
		a.translated[msg.ID] = msg.Text
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		a.unsubscribe()
		return a, tea.Quit

	case key.Matches(msg, keys.Refresh):
		if a.state.Loading {
			return a, nil
		}
		return a, a.run(a.ctrl.Refresh)

	case key.Matches(msg, keys.Auto):
		a.ctrl.SetAutoRefresh(!a.state.AutoRefresh)
		return a, nil

	case key.Matches(msg, keys.Next):
		return a, a.selectTab(1)

	case key.Matches(msg, keys.Prev):
		return a, a.selectTab(-1)

	case key.Matches(msg, keys.Down):
		if a.cursor < len(a.state.Items)-1 {
			a.cursor++
		}
		return a, nil

	case key.Matches(msg, keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil

	case key.Matches(msg, keys.Translate):
		if a.translator == nil || a.state.Loading || len(a.state.Items) == 0 {
			return a, nil
		}
		item := a.state.Items[a.cursor]
		if a.translating[item.ID] {
			return a, nil
		}
		a.translating[item.ID] = true
		return a, a.translate(item)
	}

	// Number keys jump straight to a tab.
	if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		tabs := view.Tabs(a.state.Source)
		if i := int(s[0] - '1'); i < len(tabs) {
			return a, a.run(func(ctx context.Context) error { return a.ctrl.SelectSource(ctx, tabs[i].ID) })
		}
	}
	return a, nil
}

// selectTab moves delta tabs from the active one, wrapping around. An
// unknown active source counts as the first tab.
func (a App) selectTab(delta int) tea.Cmd {
	tabs := view.Tabs(a.state.Source)
	cur := 0
	for i, t := range tabs {
		if t.Active {
			cur = i
		}
	}
	next := tabs[(cur+delta+len(tabs))%len(tabs)].ID
	return a.run(func(ctx context.Context) error { return a.ctrl.SelectSource(ctx, next) })
}

func (a App) run(op func(context.Context) error) tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		return OpDone{Err: op(ctx)}
	}
}

func (a App) waitForState() tea.Cmd {
	updates := a.updates
	return func() tea.Msg {
		s, ok := <-updates
		if !ok {
			return nil
		}
		return StateChanged{State: s}
	}
}

func (a App) translate(item models.NewsItem) tea.Cmd {
	ctx, t, m := a.ctx, a.translator, a.metrics
	return func() tea.Msg {
		text := translator.TranslateOrOriginal(ctx, t, m, translator.Request{
			Text:       item.TitleKo,
			SourceLang: "ko",
			TargetLang: "vi",
		})
		return Translated{ID: item.ID, Text: text}
	}
}

func (a App) View() string {
	page := view.BuildWith(a.state, a.translating)
	var b strings.Builder

	b.WriteString(a.renderHeader(page))
	b.WriteString("\n\n")
	b.WriteString(renderTabs(page.Tabs))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(page.LastUpdate + "  •  " + page.CountLabel))
	b.WriteString("\n\n")

	switch {
	case page.Loading:
		for i := 0; i < page.Placeholders; i++ {
			b.WriteString(cardStyle.Render(skeletonStyle.Render(strings.Repeat("░", 24) + "\n" + strings.Repeat("░", 36))))
			b.WriteString("\n")
		}
	case page.Empty:
		b.WriteString(subtitleStyle.Render(page.EmptyText))
		b.WriteString("\n")
	default:
		for i, c := range page.Cards {
			b.WriteString(a.renderCard(c, i == a.cursor))
			b.WriteString("\n")
		}
	}

	b.WriteString(subtitleStyle.Render(page.Footer))
	b.WriteString(helpStyle.Render(a.help.View(keys)))
	return b.String()
}

func (a App) renderHeader(p view.Page) string {
	auto := "☐"
	if p.AutoRefresh {
		auto = "☑"
	}
	refresh := p.RefreshLabel
	if p.Loading {
		refresh = a.spinner.View()
	}
	left := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(p.Title), subtitleStyle.Render(p.Subtitle))
	right := fmt.Sprintf("%s   %s %s", refresh, auto, p.AutoRefreshLabel)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right)
}

func renderTabs(tabs []view.Tab) string {
	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		label := t.Icon + " " + t.Label
		if t.Active {
			parts = append(parts, activeTab.Render(label))
		} else {
			parts = append(parts, inactiveTab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (a App) renderCard(c view.Card, selected bool) string {
	lines := []string{
		categoryStyle.Render(strings.ToUpper(c.Category)),
		titleViStyle.Render(c.TitleVi),
		titleKoStyle.Render(c.TitleKo),
	}
	footer := subtitleStyle.Render(c.Date)
	if c.Translating {
		footer += "  " + categoryStyle.Render(view.TranslatingText)
	} else if live, ok := a.translated[c.ID]; ok {
		lines = append(lines, subtitleStyle.Render("AI: "+live))
	}
	lines = append(lines, footer)

	style := cardStyle
	if selected {
		style = selectedCard
	}
	return style.Render(strings.Join(lines, "\n"))
}
