package tui

import (
	"context"
	"testing"
	"time"

	"korean_news_vn/internal/controller"
	"korean_news_vn/internal/models"
	"korean_news_vn/internal/translator"
	"korean_news_vn/internal/view"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

type stubTranslator struct{}

func (stubTranslator) Provider() string { return "stub" }

func (stubTranslator) Translate(ctx context.Context, req translator.Request) (string, error) {
	return "bản dịch " + req.Text, nil
}

func newApp(t *testing.T) (App, *controller.Controller) {
	t.Helper()
	ctrl := controller.New(controller.Options{Delay: time.Millisecond, Interval: time.Hour})
	t.Cleanup(ctrl.Close)
	return NewApp(context.Background(), ctrl, stubTranslator{}, nil), ctrl
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// loaded feeds the controller's current state into the app, as the
// subscription would.
func loaded(a App, ctrl *controller.Controller) App {
	m, _ := a.Update(StateChanged{State: ctrl.State()})
	return m.(App)
}

func TestAppInit(t *testing.T) {
	app, _ := newApp(t)
	require.NotNil(t, app.Init())
}

func TestApp_RefreshKey(t *testing.T) {
	app, ctrl := newApp(t)

	_, cmd := app.Update(runes("r"))
	require.NotNil(t, cmd)
	require.Equal(t, OpDone{}, cmd())

	app = loaded(app, ctrl)
	require.Len(t, app.state.Items, 9)
	require.Contains(t, app.View(), "9 tin tức")
}

func TestApp_RefreshIgnoredWhileLoading(t *testing.T) {
	app, _ := newApp(t)
	m, _ := app.Update(StateChanged{State: models.ViewState{Source: models.AllSources, Loading: true}})

	_, cmd := m.(App).Update(runes("r"))
	require.Nil(t, cmd)
	require.Contains(t, m.(App).View(), "░")
}

func TestApp_TabNavigation(t *testing.T) {
	app, ctrl := newApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRight})
	require.NotNil(t, cmd)
	cmd()
	require.Equal(t, "yonhap", ctrl.State().Source)

	app = loaded(app, ctrl)
	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyLeft})
	cmd()
	require.Equal(t, models.AllSources, ctrl.State().Source)

	app = loaded(app, ctrl)
	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyLeft})
	cmd()
	require.Equal(t, "koreaherald", ctrl.State().Source, "left from the first tab wraps around")

	_, cmd = app.Update(runes("3"))
	cmd()
	require.Equal(t, "kbs", ctrl.State().Source)
}

func TestApp_AutoToggle(t *testing.T) {
	app, ctrl := newApp(t)

	app.Update(runes("a"))
	require.True(t, ctrl.State().AutoRefresh)

	app = loaded(app, ctrl)
	app.Update(runes("a"))
	require.False(t, ctrl.State().AutoRefresh)
}

func TestApp_EmptyState(t *testing.T) {
	app, ctrl := newApp(t)
	require.NoError(t, ctrl.SelectSource(context.Background(), "bbc"))

	app = loaded(app, ctrl)
	require.Contains(t, app.View(), view.EmptyText)
}

func TestApp_TranslateSelectedCard(t *testing.T) {
	app, ctrl := newApp(t)
	require.NoError(t, ctrl.Refresh(context.Background()))
	app = loaded(app, ctrl)

	m, _ := app.Update(tea.KeyMsg{Type: tea.KeyDown})
	app = m.(App)
	require.Equal(t, 1, app.cursor)

	m, cmd := app.Update(runes("t"))
	app = m.(App)
	require.NotNil(t, cmd)
	require.Contains(t, app.View(), view.TranslatingText)

	msg := cmd()
	tr, ok := msg.(Translated)
	require.True(t, ok)
	require.Equal(t, 2, tr.ID)

	m, _ = app.Update(msg)
	app = m.(App)
	require.NotContains(t, app.View(), view.TranslatingText)
	require.Contains(t, app.View(), "AI: bản dịch 서울시, 새해 문화 행사 계획 발표")
}

func TestApp_CursorClampedOnNewState(t *testing.T) {
	app, ctrl := newApp(t)
	require.NoError(t, ctrl.Refresh(context.Background()))
	app = loaded(app, ctrl)
	app.cursor = 8

	require.NoError(t, ctrl.SelectSource(context.Background(), "kbs"))
	app = loaded(app, ctrl)
	require.Equal(t, 1, app.cursor)
}

func TestApp_Quit(t *testing.T) {
	app, _ := newApp(t)

	_, cmd := app.Update(runes("q"))
	require.NotNil(t, cmd)
	require.Equal(t, tea.Quit(), cmd())
}
