package controller_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"korean_news_vn/internal/catalog"
	"korean_news_vn/internal/controller"
	"korean_news_vn/internal/models"

	"github.com/stretchr/testify/require"
)

func newController(t *testing.T, delay, interval time.Duration) *controller.Controller {
	t.Helper()
	c := controller.New(controller.Options{
		Delay:    delay,
		Interval: interval,
		Source:   models.AllSources,
	})
	t.Cleanup(c.Close)
	return c
}

func ids(items []models.NewsItem) []int {
	out := make([]int, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func requireSortedDesc(t *testing.T, items []models.NewsItem) {
	t.Helper()
	for i := 1; i < len(items); i++ {
		require.False(t, items[i].ParsedDate().After(items[i-1].ParsedDate()),
			"item %d (%s) sorted after older item %d (%s)", items[i].ID, items[i].Date, items[i-1].ID, items[i-1].Date)
	}
}

func TestSelectSource_EachKnownSource(t *testing.T) {
	c := newController(t, time.Millisecond, time.Hour)

	for _, src := range catalog.Sources() {
		t.Run(src.ID, func(t *testing.T) {
			require.NoError(t, c.SelectSource(context.Background(), src.ID))

			state := c.State()
			require.Equal(t, src.ID, state.Source)
			require.False(t, state.Loading)
			require.ElementsMatch(t, ids(catalog.Items(src.ID)), ids(state.Items))
			requireSortedDesc(t, state.Items)
		})
	}
}

func TestStart_AllSources(t *testing.T) {
	c := newController(t, time.Millisecond, time.Hour)

	require.NoError(t, c.Start(context.Background()))

	state := c.State()
	require.Len(t, state.Items, 9)
	require.Equal(t, []int{1, 2, 4, 6, 8, 3, 5, 7, 9}, ids(state.Items))
	requireSortedDesc(t, state.Items)
	require.False(t, state.LastUpdate.IsZero())
}

func TestSelectSource_Unknown(t *testing.T) {
	c := newController(t, time.Millisecond, time.Hour)

	require.NoError(t, c.SelectSource(context.Background(), "bbc"))

	state := c.State()
	require.Equal(t, "bbc", state.Source)
	require.Empty(t, state.Items)
	require.False(t, state.Loading)
}

func TestRefresh_LoadingFlag(t *testing.T) {
	c := newController(t, 200*time.Millisecond, time.Hour)

	done := make(chan error, 1)
	go func() { done <- c.Refresh(context.Background()) }()

	require.Eventually(t, func() bool { return c.State().Loading }, time.Second, 5*time.Millisecond)
	require.NoError(t, <-done)
	require.False(t, c.State().Loading)
	require.Len(t, c.State().Items, 9)
}

func TestRefresh_Idempotent(t *testing.T) {
	var calls int
	base := time.Date(2025, 1, 13, 9, 0, 0, 0, time.UTC)
	c := controller.New(controller.Options{
		Delay: time.Millisecond,
		Now: func() time.Time {
			calls++
			return base.Add(time.Duration(calls) * time.Second)
		},
	})
	defer c.Close()

	require.NoError(t, c.Refresh(context.Background()))
	first := c.State()
	require.NoError(t, c.Refresh(context.Background()))
	second := c.State()

	require.Equal(t, first.Items, second.Items)
	require.True(t, second.LastUpdate.After(first.LastUpdate))
}

func TestRefresh_ContextCancelled(t *testing.T) {
	c := newController(t, time.Hour, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Refresh(ctx)
	require.ErrorIs(t, err, context.Canceled)

	state := c.State()
	require.False(t, state.Loading)
	require.Empty(t, state.Items)
	require.True(t, state.LastUpdate.IsZero())
}

func TestRefresh_LaterSelectionWins(t *testing.T) {
	c := newController(t, 50*time.Millisecond, time.Hour)

	done := make(chan error, 1)
	go func() { done <- c.SelectSource(context.Background(), "kbs") }()
	require.Eventually(t, func() bool { return c.State().Loading }, time.Second, time.Millisecond)

	require.NoError(t, c.SelectSource(context.Background(), "arirang"))
	require.NoError(t, <-done)

	state := c.State()
	require.Equal(t, "arirang", state.Source)
	require.Equal(t, []int{6, 7}, ids(state.Items))
	require.False(t, state.Loading)
}

func TestSetAutoRefresh_StartStopRestart(t *testing.T) {
	var published atomic.Int64
	c := controller.New(controller.Options{
		Delay:    0,
		Interval: 10 * time.Millisecond,
		Now: func() time.Time {
			published.Add(1)
			return time.Now()
		},
	})
	defer c.Close()

	c.SetAutoRefresh(true)
	require.True(t, c.State().AutoRefresh)
	require.Eventually(t, func() bool { return published.Load() >= 3 }, time.Second, 5*time.Millisecond)

	c.SetAutoRefresh(false)
	require.False(t, c.State().AutoRefresh)
	stopped := published.Load()
	time.Sleep(60 * time.Millisecond)
	require.Equal(t, stopped, published.Load())

	c.SetAutoRefresh(true)
	require.Eventually(t, func() bool { return published.Load() >= stopped+2 }, time.Second, 5*time.Millisecond)
}

func TestSetAutoRefresh_EnableTwiceKeepsOneTask(t *testing.T) {
	var published atomic.Int64
	c := controller.New(controller.Options{
		Interval: 40 * time.Millisecond,
		Now: func() time.Time {
			published.Add(1)
			return time.Now()
		},
	})
	defer c.Close()

	c.SetAutoRefresh(true)
	c.SetAutoRefresh(true)
	c.SetAutoRefresh(true)

	time.Sleep(100 * time.Millisecond)
	// A single 40ms ticker fires twice in 100ms; three tasks would fire six times.
	require.LessOrEqual(t, published.Load(), int64(3))
}

func TestClose_StopsEverything(t *testing.T) {
	c := controller.New(controller.Options{Interval: 10 * time.Millisecond})
	c.SetAutoRefresh(true)

	updates, _ := c.Subscribe()
	c.Close()

	require.False(t, c.State().AutoRefresh)
	require.ErrorIs(t, c.Refresh(context.Background()), controller.ErrClosed)
	require.ErrorIs(t, c.SelectSource(context.Background(), "kbs"), controller.ErrClosed)

	for range updates {
	}
}

func TestSubscribe_ReceivesLatestState(t *testing.T) {
	c := newController(t, time.Millisecond, time.Hour)

	updates, unsubscribe := c.Subscribe()
	defer unsubscribe()

	initial := <-updates
	require.Empty(t, initial.Items)

	require.NoError(t, c.SelectSource(context.Background(), "koreaherald"))

	require.Eventually(t, func() bool {
		select {
		case s := <-updates:
			return !s.Loading && len(s.Items) == 2
		default:
			return false
		}
	}, time.Second, time.Millisecond)
}

func TestSortByDateDesc_Stable(t *testing.T) {
	items := []models.NewsItem{
		{ID: 1, Date: "2025-01-12"},
		{ID: 2, Date: "2025-01-13"},
		{ID: 3, Date: "2025-01-12"},
		{ID: 4, Date: "2025-01-13"},
	}

	require.Equal(t, []int{2, 4, 1, 3}, ids(controller.SortByDateDesc(items)))
}

func TestSelectSource_CancelledRestoresShownTab(t *testing.T) {
	c := newController(t, 50*time.Millisecond, time.Hour)
	require.NoError(t, c.Refresh(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := c.SelectSource(ctx, "kbs")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	state := c.State()
	require.Equal(t, models.AllSources, state.Source)
	require.False(t, state.Loading)
	require.Len(t, state.Items, 9)
}

func TestSelectSource_FramesNeverMixSources(t *testing.T) {
	c := newController(t, 20*time.Millisecond, time.Hour)
	require.NoError(t, c.Refresh(context.Background()))

	updates, unsubscribe := c.Subscribe()
	defer unsubscribe()
	<-updates

	done := make(chan error, 1)
	go func() { done <- c.SelectSource(context.Background(), "kbs") }()

	first := <-updates
	require.Equal(t, "kbs", first.Source)
	require.True(t, first.Loading, "the tab switch must arrive together with the loading state")

	for s := range updates {
		if !s.Loading {
			require.Equal(t, "kbs", s.Source)
			require.ElementsMatch(t, ids(catalog.Items("kbs")), ids(s.Items))
			break
		}
	}
	require.NoError(t, <-done)
}
