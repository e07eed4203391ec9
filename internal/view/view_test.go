package view_test

import (
	"testing"
	"time"

	"korean_news_vn/internal/catalog"
	"korean_news_vn/internal/models"
	"korean_news_vn/internal/view"

	"github.com/stretchr/testify/require"
)

func TestBuild_Loading(t *testing.T) {
	p := view.Build(models.ViewState{Source: models.AllSources, Loading: true})

	require.True(t, p.Loading)
	require.Equal(t, view.PlaceholderCards, p.Placeholders)
	require.Empty(t, p.Cards)
	require.False(t, p.Empty)
}

func TestBuild_Empty(t *testing.T) {
	p := view.Build(models.ViewState{Source: "bbc"})

	require.True(t, p.Empty)
	require.Zero(t, p.Placeholders)
	require.Equal(t, "0 tin tức", p.CountLabel)
	for _, tab := range p.Tabs {
		require.False(t, tab.Active, "tab %s should not be active", tab.ID)
	}
}

func TestBuild_Cards(t *testing.T) {
	items := catalog.Items("yonhap")
	updated := time.Date(2025, 1, 13, 14, 5, 9, 0, time.Local)

	p := view.Build(models.ViewState{Source: "yonhap", Items: items, LastUpdate: updated, AutoRefresh: true})

	require.Len(t, p.Cards, 3)
	require.Equal(t, items[0].TitleVi, p.Cards[0].TitleVi)
	require.Equal(t, items[0].TitleKo, p.Cards[0].TitleKo)
	require.Equal(t, "3 tin tức", p.CountLabel)
	require.Equal(t, "Cập nhật lần cuối: 14:05:09", p.LastUpdate)
	require.True(t, p.AutoRefresh)
	require.Equal(t, view.Footer, p.Footer)
}

func TestTabs(t *testing.T) {
	tabs := view.Tabs("kbs")

	require.Len(t, tabs, 5)
	require.Equal(t, models.AllSources, tabs[0].ID)
	require.Equal(t, "Tất cả", tabs[0].Label)
	require.Equal(t, "Tin Yonhap", tabs[1].Label)
	require.True(t, tabs[2].Active)
	require.False(t, tabs[0].Active)
}

func TestFormatTime_Zero(t *testing.T) {
	require.Equal(t, "--:--:--", view.FormatTime(time.Time{}))
}

func TestBuildWith_MarksTranslatingCards(t *testing.T) {
	items := catalog.Items("kbs")
	s := models.ViewState{Source: "kbs", Items: items}

	p := view.BuildWith(s, map[int]bool{items[1].ID: true})
	require.False(t, p.Cards[0].Translating)
	require.True(t, p.Cards[1].Translating)

	for _, c := range view.Build(s).Cards {
		require.False(t, c.Translating, "card %d", c.ID)
	}
}

func TestBuild_Labels(t *testing.T) {
	p := view.Build(models.ViewState{})

	require.Equal(t, view.RefreshLabel, p.RefreshLabel)
	require.Equal(t, view.AutoRefreshLabel, p.AutoRefreshLabel)
	require.Equal(t, view.EmptyText, p.EmptyText)
}
