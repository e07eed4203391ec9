// Package view turns a ViewState into a render model shared by the HTML page
// and the terminal UI.
package view

import (
	"fmt"
	"time"

	"korean_news_vn/internal/catalog"
	"korean_news_vn/internal/models"
)

const (
	Title            = "Tin Tức Hàn Quốc"
	Subtitle         = "Korean News • Dịch sang Tiếng Việt"
	RefreshLabel     = "↻"
	AutoRefreshLabel = "Tự động cập nhật"
	LastUpdatePrefix = "Cập nhật lần cuối: "
	EmptyText        = "Không có tin tức"
	TranslatingText  = "⟳ Đang dịch..."
	Footer           = "🇰🇷 → 🇻🇳 Dịch tự động bằng AI"

	// PlaceholderCards is how many skeleton cards stand in for the grid while loading.
	PlaceholderCards = 6

	timeLayout = "15:04:05"
)

type Tab struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Icon   string `json:"icon"`
	Active bool   `json:"active"`
}

type Card struct {
	ID          int
	Category    string
	TitleVi     string
	TitleKo     string
	Date        string
	Translating bool
}

// Page is everything a renderer needs; it holds no behaviour.
type Page struct {
	Title        string
	Subtitle     string
	Loading      bool
	AutoRefresh  bool
	Tabs         []Tab
	LastUpdate   string
	Count        int
	CountLabel   string
	Cards        []Card
	Placeholders int
	Empty        bool
	Footer       string

	RefreshLabel     string
	AutoRefreshLabel string
	EmptyText        string
}

// Tabs returns the tab strip: the all pseudo-source followed by every source.
func Tabs(active string) []Tab {
	tabs := []Tab{{ID: models.AllSources, Label: catalog.AllLabel, Icon: "🌐", Active: active == models.AllSources}}
	for _, s := range catalog.Sources() {
		tabs = append(tabs, Tab{ID: s.ID, Label: s.NameVi, Icon: s.Icon, Active: s.ID == active})
	}
	return tabs
}

// Build is a pure function of s.
func Build(s models.ViewState) Page {
	return BuildWith(s, nil)
}

// BuildWith is Build with the ids of cards whose translation is in flight.
func BuildWith(s models.ViewState, translating map[int]bool) Page {
	p := Page{
		Title:       Title,
		Subtitle:    Subtitle,
		Loading:     s.Loading,
		AutoRefresh: s.AutoRefresh,
		Tabs:        Tabs(s.Source),
		LastUpdate:  LastUpdatePrefix + FormatTime(s.LastUpdate),
		Count:       len(s.Items),
		CountLabel:  fmt.Sprintf("%d tin tức", len(s.Items)),
		Footer:      Footer,

		RefreshLabel:     RefreshLabel,
		AutoRefreshLabel: AutoRefreshLabel,
		EmptyText:        EmptyText,
	}

	switch {
	case s.Loading:
		p.Placeholders = PlaceholderCards
	case len(s.Items) == 0:
		p.Empty = true
	default:
		p.Cards = make([]Card, 0, len(s.Items))
		for _, item := range s.Items {
			p.Cards = append(p.Cards, Card{
				ID:          item.ID,
				Category:    item.Category,
				TitleVi:     item.TitleVi,
				TitleKo:     item.TitleKo,
				Date:        item.Date,
				Translating: translating[item.ID],
			})
		}
	}
	return p
}

// FormatTime renders t as a local wall-clock time, or dashes before the first load.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "--:--:--"
	}
	return t.Local().Format(timeLayout)
}
