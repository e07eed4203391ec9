package models

import "time"

// AllSources is the pseudo-source id that selects every source at once.
const AllSources = "all"

// DateLayout is the encoding of NewsItem.Date.
const DateLayout = "2006-01-02"

// NewsSource описывает одно из фиксированных новостных изданий.
type NewsSource struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	NameVi string `json:"name_vi"`
	Icon   string `json:"icon"`
}

// NewsItem is a single bilingual headline.
type NewsItem struct {
	ID       int    `json:"id"`
	TitleKo  string `json:"title_ko"`
	TitleVi  string `json:"title_vi"`
	Date     string `json:"date"`
	Category string `json:"category"`
}

// ParsedDate decodes Date. Items with a malformed date sort as the zero time.
func (n NewsItem) ParsedDate() time.Time {
	t, err := time.Parse(DateLayout, n.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ViewState is what the presentation layer currently shows.
// Items is never shared with the controller: every snapshot owns its slice.
type ViewState struct {
	Source      string     `json:"source"`
	Items       []NewsItem `json:"items"`
	Loading     bool       `json:"loading"`
	LastUpdate  time.Time  `json:"last_update"`
	AutoRefresh bool       `json:"auto_refresh"`
}

// Clone returns a copy of s that does not alias its item slice.
func (s ViewState) Clone() ViewState {
	out := s
	if s.Items != nil {
		out.Items = make([]NewsItem, len(s.Items))
		copy(out.Items, s.Items)
	}
	return out
}
