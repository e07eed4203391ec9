package catalog

import (
	"korean_news_vn/internal/models"
)

// AllLabel is the tab label of the models.AllSources pseudo-source.
const AllLabel = "Tất cả"

// sources хранит фиксированный список изданий в порядке отображения вкладок.
var sources = []models.NewsSource{
	{ID: "yonhap", Name: "Yonhap News", NameVi: "Tin Yonhap", Icon: "📰"},
	{ID: "kbs", Name: "KBS World", NameVi: "KBS World", Icon: "📺"},
	{ID: "arirang", Name: "Arirang", NameVi: "Arirang", Icon: "🌏"},
	{ID: "koreaherald", Name: "Korea Herald", NameVi: "Korea Herald", Icon: "📋"},
}

var sampleNews = map[string][]models.NewsItem{
	"yonhap": {
		{ID: 1, TitleKo: "한국 경제 성장률 전망 상향 조정", TitleVi: "Điều chỉnh tăng dự báo tăng trưởng kinh tế Hàn Quốc", Date: "2025-01-13", Category: "Kinh tế"},
		{ID: 2, TitleKo: "서울시, 새해 문화 행사 계획 발표", TitleVi: "Seoul công bố kế hoạch sự kiện văn hóa năm mới", Date: "2025-01-13", Category: "Văn hóa"},
		{ID: 3, TitleKo: "한류 콘텐츠 수출 사상 최대 기록", TitleVi: "Xuất khẩu nội dung Hallyu đạt kỷ lục cao nhất mọi thời đại", Date: "2025-01-12", Category: "Giải trí"},
	},
	"kbs": {
		{ID: 4, TitleKo: "겨울철 한파 주의보 발령", TitleVi: "Cảnh báo giá rét mùa đông được ban hành", Date: "2025-01-13", Category: "Thời tiết"},
		{ID: 5, TitleKo: "국가대표 축구팀 아시안컵 준비", TitleVi: "Đội tuyển bóng đá quốc gia chuẩn bị cho Asian Cup", Date: "2025-01-12", Category: "Thể thao"},
	},
	"arirang": {
		{ID: 6, TitleKo: "한국 관광 산업 회복세 지속", TitleVi: "Ngành du lịch Hàn Quốc tiếp tục phục hồi", Date: "2025-01-13", Category: "Du lịch"},
		{ID: 7, TitleKo: "신기술 스타트업 투자 증가", TitleVi: "Đầu tư vào startup công nghệ mới tăng", Date: "2025-01-12", Category: "Công nghệ"},
	},
	"koreaherald": {
		{ID: 8, TitleKo: "한-베트남 경제 협력 강화", TitleVi: "Tăng cường hợp tác kinh tế Hàn Quốc-Việt Nam", Date: "2025-01-13", Category: "Quốc tế"},
		{ID: 9, TitleKo: "K-푸드 세계적 인기 상승", TitleVi: "K-Food ngày càng phổ biến trên toàn cầu", Date: "2025-01-12", Category: "Ẩm thực"},
	},
}

// Sources возвращает копию списка изданий.
func Sources() []models.NewsSource {
	out := make([]models.NewsSource, len(sources))
	copy(out, sources)
	return out
}

// Source ищет издание по id.
func Source(id string) (models.NewsSource, bool) {
	for _, s := range sources {
		if s.ID == id {
			return s, true
		}
	}
	return models.NewsSource{}, false
}

// Items returns a copy of the source's list, or nil for an unknown id.
func Items(id string) []models.NewsItem {
	list, ok := sampleNews[id]
	if !ok {
		return nil
	}
	out := make([]models.NewsItem, len(list))
	copy(out, list)
	return out
}

// All returns the union of every source's list in table order.
func All() []models.NewsItem {
	var out []models.NewsItem
	for _, s := range sources {
		out = append(out, sampleNews[s.ID]...)
	}
	return out
}

// Select resolves a tab id: models.AllSources yields the union, anything else
// that source's items (empty for an unknown id).
func Select(id string) []models.NewsItem {
	if id == models.AllSources {
		return All()
	}
	return Items(id)
}

// Lookup finds an item by id across all sources.
func Lookup(id int) (models.NewsItem, bool) {
	for _, s := range sources {
		for _, item := range sampleNews[s.ID] {
			if item.ID == id {
				return item, true
			}
		}
	}
	return models.NewsItem{}, false
}

// Valid reports whether id names a known source or the all pseudo-source.
func Valid(id string) bool {
	if id == models.AllSources {
		return true
	}
	_, ok := Source(id)
	return ok
}
