package catalog

import (
	"strings"

	"github.com/John-Robertt/moviecat/internal/domain"
)

const (
	// PlaceholderCount 是加载中显示的占位卡片数量。
	PlaceholderCount = 10
	// MaxListValues 是卡片上每个列表字段最多展示的值数量。
	MaxListValues = 6
	// Ellipsis 紧跟在被截断列表之后（与前一个值之间没有分隔符）。
	Ellipsis = "..."

	DefaultFallbackImage = "/defaultImg.png"

	TitleFallback     = "Movie Title Data Not Available"
	AltFallback       = "Movie Poster"
	NotAvailable      = "Data Not Available"
	LanguagesNotAvail = "Languages: Data Not Available"
	EmptyMessage      = "No movies found"
)

// Card 是一张电影卡片的展示文案（纯数据，不含样式）。
type Card struct {
	ID    string
	Image string
	Alt   string
	Title string

	Languages string
	Countries string
	Genres    string
}

// CardFor 把一条记录转换为卡片文案。fallbackImage 为空时使用 DefaultFallbackImage。
func CardFor(m domain.Movie, fallbackImage string) Card {
	if fallbackImage == "" {
		fallbackImage = DefaultFallbackImage
	}

	img := fallbackImage
	if len(m.Photos) > 0 && strings.TrimSpace(m.Photos[0]) != "" {
		img = m.Photos[0]
	}

	title := m.Title
	alt := m.Title
	if title == "" {
		title = TitleFallback
		alt = AltFallback
	}

	return Card{
		ID:        string(m.ID),
		Image:     img,
		Alt:       alt,
		Title:     title,
		Languages: FormatList(m.Languages, LanguagesNotAvail),
		Countries: FormatList(m.Countries, NotAvailable),
		Genres:    FormatList(m.Genres, NotAvailable),
	}
}

// Cards 对可见集合逐条调用 CardFor。
func Cards(records []domain.Movie, fallbackImage string) []Card {
	out := make([]Card, 0, len(records))
	for i := range records {
		out = append(out, CardFor(records[i], fallbackImage))
	}
	return out
}

// FormatList 用 ", " 连接列表；超过 MaxListValues 时只保留前 MaxListValues 个并追加 Ellipsis；
// 空列表返回 emptyLabel。
func FormatList(values []string, emptyLabel string) string {
	if len(values) == 0 {
		return emptyLabel
	}
	if len(values) > MaxListValues {
		return strings.Join(values[:MaxListValues], ", ") + Ellipsis
	}
	return strings.Join(values, ", ")
}
