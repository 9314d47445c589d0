package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/John-Robertt/moviecat/internal/domain"
)

const (
	FormatJSON = "json"
	FormatHTML = "html"
)

// Decode 把数据集解析为有序的记录列表。
//
// 约束：
// - 顶层必须是数组（JSON）或包含表头的 <table>（HTML），否则返回错误
// - 单条记录的字段缺失/类型不符不算致命错误：列表字段回退为空切片，标题与 id 回退为空串
// - 数组中不是对象的元素被跳过
func Decode(b []byte, format string) ([]domain.Movie, error) {
	switch format {
	case FormatHTML:
		return decodeHTMLTable(b)
	case FormatJSON, "":
		return decodeJSON(b)
	default:
		return nil, fmt.Errorf("未知数据格式：%q", format)
	}
}

type wireMovie struct {
	ID        json.RawMessage `json:"imdbmovieid"`
	Title     json.RawMessage `json:"movietitle"`
	Languages json.RawMessage `json:"movielanguages"`
	Countries json.RawMessage `json:"moviecountries"`
	Genres    json.RawMessage `json:"moviegenres"`
	Photos    json.RawMessage `json:"moviemainphotos"`
}

func decodeJSON(b []byte) ([]domain.Movie, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil, errors.New("数据集为空")
	}
	if b[0] != '[' {
		return nil, errors.New("数据集顶层必须是数组")
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}

	out := make([]domain.Movie, 0, len(raw))
	for _, r := range raw {
		// 非对象元素（null、数字、字符串、数组）不构成记录：跳过。
		if r = bytes.TrimSpace(r); len(r) == 0 || r[0] != '{' {
			continue
		}
		var w wireMovie
		if err := json.Unmarshal(r, &w); err != nil {
			continue
		}
		out = append(out, domain.Movie{
			ID:        lenientID(w.ID),
			Title:     lenientString(w.Title),
			Languages: lenientList(w.Languages),
			Countries: lenientList(w.Countries),
			Genres:    lenientList(w.Genres),
			Photos:    lenientList(w.Photos),
		}.Normalize())
	}
	return out, nil
}

// lenientID 接受字符串或数字；其它类型（布尔、对象……）视为缺失。
func lenientID(r json.RawMessage) domain.MovieID {
	var id domain.MovieID
	if len(r) == 0 || json.Unmarshal(r, &id) != nil {
		return ""
	}
	return id
}

func lenientString(r json.RawMessage) string {
	var s string
	if len(r) == 0 || json.Unmarshal(r, &s) != nil {
		return ""
	}
	return s
}

// lenientList 接受字符串数组；单个字符串视为单元素列表；其它类型视为缺失。
// 数组内的非字符串元素被跳过。
func lenientList(r json.RawMessage) []string {
	if len(r) == 0 {
		return []string{}
	}
	var items []json.RawMessage
	if err := json.Unmarshal(r, &items); err != nil {
		if s := lenientString(r); s != "" {
			return []string{s}
		}
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		var s string
		if json.Unmarshal(it, &s) == nil {
			out = append(out, s)
		}
	}
	return out
}

// decodeHTMLTable 解析一份 HTML 表格导出：表头为字段名，列表字段用逗号分隔；
// moviemainphotos 列优先读取 <img src>，没有图片元素时按文本解析。
func decodeHTMLTable(b []byte) ([]domain.Movie, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, errors.New("HTML 中未找到 <table>")
	}

	cols := map[string]int{}
	table.Find("tr").First().Find("th,td").Each(func(i int, s *goquery.Selection) {
		cols[strings.ToLower(normSpace(s.Text()))] = i
	})
	if _, ok := cols["imdbmovieid"]; !ok {
		return nil, errors.New("表头缺少 imdbmovieid 列")
	}

	out := make([]domain.Movie, 0, 64)
	table.Find("tr").Slice(1, goquery.ToEnd).Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() == 0 {
			return
		}
		cell := func(name string) *goquery.Selection {
			i, ok := cols[name]
			if !ok || i >= cells.Length() {
				return nil
			}
			return cells.Eq(i)
		}
		text := func(name string) string {
			if c := cell(name); c != nil {
				return normSpace(c.Text())
			}
			return ""
		}

		m := domain.Movie{
			ID:        domain.MovieID(text("imdbmovieid")),
			Title:     text("movietitle"),
			Languages: splitList(text("movielanguages")),
			Countries: splitList(text("moviecountries")),
			Genres:    splitList(text("moviegenres")),
		}
		if c := cell("moviemainphotos"); c != nil {
			c.Find("img").Each(func(_ int, img *goquery.Selection) {
				if src, ok := img.Attr("src"); ok && strings.TrimSpace(src) != "" {
					m.Photos = append(m.Photos, strings.TrimSpace(src))
				}
			})
			if len(m.Photos) == 0 {
				m.Photos = splitList(normSpace(c.Text()))
			}
		}
		out = append(out, m.Normalize())
	})
	return out, nil
}

func splitList(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func normSpace(s string) string { return strings.Join(strings.Fields(s), " ") }
