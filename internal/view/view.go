// Package view 把目录快照渲染为 HTML 页面（serve 与 render 共用同一模板）。
package view

import (
	"embed"
	"html/template"
	"io"

	"github.com/John-Robertt/moviecat/internal/catalog"
)

//go:embed templates/*.html
var templateFS embed.FS

var tmpl = template.Must(template.New("catalog.html").ParseFS(templateFS, "templates/catalog.html"))

// Template 返回已解析的页面模板（gin 通过 SetHTMLTemplate 复用）。
func Template() *template.Template { return tmpl }

// PageTitle 是页面标题。
const PageTitle = "Movie Catalog"

// Option 是下拉框中的一项。
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Select 是一个维度的单选下拉框。
type Select struct {
	Name    string
	Options []Option
}

// Page 是模板的全部输入。
type Page struct {
	Title   string
	Selects []Select
	State   string

	Placeholders []struct{}
	Cards        []catalog.Card
	Error        string
	Empty        string

	// RefreshSeconds > 0 时页面自动刷新（加载中使用）。
	RefreshSeconds int
	// Static 为 true 时不输出表单提交相关的元素（render 导出的静态页面）。
	Static bool
}

// NewPage 由快照构造页面数据。fallbackImage 为空时使用 catalog.DefaultFallbackImage。
func NewPage(s catalog.State, fallbackImage string) Page {
	p := Page{
		Title:   PageTitle,
		Selects: selects(s.Options, s.Filters),
		State:   s.View().String(),
		Empty:   catalog.EmptyMessage,
	}

	switch s.View() {
	case catalog.ViewLoading:
		p.Placeholders = make([]struct{}, catalog.PlaceholderCount)
		p.RefreshSeconds = 1
	case catalog.ViewError:
		p.Error = "Failed to load movies"
		if s.Err != nil {
			p.Error += ": " + s.Err.Error()
		}
	case catalog.ViewGrid:
		p.Cards = catalog.Cards(s.Visible, fallbackImage)
	}
	return p
}

func selects(opts catalog.Options, f catalog.Filters) []Select {
	out := make([]Select, 0, 3)
	for _, d := range catalog.Dimensions() {
		cur := f.Get(d)
		values := opts.For(d)
		sel := Select{
			Name:    string(d),
			Options: make([]Option, 0, len(values)+1),
		}
		sel.Options = append(sel.Options, Option{Value: "", Label: "Select " + d.Label(), Selected: cur == ""})
		for _, v := range values {
			sel.Options = append(sel.Options, Option{Value: v, Label: v, Selected: v == cur})
		}
		out = append(out, sel)
	}
	return out
}

// Render 把页面写入 w。
func Render(w io.Writer, p Page) error {
	return tmpl.Execute(w, p)
}
