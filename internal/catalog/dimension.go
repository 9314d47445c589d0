// Package catalog 是目录视图的纯函数核心：选项推导、过滤、状态快照与卡片展示文案。
//
// 包内不做 I/O、不持有可变的共享状态；所有变化都通过 Reduce 生成新的 State。
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/John-Robertt/moviecat/internal/domain"
)

// Dimension 是可过滤的属性维度。
type Dimension string

const (
	Language Dimension = "language"
	Country  Dimension = "country"
	Genre    Dimension = "genre"
)

// ErrUnknownDimension 表示过滤事件引用了不存在的维度。
var ErrUnknownDimension = errors.New("catalog: unknown dimension")

var dimensions = [...]Dimension{Language, Country, Genre}

// Dimensions 按固定顺序返回全部维度（也是页面上下拉框的顺序）。
func Dimensions() []Dimension {
	return append([]Dimension(nil), dimensions[:]...)
}

// ParseDimension 解析维度名（忽略大小写与首尾空白）。
func ParseDimension(s string) (Dimension, error) {
	d := Dimension(strings.ToLower(strings.TrimSpace(s)))
	switch d {
	case Language, Country, Genre:
		return d, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDimension, s)
	}
}

// Label 是维度的展示名（"Select Language" 等占位项使用）。
func (d Dimension) Label() string {
	switch d {
	case Language:
		return "Language"
	case Country:
		return "Country"
	case Genre:
		return "Genre"
	default:
		return string(d)
	}
}

// Values 返回记录在该维度上的列表字段。
func (d Dimension) Values(m domain.Movie) []string {
	switch d {
	case Language:
		return m.Languages
	case Country:
		return m.Countries
	case Genre:
		return m.Genres
	default:
		return nil
	}
}
