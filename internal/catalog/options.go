package catalog

import "github.com/John-Robertt/moviecat/internal/domain"

// Options 是三个维度的可选值集合（来自完整数据集，不随过滤条件收缩）。
type Options struct {
	Languages []string `json:"languages"`
	Countries []string `json:"countries"`
	Genres    []string `json:"genres"`
}

// DeriveOptions 对每个维度：展开所有记录的列表字段并去重，保持首次出现的顺序。
//
// 空字符串不会进入选项集合：它与“未选择”的哨兵值冲突。
func DeriveOptions(records []domain.Movie) Options {
	return Options{
		Languages: distinct(records, Language),
		Countries: distinct(records, Country),
		Genres:    distinct(records, Genre),
	}
}

// OrEmpty 返回把 nil 维度替换为空切片的副本（JSON 输出 [] 而不是 null）。
func (o Options) OrEmpty() Options {
	for _, p := range []*[]string{&o.Languages, &o.Countries, &o.Genres} {
		if *p == nil {
			*p = []string{}
		}
	}
	return o
}

// For 返回某个维度的选项（只读；调用方不得修改）。
func (o Options) For(d Dimension) []string {
	switch d {
	case Language:
		return o.Languages
	case Country:
		return o.Countries
	case Genre:
		return o.Genres
	default:
		return nil
	}
}

// Contains 判断 v 是否是维度 d 的合法选项。
func (o Options) Contains(d Dimension, v string) bool {
	for _, s := range o.For(d) {
		if s == v {
			return true
		}
	}
	return false
}

func distinct(records []domain.Movie, d Dimension) []string {
	seen := make(map[string]struct{}, 64)
	out := make([]string, 0, 64)
	for i := range records {
		for _, v := range d.Values(records[i]) {
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}
