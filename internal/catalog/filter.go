package catalog

import "github.com/John-Robertt/moviecat/internal/domain"

// Filters 是当前的过滤选择。空串表示该维度“未选择”（不施加约束）。
//
// Filters 是值类型：With 返回新值，原值不变。
type Filters struct {
	Language string `json:"language"`
	Country  string `json:"country"`
	Genre    string `json:"genre"`
}

func (f Filters) Get(d Dimension) string {
	switch d {
	case Language:
		return f.Language
	case Country:
		return f.Country
	case Genre:
		return f.Genre
	default:
		return ""
	}
}

// With 覆盖一个维度的选择，其余维度保持不变。
func (f Filters) With(d Dimension, v string) Filters {
	switch d {
	case Language:
		f.Language = v
	case Country:
		f.Country = v
	case Genre:
		f.Genre = v
	}
	return f
}

// Active 报告是否至少有一个维度处于选中状态。
func (f Filters) Active() bool {
	return f.Language != "" || f.Country != "" || f.Genre != ""
}

// Visible 计算可见集合：对每个有选择的维度做成员判定（contains，而不是相等），多个维度取交集。
//
// 返回新切片，保持原始顺序；records 本身不会被修改。
func Visible(records []domain.Movie, f Filters) []domain.Movie {
	out := make([]domain.Movie, 0, len(records))
	for i := range records {
		if Matches(records[i], f) {
			out = append(out, records[i])
		}
	}
	return out
}

// Matches 报告单条记录是否满足全部已选维度。
func Matches(m domain.Movie, f Filters) bool {
	for _, d := range dimensions {
		want := f.Get(d)
		if want == "" {
			continue
		}
		if !contains(d.Values(m), want) {
			return false
		}
	}
	return true
}

func contains(vs []string, want string) bool {
	for _, v := range vs {
		if v == want {
			return true
		}
	}
	return false
}
