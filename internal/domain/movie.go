package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// MovieID 是记录的唯一键（仅用于渲染时的 key，不做唯一性校验）。
//
// 数据集里既可能是字符串（"tt0111161"），也可能是数字（1）；两者统一保存为字符串。
type MovieID string

func (id *MovieID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = MovieID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("imdbmovieid 既不是字符串也不是数字：%s", string(b))
	}
	*id = MovieID(n.String())
	return nil
}

// Movie 是数据集中的一条电影记录（加载后只读）。
//
// 约束：
// - 列表字段缺失或为 null 时由 Normalize 归一为空切片，渲染层据此回退为 "Data Not Available"
// - Title 允许为空（渲染时使用回退文案）
type Movie struct {
	ID        MovieID  `json:"imdbmovieid"`
	Title     string   `json:"movietitle"`
	Languages []string `json:"movielanguages"`
	Countries []string `json:"moviecountries"`
	Genres    []string `json:"moviegenres"`
	Photos    []string `json:"moviemainphotos"`
}

// Normalize 把 nil 列表统一为空切片，返回新值（不修改入参）。
func (m Movie) Normalize() Movie {
	m.Languages = nonNil(m.Languages)
	m.Countries = nonNil(m.Countries)
	m.Genres = nonNil(m.Genres)
	m.Photos = nonNil(m.Photos)
	return m
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
