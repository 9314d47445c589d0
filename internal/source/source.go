package source

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/John-Robertt/moviecat/internal/domain"
)

// Source 把“数据从哪来”限制在 source 包内部；目录核心只依赖 []domain.Movie。
//
// 约束：
// - Fetch 只做一次读取：不缓存、不重试、不分页（重试策略由 httpx 统一控制，默认关闭）
// - 返回的 format 是解码提示（"json" 或 "html"），由 Decode 使用
type Source interface {
	Name() string
	Fetch(ctx context.Context, loc string, c *http.Client) (body []byte, format string, err error)
}

// Registry 是数据源的只读注册表（按 name 索引）。
type Registry struct {
	byName map[string]Source
}

func NewRegistry(sources ...Source) (Registry, error) {
	byName := make(map[string]Source, len(sources))
	for _, s := range sources {
		if s == nil {
			return Registry{}, fmt.Errorf("source 不能为空")
		}
		name := strings.ToLower(strings.TrimSpace(s.Name()))
		if name == "" {
			return Registry{}, fmt.Errorf("source.Name 不能为空")
		}
		if _, ok := byName[name]; ok {
			return Registry{}, fmt.Errorf("重复的 source：%q", name)
		}
		byName[name] = s
	}
	return Registry{byName: byName}, nil
}

// Default 返回内置的 http + file 两个数据源。
func Default() Registry {
	r, _ := NewRegistry(HTTPSource{}, FileSource{})
	return r
}

func (r Registry) Get(name string) (Source, bool) {
	if r.byName == nil {
		return nil, false
	}
	s, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	return s, ok
}

// KindFor 按位置选择数据源：http(s):// 走 http，其余（本地路径、file://）走 file。
func KindFor(loc string) string {
	l := strings.ToLower(strings.TrimSpace(loc))
	if strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://") {
		return "http"
	}
	return "file"
}

// Load 读取并解码数据集，返回完整记录列表。
// 失败时返回 *Error，Stage 区分 fetch / parse。
func Load(ctx context.Context, reg Registry, loc string, c *http.Client) ([]domain.Movie, error) {
	loc = strings.TrimSpace(loc)
	if loc == "" {
		return nil, &Error{Stage: "fetch", Err: fmt.Errorf("dataset 不能为空")}
	}

	kind := KindFor(loc)
	s, ok := reg.Get(kind)
	if !ok {
		return nil, &Error{Source: kind, Stage: "fetch", Err: fmt.Errorf("source 未注册：%q", kind)}
	}

	body, format, err := s.Fetch(ctx, loc, c)
	if err != nil {
		return nil, &Error{Source: kind, Stage: "fetch", Err: err}
	}
	movies, err := Decode(body, format)
	if err != nil {
		return nil, &Error{Source: kind, Stage: "parse", Err: err}
	}
	return movies, nil
}

// Error 是数据源阶段的可追溯错误。
type Error struct {
	Source string // "http" / "file"
	Stage  string // "fetch" 或 "parse"
	Err    error
}

func (e *Error) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("stage=%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("source=%s stage=%s: %v", e.Source, e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
