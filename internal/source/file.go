package source

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// FileSource 读取本地数据集（普通路径或 file:// URL）。
type FileSource struct{}

func (FileSource) Name() string { return "file" }

func (FileSource) Fetch(ctx context.Context, loc string, _ *http.Client) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	p := LocalPath(loc)
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, "", err
	}
	return b, formatForPath(p), nil
}

// LocalPath 把 file:// URL 转成本地路径；普通路径原样返回。
func LocalPath(loc string) string {
	loc = strings.TrimSpace(loc)
	if !strings.HasPrefix(strings.ToLower(loc), "file://") {
		return loc
	}
	u, err := url.Parse(loc)
	if err != nil {
		return strings.TrimPrefix(loc, "file://")
	}
	return u.Path
}
