package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
)

// maxBody 限制数据集大小（静态目录文件，远小于该值）。测试可调小。
var maxBody int64 = 64 << 20

// HTTPSource 用一次 GET 读取数据集。
type HTTPSource struct{}

func (HTTPSource) Name() string { return "http" }

func (HTTPSource) Fetch(ctx context.Context, loc string, c *http.Client) ([]byte, string, error) {
	if c == nil {
		return nil, "", errors.New("http client 不能为空")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Accept", "application/json, text/html;q=0.5")

	resp, err := c.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", &HTTPStatusError{URL: loc, StatusCode: resp.StatusCode, Location: resp.Header.Get("Location")}
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody+1))
	if err != nil {
		return nil, "", err
	}
	if int64(len(b)) > maxBody {
		return nil, "", fmt.Errorf("数据集超过 %s 上限", formatSize(maxBody))
	}
	return b, formatFor(resp.Header.Get("Content-Type"), loc), nil
}

// formatFor 先看 Content-Type，再看扩展名；都无法判断时按 JSON 处理。
func formatFor(contentType, loc string) string {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		switch {
		case mt == "text/html" || mt == "application/xhtml+xml":
			return FormatHTML
		case mt == "application/json" || strings.HasSuffix(mt, "+json"):
			return FormatJSON
		}
	}
	return formatForPath(loc)
}

func formatForPath(p string) string {
	p = strings.ToLower(p)
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if strings.HasSuffix(p, ".html") || strings.HasSuffix(p, ".htm") {
		return FormatHTML
	}
	return FormatJSON
}

func formatSize(n int64) string {
	if n >= 1<<20 && n%(1<<20) == 0 {
		return fmt.Sprintf("%dMiB", n>>20)
	}
	return fmt.Sprintf("%dB", n)
}
