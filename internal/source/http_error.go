package source

import (
	"fmt"
	"strings"
)

// HTTPStatusError 表示数据源返回了非 2xx 的 HTTP 状态码。
// 上层据此生成更可操作的错误信息（例如 404 多半是 dataset 路径写错）。
type HTTPStatusError struct {
	URL        string
	StatusCode int
	Location   string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "HTTP status error"
	}
	loc := strings.TrimSpace(e.Location)
	if loc == "" {
		return fmt.Sprintf("HTTP %d url=%s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("HTTP %d url=%s location=%s", e.StatusCode, e.URL, loc)
}
