package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movies.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"imdbmovieid":"1","movietitle":"A","movielanguages":["English"]}]`))
	}))
	defer srv.Close()

	got, err := Load(context.Background(), Default(), srv.URL+"/movies.json", srv.Client())
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if len(got) != 1 || got[0].Title != "A" {
		t.Fatalf("结果不符合预期：%+v", got)
	}
}

func TestLoad_HTTPStatusIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := Load(context.Background(), Default(), srv.URL+"/movies.json", srv.Client())
	var se *Error
	if !errors.As(err, &se) || se.Stage != "fetch" || se.Source != "http" {
		t.Fatalf("期望 fetch 阶段的 *Error，实际 %v", err)
	}
	var he *HTTPStatusError
	if !errors.As(err, &he) || he.StatusCode != http.StatusNotFound {
		t.Fatalf("期望 HTTP 404，实际 %v", err)
	}
}

func TestLoad_HTTPBodyOverLimitIsFetchError(t *testing.T) {
	old := maxBody
	maxBody = 16
	defer func() { maxBody = old }()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"imdbmovieid":"1","movietitle":"A"}]`))
	}))
	defer srv.Close()

	_, err := Load(context.Background(), Default(), srv.URL+"/movies.json", srv.Client())
	var se *Error
	if !errors.As(err, &se) || se.Stage != "fetch" {
		t.Fatalf("超限应在 fetch 阶段失败，而不是解析错误：%v", err)
	}
	if !strings.Contains(err.Error(), "超过 16B 上限") {
		t.Fatalf("错误信息应说明超限：%v", err)
	}

	// 恰好等于上限时正常读取。
	maxBody = int64(len(`[]`))
	srv2 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv2.Close()
	if _, err := Load(context.Background(), Default(), srv2.URL+"/movies.json", srv2.Client()); err != nil {
		t.Fatalf("等于上限不应失败：%v", err)
	}
}

func TestFormatSize(t *testing.T) {
	if got := formatSize(64 << 20); got != "64MiB" {
		t.Fatalf("期望 64MiB，实际 %q", got)
	}
}

func TestLoad_FileParseError(t *testing.T) {
	p := filepath.Join(t.TempDir(), "movies.json")
	if err := os.WriteFile(p, []byte(`{"not":"an array"}`), 0o644); err != nil {
		t.Fatalf("写入文件失败：%v", err)
	}

	_, err := Load(context.Background(), Default(), p, nil)
	var se *Error
	if !errors.As(err, &se) || se.Stage != "parse" || se.Source != "file" {
		t.Fatalf("期望 parse 阶段的 *Error，实际 %v", err)
	}
}

func TestLoad_FileURL(t *testing.T) {
	p := filepath.Join(t.TempDir(), "movies.json")
	if err := os.WriteFile(p, []byte(`[]`), 0o644); err != nil {
		t.Fatalf("写入文件失败：%v", err)
	}
	got, err := Load(context.Background(), Default(), "file://"+p, nil)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if len(got) != 0 {
		t.Fatalf("期望空列表，实际 %+v", got)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), Default(), filepath.Join(t.TempDir(), "nope.json"), nil)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("期望 os.ErrNotExist，实际 %v", err)
	}
}

func TestNewRegistry_RejectsDuplicate(t *testing.T) {
	if _, err := NewRegistry(FileSource{}, FileSource{}); err == nil {
		t.Fatalf("期望重复注册报错")
	}
}

func TestKindFor(t *testing.T) {
	if KindFor("HTTPS://h.test/m.json") != "http" {
		t.Fatalf("https 应走 http")
	}
	if KindFor("./movies.json") != "file" || KindFor("file:///tmp/m.json") != "file" {
		t.Fatalf("本地路径应走 file")
	}
}
