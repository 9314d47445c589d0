package logx

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_QuietIsNop(t *testing.T) {
	l, err := New(Options{Quiet: true})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if l.Core().Enabled(0) {
		t.Fatalf("quiet 模式应返回 no-op logger")
	}
}

func TestNew_FileOutputAndDebugLevel(t *testing.T) {
	p := filepath.Join(t.TempDir(), "moviecat.log")
	l, err := New(Options{Debug: true, File: p, Quiet: true})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	l.Debug("dataset loaded")
	_ = l.Sync()

	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("读取日志失败：%v", err)
	}
	if !strings.Contains(string(b), `"msg":"dataset loaded"`) {
		t.Fatalf("日志缺少 debug 消息：%s", string(b))
	}
}
