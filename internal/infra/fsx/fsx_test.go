package fsx

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func site() []File {
	return []File{
		{Name: "defaultImg.png", Data: []byte("png")},
		{Name: "index.html", Data: []byte("<html>v1</html>")},
	}
}

func TestWriteFiles_CreatesDirAndNoTempLeft(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "site")

	if err := WriteFiles(dir, site(), NoOverwrite); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	for _, f := range site() {
		b, err := os.ReadFile(filepath.Join(dir, f.Name))
		if err != nil {
			t.Fatalf("读取 %s 失败：%v", f.Name, err)
		}
		if string(b) != string(f.Data) {
			t.Fatalf("%s 内容不一致：%q", f.Name, string(b))
		}
	}
	assertNoTemp(t, dir)
}

func TestWriteFiles_ReplaceOverwrites(t *testing.T) {
	dir := t.TempDir()
	if err := WriteFiles(dir, site(), NoOverwrite); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}

	next := []File{{Name: "index.html", Data: []byte("v2")}}
	if err := WriteFiles(dir, next, Replace); err != nil {
		t.Fatalf("覆盖写入不期望错误：%v", err)
	}
	b, _ := os.ReadFile(filepath.Join(dir, "index.html"))
	if string(b) != "v2" {
		t.Fatalf("期望被覆盖为 v2，实际 %q", string(b))
	}
}

func TestWriteFiles_NoOverwriteLeavesDirUntouched(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("mine"), 0o644); err != nil {
		t.Fatalf("写入失败：%v", err)
	}

	err := WriteFiles(dir, site(), NoOverwrite)
	var ee *ExistsError
	if !errors.As(err, &ee) || ee.Path != filepath.Join(dir, "index.html") {
		t.Fatalf("期望 index.html 的 ExistsError，实际：%v", err)
	}
	if !errors.Is(err, fs.ErrExist) {
		t.Fatalf("ExistsError 应匹配 fs.ErrExist")
	}

	b, _ := os.ReadFile(filepath.Join(dir, "index.html"))
	if string(b) != "mine" {
		t.Fatalf("已有文件不应被覆盖：%q", string(b))
	}
	// 排在前面的 defaultImg.png 也不应被写出。
	if _, err := os.Stat(filepath.Join(dir, "defaultImg.png")); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("检查失败时不应写入任何文件：%v", err)
	}
}

func TestCheck_DirectoryTargetIsConflictInBothModes(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "index.html"), 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}

	for _, mode := range []Mode{NoOverwrite, Replace} {
		err := Check(dir, []string{"defaultImg.png", "index.html"}, mode)
		var pe *PathTypeConflictError
		if !errors.As(err, &pe) {
			t.Fatalf("mode=%d 期望 PathTypeConflictError，实际：%T %v", mode, err, err)
		}
		if errors.Is(err, fs.ErrExist) {
			t.Fatalf("类型冲突不应被当作“已存在”")
		}
	}
}

func TestWriteFiles_RenameFailCleansTemp(t *testing.T) {
	dir := t.TempDir()

	old := renameFunc
	renameFunc = func(oldpath, newpath string) error {
		return os.ErrPermission
	}
	defer func() { renameFunc = old }()

	if err := WriteFiles(dir, site(), Replace); !errors.Is(err, os.ErrPermission) {
		t.Fatalf("期望 ErrPermission，实际：%v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir 失败：%v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("rename 失败后目录应为空，实际 %d 个条目", len(entries))
	}
}

func assertNoTemp(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir 失败：%v", err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Fatalf("临时文件未清理：%q", e.Name())
		}
	}
}
