// Package fsx 把导出的静态页面产物原子地写入输出目录。
package fsx

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
)

// 测试通过替换它模拟 EXDEV 等 rename 失败。
var renameFunc = os.Rename

// Mode 决定目标文件已存在时的行为。
type Mode int

const (
	// NoOverwrite：任一目标已存在则一个文件都不写。
	NoOverwrite Mode = iota
	// Replace：覆盖已有的普通文件。
	Replace
)

// File 是一个待写入输出目录的产物。
type File struct {
	Name string
	Data []byte
}

// ExistsError 表示 NoOverwrite 模式下目标已存在；errors.Is(err, fs.ErrExist) 为 true。
type ExistsError struct {
	Path string
}

func (e *ExistsError) Error() string { return fmt.Sprintf("%s 已存在", e.Path) }

func (e *ExistsError) Is(target error) bool { return target == fs.ErrExist }

// PathTypeConflictError 表示目标路径存在但不是普通文件（目录、符号链接……）。
type PathTypeConflictError struct {
	Path string
	Got  string
}

func (e *PathTypeConflictError) Error() string {
	return fmt.Sprintf("%s 不是普通文件（实际是 %s）", e.Path, e.Got)
}

// CrossDeviceError 表示临时文件无法 rename 到目标位置（源与目标不在同一文件系统）。
// 临时文件总在目标目录内创建，出现它通常意味着输出目录本身是跨挂载点的链接。
type CrossDeviceError struct {
	Path string
	Err  error
}

func (e *CrossDeviceError) Error() string {
	return fmt.Sprintf("无法原子写入 %s（跨文件系统）：%v", e.Path, e.Err)
}

func (e *CrossDeviceError) Unwrap() error { return e.Err }

// Check 只检查 dir 下的目标能否按 mode 写入，不做任何修改。
// 返回 *ExistsError、*PathTypeConflictError 或 Lstat 的原始错误。
func Check(dir string, names []string, mode Mode) error {
	dir = filepath.Clean(dir)
	for _, name := range names {
		if err := checkTarget(filepath.Join(dir, name), mode); err != nil {
			return err
		}
	}
	return nil
}

// WriteFiles 先 Check 全部目标，再逐个原子写入（同目录临时文件 + rename）。
//
// 约束：
// - 检查失败时输出目录保持原样
// - 每个文件要么是旧内容要么是新内容，不会出现写了一半的文件
func WriteFiles(dir string, files []File, mode Mode) error {
	dir = filepath.Clean(dir)
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name)
	}
	if err := Check(dir, names, mode); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, f := range files {
		if err := writeAtomic(dir, f); err != nil {
			return err
		}
	}
	syncDir(dir)
	return nil
}

func checkTarget(dst string, mode Mode) error {
	fi, err := os.Lstat(dst)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil
	case err != nil:
		return err
	case fi.IsDir():
		return &PathTypeConflictError{Path: dst, Got: "目录"}
	case !fi.Mode().IsRegular():
		return &PathTypeConflictError{Path: dst, Got: fi.Mode().Type().String()}
	case mode == NoOverwrite:
		return &ExistsError{Path: dst}
	}
	return nil
}

func writeAtomic(dir string, f File) (err error) {
	dst := filepath.Join(dir, f.Name)

	// 前缀带 '.'：静态服务器不会把未完成的临时文件当作页面发布。
	tmp, err := os.CreateTemp(dir, "."+f.Name+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = tmp.Close()
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(f.Data); err != nil {
		return err
	}
	if err = tmp.Chmod(0o644); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}

	if err = renameFunc(tmp.Name(), dst); err != nil {
		if crossDevice(err) {
			return &CrossDeviceError{Path: dst, Err: err}
		}
		return err
	}
	return nil
}

// syncDir 让 rename 落盘；失败不影响结果。Windows 不支持对目录 fsync。
func syncDir(dir string) {
	if runtime.GOOS == "windows" {
		return
	}
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
