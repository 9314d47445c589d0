//go:build unix

package fsx

import (
	"errors"
	"syscall"
)

// crossDevice 报告 rename 是否因跨文件系统失败（*os.LinkError 会展开到 Errno）。
func crossDevice(err error) bool { return errors.Is(err, syscall.EXDEV) }
