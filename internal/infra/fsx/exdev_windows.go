//go:build windows

package fsx

import (
	"errors"
	"syscall"
)

// errorNotSameDevice 是 Windows 的 ERROR_NOT_SAME_DEVICE。
const errorNotSameDevice = syscall.Errno(17)

func crossDevice(err error) bool { return errors.Is(err, errorNotSameDevice) }
