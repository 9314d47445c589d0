//go:build !unix && !windows

package fsx

func crossDevice(error) bool { return false }
