// Package logx 构造全局共用的 zap logger。
package logx

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options 控制 logger 的级别与输出位置。
type Options struct {
	Debug bool
	// File 非空时日志写入该文件（TUI 模式下避免污染终端）；否则写 stderr。
	File string
	// Quiet 为 true 且 File 为空时返回 no-op logger。
	Quiet bool
}

// New 按生产配置构造 logger；Debug 打开 debug 级别。
func New(opts Options) (*zap.Logger, error) {
	file := strings.TrimSpace(opts.File)
	if opts.Quiet && file == "" {
		return zap.NewNop(), nil
	}

	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if opts.Debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if file != "" {
		cfg.OutputPaths = []string{file}
		cfg.ErrorOutputPaths = []string{file}
	} else {
		cfg.OutputPaths = []string{"stderr"}
	}
	return cfg.Build()
}
