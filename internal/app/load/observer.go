package load

import (
	"time"

	"go.uber.org/zap"

	"github.com/John-Robertt/moviecat/internal/catalog"
	"github.com/John-Robertt/moviecat/internal/config"
)

// Observer 把加载过程的事件从执行流程中解耦出来（load 包只发事件，不做输出）。
type Observer interface {
	OnStart(eff config.EffectiveConfig)
	OnDone(eff config.EffectiveConfig, ev catalog.Event, dur time.Duration)
}

// LogObserver 把加载事件写入 zap logger。
type LogObserver struct {
	Log *zap.Logger
}

var _ Observer = LogObserver{}

func (o LogObserver) OnStart(eff config.EffectiveConfig) {
	o.logger().Info("dataset load started",
		zap.String("dataset", eff.Dataset),
		zap.Duration("timeout", eff.FetchTimeout),
		zap.Int("retry_max", eff.RetryMax),
		zap.Bool("proxy", eff.ProxyURL != ""),
	)
}

func (o LogObserver) OnDone(eff config.EffectiveConfig, ev catalog.Event, dur time.Duration) {
	switch e := ev.(type) {
	case catalog.LoadSucceeded:
		o.logger().Info("dataset loaded",
			zap.String("dataset", eff.Dataset),
			zap.Int("records", len(e.Records)),
			zap.Duration("took", dur),
		)
	case catalog.LoadFailed:
		o.logger().Error("dataset load failed",
			zap.String("dataset", eff.Dataset),
			zap.Error(e.Err),
			zap.Duration("took", dur),
		)
	}
}

func (o LogObserver) logger() *zap.Logger {
	if o.Log == nil {
		return zap.NewNop()
	}
	return o.Log
}
