// Package load 执行一次数据集加载，并把结果表达为目录事件（成功/失败二选一）。
package load

import (
	"context"
	"fmt"
	"time"

	"github.com/John-Robertt/moviecat/internal/catalog"
	"github.com/John-Robertt/moviecat/internal/config"
	"github.com/John-Robertt/moviecat/internal/infra/httpx"
	"github.com/John-Robertt/moviecat/internal/source"
)

// Execute 只请求一次数据集（不重试、不分页，除非配置了 retry_max），
// 返回 catalog.LoadSucceeded 或 catalog.LoadFailed。
//
// 该函数不会 panic，也不会返回 nil：所有错误都被收敛进 LoadFailed。
func Execute(ctx context.Context, eff config.EffectiveConfig, reg source.Registry, obs Observer) catalog.Event {
	started := time.Now()
	if obs != nil {
		obs.OnStart(eff)
	}

	ev := execute(ctx, eff, reg)

	if obs != nil {
		obs.OnDone(eff, ev, time.Since(started))
	}
	return ev
}

func execute(ctx context.Context, eff config.EffectiveConfig, reg source.Registry) catalog.Event {
	client, err := httpx.NewClient(httpx.Options{
		ProxyURL: eff.ProxyURL,
		RetryMax: eff.RetryMax,
		Timeout:  eff.FetchTimeout,
	})
	if err != nil {
		return catalog.LoadFailed{Err: fmt.Errorf("构造 http client 失败：%w", err)}
	}

	timeout := eff.FetchTimeout
	if timeout <= 0 {
		timeout = config.DefaultFetchTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	movies, err := source.Load(ctx, reg, eff.Dataset, client)
	if err != nil {
		return catalog.LoadFailed{Err: err}
	}
	return catalog.LoadSucceeded{Records: movies}
}
