package main

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/John-Robertt/moviecat/internal/app/load"
	"github.com/John-Robertt/moviecat/internal/catalog"
	"github.com/John-Robertt/moviecat/internal/config"
)

var _ load.Observer = (*progressUI)(nil)

// progressUI 是交互终端下的加载进度输出（只写 stderr，不污染 stdout）。
//
// 数据集只请求一次，但远端可能很慢：超过 keepaliveThreshold 仍未完成时定期输出一行。
type progressUI struct {
	w io.Writer

	mu          sync.Mutex
	startedAt   time.Time
	lastPrinted time.Time

	keepaliveThreshold time.Duration
	tickerInterval     time.Duration

	stopCh chan struct{}
	ticker sync.WaitGroup
}

func newProgressUI(w io.Writer) *progressUI {
	return &progressUI{
		w:                  w,
		keepaliveThreshold: 3 * time.Second,
		tickerInterval:     time.Second,
	}
}

func (p *progressUI) OnStart(eff config.EffectiveConfig) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	p.startedAt = now
	p.lastPrinted = now

	fmt.Fprintf(p.w, "[%s] moviecat\n", now.Format("15:04:05"))
	fmt.Fprintln(p.w, "配置（生效）:")
	if eff.ConfigFile != "" {
		fmt.Fprintf(p.w, "  config: %s\n", eff.ConfigFile)
	}
	fmt.Fprintf(p.w, "  dataset: %s\n", truncate(eff.Dataset, 120))
	fmt.Fprintf(p.w, "  fetch_timeout: %s\n", eff.FetchTimeout)
	fmt.Fprintf(p.w, "  retry_max: %d\n", eff.RetryMax)
	fmt.Fprintf(p.w, "  proxy: %s\n", formatProxy(eff.ProxyURL))

	if p.stopCh == nil {
		p.startTickerLocked()
	}
}

func (p *progressUI) OnDone(eff config.EffectiveConfig, ev catalog.Event, dur time.Duration) {
	// 先停掉 keepalive，保证结果行之后不再有输出。
	p.mu.Lock()
	if p.stopCh != nil {
		close(p.stopCh)
		p.stopCh = nil
	}
	p.mu.Unlock()
	p.ticker.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()

	switch e := ev.(type) {
	case catalog.LoadSucceeded:
		fmt.Fprintf(p.w, "加载: OK records=%d (%s)\n", len(e.Records), formatShortDuration(dur))
	case catalog.LoadFailed:
		msg := "unknown error"
		if e.Err != nil {
			msg = e.Err.Error()
		}
		fmt.Fprintf(p.w, "加载: FAIL %s (%s)\n", truncate(msg, 160), formatShortDuration(dur))
	}
	p.lastPrinted = time.Now()
}

func (p *progressUI) startTickerLocked() {
	stop := make(chan struct{})
	p.stopCh = stop

	interval := p.tickerInterval
	if interval <= 0 {
		interval = time.Second
	}
	threshold := p.keepaliveThreshold
	if threshold <= 0 {
		threshold = 3 * time.Second
	}

	p.ticker.Add(1)
	go func() {
		defer p.ticker.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-t.C:
				p.mu.Lock()
				if time.Since(p.lastPrinted) > threshold {
					fmt.Fprintf(p.w, "等待数据集... elapsed=%s\n", formatElapsed(time.Since(p.startedAt)))
					p.lastPrinted = time.Now()
				}
				p.mu.Unlock()
			case <-stop:
				return
			}
		}
	}()
}

// multiObserver 把事件依次转发给多个 Observer。
type multiObserver []load.Observer

func (m multiObserver) OnStart(eff config.EffectiveConfig) {
	for _, o := range m {
		o.OnStart(eff)
	}
}

func (m multiObserver) OnDone(eff config.EffectiveConfig, ev catalog.Event, dur time.Duration) {
	for _, o := range m {
		o.OnDone(eff, ev, dur)
	}
}

func isTTY(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// pickProgressWriter 只在 w 是交互终端时启用进度输出。
func pickProgressWriter(w io.Writer) (io.Writer, bool) {
	f, ok := w.(*os.File)
	if !ok || !isTTY(f) {
		return nil, false
	}
	return f, true
}

func formatProxy(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "off"
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "on (" + truncate(raw, 120) + ")"
	}
	auth := "off"
	if u.User != nil {
		auth = "on"
	}
	return fmt.Sprintf("on (%s://%s, auth=%s)", u.Scheme, u.Host, auth)
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 || len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

func formatShortDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	sec := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", sec/3600, (sec%3600)/60, sec%60)
}
