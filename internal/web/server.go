// Package web 把目录以 HTTP 页面与 JSON 接口的形式提供出来（moviecat serve）。
package web

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/John-Robertt/moviecat/internal/app/load"
	"github.com/John-Robertt/moviecat/internal/catalog"
	"github.com/John-Robertt/moviecat/internal/config"
	"github.com/John-Robertt/moviecat/internal/infra/imgx"
	"github.com/John-Robertt/moviecat/internal/source"
)

const shutdownTimeout = 5 * time.Second

// Server 持有当前目录快照，并在启动时异步加载一次数据集。
//
// 快照通过 atomic.Pointer 整体替换；请求处理只读快照，从不修改。
type Server struct {
	eff config.EffectiveConfig
	reg source.Registry
	log *zap.Logger
	obs load.Observer

	state    atomic.Pointer[catalog.State]
	loadOnce sync.Once
	poster   []byte

	engine *gin.Engine
}

// New 构造 Server。log 为 nil 时使用 zap.NewNop()。
func New(eff config.EffectiveConfig, reg source.Registry, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	poster, err := imgx.PlaceholderPosterPNG(imgx.PosterWidth, imgx.PosterHeight)
	if err != nil {
		return nil, err
	}

	s := &Server{
		eff:    eff,
		reg:    reg,
		log:    log,
		obs:    load.LogObserver{Log: log},
		poster: poster,
	}
	initial := catalog.NewState()
	s.state.Store(&initial)
	s.engine = s.routes()
	return s, nil
}

// Handler 返回 gin engine（测试通过 httptest 直接驱动）。
func (s *Server) Handler() http.Handler { return s.engine }

// Snapshot 返回当前快照。
func (s *Server) Snapshot() catalog.State { return *s.state.Load() }

// Load 执行一次数据集加载并替换快照；同一 Server 上只有第一次调用生效。
func (s *Server) Load(ctx context.Context) {
	s.loadOnce.Do(func() {
		ev := load.Execute(ctx, s.eff, s.reg, s.obs)
		next, err := catalog.Reduce(s.Snapshot(), ev)
		if err != nil {
			s.log.Warn("丢弃加载结果", zap.Error(err))
			return
		}
		s.state.Store(&next)
	})
}

// Serve 在 ln 上提供服务，同时异步加载数据集；ctx 取消后优雅关闭。
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.Load(gctx)
		return nil
	})
	g.Go(func() error {
		s.log.Info("listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}

// ListenAndServe 监听 eff.Listen 后调用 Serve。
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.eff.Listen)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}
