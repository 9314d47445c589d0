package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/John-Robertt/moviecat/internal/catalog"
	"github.com/John-Robertt/moviecat/internal/domain"
	"github.com/John-Robertt/moviecat/internal/source"
	"github.com/John-Robertt/moviecat/internal/view"
)

func (s *Server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.accessLog())
	r.SetHTMLTemplate(view.Template())

	r.GET("/", s.index)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "state": s.Snapshot().Load.String()})
	})
	r.GET("/defaultImg.png", func(c *gin.Context) {
		c.Data(http.StatusOK, "image/png", s.poster)
	})
	// 本地数据集同时以固定相对路径对外提供。
	if !s.eff.IsRemote() {
		r.GET("/movies.json", func(c *gin.Context) {
			c.File(source.LocalPath(s.eff.Dataset))
		})
	}

	api := r.Group("/api")
	{
		api.GET("/movies", s.movies)
		api.GET("/options", s.options)
	}
	return r
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		s.log.Debug("http",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("dur", time.Since(started)),
		)
	}
}

// filtered 把查询参数作为过滤事件应用到当前快照。
// 只有加载成功后才应用；加载中/失败时原样返回（页面会自动刷新并保留查询串）。
func (s *Server) filtered(c *gin.Context) (catalog.State, error) {
	st := s.Snapshot()
	if st.Load != catalog.Loaded {
		return st, nil
	}
	f := catalog.Filters{
		Language: c.Query(string(catalog.Language)),
		Country:  c.Query(string(catalog.Country)),
		Genre:    c.Query(string(catalog.Genre)),
	}
	return catalog.Apply(st, f)
}

func (s *Server) index(c *gin.Context) {
	st, err := s.filtered(c)
	status := http.StatusOK
	if err != nil {
		// 拒绝的选择不改变快照：仍渲染未过滤的页面。
		status = statusFor(err)
	}
	c.HTML(status, "catalog.html", view.NewPage(st, s.eff.FallbackImage))
}

type moviesResponse struct {
	State   string          `json:"state"`
	Error   string          `json:"error,omitempty"`
	Options catalog.Options `json:"options"`
	Filters filtersJSON     `json:"filters"`
	Movies  []domain.Movie  `json:"movies"`
}

type filtersJSON struct {
	Language string `json:"language"`
	Country  string `json:"country"`
	Genre    string `json:"genre"`
}

func (s *Server) movies(c *gin.Context) {
	st, err := s.filtered(c)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	resp := moviesResponse{
		State:   st.View().String(),
		Options: st.Options.OrEmpty(),
		Filters: filtersJSON{Language: st.Filters.Language, Country: st.Filters.Country, Genre: st.Filters.Genre},
		Movies:  st.Visible,
	}
	if st.Err != nil {
		resp.Error = st.Err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) options(c *gin.Context) {
	st := s.Snapshot()
	switch st.Load {
	case catalog.Loading:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "dataset is loading"})
	case catalog.Failed:
		c.JSON(http.StatusBadGateway, gin.H{"error": st.Err.Error()})
	default:
		c.JSON(http.StatusOK, st.Options.OrEmpty())
	}
}

func statusFor(err error) int {
	if errors.Is(err, catalog.ErrUnknownOption) || errors.Is(err, catalog.ErrUnknownDimension) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
