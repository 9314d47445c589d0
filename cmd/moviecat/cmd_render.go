package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/John-Robertt/moviecat/internal/app/load"
	"github.com/John-Robertt/moviecat/internal/catalog"
	"github.com/John-Robertt/moviecat/internal/infra/fsx"
	"github.com/John-Robertt/moviecat/internal/infra/imgx"
	"github.com/John-Robertt/moviecat/internal/source"
	"github.com/John-Robertt/moviecat/internal/view"
)

const (
	indexFile  = "index.html"
	posterFile = "defaultImg.png"
)

type renderArgs struct {
	out     string
	force   bool
	filters catalog.Filters
}

func newRenderCmd(c *cli) *cobra.Command {
	var ra renderArgs
	cmd := &cobra.Command{
		Use:   "render",
		Short: "加载一次数据集，按条件过滤后导出静态页面",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(ra.out) == "" {
				return &exitError{code: 2, err: fmt.Errorf("参数错误：--out 不能为空\n\n%s", cmd.UsageString())}
			}
			return c.render(cmd.Context(), ra)
		},
	}
	f := cmd.Flags()
	f.StringVar(&ra.out, "out", "", "输出目录（必填）")
	f.BoolVar(&ra.force, "force", false, "覆盖已存在的文件")
	f.StringVar(&ra.filters.Language, "language", "", "按语言过滤")
	f.StringVar(&ra.filters.Country, "country", "", "按国家过滤")
	f.StringVar(&ra.filters.Genre, "genre", "", "按类型过滤")
	return cmd
}

// loadState 执行一次加载；失败时返回 exitError（退出码 1）。
func (c *cli) loadState(ctx context.Context) (catalog.State, error) {
	var obs load.Observer = load.LogObserver{Log: c.log}
	if w, ok := pickProgressWriter(c.stderr); ok {
		obs = multiObserver{obs, newProgressUI(w)}
	}

	st, err := catalog.Reduce(catalog.NewState(), load.Execute(ctx, c.eff, source.Default(), obs))
	if err != nil {
		return st, err
	}
	if st.Load == catalog.Failed {
		return st, &exitError{code: 1, err: fmt.Errorf("加载数据集失败：%w", st.Err)}
	}
	return st, nil
}

func (c *cli) render(ctx context.Context, ra renderArgs) error {
	out, err := filepath.Abs(ra.out)
	if err != nil {
		return err
	}
	mode := fsx.NoOverwrite
	if ra.force {
		mode = fsx.Replace
	}
	// 先检查输出目录，避免加载完远端数据集后才发现无法写入。
	if err := fsx.Check(out, []string{posterFile, indexFile}, mode); err != nil {
		return outputError(err)
	}

	st, err := c.loadState(ctx)
	if err != nil {
		return err
	}
	st, err = catalog.Apply(st, ra.filters)
	if err != nil {
		return &exitError{code: 2, err: fmt.Errorf("过滤条件无效：%w", err)}
	}

	// 静态页面通过 file:// 打开时，根路径的回退图片不可达：改用同目录文件。
	fallback := c.eff.FallbackImage
	if fallback == catalog.DefaultFallbackImage {
		fallback = posterFile
	}
	page := view.NewPage(st, fallback)
	page.Static = true

	var buf bytes.Buffer
	if err := view.Render(&buf, page); err != nil {
		return fmt.Errorf("渲染页面失败：%w", err)
	}
	poster, err := imgx.PlaceholderPosterPNG(imgx.PosterWidth, imgx.PosterHeight)
	if err != nil {
		return err
	}

	files := []fsx.File{
		{Name: posterFile, Data: poster},
		{Name: indexFile, Data: buf.Bytes()},
	}
	if err := fsx.WriteFiles(out, files, mode); err != nil {
		return outputError(err)
	}

	fmt.Fprintf(c.stdout, "%s (%d/%d movies, %s)\n",
		filepath.Join(out, indexFile), len(st.Visible), len(st.Records), st.View())
	return nil
}

// outputError 把写入失败翻译成可操作的提示（退出码 1）。
func outputError(err error) error {
	var (
		exists   *fsx.ExistsError
		conflict *fsx.PathTypeConflictError
		cross    *fsx.CrossDeviceError
	)
	switch {
	case errors.As(err, &exists):
		return &exitError{code: 1, err: fmt.Errorf("%s 已存在（使用 --force 覆盖）", exists.Path)}
	case errors.As(err, &conflict):
		return &exitError{code: 1, err: fmt.Errorf("%s 是%s，无法写入页面（--force 也不会删除它）；请移走它或换一个 --out", conflict.Path, conflict.Got)}
	case errors.As(err, &cross):
		return &exitError{code: 1, err: fmt.Errorf("%s 与临时文件不在同一文件系统，无法原子写入；请把 --out 指向真实目录而不是跨挂载点的链接：%w", cross.Path, cross.Err)}
	default:
		return &exitError{code: 1, err: fmt.Errorf("写入输出目录失败：%w", err)}
	}
}
