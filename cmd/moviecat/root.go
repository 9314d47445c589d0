package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/John-Robertt/moviecat/internal/config"
	"github.com/John-Robertt/moviecat/internal/logx"
)

// cli 是一次命令执行共享的状态（由 PersistentPreRunE 填充）。
type cli struct {
	stdout io.Writer
	stderr io.Writer
	// cwd 为空时使用 os.Getwd（测试可覆盖）。
	cwd string

	configPath string
	dataset    string
	listen     string
	debug      bool
	logFile    string

	eff config.EffectiveConfig
	log *zap.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "moviecat",
		Short: "按语言、国家、类型浏览电影目录",
		Long: `moviecat 读取一份电影数据集（本地文件或 http(s) URL），
派生三个维度的可选值，并按所选条件的交集展示电影卡片。

命令：
  serve    启动 HTTP 页面（默认 127.0.0.1:8080）
  browse   在终端里浏览
  render   导出静态 HTML 页面
  options  输出可选值集合（JSON）`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.log != nil {
				_ = c.log.Sync()
			}
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &exitError{code: 2, err: fmt.Errorf("参数错误：%w\n\n%s", err, cmd.UsageString())}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "配置文件路径（默认查找 ./moviecat.yaml|yml|json）")
	pf.StringVar(&c.dataset, "dataset", "", "数据集位置：本地路径、file:// 或 http(s) URL")
	pf.StringVar(&c.listen, "listen", "", "serve 的监听地址")
	pf.BoolVar(&c.debug, "debug", false, "输出 debug 级别日志")
	pf.StringVar(&c.logFile, "log-file", "", "日志写入文件（browse 默认不输出日志）")

	root.AddCommand(
		newServeCmd(c),
		newBrowseCmd(c),
		newRenderCmd(c),
		newOptionsCmd(c),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command) error {
	cwd := c.cwd
	if cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("读取当前目录失败：%w", err)
		}
		cwd = wd
	}

	flags := cmd.Flags()
	eff, err := config.LoadEffective(cwd, config.CLIArgs{
		ConfigPath: c.configPath,
		Dataset:    c.dataset,
		DatasetSet: flags.Changed("dataset"),
		Listen:     c.listen,
		ListenSet:  flags.Changed("listen"),
	})
	if err != nil {
		return &exitError{code: 1, err: fmt.Errorf("配置错误（%s）：%w", config.Code(err), err)}
	}
	c.eff = eff

	log, err := logx.New(logx.Options{
		Debug: c.debug,
		File:  c.logFile,
		// 终端界面独占屏幕；没有 --log-file 时不输出日志。
		Quiet: cmd.Name() == "browse",
	})
	if err != nil {
		return fmt.Errorf("初始化日志失败：%w", err)
	}
	c.log = log
	c.log.Debug("effective config",
		zap.String("config_file", eff.ConfigFile),
		zap.String("dataset", eff.Dataset),
		zap.String("listen", eff.Listen),
		zap.Duration("fetch_timeout", eff.FetchTimeout),
		zap.Int("retry_max", eff.RetryMax),
		zap.Bool("proxy", eff.ProxyURL != ""),
	)
	return nil
}
