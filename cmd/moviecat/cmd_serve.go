package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/John-Robertt/moviecat/internal/source"
	"github.com/John-Robertt/moviecat/internal/web"
)

func newServeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 页面；启动后异步加载一次数据集",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := web.New(c.eff, source.Default(), c.log)
			if err != nil {
				return err
			}
			cmd.PrintErrf("serving %s on http://%s\n", c.eff.Dataset, c.eff.Listen)
			return srv.ListenAndServe(ctx)
		},
	}
}
