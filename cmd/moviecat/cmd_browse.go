package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/John-Robertt/moviecat/internal/app/load"
	"github.com/John-Robertt/moviecat/internal/catalog"
	"github.com/John-Robertt/moviecat/internal/source"
	"github.com/John-Robertt/moviecat/internal/tui"
)

func newBrowseCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "在终端里浏览目录（tab 切换维度，←/→ 选择，q 退出）",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			obs := load.LogObserver{Log: c.log}
			fetch := func(ctx context.Context) catalog.Event {
				return load.Execute(ctx, c.eff, source.Default(), obs)
			}
			m := tui.New(cmd.Context(), fetch, c.eff.FallbackImage)
			_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}
