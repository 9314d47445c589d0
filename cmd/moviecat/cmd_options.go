package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newOptionsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "输出从完整数据集派生的可选值集合（JSON）",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.loadState(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(c.stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(st.Options.OrEmpty()); err != nil {
				return fmt.Errorf("写入 stdout 失败：%w", err)
			}
			return nil
		},
	}
}
