package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List available strategies",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := newRegistry(zap.NewNop())
		for _, name := range reg.Names() {
			strat, err := reg.Create(name)
			if err != nil {
				return err
			}
			fmt.Printf("%-16s %s\n", name, strat.Description())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(strategiesCmd)
}
