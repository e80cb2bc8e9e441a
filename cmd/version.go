package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/testgen/internal/config"
)

// Version is set via ldflags at build time.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of testgen",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("testgen %s\n", Version)
		if cfg, err := config.Load(cfgFile); err == nil {
			fmt.Printf("app: %s %s\n", cfg.App.Name, cfg.App.Version)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
