package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/testgen/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a testgen configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the backend address and form defaults and writes a .testgen.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := config.RunWizard(cfgFile); err != nil {
			return err
		}
		fmt.Printf("Configuration written to %s\n", cfgFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
