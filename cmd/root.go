package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	verbose   bool
	sessionID string
)

var rootCmd = &cobra.Command{
	Use:   "testgen",
	Short: "Generate test cases from requirements with an AI backend",
	Long: `TestGen sends your requirements, typed or uploaded as a document, to a
test case generation service and lets you browse, summarize and export
the generated test cases from the terminal or a local dashboard.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Errors the terminal view already showed
// are not printed again.
func Execute() error {
	err := rootCmd.Execute()
	var r shownError
	if err != nil && !errors.As(err, &r) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".testgen.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&sessionID, "session", "", "reuse the session id printed by an earlier run")
}

// shownError wraps an error that has already been rendered to the user.
type shownError struct{ err error }

func (e shownError) Error() string { return e.err.Error() }
func (e shownError) Unwrap() error { return e.err }

func shown(err error) error {
	if err == nil {
		return nil
	}
	return shownError{err: err}
}
