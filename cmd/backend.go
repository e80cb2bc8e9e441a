package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/testgen/internal/upload"
	"github.com/ziadkadry99/testgen/internal/workflow"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the generation service is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		host := a.client.Endpoints().Host()
		if err := a.client.Health(cmd.Context()); err != nil {
			return fmt.Errorf("backend at %q is not healthy: %w", host, err)
		}
		color.Green("Backend at %s is healthy", host)
		return nil
	},
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the AI models offered by the service",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		a.controller(nil, "").LoadModels(cmd.Context())
		return nil
	},
}

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a requirements document",
	Long: `Uploads a .txt, .md, .doc, .docx or .pdf file of at most 10MB and prints
the document id to pass to "testgen generate --doc-id". Glob patterns
(including **) are accepted as long as they match exactly one file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		paths, err := upload.Expand(args...)
		if err != nil {
			return err
		}

		ctrl := a.controller(nil, "")
		if err := ctrl.SelectFile(cmd.Context(), paths...); err != nil {
			return shown(err)
		}
		fmt.Printf("doc_id: %s\n", ctrl.State().LastDocID)
		a.printSession()
		return nil
	},
}

var resultsCmd = &cobra.Command{
	Use:     "latest",
	Aliases: []string{"results"},
	Short:   "Show the latest stored test cases for this session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.controller(nil, "").RefreshLatest(cmd.Context()); err != nil {
			return shown(err)
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show generation statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if _, err := a.controller(nil, "").RefreshStatistics(cmd.Context()); err != nil {
			return fmt.Errorf("fetching statistics: %w", err)
		}
		return nil
	},
}

var exportOut string

var exportCmd = &cobra.Command{
	Use:       "export json|excel",
	Short:     "Export the latest test cases to a file",
	Long:      `Writes the latest test cases either as pretty-printed JSON (test-cases-YYYY-MM-DD.json) or as the spreadsheet rendered by the service.`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"json", "excel"},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		a.view.ShowResults = false
		ctrl := a.controller(nil, exportOut)
		return runExport(cmd, ctrl, args[0], true)
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", ".", "directory to write the export to")
	rootCmd.AddCommand(healthCmd, modelsCmd, uploadCmd, resultsCmd, statsCmd, exportCmd)
}

// runExport writes an export of the given kind. With refresh set, the
// stored results are fetched first so a fresh process has something to
// export.
func runExport(cmd *cobra.Command, ctrl *workflow.Controller, kind string, refresh bool) error {
	switch kind {
	case "json":
		if refresh {
			// A failed fetch is already reported; the export then reports
			// that there is nothing to write.
			_ = ctrl.RefreshLatest(cmd.Context())
		}
		_, err := ctrl.ExportJSON()
		return shown(err)
	case "excel":
		_, err := ctrl.ExportSpreadsheet(cmd.Context())
		return shown(err)
	default:
		return fmt.Errorf("unknown export format %q (use json or excel)", kind)
	}
}
