package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/testgen/internal/config"
	"github.com/ziadkadry99/testgen/internal/tui"
	"github.com/ziadkadry99/testgen/internal/upload"
	"github.com/ziadkadry99/testgen/internal/workflow"
)

func newGenerateCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "generate",
		Short: "Generate test cases from requirements",
		Long: `Sends requirements to the generation service and prints the generated
test cases. Requirements come from --text/--text-file, or from a document
given with --file (uploaded first) or --doc-id (uploaded earlier).`,
		RunE: runGenerate,
	}
	c.Flags().String("text", "", "requirements text")
	c.Flags().String("text-file", "", "read requirements text from a file")
	c.Flags().String("file", "", "requirements document to upload")
	c.Flags().String("doc-id", "", "id of a previously uploaded document")
	c.Flags().String("model", "", "model id (see `testgen models`)")
	c.Flags().String("project", "", "project name")
	c.Flags().String("form-factor", "", "web, mobile, desktop or api")
	c.Flags().String("levels", "", "comma separated test levels (default: all)")
	c.Flags().Int("count", 0, "number of test cases to request")
	c.Flags().Int("top-k", 0, "number of context chunks to retrieve")
	c.Flags().BoolP("interactive", "i", false, "fill the form interactively")
	c.Flags().String("export", "", "export results afterwards: json or excel")
	c.Flags().StringP("out", "o", ".", "directory for exports")
	c.Flags().Bool("no-results", false, "do not print the results payload")
	return c
}

func init() {
	rootCmd.AddCommand(newGenerateCmd())
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	flags := cmd.Flags()
	exportKind, _ := flags.GetString("export")
	if exportKind != "" && exportKind != "json" && exportKind != "excel" {
		return fmt.Errorf("unknown export format %q (use json or excel)", exportKind)
	}

	levels := a.cfg.InitialLevels()
	if s, _ := flags.GetString("levels"); s != "" {
		if levels, err = parseLevels(s); err != nil {
			return err
		}
	}
	state := workflow.NewState(a.cfg.Defaults, levels)

	if err := applyFormFlags(cmd, state); err != nil {
		return err
	}

	noResults, _ := flags.GetBool("no-results")
	a.view.ShowResults = !noResults

	outDir, _ := flags.GetString("out")
	ctrl := a.controller(state, outDir)
	ctrl.LoadModels(ctx)

	interactive, _ := flags.GetBool("interactive")
	if interactive {
		if err := tui.RunForm(ctx, ctrl); err != nil {
			return err
		}
	} else {
		model, _ := flags.GetString("model")
		if model == "" {
			model = a.cfg.Defaults.Model
		}
		if err := ctrl.SelectModel(model); err != nil {
			return err
		}
		if path, _ := flags.GetString("file"); path != "" {
			paths, err := upload.Expand(path)
			if err != nil {
				return err
			}
			// Uploaded by Submit once the form validates.
			f, err := upload.Select(paths...)
			if err != nil {
				a.view.UploadStatus(workflow.StatusError, err.Error())
				return shown(err)
			}
			state.Form.SelectedFile = f
		}
	}

	if err := ctrl.Submit(ctx); err != nil {
		return shown(err)
	}
	a.printSession()

	if exportKind != "" {
		return runExport(cmd, ctrl, exportKind, false)
	}
	return nil
}

// applyFormFlags copies command line values onto the form.
func applyFormFlags(cmd *cobra.Command, state *workflow.State) error {
	flags := cmd.Flags()
	form := &state.Form

	if v, _ := flags.GetString("project"); v != "" {
		form.ProjectName = v
	}
	if v, _ := flags.GetString("form-factor"); v != "" {
		ff := config.FormFactor(strings.ToLower(v))
		if !config.IsKnownFormFactor(ff) {
			return fmt.Errorf("unknown form factor %q", v)
		}
		form.FormFactor = ff
	}
	if v, _ := flags.GetInt("count"); v != 0 {
		if v < 0 {
			return fmt.Errorf("--count must be positive")
		}
		form.Count = v
	}
	if v, _ := flags.GetInt("top-k"); v != 0 {
		if v < 0 {
			return fmt.Errorf("--top-k must be positive")
		}
		form.TopK = v
	}

	text, _ := flags.GetString("text")
	textFile, _ := flags.GetString("text-file")
	file, _ := flags.GetString("file")
	docID, _ := flags.GetString("doc-id")

	if text != "" && textFile != "" {
		return fmt.Errorf("use either --text or --text-file")
	}
	if (text != "" || textFile != "") && (file != "" || docID != "") {
		return fmt.Errorf("requirements text and a document cannot be combined")
	}

	if textFile != "" {
		data, err := os.ReadFile(textFile)
		if err != nil {
			return fmt.Errorf("reading requirements: %w", err)
		}
		text = string(data)
	}
	form.RequirementsText = text

	if file != "" || docID != "" {
		form.Source = workflow.SourceFile
		form.DocID = docID
	}
	return nil
}
