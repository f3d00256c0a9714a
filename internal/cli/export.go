package cli

import (
	"context"
	"encoding/json"
	"os"

	"adaptive-assessment-service/internal/app"
	"adaptive-assessment-service/internal/config"
	"github.com/spf13/cobra"
)

// NewExportCmd writes the persisted progress as an export document.
func NewExportCmd(configPath *string) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export persisted progress as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), *configPath, out)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output file (defaults to the export filename, - for stdout)")
	return cmd
}

func runExport(ctx context.Context, configPath, out string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	d, err := buildDeps(ctx, cfg)
	if err != nil {
		return err
	}
	defer d.close()

	doc, err := app.NewAssessmentService(d.schedules, d.progress, logger).Export(ctx)
	if err != nil {
		return err
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if out == "-" {
		_, err = os.Stdout.Write(append(raw, '\n'))
		return err
	}
	if out == "" {
		out = app.ExportFilename(doc)
	}
	if err := os.WriteFile(out, raw, 0o644); err != nil {
		return err
	}
	logger.Info("export written", "path", out, "responses", len(doc.Responses))
	return nil
}
