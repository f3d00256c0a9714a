package cli

import (
	"context"

	"adaptive-assessment-service/internal/app"
	"adaptive-assessment-service/internal/config"
	"github.com/spf13/cobra"
)

// NewResetCmd erases the persisted progress.
func NewResetCmd(configPath *string) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase persisted progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReset(cmd.Context(), *configPath, yes)
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm erasing all progress")
	return cmd
}

func runReset(ctx context.Context, configPath string, confirm bool) error {
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

	return app.NewAssessmentService(d.schedules, d.progress, logger).Reset(ctx, confirm)
}
