package cli

import (
	"context"
	"fmt"

	"adaptive-assessment-service/internal/config"
	"adaptive-assessment-service/internal/infra/file"
	"adaptive-assessment-service/internal/infra/postgres"
	"github.com/spf13/cobra"
)

// NewSeedCmd loads the schedule files into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load schedule and question bank files into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath)
		},
	}
}

func runSeed(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	data, err := file.NewScheduleLoader(cfg.Data.SchedulePath, cfg.Data.QuestionsPath).LoadSchedule(ctx)
	if err != nil {
		return err
	}

	db := openBun(cfg.Postgres.URL)
	defer db.Close()
	if err := postgres.NewSeeder(db).Seed(ctx, data); err != nil {
		return err
	}
	logger.Info("schedule seeded", "days", len(data.Days), "questions", len(data.Questions))
	return nil
}
