package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"relaydesk/internal/infrastructure/config"
	"relaydesk/internal/infrastructure/database"
	"relaydesk/internal/infrastructure/persistence/models"
	"relaydesk/internal/shared/logger"
)

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database schema migrations",
		Long:  `Create or update the database tables used by relaydesk.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	logger.Info("running migrations", "database", cfg.Database.Database)

	if err := database.Get().AutoMigrate(
		&models.GuildModel{},
		&models.TicketModel{},
		&models.MessageModel{},
		&models.KnowledgeModel{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	logger.Info("migrations completed")
	return nil
}
