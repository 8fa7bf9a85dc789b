package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"workshop-feedback/pkg/config"
	"workshop-feedback/pkg/database"
	"workshop-feedback/pkg/logger"
)

// app carries what every subcommand needs once the root has loaded it.
type app struct {
	cfg    *config.Config
	log    *slog.Logger
	openDB func(config.DatabaseConfig) (*gorm.DB, error)
}

func NewRootCmd() *cobra.Command {
	a := &app{openDB: database.Connect}
	root := &cobra.Command{
		Use:           "workshop-feedback",
		Short:         "Workshop feedback, OTP verification and certificate service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			a.cfg = cfg
			a.log = logger.Setup(cfg.Env)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}

	root.AddCommand(newServeCmd(a), newRenderCmd(a), newTokenCmd(a))
	return root
}
