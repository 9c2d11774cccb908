package main

import (
	"fmt"
	"log"
	"os"

	"github.com/lentakristina/finance-backend/internal/config"
	"github.com/lentakristina/finance-backend/internal/database"
	"github.com/lentakristina/finance-backend/internal/router"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "finance-backend",
	Short: "Personal finance tracker with goal funding",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(syncGoalsCmd())
}

// bootstrap loads .env plus config and opens the database.
func bootstrap() (*config.Config, *gorm.DB, error) {
	// .env is optional, real config comes from config.yaml + FIN_ env vars
	_ = godotenv.Load()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	db, err := database.Init(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("init database: %w", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}

	return cfg, db, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := bootstrap()
			if err != nil {
				return err
			}

			r := router.SetupRouter(cfg, db)

			addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
			log.Printf("server listening on %s", addr)
			return r.Run(addr)
		},
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
