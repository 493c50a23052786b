package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Irina-Kostina/business-search-tool/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "business-search-tool",
	Short: "Find business websites and collect their contact details",
	Long:  "Searches the web for businesses matching a query, scrapes each site for emails, phones, and social links, and appends new leads to a spreadsheet-style ledger.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	// Load .env if present so SPREADSHEET_ID and friends can live there.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
