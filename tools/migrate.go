package main

import (
	"fmt"
	"os"

	"parcel-payment/config"
	"parcel-payment/database"
	"parcel-payment/models/log"
	"parcel-payment/models/parcel"
	"parcel-payment/models/payment"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database maintenance for the parcel payment service",
	}
	rootCmd.PersistentFlags().String("env", ".env", "Env file to load before reading the environment")

	rootCmd.AddCommand(upCmd())
	rootCmd.AddCommand(statusCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env")
	return config.Load(envFile)
}

func upCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run auto migrations and create indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			fmt.Println("🚀 Running database migrations...")
			db, err := database.InitDB(cfg)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			defer database.Close(db)

			fmt.Println("✅ Migration completed successfully!")
			return nil
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which tables exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			db, err := database.Open(cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)

			for _, model := range []interface{}{&parcel.Parcel{}, &payment.Record{}, &parcel.ParcelPaymentEvent{}, &log.Log{}} {
				state := "missing"
				if db.Migrator().HasTable(model) {
					state = "present"
				}
				fmt.Printf("%-30T %s\n", model, state)
			}
			return nil
		},
	}
}
