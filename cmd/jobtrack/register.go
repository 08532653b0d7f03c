package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ekaraca/jobtrack/internal/config"
	"github.com/ekaraca/jobtrack/internal/db"
	"github.com/ekaraca/jobtrack/internal/types"
)

var (
	registerName     string
	registerEmail    string
	registerPassword string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a user account",
	RunE:  runRegister,
}

func init() {
	registerCmd.Flags().StringVar(&registerName, "name", "", "Display name")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "Email address")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "Password (minimum 8 characters)")
	_ = registerCmd.MarkFlagRequired("name")
	_ = registerCmd.MarkFlagRequired("email")
	_ = registerCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(registerCmd)
}

func runRegister(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	req := types.RegisterRequest{
		Name:     registerName,
		Email:    registerEmail,
		Password: registerPassword,
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid registration: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("database URL is required (set DATABASE_URL or --db-url)")
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	exists, err := database.CheckEmailExists(ctx, req.Email)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("email already registered: %s", req.Email)
	}

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return err
	}
	hash, err := passwordConfig.HashPassword(req.Password)
	if err != nil {
		return err
	}

	userID, err := database.CreateUser(ctx, req.Name, req.Email, hash)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created account %s for %s\n", userID, req.Email)
	return nil
}
