// Package main is the CV Perfecto command line: the HTTP API server plus local
// maintenance commands.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/cv-perfecto/internal/config"
	"github.com/jonathan/cv-perfecto/internal/logger"
)

var (
	configPath string
	appConfig  *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "cv_perfecto",
	Short: "CV Perfecto resume optimizer",
	Long:  "CV Perfecto rewrites PDF and DOCX resumes into ATS-friendly LaTeX tailored to a job description.",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		logger.Init(cfg.Log)
		appConfig = cfg
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON config file merged over the environment")
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
