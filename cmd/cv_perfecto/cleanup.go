package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var cleanupMaxAge time.Duration

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete old optimized resumes from the artifact store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		maxAge := appConfig.OutputMaxAge
		if cleanupMaxAge > 0 {
			maxAge = cleanupMaxAge
		}

		store, err := openArtifactStore(cmd.Context(), appConfig)
		if err != nil {
			return err
		}
		removed, err := store.CleanupOlderThan(cmd.Context(), maxAge)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d file(s) older than %s\n", removed, maxAge)
		return nil
	},
}

func init() {
	cleanupCmd.Flags().DurationVar(&cleanupMaxAge, "max-age", 0, "Override OUTPUT_MAX_AGE_HOURS")
	rootCmd.AddCommand(cleanupCmd)
}
