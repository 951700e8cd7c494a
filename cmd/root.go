// Package cmd holds the baristahub command line: the API server and a terminal login client.
package cmd

import (
	"github.com/baristahub/baristahub-backend/database"
	"github.com/baristahub/baristahub-backend/internal/config"
	"github.com/spf13/cobra"
)

var (
	logger = database.InitLogger()
	v      = config.New()
)

var rootCmd = &cobra.Command{
	Use:   "baristahub",
	Short: "Coffee shop staffing backend",
	Long: `baristahub runs the BaristaHub REST API and provides a terminal client
for the barista login flow.

Every flag can also be set through the environment: --arango-url is ARANGO_URL.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
