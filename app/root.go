// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "go-user-admin",
	Short: "GoUserAdmin is a web-based management tool for users, groups and permissions",
	Long: `GoUserAdmin is a web-based management tool for users, groups and permissions
that provides a REST API and an admin interface for assigning users to groups
and permissions to groups.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
