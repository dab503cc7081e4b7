package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GoUserAdmin/GoUserAdmin/internal/uniuri"
)

const apiTokenLen = 40

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(tokenCmd)
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Generate a random API bearer token for webserver.apitoken",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println(uniuri.NewLen(apiTokenLen))
	},
}
