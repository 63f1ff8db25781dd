package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var shutdownCmd = &cobra.Command{
	Use:   "shutdown",
	Short: "Ask the Command Broker to shut down via server_shutdown",
	Run: func(cmd *cobra.Command, args []string) {
		resp, err := client().Call("server_shutdown", nil)
		if err != nil {
			fail(err)
		}
		if resp.Status == "error" {
			fail(fmt.Errorf("[%s] %s", resp.Code, resp.Message))
		}
		fmt.Println("shutdown requested")
	},
}

func init() {
	rootCmd.AddCommand(shutdownCmd)
}
