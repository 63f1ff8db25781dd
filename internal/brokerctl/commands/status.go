package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether the Command Broker is reachable",
	Run: func(cmd *cobra.Command, args []string) {
		c := client()
		reachable := c.Probe() == nil

		if jsonOutput {
			data, _ := json.MarshalIndent(map[string]interface{}{
				"addr":      addr,
				"reachable": reachable,
			}, "", "  ")
			fmt.Println(string(data))
			return
		}

		table := tablewriter.NewTable(os.Stdout, tablewriter.WithHeader([]string{"Address", "Status"}))
		status := color.GreenString("reachable")
		if !reachable {
			status = color.RedString("unreachable")
		}
		table.Append([]string{addr, status})
		table.Render()

		if !reachable {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
