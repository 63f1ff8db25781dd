// Package commands implements brokerctl, an operator CLI for talking
// to a running Command Broker directly over its TCP frame protocol.
package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/remoteforge/scenebridge/internal/gateway"
	"github.com/spf13/cobra"
)

var (
	addr       string
	jsonOutput bool
	timeoutMs  int
)

var rootCmd = &cobra.Command{
	Use:   "brokerctl",
	Short: "Inspect and control a running scenebridge Command Broker",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&addr, "addr", "127.0.0.1:6688", "Command Broker address")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().IntVar(&timeoutMs, "timeout", 5000, "request timeout in milliseconds")
}

func client() *gateway.CBClient {
	return gateway.NewCBClient(addr, time.Duration(timeoutMs)*time.Millisecond)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
