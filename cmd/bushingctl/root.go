// Command bushingctl runs the bushing preventive-maintenance decision
// engine: optimizing maintenance lead times for a batch of orders, or
// scoring a sensor time series for anomalies.
package main

import (
	"fmt"
	"os"

	"github.com/bushingplan/decisionengine/config"
	"github.com/bushingplan/decisionengine/telemetry"
	"github.com/spf13/cobra"
)

var cfgFile string

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bushingctl",
		Short: "Bushing preventive-maintenance decision engine",
	}
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a YAML/JSON config file (defaults built in)")
	cmd.AddCommand(newOptimizeCmd(), newDetectCmd())
	return cmd
}

func loadConfig() (*config.Config, telemetry.Sink, error) {
	sink, err := telemetry.NewZap()
	if err != nil {
		return nil, nil, err
	}
	if cfgFile == "" {
		return config.Default(), sink, nil
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, sink, err
	}
	return cfg, sink, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
