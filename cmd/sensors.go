package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doronpers/sonotheia-enhanced/pkg/sensors"
)

var sensorsCmd = &cobra.Command{
	Use:   "sensors",
	Short: "List the registered sensors and their default thresholds",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := sensors.NewRegistry()

		for _, name := range registry.List() {
			sensor, err := registry.Create(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-22s  default threshold %.2f\n",
				sensor.Name(), sensor.Threshold())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sensorsCmd)
}
