package cmd

import (
	"fmt"
	"os"

	"github.com/gophertribe/devtool/test"
	"github.com/spf13/cobra"
)

func TestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Run unit tests",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := test.Test(); err != nil {
				return fmt.Errorf("failed to run tests: %w", err)
			}
			return nil
		},
	}
}

func LintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint",
		Short: "Run linters",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := test.Lint(); err != nil {
				return fmt.Errorf("failed to run linting: %w", err)
			}
			return nil
		},
	}
}

// IntegrationTestCmd runs the tests that need a VEML6070 on an attached adapter.
// The adapter settings reach the tests through the same environment variables
// the uvsensor cli reads.
func IntegrationTestCmd() *cobra.Command {
	var adapter, device string
	cmd := &cobra.Command{
		Use:   "integration-test",
		Short: "Run hardware integration tests against a connected VEML6070",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.Setenv("UVSENSOR_ADAPTER", adapter); err != nil {
				return fmt.Errorf("could not set adapter: %w", err)
			}
			if device != "" {
				if err := os.Setenv("UVSENSOR_DEVICE", device); err != nil {
					return fmt.Errorf("could not set device: %w", err)
				}
			}
			if err := test.Integ(); err != nil {
				return fmt.Errorf("failed to run integration testing: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&adapter, "adapter", "a", "mcp2221", "bus adapter the sensor is attached to: mcp2221, generic or gobot")
	cmd.Flags().StringVarP(&device, "device", "d", "", "i2c-dev device for the generic adapter")
	return cmd
}
