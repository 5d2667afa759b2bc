// cmd/matchctl/registry.go
package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"influencer-matching/internal/common/validation"
	"influencer-matching/pkg/registry"
)

func newRegistryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect the activity registry",
	}
	cmd.PersistentFlags().String("path", "", "registry file (default is the embedded registry)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "validate",
			Short: "Check the registry and compile every input schema",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				reg, err := registryFromFlags(cmd)
				if err != nil {
					return err
				}
				if err := reg.Validate(); err != nil {
					return err
				}
				if _, err := validation.NewSchemaValidator(reg); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "registry %s is valid (%d activities)\n", reg.Version, len(reg.Activities))
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List registered activities",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				reg, err := registryFromFlags(cmd)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
					return json.NewEncoder(out).Encode(reg.Activities)
				}
				for _, a := range reg.Activities {
					fmt.Fprintf(out, "%-28s %-8s timeout=%-4s retries=%d %s\n", a.TaskType, a.Version, a.Timeout, a.Retries, a.ImplementationStatus)
				}
				return nil
			},
		},
	)
	return cmd
}

func registryFromFlags(cmd *cobra.Command) (*registry.ActivityRegistry, error) {
	path, _ := cmd.Flags().GetString("path")
	if path == "" {
		return registry.Default()
	}
	return registry.LoadRegistry(path)
}
