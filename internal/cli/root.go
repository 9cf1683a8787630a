package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Execute runs the swagger2ts CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd constructs the root command so tests can exercise the CLI easily.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "swagger2ts",
		Short:         "Generate TypeScript API clients from Swagger specs",
		Long:          "swagger2ts turns a Swagger 2.0 (or OpenAPI 3) document into TypeScript request functions, type declarations and tag-grouped classes.",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	// Cobra flag errors (like unknown flags) become usage errors that carry
	// the command's help text.
	cmd.SetFlagErrorFunc(flagError)

	cmd.PersistentFlags().StringP("config", "c", "", "Config file path (YAML or JSON)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging output")

	for _, sub := range []*cobra.Command{newGenerateCmd(), newValidateCmd(), newInitCmd()} {
		sub.SetFlagErrorFunc(flagError)
		cmd.AddCommand(sub)
	}

	return cmd
}

func flagError(c *cobra.Command, err error) error {
	return newUsageError(fmt.Sprintf("%v\n\n%s", err, c.UsageString()))
}
