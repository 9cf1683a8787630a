package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mark3labs/swagger2ts/internal/fsutil"
)

// InitConfig captures the options for the init command.
type InitConfig struct {
	OutputPath string
	Force      bool
	Verbose    bool
}

var initRunner = runInit

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a sample swagger2ts configuration file",
		Long:  "Scaffold a commented swagger2ts configuration file that documents available options.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := cmd.Flags().GetString("out")
			if err != nil {
				return err
			}
			force, err := cmd.Flags().GetBool("force")
			if err != nil {
				return err
			}
			verbose, err := cmd.Flags().GetBool("verbose")
			if err != nil {
				return err
			}
			cfg := &InitConfig{
				OutputPath: out,
				Force:      force,
				Verbose:    verbose,
			}
			return initRunner(cmd.Context(), cfg)
		},
	}

	cmd.Flags().String("out", "swagger2ts.yaml", "Where to write the sample config file")
	cmd.Flags().Bool("force", false, "Overwrite the target file if it already exists")

	return cmd
}

func runInit(ctx context.Context, cfg *InitConfig) error {
	_ = ctx

	out := strings.TrimSpace(cfg.OutputPath)
	if out == "" {
		out = "swagger2ts.yaml"
	}
	absPath, err := filepath.Abs(out)
	if err != nil {
		return fmt.Errorf("init: resolve output path: %w", err)
	}

	if st, err := os.Stat(absPath); err == nil && !cfg.Force {
		if st.Mode().IsRegular() {
			return newUsageError(fmt.Sprintf("init: %q already exists (use --force to overwrite)", absPath))
		}
	}

	content := strings.TrimSpace(sampleConfigYAML) + "\n"
	if err := fsutil.WriteFile(absPath, []byte(content), 0o644); err != nil {
		return newUsageError(fmt.Sprintf("init: cannot write %s: %v\nHint: choose a different --out or check directory permissions.", absPath, err))
	}
	fmt.Fprintf(os.Stdout, "Wrote sample config to %s\n", absPath)
	return nil
}

// sampleConfigYAML is a commented example config documenting available options.
const sampleConfigYAML = `# swagger2ts configuration (YAML)
# All fields are optional. Command-line flags override config values.

# Path or URL to the Swagger document (http/https or local file).
# input: ./swagger.json

# Output file. Generated code is printed to stdout when omitted.
# out: ./src/api.ts

# Drop body parameters of GET operations.
# skipBodyOfGet: true

# Directory with template overrides named <kind>.tmpl
# (header, interface, func, class, module, body).
# templateRoot: ./templates

# Template override per kind; wins over templateRoot.
# templates:
#   func: ./templates/my-func.tmpl

# Class name per tag. Unmapped tags are named tag0, tag1, ...
# tagMap:
#   pet: PetApi
#   store: StoreApi

# Response schema rewrite: identity or envelope ({code, data} -> data).
# responseInterceptor: identity

# Only include operations with these tags (comma-separated or list).
# includeTags: [public,read]

# Exclude operations with these tags (comma-separated or list).
# excludeTags: [internal]

# Only include these methods and paths.
# methods: [get,post]
# pathPatterns: ["^/pet"]

# Extra HTTP headers when input is a URL.
# headers:
#   Authorization: Bearer token

# Save the fetched document to this path.
# saveSpec: ./swagger.json

# Validate the document before generating.
# validate: false

# Generate without writing the output file.
# dryRun: false

# Enable verbose logging.
# verbose: false
`
