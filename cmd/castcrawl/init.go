package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/castcrawl/internal/config"
)

//go:embed templates/castcrawl.yaml
var configTemplate embed.FS

const templatePath = "templates/castcrawl.yaml"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a castcrawl configuration file",
		Long: `Init writes a commented .castcrawl configuration file.

Every setting in the generated file is commented out, so the file changes
nothing until an option is enabled. castcrawl looks for the file in the
current directory, the XDG config directory (as config.yaml) and the home
directory, or at the path given with crawl --config.

Examples:
  # Create .castcrawl in the current directory
  castcrawl init

  # Create the file in the XDG config directory
  castcrawl init -o ~/.config/castcrawl/config.yaml

  # Overwrite an existing file
  castcrawl init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	if dir := filepath.Dir(outputPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nUncomment the options you need, for example:")
	fmt.Fprintln(out, "  - seeds to crawl without --seed")
	fmt.Fprintln(out, "  - concurrency, delay and per-domain limits")
	fmt.Fprintln(out, "  - headers, cookie and proxy for restricted networks")
	return nil
}
