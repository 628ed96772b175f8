package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"doclint/internal/diagfmt"
	"doclint/internal/extract"
	"doclint/internal/tags"
)

var tagsCmd = &cobra.Command{
	Use:   "tags [flags] <file>",
	Short: "Dump the template tags found in a document",
	Long:  `Tags extracts the text of a document and prints every tag occurrence the scanner sees`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTags,
}

func init() {
	tagsCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTags(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	explicit, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return err
	}
	cfg, err := loadConfig(explicit, args[0])
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	lines, err := (&extract.Extractor{}).Extract(cmd.Context(), args[0], raw)
	if err != nil {
		return err
	}
	scanner, err := tags.NewScanner(cfg.Lint.Delims, cfg.Lint.Vocab, cfg.Lint.Prefixes)
	if err != nil {
		return err
	}
	occs := scanner.ScanText(lines)

	switch format {
	case "pretty":
		return diagfmt.TagsPretty(cmd.OutOrStdout(), occs)
	case "json":
		return diagfmt.TagsJSON(cmd.OutOrStdout(), occs, diagfmt.JSONOpts{})
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
