package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"subfix/internal/subtitle"
)

// resolveFormat picks the output format: an explicit flag wins, then the
// output file extension, then the configured default.
func resolveFormat(flagValue, outputPath string, fallback subtitle.Format) (subtitle.Format, error) {
	if strings.TrimSpace(flagValue) != "" {
		return subtitle.ParseFormat(flagValue)
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(outputPath)), ".")
	for _, f := range subtitle.Formats {
		if ext == string(f) {
			return f, nil
		}
	}
	return fallback, nil
}

func writeOutput(cmd *cobra.Command, path, content string) error {
	if strings.TrimSpace(path) == "" || path == "-" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), content)
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory %q: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
	return nil
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
