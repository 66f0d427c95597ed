package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"subfix/internal/pipeline"
	"subfix/internal/segment"
	"subfix/internal/subtitle"
)

func newNormalizeCommand(ctx *commandContext) *cobra.Command {
	var inputPath string
	var format string
	var outputPath string
	var duration float64
	var filter bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Clean up and re-render existing subtitles without audio",
		Long: `Apply the gap, duration and text rules to an SRT file or ASR segments JSON
and render the result. No audio analysis is performed.`,
		Example: `  subfix normalize --input episode.srt --format vtt --output episode.vtt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, _, err := ctx.newLogger(cmd)
			if err != nil {
				return err
			}

			segs, err := readCues(cmd, inputPath)
			if err != nil {
				return err
			}

			opts, err := pipeline.OptionsFromConfig(cfg)
			if err != nil {
				return err
			}
			if opts.Format, err = resolveFormat(format, outputPath, opts.Format); err != nil {
				return err
			}
			if filter {
				opts.FilterHallucinations = true
			}

			result, err := pipeline.New(opts, logger).Renormalize(cmd.Context(), segs, duration)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, normalizeJSON{
					Format:    result.Format,
					Segments:  nonNil(result.Segments),
					Normalize: newNormalizeSummary(result.Normalize),
				})
			}
			return writeOutput(cmd, outputPath, result.Output)
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "SRT file or ASR segments JSON (use - for stdin)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format (srt, vtt, txt); defaults to output.format")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().Float64Var(&duration, "duration", 0, "Media duration in seconds used to cap timestamps")
	cmd.Flags().BoolVar(&filter, "filter", false, "Drop transcription artifacts before normalizing")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit normalized segments as JSON")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

type normalizeJSON struct {
	Format    subtitle.Format     `json:"format"`
	Segments  []segment.Corrected `json:"segments"`
	Normalize normalizeSummary    `json:"normalize"`
}

// readCues accepts SRT, or JSON segments when the file ends in .json or the
// content opens with a bracket.
func readCues(cmd *cobra.Command, path string) ([]segment.Corrected, error) {
	var data []byte
	var err error
	if strings.TrimSpace(path) == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	trimmed := strings.TrimSpace(strings.TrimPrefix(string(data), "\ufeff"))
	isJSON := strings.EqualFold(filepath.Ext(path), ".json") ||
		strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{")
	if isJSON {
		raw, err := segment.Decode(strings.NewReader(trimmed))
		if err != nil {
			return nil, err
		}
		return segment.FromRaw(raw), nil
	}
	return subtitle.ParseSRT(strings.NewReader(string(data)))
}

func nonNil(segs []segment.Corrected) []segment.Corrected {
	if segs == nil {
		return []segment.Corrected{}
	}
	return segs
}
