package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"subfix/internal/audio"
	"subfix/internal/pipeline"
	"subfix/internal/segment"
)

type correctFlags struct {
	segmentsPath string
	audioPath    string
	sampleRate   int
	encoding     string
	format       string
	outputPath   string
	duration     float64
	report       bool
	json         bool
}

func newCorrectCommand(ctx *commandContext) *cobra.Command {
	var flags correctFlags

	cmd := &cobra.Command{
		Use:   "correct",
		Short: "Correct ASR segment timings against the source audio",
		Long: `Read ASR segments as JSON, refine their boundaries against mono PCM audio,
then normalize and render them as subtitles.

Without --audio the segments pass through uncorrected and are only normalized.`,
		Example: `  subfix correct --segments episode.json --audio episode.f32 --output episode.srt
  whisper-json | subfix correct --segments - --audio episode.s16 --encoding s16le --format vtt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCorrect(cmd, ctx, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.segmentsPath, "segments", "s", "", "ASR segments JSON (use - for stdin)")
	cmd.Flags().StringVarP(&flags.audioPath, "audio", "a", "", "Headerless mono PCM audio")
	cmd.Flags().IntVar(&flags.sampleRate, "sample-rate", 16000, "Audio sample rate in Hz")
	cmd.Flags().StringVar(&flags.encoding, "encoding", "f32le", "PCM sample encoding (f32le or s16le)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "Output format (srt, vtt, txt); defaults to output.format")
	cmd.Flags().StringVarP(&flags.outputPath, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().Float64Var(&flags.duration, "duration", 0, "Media duration in seconds used to cap timestamps")
	cmd.Flags().BoolVar(&flags.report, "report", false, "Print a table of corrected segments to stderr")
	cmd.Flags().BoolVar(&flags.json, "json", false, "Emit segments and the correction report as JSON")
	_ = cmd.MarkFlagRequired("segments")

	return cmd
}

func runCorrect(cmd *cobra.Command, ctx *commandContext, flags correctFlags) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, _, err := ctx.newLogger(cmd)
	if err != nil {
		return err
	}

	segs, err := readSegments(cmd, flags.segmentsPath)
	if err != nil {
		return err
	}
	buf, err := loadAudio(flags.audioPath, flags.encoding, flags.sampleRate)
	if err != nil {
		return err
	}

	opts, err := pipeline.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}
	if opts.Format, err = resolveFormat(flags.format, flags.outputPath, opts.Format); err != nil {
		return err
	}

	result, err := pipeline.New(opts, logger).Run(cmd.Context(), pipeline.Request{
		Audio:         buf,
		Segments:      segs,
		MediaDuration: flags.duration,
	})
	if err != nil {
		return err
	}

	if flags.report {
		fmt.Fprintln(cmd.ErrOrStderr(), renderCorrectionReport(result, shouldColorize(cmd.ErrOrStderr())))
	}
	if flags.json {
		return writeJSON(cmd, newCorrectionJSON(result))
	}
	return writeOutput(cmd, flags.outputPath, result.Output)
}

func readSegments(cmd *cobra.Command, path string) ([]segment.Raw, error) {
	var r io.Reader
	if strings.TrimSpace(path) == "-" {
		r = cmd.InOrStdin()
	} else {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open segments: %w", err)
		}
		defer file.Close()
		r = file
	}
	segs, err := segment.Decode(r)
	if err != nil {
		return nil, err
	}
	return segs, nil
}

// loadAudio returns an empty buffer when no path is given so the engine takes
// its pass-through branch.
func loadAudio(path, encoding string, sampleRate int) (audio.Buffer, error) {
	if strings.TrimSpace(path) == "" {
		return audio.Buffer{}, nil
	}
	enc, err := audio.ParseEncoding(encoding)
	if err != nil {
		return audio.Buffer{}, err
	}
	file, err := os.Open(path)
	if err != nil {
		return audio.Buffer{}, fmt.Errorf("open audio: %w", err)
	}
	defer file.Close()

	samples, err := audio.ReadPCM(file, enc)
	if err != nil {
		return audio.Buffer{}, err
	}
	return audio.NewBuffer(samples, sampleRate)
}
