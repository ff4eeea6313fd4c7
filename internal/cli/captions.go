package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/alnah/go-narrate/internal/caption"
	"github.com/alnah/go-narrate/internal/config"
	"github.com/alnah/go-narrate/internal/pipeline"
)

// CaptionsCmd creates the captions command.
// The env parameter provides injectable dependencies for testing.
func CaptionsCmd(env *Env) *cobra.Command {
	var (
		output   string
		style    string
		width    int
		tag      string
		duration float64
		speed    float64
	)

	cmd := &cobra.Command{
		Use:   "captions <text-file>",
		Short: "Generate subtitles from a narration text file",
		Long: `Generate subtitles from a narration text file.

The text is segmented into caption-sized units, placed on a timeline, and
rendered as SRT or WebVTT. Spoken-form Korean numerals are converted to
digits in caption text (일흔여섯 살 becomes 76살).

With --audio-duration the real audio length is distributed across captions
in proportion to their character counts; otherwise timing is estimated from
a speaking-rate heuristic.`,
		Example: `  narrate captions story.txt -o story.srt
  narrate captions story.txt --style vtt
  narrate captions story.txt --audio-duration 93.5
  narrate captions story.txt --width 28 --tag 해설`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCaptions(env, args[0], output, style, width, tag, duration, speed)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: <input>.<style>)")
	cmd.Flags().StringVar(&style, "style", string(caption.StyleSRT), "Subtitle format: srt, vtt")
	cmd.Flags().IntVar(&width, "width", 0, "Max characters per caption line (default: 35)")
	cmd.Flags().StringVar(&tag, "tag", "", "Speaker label prefixed to captions (default: plain narrator)")
	cmd.Flags().Float64Var(&duration, "audio-duration", 0, "Real audio duration in seconds for timing")
	cmd.Flags().Float64Var(&speed, "speed", 1.0, "Speaking rate used by the timing heuristic")

	return cmd
}

// runCaptions executes the caption pipeline.
func runCaptions(env *Env, inputPath, output, style string, width int, tag string, duration, speed float64) error {
	text, err := readNarrationFile(inputPath)
	if err != nil {
		return err
	}

	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: failed to load config: %v\n", err)
	}

	if width == 0 {
		width = cfg.CaptionWidth
	}

	rendered, err := pipeline.BuildCaptions(pipeline.CaptionRequest{
		Text:          text,
		Style:         caption.Style(style),
		MaxChars:      width,
		Tag:           tag,
		AudioDuration: duration,
		Speed:         speed,
	})
	if err != nil {
		return err
	}

	wantExt := "." + style
	defaultOutput := deriveOutputPath(filepath.Base(inputPath), wantExt)
	output = config.ResolveOutputPath(output, cfg.OutputDir, defaultOutput)
	warnExtensionMismatch(env.Stderr, output, wantExt, "subtitle text")

	if err := writeFileExcl(output, []byte(rendered)); err != nil {
		return err
	}

	fmt.Fprintf(env.Stderr, "Done: %s\n", output)
	return nil
}
