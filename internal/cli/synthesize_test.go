package cli_test

// Coverage Notes:
// - Commands run end to end through cobra against fakes; assertions are on
//   validation order, the produced output file, and typed errors for the exit
//   code mapping.

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-narrate/internal/chunk"
	"github.com/alnah/go-narrate/internal/cli"
)

// writeInput drops a narration text file into a temp dir.
func writeInput(t *testing.T, text string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "story.txt")
	if err := os.WriteFile(p, []byte(text), 0644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return p
}

func runSynthesize(t *testing.T, env *cli.Env, args ...string) error {
	t.Helper()
	cmd := cli.SynthesizeCmd(env)
	cmd.SetArgs(args)
	return cmd.Execute()
}

// ---------------------------------------------------------------------------
// TestSynthesizeCmd - Validation
// ---------------------------------------------------------------------------

func TestSynthesizeCmdValidation(t *testing.T) {
	t.Parallel()

	t.Run("missing input file", func(t *testing.T) {
		t.Parallel()

		err := runSynthesize(t, testEnv(), filepath.Join(t.TempDir(), "nope.txt"))
		if !errors.Is(err, cli.ErrFileNotFound) {
			t.Errorf("error = %v, want ErrFileNotFound", err)
		}
	})

	t.Run("speed out of range", func(t *testing.T) {
		t.Parallel()

		input := writeInput(t, "안녕하세요.")
		err := runSynthesize(t, testEnv(), input, "--speed", "9.5")
		if !errors.Is(err, cli.ErrInvalidSpeed) {
			t.Errorf("error = %v, want ErrInvalidSpeed", err)
		}
	})

	t.Run("unknown provider", func(t *testing.T) {
		t.Parallel()

		input := writeInput(t, "안녕하세요.")
		err := runSynthesize(t, testEnv(), input, "--provider", "shouty")
		if !errors.Is(err, cli.ErrUnsupportedProvider) {
			t.Errorf("error = %v, want ErrUnsupportedProvider", err)
		}
	})

	t.Run("budget below the minimum", func(t *testing.T) {
		t.Parallel()

		input := writeInput(t, "안녕하세요.")
		err := runSynthesize(t, testEnv(), input, "--budget", "3")
		if !errors.Is(err, chunk.ErrBudgetTooSmall) {
			t.Errorf("error = %v, want ErrBudgetTooSmall", err)
		}
	})

	t.Run("missing google api key", func(t *testing.T) {
		t.Parallel()

		input := writeInput(t, "안녕하세요.")
		env := testEnv(cli.WithGetenv(envWith(nil)))
		err := runSynthesize(t, env, input)
		if !errors.Is(err, cli.ErrAPIKeyMissing) {
			t.Errorf("error = %v, want ErrAPIKeyMissing", err)
		}
	})

	t.Run("missing openai api key", func(t *testing.T) {
		t.Parallel()

		input := writeInput(t, "안녕하세요.")
		env := testEnv(cli.WithGetenv(envWith(map[string]string{cli.EnvGoogleAPIKey: "g"})))
		err := runSynthesize(t, env, input, "--provider", "openai")
		if !errors.Is(err, cli.ErrAPIKeyMissing) {
			t.Errorf("error = %v, want ErrAPIKeyMissing", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestSynthesizeCmd - Output
// ---------------------------------------------------------------------------

func TestSynthesizeCmdOutput(t *testing.T) {
	t.Parallel()

	t.Run("writes merged audio to the output path", func(t *testing.T) {
		t.Parallel()

		input := writeInput(t, "안녕하세요. 반갑습니다.")
		out := filepath.Join(t.TempDir(), "story.mp3")

		if err := runSynthesize(t, testEnv(), input, "-o", out); err != nil {
			t.Fatalf("Execute() unexpected error: %v", err)
		}

		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatalf("output not written: %v", err)
		}
		if string(data) != "안녕하세요. 반갑습니다." {
			t.Errorf("output = %q, want echoed narration", data)
		}
	})

	t.Run("default output derives from the input name", func(t *testing.T) {
		t.Parallel()

		input := writeInput(t, "안녕하세요.")
		outDir := t.TempDir()
		env := testEnv(cli.WithConfigLoader(stubConfigLoader{
			cfg: configWithOutputDir(outDir),
		}))

		if err := runSynthesize(t, env, input); err != nil {
			t.Fatalf("Execute() unexpected error: %v", err)
		}
		if _, err := os.Stat(filepath.Join(outDir, "story.mp3")); err != nil {
			t.Errorf("derived output missing: %v", err)
		}
	})

	t.Run("existing output is not overwritten", func(t *testing.T) {
		t.Parallel()

		input := writeInput(t, "안녕하세요.")
		out := filepath.Join(t.TempDir(), "story.mp3")
		if err := os.WriteFile(out, []byte("precious"), 0644); err != nil {
			t.Fatalf("seed output: %v", err)
		}

		err := runSynthesize(t, testEnv(), input, "-o", out)
		if !errors.Is(err, cli.ErrOutputExists) {
			t.Fatalf("error = %v, want ErrOutputExists", err)
		}
		data, _ := os.ReadFile(out)
		if string(data) != "precious" {
			t.Errorf("existing output was clobbered: %q", data)
		}
	})

	t.Run("scenes mode merges blank-line blocks in order", func(t *testing.T) {
		t.Parallel()

		input := writeInput(t, "첫 장면입니다.\n\n둘째 장면입니다.\n\n셋째 장면입니다.")
		out := filepath.Join(t.TempDir(), "scenes.mp3")

		if err := runSynthesize(t, testEnv(), input, "--scenes", "-o", out); err != nil {
			t.Fatalf("Execute() unexpected error: %v", err)
		}

		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatalf("output not written: %v", err)
		}
		got := string(data)
		first := strings.Index(got, "첫 장면입니다.")
		second := strings.Index(got, "둘째 장면입니다.")
		third := strings.Index(got, "셋째 장면입니다.")
		if first == -1 || second == -1 || third == -1 || !(first < second && second < third) {
			t.Errorf("scene order broken in output: %q", got)
		}
	})

	t.Run("markup reaches a capable provider", func(t *testing.T) {
		t.Parallel()

		input := writeInput(t, "눈물이 났습니다.")
		out := filepath.Join(t.TempDir(), "sad.mp3")

		if err := runSynthesize(t, testEnv(), input, "-o", out); err != nil {
			t.Fatalf("Execute() unexpected error: %v", err)
		}
		data, _ := os.ReadFile(out)
		if !strings.Contains(string(data), "<prosody") {
			t.Errorf("output %q missing pacing markup", data)
		}
	})

	t.Run("cancelled context aborts before synthesis", func(t *testing.T) {
		t.Parallel()

		input := writeInput(t, "안녕하세요.")
		out := filepath.Join(t.TempDir(), "story.mp3")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		cmd := cli.SynthesizeCmd(testEnv())
		cmd.SetArgs([]string{input, "-o", out})
		if err := cmd.ExecuteContext(ctx); !errors.Is(err, context.Canceled) {
			t.Fatalf("error = %v, want context.Canceled", err)
		}
		if _, err := os.Stat(out); err == nil {
			t.Error("output written despite cancellation")
		}
	})

	t.Run("plain flag disables markup", func(t *testing.T) {
		t.Parallel()

		input := writeInput(t, "눈물이 났습니다.")
		out := filepath.Join(t.TempDir(), "plain.mp3")

		if err := runSynthesize(t, testEnv(), input, "--plain", "-o", out); err != nil {
			t.Fatalf("Execute() unexpected error: %v", err)
		}
		data, _ := os.ReadFile(out)
		if strings.Contains(string(data), "<speak>") {
			t.Errorf("output %q carries markup despite --plain", data)
		}
	})
}
