// Package ffmpeg locates the external FFmpeg binary used to concatenate
// synthesized audio. A missing binary is not fatal anywhere in the pipeline;
// callers degrade to raw concatenation.
package ffmpeg

import (
	"fmt"
	"os"
	"os/exec"
)

// EnvPath overrides binary discovery when set.
const EnvPath = "NARRATE_FFMPEG"

// Resolve returns the path to the FFmpeg binary.
// Precedence: NARRATE_FFMPEG environment variable, then PATH lookup.
func Resolve() (string, error) {
	if p := os.Getenv(EnvPath); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("%w: %s from %s: %v", ErrNotFound, p, EnvPath, err)
		}
		return p, nil
	}

	path, err := exec.LookPath("ffmpeg")
	if err != nil {
		return "", fmt.Errorf("%w: not in PATH (set %s to override)", ErrNotFound, EnvPath)
	}
	return path, nil
}
