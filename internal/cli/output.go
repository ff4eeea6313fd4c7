package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// readNarrationFile reads the input text file, failing early with a typed
// error when it does not exist.
func readNarrationFile(path string) (string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-specified input file
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return "", fmt.Errorf("cannot read input file: %w", err)
	}
	return string(data), nil
}

// deriveOutputPath converts an input text path to an output path with ext.
// Example: "story.txt" with ".mp3" -> "story.mp3"
func deriveOutputPath(inputPath, ext string) string {
	return strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ext
}

// warnExtensionMismatch writes a warning to w if path has an extension other
// than want. The output content does not change with the extension.
func warnExtensionMismatch(w io.Writer, path, want, kind string) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != "" && ext != want {
		_, _ = fmt.Fprintf(w, "Warning: output is %s regardless of %s extension\n", kind, ext)
	}
}

// writeFileExcl writes content to path, failing if the file already exists
// (O_EXCL) to prevent accidental overwrites. On write failure the partial
// file is removed.
func writeFileExcl(path string, content []byte) error {
	// #nosec G302 G304 -- user-specified output file with standard permissions
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("output file already exists: %s: %w", path, ErrOutputExists)
		}
		return fmt.Errorf("cannot create output file: %w", err)
	}

	writeErr := func() error {
		defer func() { _ = f.Close() }()
		if _, err := f.Write(content); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}()

	if writeErr != nil {
		_ = os.Remove(path)
		return writeErr
	}

	return nil
}
