package format

import (
	"fmt"
	"time"
)

// Duration formats a duration as HH:MM:SS or MM:SS.
func Duration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// SRTTimestamp formats a duration as HH:MM:SS,mmm with a comma before the
// milliseconds, as required by the SRT subtitle format.
func SRTTimestamp(d time.Duration) string {
	return timestamp(d, ",")
}

// VTTTimestamp formats a duration as HH:MM:SS.mmm with a period before the
// milliseconds, as required by the WebVTT subtitle format.
func VTTTimestamp(d time.Duration) string {
	return timestamp(d, ".")
}

// timestamp renders HH:MM:SS<sep>mmm with zero-padded fields.
// Negative durations are clamped to zero; subtitle timestamps cannot be negative.
func timestamp(d time.Duration, sep string) string {
	if d < 0 {
		d = 0
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	ms := int(d.Milliseconds()) % 1000
	return fmt.Sprintf("%02d:%02d:%02d%s%03d", h, m, s, sep, ms)
}

// Size formats a size in bytes for human display.
// Uses MB for sizes >= 1MB, KB otherwise.
func Size(bytes int64) string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	if bytes >= mb {
		return fmt.Sprintf("%d MB", bytes/mb)
	}
	if bytes >= kb {
		return fmt.Sprintf("%d KB", bytes/kb)
	}
	return fmt.Sprintf("%d bytes", bytes)
}
