package digest

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Snapshot writes the rendered digest to a timestamped file under dir,
// creating the directory if needed, and returns the file path. The snapshot
// is written before any delivery attempt so a failed send never loses the
// run's output.
func Snapshot(dir, html string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("followup_digest_%s.html", now.Format("20060102_150405")))
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}
