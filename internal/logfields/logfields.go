package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyCrate      = "crate"
	KeyVersion    = "version"
	KeyStage      = "stage"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyDest       = "dest"
	KeyRunID      = "run_id"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Crate(name string) slog.Attr      { return slog.String(KeyCrate, name) }
func Version(v string) slog.Attr       { return slog.String(KeyVersion, v) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func File(f string) slog.Attr          { return slog.String(KeyFile, f) }
func Dest(d string) slog.Attr          { return slog.String(KeyDest, d) }
func RunID(id string) slog.Attr        { return slog.String(KeyRunID, id) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
