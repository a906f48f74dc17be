package gbcore

import "log/slog"

// Config collects the options the cmd/gbcore CLI gathers and hands to
// New. BootROMPath left empty falls back to the embedded placeholder
// image.
type Config struct {
	ROMPath     string
	BootROMPath string
	LogLevel    slog.Level

	// FrameLimit, when nonzero, bounds a headless run to that many
	// RunFrame calls; zero means run until the driver stops calling it.
	FrameLimit int
}
