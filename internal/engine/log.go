package engine

import (
	"github.com/rs/zerolog"
)

// logger receives per-stage diagnostics. Transforms are silent unless a
// caller installs a real logger.
var logger = zerolog.Nop()

// SetLogger installs the diagnostics logger used by the transforms.
func SetLogger(l zerolog.Logger) {
	logger = l
}
