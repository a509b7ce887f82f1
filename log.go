package sparam

import (
	"github.com/rs/zerolog"

	"github.com/rfkit/sparam/internal/engine"
)

// logger receives library diagnostics. The default is a no-op logger so
// the library stays silent unless the caller opts in.
var logger = zerolog.Nop()

// SetLogger installs a logger for library diagnostics: parse statistics,
// transform stage summaries, and numeric fallback warnings.
func SetLogger(l zerolog.Logger) {
	logger = l
	engine.SetLogger(l)
}
