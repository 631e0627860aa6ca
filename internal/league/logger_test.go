package league

import (
	"io"
	"log/slog"
)

// newTestLogger returns a logger that discards all output. It mirrors
// testutil.NewTestLogger, which this package cannot import because
// testutil itself imports league.
func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
