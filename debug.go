package got

import (
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// debugLogger is the package-level zerolog logger for debug output.
// Replace it per client with WithLogger.
var debugLogger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// logRequest logs an outgoing request.
func logRequest(logger zerolog.Logger, req *http.Request, name string) {
	logger.Debug().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Str("name", name).
		Msg("HTTP request")
}

// logResponse logs a settled response.
func logResponse(logger zerolog.Logger, resp *http.Response, duration time.Duration, name string) {
	logger.Debug().
		Int("status", resp.StatusCode).
		Str("status_text", resp.Status).
		Dur("duration_ms", duration).
		Str("name", name).
		Msg("HTTP response")
}

// logRedirect logs a manual redirect re-issue.
func logRedirect(logger zerolog.Logger, name string, hop int, location string) {
	logger.Debug().
		Str("name", name).
		Int("hop", hop).
		Str("location", location).
		Msg("HTTP redirect re-issue")
}

// logSuperseded logs an in-flight request cancelled by a successor.
func logSuperseded(logger zerolog.Logger, name string) {
	logger.Debug().
		Str("name", name).
		Msg("HTTP request superseded")
}
