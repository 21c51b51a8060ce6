package api

import (
	"net/http"
	"net/http/httputil"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// debugTransport logs full HTTP requests and responses at debug level.
// Credential headers are redacted from the dumps.
//
// Enable it with WithDebugLogging, WETRANSFER_DEBUG=true or DEBUG=true.
// JSON bodies are logged verbatim, so keep it out of production. Other
// bodies, such as file chunks, are left out of the dumps.
type debugTransport struct {
	base   http.RoundTripper
	logger zerolog.Logger
}

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if reqDump, err := httputil.DumpRequestOut(req, isJSON(req.Header)); err == nil {
		dt.logger.Debug().Str("method", req.Method).Str("url", req.URL.String()).Str("request_dump", redactDump(reqDump)).Msg("HTTP request")
	}

	resp, err := dt.base.RoundTrip(req)
	if err != nil {
		dt.logger.Error().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Msg("HTTP request failed")
		return nil, err
	}

	if respDump, err := httputil.DumpResponse(resp, isJSON(resp.Header)); err == nil {
		dt.logger.Debug().Str("method", req.Method).Str("url", req.URL.String()).Int("status_code", resp.StatusCode).Str("response_dump", redactDump(respDump)).Msg("HTTP response")
	}
	return resp, nil
}

func isJSON(h http.Header) bool {
	return strings.Contains(strings.ToLower(h.Get("Content-Type")), "json")
}

var redactedHeaders = []string{"authorization:", "x-api-key:"}

// redactDump masks credential header values in the header block of an
// HTTP dump.
func redactDump(dump []byte) string {
	lines := strings.Split(string(dump), "\r\n")
	for i, line := range lines {
		if line == "" {
			break
		}
		lower := strings.ToLower(line)
		for _, h := range redactedHeaders {
			if strings.HasPrefix(lower, h) {
				lines[i] = line[:len(h)] + " [REDACTED]"
			}
		}
	}
	return strings.Join(lines, "\r\n")
}

// DebugLoggingRequested reports whether HTTP debug logging was requested
// through the environment.
func DebugLoggingRequested() bool {
	return os.Getenv("WETRANSFER_DEBUG") == "true" || os.Getenv("DEBUG") == "true"
}
