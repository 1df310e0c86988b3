package common

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httputil"

	"cross-country/runflow/internal/logging"
)

// LogHTTPRequest dumps an outbound request at debug level, body included.
// The body is restored so the request can still be sent.
func LogHTTPRequest(req *http.Request) {
	var bodyCopy []byte
	if req.Body != nil {
		bodyCopy, _ = io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewReader(bodyCopy))
	}

	dump, err := httputil.DumpRequestOut(req, true)
	if err != nil {
		logging.Debug("Failed to dump HTTP request", "error", err.Error())
	} else {
		logging.Debug("HTTP request dump", "method", req.Method, "url", req.URL.Redacted(), "dump", string(dump))
	}

	if bodyCopy != nil {
		req.Body = io.NopCloser(bytes.NewReader(bodyCopy))
	}
}
