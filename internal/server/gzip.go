package server

import (
	"bytes"
	"compress/gzip"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// gzipMinSize is the smallest non-textual body worth compressing.
const gzipMinSize = 1024

// Gzip buffers the response and conditionally gzip-encodes it: only for
// status 200, a non-empty body, and a textual/JSON content type or a body of
// at least gzipMinSize bytes. An already-encoded response passes through
// untouched, so stacking the middleware never double-encodes.
func Gzip() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !acceptsGzip(c.Request) {
			c.Next()
			return
		}

		buf := &bufferedWriter{ResponseWriter: c.Writer, status: http.StatusOK}
		c.Writer = buf
		c.Next()
		c.Writer = buf.ResponseWriter

		buf.flush(c.Writer)
	}
}

func acceptsGzip(r *http.Request) bool {
	for _, enc := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		if strings.TrimSpace(strings.SplitN(enc, ";", 2)[0]) == "gzip" {
			return true
		}
	}
	return false
}

// bufferedWriter captures the handler's output so the encoding decision can
// be made after the body is complete.
type bufferedWriter struct {
	gin.ResponseWriter
	body   bytes.Buffer
	status int
	wrote  bool
}

func (w *bufferedWriter) WriteHeader(status int) {
	w.status = status
	w.wrote = true
}

func (w *bufferedWriter) Write(p []byte) (int, error) {
	w.wrote = true
	return w.body.Write(p)
}

func (w *bufferedWriter) WriteString(s string) (int, error) {
	w.wrote = true
	return w.body.WriteString(s)
}

func (w *bufferedWriter) Status() int {
	return w.status
}

func (w *bufferedWriter) Size() int {
	return w.body.Len()
}

func (w *bufferedWriter) Written() bool {
	return w.wrote
}

func (w *bufferedWriter) WriteHeaderNow() {}

// flush writes the buffered body to the real writer, gzip-encoding it when
// the response qualifies.
func (w *bufferedWriter) flush(dst gin.ResponseWriter) {
	header := dst.Header()
	body := w.body.Bytes()

	if !w.shouldCompress(header) {
		if len(body) > 0 {
			header.Set("Content-Length", strconv.Itoa(len(body)))
		}
		dst.WriteHeader(w.status)
		if len(body) > 0 {
			_, _ = dst.Write(body)
		}
		return
	}

	var compressed bytes.Buffer
	gz := gzip.NewWriter(&compressed)
	if _, err := gz.Write(body); err != nil {
		_ = gz.Close()
		dst.WriteHeader(w.status)
		_, _ = dst.Write(body)
		return
	}
	if err := gz.Close(); err != nil {
		dst.WriteHeader(w.status)
		_, _ = dst.Write(body)
		return
	}

	header.Set("Content-Encoding", "gzip")
	header.Set("Content-Length", strconv.Itoa(compressed.Len()))
	header.Add("Vary", "Accept-Encoding")
	// The body is rewritten whole, so any chunked framing no longer applies.
	header.Del("Transfer-Encoding")

	dst.WriteHeader(w.status)
	_, _ = dst.Write(compressed.Bytes())
}

func (w *bufferedWriter) shouldCompress(header http.Header) bool {
	if w.status != http.StatusOK {
		return false
	}
	if w.body.Len() == 0 {
		return false
	}
	if header.Get("Content-Encoding") != "" {
		return false
	}
	if compressibleContentType(header.Get("Content-Type")) {
		return true
	}
	return w.body.Len() >= gzipMinSize
}

func compressibleContentType(contentType string) bool {
	contentType = strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	switch {
	case strings.HasPrefix(contentType, "text/"):
		return true
	case contentType == "application/json",
		contentType == "application/javascript",
		contentType == "application/xml",
		contentType == "application/xhtml+xml":
		return true
	default:
		return false
	}
}
