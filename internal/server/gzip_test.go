package server

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipEngine(middleware ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(middleware...)
	engine.GET("/json", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": strings.Repeat("payload ", 10)})
	})
	engine.GET("/error", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nope"})
	})
	engine.GET("/binary", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/octet-stream", []byte("tiny"))
	})
	engine.GET("/big-binary", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/octet-stream", bytes.Repeat([]byte("x"), 2048))
	})
	engine.GET("/empty", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine
}

func gzipGet(engine *gin.Engine, path string, acceptGzip bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if acceptGzip {
		req.Header.Set("Accept-Encoding", "gzip")
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func gunzip(t *testing.T, body []byte) []byte {
	t.Helper()
	r, err := gzip.NewReader(bytes.NewReader(body))
	require.NoError(t, err)
	defer r.Close()
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return out
}

func TestGzipCompressesJSONResponses(t *testing.T) {
	engine := gzipEngine(Gzip())

	rec := gzipGet(engine, "/json", true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	assert.Equal(t, strconv.Itoa(rec.Body.Len()), rec.Header().Get("Content-Length"))
	assert.Empty(t, rec.Header().Get("Transfer-Encoding"))

	plain := gunzip(t, rec.Body.Bytes())
	assert.Contains(t, string(plain), "payload")
}

func TestGzipStackingDoesNotDoubleEncode(t *testing.T) {
	engine := gzipEngine(Gzip(), Gzip())

	rec := gzipGet(engine, "/json", true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	assert.Equal(t, strconv.Itoa(rec.Body.Len()), rec.Header().Get("Content-Length"))

	// One round of decompression must recover the original content.
	plain := gunzip(t, rec.Body.Bytes())
	assert.True(t, strings.HasPrefix(string(plain), `{"message"`), "double-encoded body: %q", plain[:min(len(plain), 20)])
}

func TestGzipSkipsWithoutAcceptEncoding(t *testing.T) {
	engine := gzipEngine(Gzip())

	rec := gzipGet(engine, "/json", false)

	assert.Empty(t, rec.Header().Get("Content-Encoding"))
	assert.Contains(t, rec.Body.String(), "payload")
}

func TestGzipSkipsNonOKStatus(t *testing.T) {
	engine := gzipEngine(Gzip())

	rec := gzipGet(engine, "/error", true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Encoding"))
}

func TestGzipSkipsSmallBinaryBodies(t *testing.T) {
	engine := gzipEngine(Gzip())

	rec := gzipGet(engine, "/binary", true)

	assert.Empty(t, rec.Header().Get("Content-Encoding"))
	assert.Equal(t, "tiny", rec.Body.String())
}

func TestGzipCompressesLargeBinaryBodies(t *testing.T) {
	engine := gzipEngine(Gzip())

	rec := gzipGet(engine, "/big-binary", true)

	require.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	plain := gunzip(t, rec.Body.Bytes())
	assert.Len(t, plain, 2048)
}

func TestGzipSkipsEmptyBodies(t *testing.T) {
	engine := gzipEngine(Gzip())

	rec := gzipGet(engine, "/empty", true)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Encoding"))
	assert.Zero(t, rec.Body.Len())
}
