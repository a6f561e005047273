// Package mw holds gin middleware for the local status API.
package mw

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

// CacheHeader is set on responses served from the cache.
const CacheHeader = "X-Signboard-Cache"

type cachedResponse struct {
	status  int
	headers http.Header
	body    []byte
}

type recordingWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w recordingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w recordingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Cache serves repeated GETs for the same URI from store for ttl. Only 2xx
// responses are stored.
func Cache(store *cache.Cache, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := c.Request.URL.RequestURI()
		if v, ok := store.Get(key); ok {
			hit := v.(cachedResponse)
			for k, vals := range hit.headers {
				c.Writer.Header()[k] = vals
			}
			c.Writer.Header().Set(CacheHeader, "hit")
			c.Writer.WriteHeader(hit.status)
			_, _ = c.Writer.Write(hit.body)
			c.Abort()
			return
		}

		rec := &recordingWriter{body: bytes.NewBuffer(nil), ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		if s := rec.Status(); s >= 200 && s < 300 {
			store.Set(key, cachedResponse{
				status:  s,
				headers: rec.Header().Clone(),
				body:    rec.body.Bytes(),
			}, ttl)
		}
	}
}
