package server

import (
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/gzip"
	log "github.com/sirupsen/logrus"
)

// accessLog emits one structured log line per request
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		entry := log.WithFields(log.Fields{
			"status":    status,
			"method":    r.Method,
			"path":      r.URL.Path,
			"latency":   time.Since(start),
			"requestID": middleware.GetReqID(r.Context()),
		})
		switch {
		case status >= 500:
			entry.Error("http request")
		case status >= 400:
			entry.Warn("http request")
		default:
			entry.Debug("http request")
		}
	})
}

var gzipPool sync.Pool

func getGzipWriter(w io.Writer) *gzip.Writer {
	if v := gzipPool.Get(); v != nil {
		gw := v.(*gzip.Writer)
		gw.Reset(w)
		return gw
	}
	gw, _ := gzip.NewWriterLevel(w, gzip.DefaultCompression)
	return gw
}

func releaseGzipWriter(gw *gzip.Writer) {
	_ = gw.Close()
	gzipPool.Put(gw)
}

type gzipResponseWriter struct {
	http.ResponseWriter
	gw       *gzip.Writer
	disabled bool
}

func (g *gzipResponseWriter) WriteHeader(code int) {
	g.Header().Del("Content-Length")
	if code == http.StatusNoContent || code == http.StatusNotModified || code < 200 {
		g.disabled = true
		g.Header().Del("Content-Encoding")
		g.Header().Del("Vary")
	}
	g.ResponseWriter.WriteHeader(code)
}

func (g *gzipResponseWriter) Write(b []byte) (int, error) {
	if g.disabled {
		return g.ResponseWriter.Write(b)
	}
	g.Header().Del("Content-Length")
	if g.Header().Get("Content-Type") == "" {
		g.Header().Set("Content-Type", http.DetectContentType(b))
	}
	return g.gw.Write(b)
}

func (g *gzipResponseWriter) Flush() {
	if !g.disabled {
		_ = g.gw.Flush()
	}
	if f, ok := g.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// compress gzips responses for clients that accept it
func compress(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead || !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Add("Vary", "Accept-Encoding")

		gw := getGzipWriter(w)
		gzw := &gzipResponseWriter{ResponseWriter: w, gw: gw}
		defer func() {
			// a body-less response must not receive the gzip footer
			if gzw.disabled {
				gw.Reset(io.Discard)
			}
			releaseGzipWriter(gw)
		}()

		next.ServeHTTP(gzw, r)
	})
}
