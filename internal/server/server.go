// Package server assembles the HTTP routes: the extraction endpoint, the
// split RPC service, metrics, health and the static frontend.
package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/receiptsplit/internal/gateway"
	"github.com/mmynk/receiptsplit/internal/middleware"
	"github.com/mmynk/receiptsplit/internal/pipeline"
	"github.com/mmynk/receiptsplit/internal/service"
)

// Options are the dependencies the routes are built from.
type Options struct {
	Extractor     gateway.Extractor
	Gatherer      prometheus.Gatherer
	StaticDir     string
	AllowedOrigin string
}

// NewHandler returns the full handler chain, including h2c so Connect
// clients can speak HTTP/2 without TLS.
func NewHandler(opts Options) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/api/scrape", gateway.NewHandler(opts.Extractor))

	splitPath, splitHandler := service.NewSplitServiceHandler(service.NewSplitService(),
		connect.WithInterceptors(middleware.LoggingInterceptor()))
	mux.Handle(splitPath, splitHandler)

	if opts.Gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})

	mux.Handle("/", staticHandler(opts.StaticDir))

	handler := middleware.RequestLogger(middleware.CORS(opts.AllowedOrigin)(mux))
	return h2c.NewHandler(handler, &http2.Server{})
}

// staticHandler serves the frontend. Screen paths and unknown files fall
// back to index.html so the browser router can take over.
func staticHandler(dir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/"+service.SplitServiceName) || strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if pipeline.Screen(urlPath).Valid() {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(dir, filepath.Clean("/"+urlPath))
		if info, err := os.Stat(filePath); err != nil || info.IsDir() {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
			return
		}
		http.ServeFile(w, r, filePath)
	})
}
