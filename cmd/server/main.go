// Command jdm-server exposes the JDM engine over HTTP: POST /evaluate runs a
// document against a context, while /metrics and /healthz/* serve Prometheus
// scraping and Kubernetes-style probes.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/bizrules/jdm"
	"github.com/bizrules/jdm/internal/document"
	"github.com/bizrules/jdm/internal/loader"
	"github.com/bizrules/jdm/internal/telemetry/log"
	"github.com/bizrules/jdm/internal/telemetry/metrics"
	"github.com/bizrules/jdm/internal/value"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var allowedOrigins = []string{
	"http://localhost:5173",
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func corsMiddleware(next http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if _, ok := allowed[origin]; ok {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// evalServer wires a JDM engine into the /evaluate handler. The engine
// itself records evaluation counts/latency/node counts via jdm.WithMetrics.
type evalServer struct {
	eng *jdm.Engine
}

func (s *evalServer) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		Document json.RawMessage `json:"document"`
		Context  json.RawMessage `json:"context"`
		Trace    bool            `json:"trace"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(body.Document) == 0 {
		writeError(w, http.StatusBadRequest, "missing field: document")
		return
	}

	doc, err := document.Parse(body.Document)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid document: %v", err))
		return
	}

	ctxBytes := body.Context
	if len(ctxBytes) == 0 {
		ctxBytes = []byte("{}")
	}
	ctxValue, err := value.FromJSON(ctxBytes)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid context: %v", err))
		return
	}

	res, err := s.eng.EvaluateDoc(r.Context(), doc, ctxValue, jdm.EvalOptions{
		IncludeTrace:       body.Trace,
		IncludePerformance: true,
	})
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	out, err := res.Result.ToJSON()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	buf := bytes.NewBuffer(out)
	w.Write(buf.Bytes())
}

func main() {
	port := flag.Int("port", 8080, "port to listen on")
	docDir := flag.String("docs", "", "directory of *.json JDM documents served by name")
	flag.Parse()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	met := metrics.New(registry)

	var l loader.Loader
	if *docDir != "" {
		l = loader.Func(func(_ context.Context, key string) (*document.Document, error) {
			data, err := os.ReadFile(*docDir + "/" + key + ".json")
			if err != nil {
				return nil, err
			}
			return document.Parse(data)
		})
	} else {
		l = loader.NewInMemory(nil)
	}

	eng, err := jdm.New(
		jdm.WithLoader(l),
		jdm.WithMetrics(met),
		jdm.WithDefaultTimeout(30*time.Second),
	)
	if err != nil {
		log.Errorf("jdm-server: building engine: %v", err)
		os.Exit(1)
	}

	srv := &evalServer{eng: eng}

	mux := http.NewServeMux()
	mux.HandleFunc("/evaluate", srv.handleEvaluate)
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{EnableOpenMetrics: true}))

	var ready atomic.Bool
	ready.Store(true)
	mux.HandleFunc("/healthz/liveness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
	mux.HandleFunc("/healthz/readiness", func(w http.ResponseWriter, _ *http.Request) {
		if ready.Load() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ok\n"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("not ready\n"))
	})

	addr := fmt.Sprintf(":%d", *port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.Errorf("jdm-server: listen on %s: %v", addr, err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Handler:           corsMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if serveErr := httpServer.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			log.Errorf("jdm-server: serve error: %v", serveErr)
		}
	}()
	log.Infof("jdm-server listening on %s", listener.Addr().String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	ready.Store(false)
	log.Infof("jdm-server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Errorf("jdm-server: shutdown: %v", err)
	}
}
