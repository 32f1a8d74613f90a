// Package restserver exposes the operator's HTTP surface: liveness and
// readiness probes, a JSON dump of managed Eips for debugging, and the
// Prometheus metrics endpoint.
package restserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	ctrlclient "sigs.k8s.io/controller-runtime/pkg/client"
	ctrlmetrics "sigs.k8s.io/controller-runtime/pkg/metrics"

	eipv1alpha1 "github.com/necaris/k8s-eip-operator/crd/eip/api/v1alpha1"
	// Registers the operator's collectors on the controller-runtime
	// registry served at /metrics.
	_ "github.com/necaris/k8s-eip-operator/metrics"
)

const shutdownTimeout = 5 * time.Second

// EipState is the /state wire form of one managed Eip.
type EipState struct {
	Namespace        string `json:"namespace"`
	Name             string `json:"name"`
	Selector         string `json:"selector"`
	AllocationID     string `json:"allocationId,omitempty"`
	PublicIPAddress  string `json:"publicIpAddress,omitempty"`
	PrivateIPAddress string `json:"privateIpAddress,omitempty"`
	ENI              string `json:"eni,omitempty"`
	Attached         bool   `json:"attached"`
}

// Server serves the operator's debug and probe endpoints.
type Server struct {
	router *mux.Router
	reader ctrlclient.Reader
	logger *zap.Logger
	port   int
	ready  atomic.Bool
}

// NewServer builds the HTTP server. reader lists Eip resources for /state.
func NewServer(port int, reader ctrlclient.Reader, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		router: mux.NewRouter(),
		reader: reader,
		logger: logger,
		port:   port,
	}

	s.router.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	s.router.HandleFunc("/readyz", s.handleReadyz).Methods(http.MethodGet)
	s.router.HandleFunc("/state", s.handleState).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.HandlerFor(ctrlmetrics.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	return s
}

// SetReady flips the /readyz response. The operator calls this once the
// controller manager's caches have synced.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until the context is canceled.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(s.port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("http server listening", zap.Int("port", s.port))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx) // nolint:wrapcheck // shutdown error is the whole story
	case err := <-errCh:
		return err // nolint:wrapcheck // listener error is the whole story
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	if !s.ready.Load() {
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	eips := &eipv1alpha1.EipList{}
	if err := s.reader.List(r.Context(), eips); err != nil {
		s.logger.Error("listing eips for /state", zap.Error(err))
		http.Error(w, "listing eips failed", http.StatusInternalServerError)
		return
	}

	state := make([]EipState, 0, len(eips.Items))
	for i := range eips.Items {
		eip := &eips.Items[i]
		state = append(state, EipState{
			Namespace:        eip.Namespace,
			Name:             eip.Name,
			Selector:         eip.Spec.Selector.String(),
			AllocationID:     eip.Status.AllocationID,
			PublicIPAddress:  eip.Status.PublicIPAddress,
			PrivateIPAddress: eip.Status.PrivateIPAddress,
			ENI:              eip.Status.ENI,
			Attached:         eip.Attached(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(state); err != nil {
		s.logger.Error("encoding /state response", zap.Error(err))
	}
}
