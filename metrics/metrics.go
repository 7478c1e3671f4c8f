// Package metrics exposes provisioning counters in Prometheus text
// format, served on a dedicated listener so the scrape endpoint never
// competes with provisioning traffic.
package metrics

import (
	"context"
	"fmt"
	"net/http"

	vmmetrics "github.com/VictoriaMetrics/metrics"
)

// MetricsServer serves /metrics on its own address.
type MetricsServer struct {
	name string
	srv  *http.Server
}

// New creates a metrics server for the given service name listening on
// listenAddr. The name is exported as a constant gauge so dashboards can
// identify the emitting process.
func New(name, listenAddr string) (*MetricsServer, error) {
	if listenAddr == "" {
		return nil, fmt.Errorf("metrics server requires a listen address")
	}

	vmmetrics.GetOrCreateCounter(fmt.Sprintf(`service_info{name=%q}`, name)).Set(1)

	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		vmmetrics.WritePrometheus(w, true)
	})

	return &MetricsServer{
		name: name,
		srv: &http.Server{
			Addr:    listenAddr,
			Handler: mux,
		},
	}, nil
}

func (m *MetricsServer) ListenAndServe() error {
	return m.srv.ListenAndServe()
}

func (m *MetricsServer) Shutdown(ctx context.Context) error {
	return m.srv.Shutdown(ctx)
}

var (
	provisionAttempts   = vmmetrics.NewCounter(`shop_provision_attempts_total`)
	provisionSuccesses  = vmmetrics.NewCounter(`shop_provision_successes_total`)
	provisionDuplicates = vmmetrics.NewCounter(`shop_provision_duplicates_total`)
	provisionFailures   = vmmetrics.NewCounter(`shop_provision_failures_total`)
)

// IncProvisionAttempt counts every inbound provisioning request.
func IncProvisionAttempt() { provisionAttempts.Inc() }

// IncProvisionSuccess counts fully provisioned tenants.
func IncProvisionSuccess() { provisionSuccesses.Inc() }

// IncProvisionDuplicate counts requests rejected by the idempotency guard.
func IncProvisionDuplicate() { provisionDuplicates.Inc() }

// IncProvisionFailure counts provisioning runs that aborted.
func IncProvisionFailure() { provisionFailures.Inc() }
