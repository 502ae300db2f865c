// Package httptransport is the thin HTTP layer. Handlers decode, delegate to
// domain services, and translate domain errors; business logic stays in the
// services.
package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services collects the domain services the router exposes.
type Services struct {
	Patients   *PatientHandler
	Operations *OperationHandler
	Catalog    *CatalogHandler
	Invoices   *InvoiceHandler
	Users      *UserHandler
}

// NewRouter wires all public endpoints.
func NewRouter(s Services) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestMetadata)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	s.Patients.Register(r)
	s.Operations.Register(r)
	s.Catalog.Register(r)
	s.Invoices.Register(r)
	s.Users.Register(r)
	return r
}
