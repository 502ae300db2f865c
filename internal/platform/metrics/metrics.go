package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus counters shared by the domain services.
type Metrics struct {
	PatientsCreated   prometheus.Counter
	OperationsCreated prometheus.Counter
	InvoicesCreated   prometheus.Counter
	AssetsUploaded    prometheus.Counter
	CatalogUpserts    prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		PatientsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clinica_patients_created_total",
			Help: "Total number of patient records created",
		}),
		OperationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clinica_operations_created_total",
			Help: "Total number of patient operations created",
		}),
		InvoicesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clinica_invoices_created_total",
			Help: "Total number of invoices created",
		}),
		AssetsUploaded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clinica_assets_uploaded_total",
			Help: "Total number of operation assets uploaded",
		}),
		CatalogUpserts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clinica_catalog_upserts_total",
			Help: "Total number of operation-type catalog saves",
		}),
	}
}
