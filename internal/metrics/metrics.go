package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Import metrics
var (
	ImportedTransactions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ccgenesis_imported_transactions_total",
		Help: "The total number of genesis transactions imported, by type",
	}, []string{"type"})

	Accounts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ccgenesis_accounts",
		Help: "The number of accounts in the store",
	})
)

// Verification metrics
var (
	VerificationViolations = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ccgenesis_verification_violations",
		Help: "The number of violations found by the last genesis verification",
	})
)

// API metrics
var (
	APIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ccgenesis_api_requests_total",
		Help: "The total number of API requests, by route and status code",
	}, []string{"route", "code"})
)
