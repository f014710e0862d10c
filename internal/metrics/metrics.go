package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OtpSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_otp_sent_total",
		Help: "Total number of OTP challenges dispatched.",
	})
	OtpVerifyTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_otp_verify_total",
		Help: "Total number of OTP verification attempts.",
	}, []string{"status"}) // status: "success" or "failed"

	BindTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_wallet_bind_total",
		Help: "Total number of wallet bind attempts by outcome.",
	}, []string{"outcome"}) // outcome: "created", "reconfirmed" or "conflict"
	ConflictsRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_conflicts_recorded_total",
		Help: "Total number of conflict records appended to the ledger.",
	})
)
