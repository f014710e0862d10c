package server

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"votegate/internal/handlers"
	"votegate/internal/middlewares"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	r.Use(middlewares.CorsMiddleware)
	r.Use(middlewares.RateLimit)
	r.Use(middlewares.NewPrometheusMiddleware().Instrument)

	ch := handlers.NewCommonHandler(s.db)
	r.HandleFunc("/health", ch.HealthHandler).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	oh := handlers.NewOTPHandler(s.otpService)
	r.HandleFunc("/otp/send", oh.Send).Methods("POST", "OPTIONS")
	r.HandleFunc("/otp/verify", oh.Verify).Methods("POST", "OPTIONS")

	bh := handlers.NewBindingHandler(s.bindingService)
	r.HandleFunc("/wallet/bind", bh.Bind).Methods("POST", "OPTIONS")

	ah := handlers.NewAdminHandler(s.adminService, os.Getenv("ADMIN_API_KEY"))
	r.HandleFunc("/admin/conflicts", ah.ListConflicts).Methods("GET", "OPTIONS")

	return r
}
