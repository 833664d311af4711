package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"arendol-backend/internal/jobs"
	"arendol-backend/internal/security"
	"arendol-backend/internal/service"
)

// Server exposes the booking lifecycle and the cron trigger over HTTP.
type Server struct {
	router     *mux.Router
	bookingSvc service.BookingService
	reviewSvc  service.ReviewService
	jobRunner  *jobs.JobRunner
	tokens     security.TokenManager
	cronSecret string
}

func NewServer(
	bookingSvc service.BookingService,
	reviewSvc service.ReviewService,
	jobRunner *jobs.JobRunner,
	tokens security.TokenManager,
	cronSecret string,
) *Server {
	s := &Server{
		router:     mux.NewRouter(),
		bookingSvc: bookingSvc,
		reviewSvc:  reviewSvc,
		jobRunner:  jobRunner,
		tokens:     tokens,
		cronSecret: cronSecret,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	s.router.HandleFunc("/api/cron/notifications", s.handleNotificationCron).Methods("POST")

	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(s.authMiddleware)

	api.HandleFunc("/items/{id}/book", s.handleCreateBooking).Methods("POST")
	api.HandleFunc("/bookings", s.handleListBookings).Methods("GET")
	api.HandleFunc("/bookings/{id}", s.handleGetBooking).Methods("GET")
	api.HandleFunc("/bookings/{id}/approve", s.handleApprove).Methods("POST")
	api.HandleFunc("/bookings/{id}/reject", s.handleReject).Methods("POST")
	api.HandleFunc("/bookings/{id}/cancel", s.handleCancel).Methods("POST")
	api.HandleFunc("/bookings/{id}/pay", s.handleConfirmPayment).Methods("POST")
	api.HandleFunc("/bookings/{id}/confirm-handover", s.handleConfirmHandover).Methods("POST")
	api.HandleFunc("/bookings/{id}/confirm-return", s.handleConfirmReturn).Methods("POST")
	api.HandleFunc("/bookings/{id}/review", s.handleCreateReview).Methods("POST")
}

// Router returns the configured handler for the HTTP server.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
