package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"arendol-backend/internal/domain"
	"arendol-backend/internal/service"
)

const requestDateLayout = "2006-01-02"

type createBookingRequest struct {
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	RentalType string `json:"rental_type"`
	IsInsured  bool   `json:"is_insured"`
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	start, err := time.Parse(requestDateLayout, req.StartDate)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid start_date")
		return
	}
	end, err := time.Parse(requestDateLayout, req.EndDate)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid end_date")
		return
	}
	rentalType := domain.RentalTypeDay
	if req.RentalType == string(domain.RentalTypeMonth) {
		rentalType = domain.RentalTypeMonth
	}

	booking, err := s.bookingSvc.CreateBooking(r.Context(), userID(r), service.CreateBookingRequest{
		ItemID:     mux.Vars(r)["id"],
		StartDate:  start,
		EndDate:    end,
		RentalType: rentalType,
		IsInsured:  req.IsInsured,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := s.bookingSvc.ListBookings(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (s *Server) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := s.bookingSvc.GetBooking(r.Context(), userID(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	booking, err := s.bookingSvc.Approve(r.Context(), userID(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) handleReject(w http.ResponseWriter, r *http.Request) {
	var req reasonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	booking, err := s.bookingSvc.Reject(r.Context(), userID(r), mux.Vars(r)["id"], req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	var req reasonRequest
	// Body is optional for cancel; the service fills a role-specific default.
	_ = json.NewDecoder(r.Body).Decode(&req)
	booking, err := s.bookingSvc.Cancel(r.Context(), userID(r), mux.Vars(r)["id"], req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *Server) handleConfirmPayment(w http.ResponseWriter, r *http.Request) {
	booking, err := s.bookingSvc.ConfirmPayment(r.Context(), userID(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

type confirmHandoverRequest struct {
	Deposit   bool `json:"deposit"`
	Remainder bool `json:"remainder"`
}

func (s *Server) handleConfirmHandover(w http.ResponseWriter, r *http.Request) {
	var req confirmHandoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	booking, err := s.bookingSvc.ConfirmHandover(r.Context(), userID(r), mux.Vars(r)["id"], service.HandoverFlags{
		Deposit:   req.Deposit,
		Remainder: req.Remainder,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *Server) handleConfirmReturn(w http.ResponseWriter, r *http.Request) {
	booking, err := s.bookingSvc.ConfirmReturn(r.Context(), userID(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

type createReviewRequest struct {
	Rating int    `json:"rating"`
	Text   string `json:"text"`
}

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	var req createReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	review, err := s.reviewSvc.CreateReview(r.Context(), userID(r), mux.Vars(r)["id"], req.Rating, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

// handleNotificationCron triggers a full sweep. Guarded by a shared secret
// rather than a user token so an external scheduler can call it.
func (s *Server) handleNotificationCron(w http.ResponseWriter, r *http.Request) {
	if s.cronSecret == "" || r.Header.Get("X-Cron-Secret") != s.cronSecret {
		writeErrorMessage(w, http.StatusUnauthorized, "invalid cron secret")
		return
	}
	result := s.jobRunner.RunNotificationCron(r.Context())
	writeJSON(w, http.StatusOK, result)
}
