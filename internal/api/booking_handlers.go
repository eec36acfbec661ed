package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"vieride/internal/auth"
	"vieride/internal/booking"
	"vieride/internal/entities"
	"vieride/internal/service"
)

type BookingHandler struct {
	Service  *service.BookingService
	Accounts service.AccountService
	Catalog  *booking.Catalog
}

func NewBookingHandler(svc *service.BookingService, accounts service.AccountService, catalog *booking.Catalog) *BookingHandler {
	return &BookingHandler{Service: svc, Accounts: accounts, Catalog: catalog}
}

func (h *BookingHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.Catalog.Vehicles)
}

func (h *BookingHandler) ListCities(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.Catalog.Cities)
}

// GetQuotes prices all vehicle classes for one city. Signed-in corporate
// customers see their discounted price.
func (h *BookingHandler) GetQuotes(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	if city == "" {
		respondError(w, http.StatusBadRequest, "city query parameter required")
		return
	}
	if !h.Catalog.CityExists(city) {
		respondError(w, http.StatusNotFound, "Unknown city")
		return
	}

	discount := 0
	if claims := auth.FromContext(r.Context()); claims != nil {
		if account, err := h.Accounts.Profile(claims.AccountID); err == nil && account.Corporate {
			discount = account.DiscountPercent
		}
	}

	distance := h.Catalog.DistanceKm(city)
	var quotes []entities.QuoteResponse
	for _, q := range h.Catalog.QuoteAll(distance, discount) {
		quote := entities.QuoteResponse{
			VehicleID: q.VehicleID,
			Price:     q.Net,
			ListPrice: q.Gross,
		}
		if v, ok := h.Catalog.VehicleByID(q.VehicleID); ok {
			quote.VehicleName = v.Name
			quote.Image = v.Image
			quote.MaxPassengers = v.MaxPassengers
			quote.MaxLuggage = v.MaxLuggage
		}
		quotes = append(quotes, quote)
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"city":        city,
		"distance_km": distance,
		"quotes":      quotes,
	})
}

func (h *BookingHandler) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	claims := auth.FromContext(r.Context())
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	list, err := h.Service.ListBookings(claims.AccountID, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Could not list bookings")
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (h *BookingHandler) GetMyBooking(w http.ResponseWriter, r *http.Request) {
	claims := auth.FromContext(r.Context())
	code := mux.Vars(r)["code"]

	resp, err := h.Service.GetBooking(code, claims.AccountID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Booking not found")
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *BookingHandler) CancelMyBooking(w http.ResponseWriter, r *http.Request) {
	claims := auth.FromContext(r.Context())
	code := mux.Vars(r)["code"]

	if err := h.Service.CancelBooking(code, claims.AccountID); err != nil {
		respondError(w, http.StatusConflict, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Booking cancelled"})
}

func (h *BookingHandler) RateMyBooking(w http.ResponseWriter, r *http.Request) {
	claims := auth.FromContext(r.Context())
	code := mux.Vars(r)["code"]

	var req RatingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := h.Service.RateBooking(code, claims.AccountID, req.Rating, req.Comment); err != nil {
		respondError(w, http.StatusConflict, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Thanks for your rating"})
}

func (h *BookingHandler) SetReminder(w http.ResponseWriter, r *http.Request) {
	claims := auth.FromContext(r.Context())
	code := mux.Vars(r)["code"]

	var req ReminderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := h.Service.SetReminder(code, claims.AccountID, req.Enabled); err != nil {
		respondError(w, http.StatusConflict, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Reminder preference saved"})
}
