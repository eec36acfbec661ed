package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"vieride/internal/db"
	"vieride/internal/repository"
	"vieride/internal/service"
)

type AdminHandler struct {
	Bookings *service.BookingService
	Drivers  *repository.DriverRepository
}

func NewAdminHandler(bookings *service.BookingService, drivers *repository.DriverRepository) *AdminHandler {
	return &AdminHandler{Bookings: bookings, Drivers: drivers}
}

func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	vehicleID := r.URL.Query().Get("vehicle_id")
	status := r.URL.Query().Get("status")

	bookings, err := h.Bookings.ListAll(date, vehicleID, status)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Database error")
		return
	}
	respondJSON(w, http.StatusOK, bookings)
}

func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	var req StatusUpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := h.Bookings.SetStatus(code, req.Status); err != nil {
		respondError(w, http.StatusConflict, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Booking status updated"})
}

func (h *AdminHandler) AssignDriver(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	var req AssignDriverRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := h.Bookings.AssignDriver(code, req.DriverID); err != nil {
		respondError(w, http.StatusConflict, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Driver assigned"})
}

func (h *AdminHandler) ListDrivers(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	drivers, err := h.Drivers.List(activeOnly)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Database error")
		return
	}
	respondJSON(w, http.StatusOK, drivers)
}

func (h *AdminHandler) CreateDriver(w http.ResponseWriter, r *http.Request) {
	var req DriverRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	driver := &db.Driver{
		ID:     uuid.NewString(),
		Name:   req.Name,
		Phone:  req.Phone,
		Plate:  req.Plate,
		Active: req.Active,
	}
	if err := h.Drivers.Create(driver); err != nil {
		respondError(w, http.StatusInternalServerError, "Could not create driver")
		return
	}
	respondJSON(w, http.StatusCreated, driver)
}

func (h *AdminHandler) UpdateDriver(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req DriverRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	driver := &db.Driver{
		ID:     id,
		Name:   req.Name,
		Phone:  req.Phone,
		Plate:  req.Plate,
		Active: req.Active,
	}
	if err := h.Drivers.Update(driver); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Driver updated"})
}

func (h *AdminHandler) DeleteDriver(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.Drivers.Delete(id); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Driver deleted"})
}
