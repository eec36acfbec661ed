package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"vieride/internal/auth"
	"vieride/internal/booking"
	"vieride/internal/entities"
	"vieride/internal/service"
)

type WizardHandler struct {
	Wizards  *service.WizardService
	Bookings *service.BookingService
	Accounts service.AccountService
	Catalog  *booking.Catalog
}

func NewWizardHandler(wizards *service.WizardService, bookings *service.BookingService, accounts service.AccountService, catalog *booking.Catalog) *WizardHandler {
	return &WizardHandler{
		Wizards:  wizards,
		Bookings: bookings,
		Accounts: accounts,
		Catalog:  catalog,
	}
}

func countPtr(c booking.Count) *int {
	if !c.IsSet() {
		return nil
	}
	v := c.Value()
	return &v
}

func (h *WizardHandler) stateResponse(sessionID string, wiz *booking.Wizard) entities.WizardStateResponse {
	state := wiz.State()

	resp := entities.WizardStateResponse{
		SessionID: sessionID,
		Stage:     string(state.Stage),
		Draft: entities.DraftView{
			Direction:       string(state.Draft.Direction),
			DestinationCity: state.Draft.DestinationCity,
			Address:         state.Draft.Address,
			Date:            state.Draft.Date,
			Time:            state.Draft.Time,
			FlightNumber:    state.Draft.FlightNumber,
			Passengers:      countPtr(state.Draft.Passengers),
			Suitcases:       countPtr(state.Draft.Suitcases),
			HandLuggage:     countPtr(state.Draft.HandLuggage),
			ChildSeats: entities.ChildSeats{
				Baby:    state.Draft.ChildSeats.Baby,
				Child:   state.Draft.ChildSeats.Child,
				Booster: state.Draft.ChildSeats.Booster,
			},
			ContactName:   state.Draft.ContactName,
			ContactEmail:  state.Draft.ContactEmail,
			ContactPhone:  state.Draft.ContactPhone,
			PaymentMethod: string(state.Draft.PaymentMethod),
		},
		VehicleID:       state.VehicleID,
		VehicleOverride: state.VehicleOverride,
		NoVehicleFits:   state.NoVehicleFits,
		DistanceKm:      state.DistanceKm,
		FieldErrors:     state.FieldErrors,
		SubmitFailed:    state.SubmitFailed,
		Suggestions:     state.Suggestions,
	}

	for _, q := range state.Quotes {
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
		resp.Quotes = append(resp.Quotes, quote)
	}

	if state.Submitted != nil {
		rec := state.Submitted
		resp.Booking = &entities.BookingResponse{
			Code:       rec.Code,
			Pickup:     rec.Pickup,
			Dropoff:    rec.Dropoff,
			Address:    rec.Address,
			PickupDate: rec.Date,
			PickupTime: rec.Time,
			FlightNumber: rec.FlightNumber,
			Passengers:  rec.Passengers,
			Suitcases:   rec.Suitcases,
			HandLuggage: rec.HandLuggage,
			ChildSeats: entities.ChildSeats{
				Baby:    rec.ChildSeats.Baby,
				Child:   rec.ChildSeats.Child,
				Booster: rec.ChildSeats.Booster,
			},
			VehicleID:     rec.VehicleID,
			Price:         rec.Price,
			ContactName:   rec.ContactName,
			ContactEmail:  rec.ContactEmail,
			ContactPhone:  rec.ContactPhone,
			PaymentMethod: string(rec.PaymentMethod),
			Status:        rec.Status,
			CheckoutURL:   rec.CheckoutURL,
		}
	}
	return resp
}

// session resolves the wizard addressed by the request, or replies 404.
func (h *WizardHandler) session(w http.ResponseWriter, r *http.Request) (string, *booking.Wizard, bool) {
	id := mux.Vars(r)["id"]
	accountID := ""
	if claims := auth.FromContext(r.Context()); claims != nil {
		accountID = claims.AccountID
	}
	wiz, err := h.Wizards.Get(id, accountID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Wizard session not found")
		return "", nil, false
	}
	return id, wiz, true
}

// writeWizardError maps wizard errors onto HTTP. Guard violations come back
// as 422 with the full state so the client can render per-field messages.
func (h *WizardHandler) writeWizardError(w http.ResponseWriter, sessionID string, wiz *booking.Wizard, err error) {
	var fieldErr *booking.FieldError
	if errors.As(err, &fieldErr) {
		respondJSON(w, http.StatusUnprocessableEntity, h.stateResponse(sessionID, wiz))
		return
	}
	if errors.Is(err, booking.ErrSubmitFailed) {
		respondJSON(w, http.StatusBadGateway, h.stateResponse(sessionID, wiz))
		return
	}
	respondError(w, http.StatusConflict, err.Error())
}

func (h *WizardHandler) StartWizard(w http.ResponseWriter, r *http.Request) {
	var req StartWizardRequest
	if r.ContentLength > 0 && !decodeAndValidate(w, r, &req) {
		return
	}

	var account *booking.Account
	if claims := auth.FromContext(r.Context()); claims != nil {
		profile, err := h.Accounts.Profile(claims.AccountID)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Could not load account")
			return
		}
		account = profile
	}

	var existing *booking.Record
	if req.EditingCode != "" {
		if account == nil {
			respondError(w, http.StatusUnauthorized, "Sign in to modify a booking")
			return
		}
		rec, err := h.Bookings.RecordByCode(req.EditingCode, account.ID)
		if err != nil {
			respondError(w, http.StatusNotFound, "Booking not found")
			return
		}
		existing = rec
	}

	id, wiz, err := h.Wizards.Create(account, existing)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Could not start booking")
		return
	}
	respondJSON(w, http.StatusCreated, h.stateResponse(id, wiz))
}

func (h *WizardHandler) GetState(w http.ResponseWriter, r *http.Request) {
	id, wiz, ok := h.session(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, h.stateResponse(id, wiz))
}

func (h *WizardHandler) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, wiz, ok := h.session(w, r)
	if !ok {
		return
	}
	var req TripUpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if req.Direction != nil {
		if err := wiz.SetDirection(booking.Direction(*req.Direction)); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if req.DestinationCity != nil {
		if !h.Catalog.CityExists(*req.DestinationCity) {
			respondError(w, http.StatusBadRequest, "Unknown destination city")
			return
		}
		wiz.SetCity(*req.DestinationCity)
	}
	if req.Address != nil {
		wiz.SetAddress(*req.Address)
	}
	if req.Date != nil {
		wiz.SetDate(*req.Date)
	}
	if req.Time != nil {
		wiz.SetTime(*req.Time)
	}
	if req.FlightNumber != nil {
		wiz.SetFlightNumber(*req.FlightNumber)
	}
	respondJSON(w, http.StatusOK, h.stateResponse(id, wiz))
}

func (h *WizardHandler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	id, wiz, ok := h.session(w, r)
	if !ok {
		return
	}
	var req DetailsUpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if req.Passengers != nil {
		wiz.SetPassengers(*req.Passengers)
	}
	if req.Suitcases != nil {
		wiz.SetSuitcases(*req.Suitcases)
	}
	if req.HandLuggage != nil {
		wiz.SetHandLuggage(*req.HandLuggage)
	}
	if req.ChildSeats != nil {
		wiz.SetChildSeats(booking.ChildSeats{
			Baby:    req.ChildSeats.Baby,
			Child:   req.ChildSeats.Child,
			Booster: req.ChildSeats.Booster,
		})
	}
	respondJSON(w, http.StatusOK, h.stateResponse(id, wiz))
}

func (h *WizardHandler) SelectVehicle(w http.ResponseWriter, r *http.Request) {
	id, wiz, ok := h.session(w, r)
	if !ok {
		return
	}
	var req VehicleSelectRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := wiz.SelectVehicle(req.VehicleID); err != nil {
		h.writeWizardError(w, id, wiz, err)
		return
	}
	respondJSON(w, http.StatusOK, h.stateResponse(id, wiz))
}

func (h *WizardHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	id, wiz, ok := h.session(w, r)
	if !ok {
		return
	}
	var req ContactUpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	wiz.SetContact(req.Name, req.Email, req.Phone)
	if req.PaymentMethod != nil {
		if err := wiz.SetPaymentMethod(booking.PaymentMethod(*req.PaymentMethod)); err != nil {
			h.writeWizardError(w, id, wiz, err)
			return
		}
	}
	respondJSON(w, http.StatusOK, h.stateResponse(id, wiz))
}

func (h *WizardHandler) Next(w http.ResponseWriter, r *http.Request) {
	id, wiz, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := wiz.Next(); err != nil {
		h.writeWizardError(w, id, wiz, err)
		return
	}
	respondJSON(w, http.StatusOK, h.stateResponse(id, wiz))
}

func (h *WizardHandler) Back(w http.ResponseWriter, r *http.Request) {
	id, wiz, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := wiz.Back(); err != nil {
		h.writeWizardError(w, id, wiz, err)
		return
	}
	respondJSON(w, http.StatusOK, h.stateResponse(id, wiz))
}

func (h *WizardHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, wiz, ok := h.session(w, r)
	if !ok {
		return
	}
	if _, err := wiz.Submit(r.Context()); err != nil {
		h.writeWizardError(w, id, wiz, err)
		return
	}
	respondJSON(w, http.StatusOK, h.stateResponse(id, wiz))
}

func (h *WizardHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	_, wiz, ok := h.session(w, r)
	if !ok {
		return
	}
	suggestions, err := wiz.Suggest(r.Context())
	if err != nil {
		respondError(w, http.StatusBadGateway, "Address suggestions unavailable")
		return
	}
	respondJSON(w, http.StatusOK, map[string][]string{"suggestions": suggestions})
}
