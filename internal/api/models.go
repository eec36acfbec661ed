package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Wizard
type StartWizardRequest struct {
	EditingCode string `json:"editing_code" validate:"omitempty,max=32"`
}

type TripUpdateRequest struct {
	Direction       *string `json:"direction" validate:"omitempty,oneof=from_airport to_airport"`
	DestinationCity *string `json:"destination_city" validate:"omitempty,max=100"`
	Address         *string `json:"address" validate:"omitempty,max=300"`
	Date            *string `json:"date" validate:"omitempty,max=10"`
	Time            *string `json:"time" validate:"omitempty,max=5"`
	FlightNumber    *string `json:"flight_number" validate:"omitempty,max=16"`
}

type ChildSeatsRequest struct {
	Baby    int `json:"baby" validate:"min=0,max=8"`
	Child   int `json:"child" validate:"min=0,max=8"`
	Booster int `json:"booster" validate:"min=0,max=8"`
}

type DetailsUpdateRequest struct {
	Passengers  *int               `json:"passengers" validate:"omitempty,min=0,max=16"`
	Suitcases   *int               `json:"suitcases" validate:"omitempty,min=0,max=16"`
	HandLuggage *int               `json:"hand_luggage" validate:"omitempty,min=0,max=16"`
	ChildSeats  *ChildSeatsRequest `json:"child_seats"`
}

type VehicleSelectRequest struct {
	VehicleID string `json:"vehicle_id" validate:"required,max=32"`
}

type ContactUpdateRequest struct {
	Name          string  `json:"name" validate:"max=200"`
	Email         string  `json:"email" validate:"max=200"`
	Phone         string  `json:"phone" validate:"max=32"`
	PaymentMethod *string `json:"payment_method" validate:"omitempty,oneof=cash card invoice"`
}

// Accounts
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,max=32"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type ProfileUpdateRequest struct {
	Name            string `json:"name" validate:"required,max=200"`
	Phone           string `json:"phone" validate:"omitempty,max=32"`
	HomeAddress     string `json:"home_address" validate:"max=300"`
	BusinessAddress string `json:"business_address" validate:"max=300"`
}

type JoinCompanyRequest struct {
	JoinCode string `json:"join_code" validate:"required,max=32"`
}

// Bookings
type RatingRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

type ReminderRequest struct {
	Enabled bool `json:"enabled"`
}

// Admin
type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed completed cancelled"`
}

type DriverRequest struct {
	Name   string `json:"name" validate:"required,max=200"`
	Phone  string `json:"phone" validate:"required,max=32"`
	Plate  string `json:"plate" validate:"max=16"`
	Active bool   `json:"active"`
}

type AssignDriverRequest struct {
	DriverID string `json:"driver_id" validate:"omitempty,uuid4"`
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
