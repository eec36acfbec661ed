package api

import (
	"net/http"

	"vieride/internal/auth"
	"vieride/internal/service"
)

type AccountHandler struct {
	Service service.AccountService
}

func NewAccountHandler(svc service.AccountService) *AccountHandler {
	return &AccountHandler{Service: svc}
}

func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	token, err := h.Service.Register(req.Name, req.Email, req.Phone, req.Password)
	if err != nil {
		respondError(w, http.StatusConflict, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, TokenResponse{Token: token})
}

func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	token, err := h.Service.Login(req.Email, req.Password)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	respondJSON(w, http.StatusOK, TokenResponse{Token: token})
}

func (h *AccountHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims := auth.FromContext(r.Context())
	account, err := h.Service.Profile(claims.AccountID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Account not found")
		return
	}
	respondJSON(w, http.StatusOK, account)
}

func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims := auth.FromContext(r.Context())
	var req ProfileUpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	err := h.Service.UpdateProfile(claims.AccountID, req.Name, req.Phone, req.HomeAddress, req.BusinessAddress)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Profile updated"})
}

func (h *AccountHandler) JoinCompany(w http.ResponseWriter, r *http.Request) {
	claims := auth.FromContext(r.Context())
	var req JoinCompanyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	company, err := h.Service.JoinCompany(claims.AccountID, req.JoinCode)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":          "Joined company",
		"company":          company.Name,
		"discount_percent": company.DiscountPercent,
		"invoice_enabled":  company.InvoiceEnabled,
	})
}

func (h *AccountHandler) LeaveCompany(w http.ResponseWriter, r *http.Request) {
	claims := auth.FromContext(r.Context())
	if err := h.Service.LeaveCompany(claims.AccountID); err != nil {
		respondError(w, http.StatusInternalServerError, "Could not leave company")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Left company"})
}
