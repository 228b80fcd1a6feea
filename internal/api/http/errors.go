package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"carrental-settlement-backend/internal/domain"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps settlement error kinds onto HTTP statuses with a
// stable machine-readable code, so clients distinguish wrong state from
// wrong amount from wrong identity without parsing message text.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrAgreementNotFound):
		writeErrorCode(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrInvalidState):
		writeErrorCode(w, http.StatusConflict, "INVALID_STATE", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeErrorCode(w, http.StatusForbidden, "UNAUTHORIZED", err.Error())
	case errors.Is(err, domain.ErrPaymentMismatch):
		writeErrorCode(w, http.StatusPaymentRequired, "PAYMENT_MISMATCH", err.Error())
	case errors.Is(err, domain.ErrInvalidParameter):
		writeErrorCode(w, http.StatusBadRequest, "INVALID_PARAMETER", err.Error())
	case errors.Is(err, domain.ErrArithmeticOverflow):
		writeErrorCode(w, http.StatusUnprocessableEntity, "ARITHMETIC_OVERFLOW", err.Error())
	default:
		writeErrorCode(w, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}

func writeErrorCode(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
