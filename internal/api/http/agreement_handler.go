package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"carrental-settlement-backend/internal/domain"
	"carrental-settlement-backend/internal/engine"
	"carrental-settlement-backend/internal/repository"
	"carrental-settlement-backend/internal/service"
)

// AgreementHandler exposes the settlement operations over REST.
type AgreementHandler struct {
	svc         service.AgreementService
	contactRepo repository.PartyContactRepository
}

func NewAgreementHandler(svc service.AgreementService, contactRepo repository.PartyContactRepository) *AgreementHandler {
	return &AgreementHandler{svc: svc, contactRepo: contactRepo}
}

type agreementResponse struct {
	*domain.Agreement
	Stage domain.AgreementStage `json:"stage"`
	Quote *service.Quote        `json:"quote,omitempty"`
}

type createAgreementRequest struct {
	AssetName             string `json:"asset_name"`
	RentalFeePerUnit      uint64 `json:"rental_fee_per_unit"`
	DurationUnits         uint64 `json:"duration_units"`
	InsuranceFee          uint64 `json:"insurance_fee"`
	InsuranceCompensation uint64 `json:"insurance_compensation"`
}

type attachedValueRequest struct {
	AttachedValue uint64 `json:"attached_value"`
}

type actualUsageRequest struct {
	Units uint64 `json:"units"`
}

type contactRequest struct {
	Email string `json:"email"`
}

func (h *AgreementHandler) requireParty(w http.ResponseWriter, r *http.Request) (domain.Party, bool) {
	party, ok := PartyFromContext(r.Context())
	if !ok {
		writeErrorCode(w, http.StatusUnauthorized, "UNAUTHENTICATED", "bearer token required")
		return "", false
	}
	return party, true
}

func (h *AgreementHandler) CreateAgreement(w http.ResponseWriter, r *http.Request) {
	party, ok := h.requireParty(w, r)
	if !ok {
		return
	}

	var req createAgreementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("invalid request body: %w", domain.ErrInvalidParameter))
		return
	}

	ag, err := h.svc.CreateAgreement(r.Context(), party, engine.Terms{
		AssetName:             req.AssetName,
		RentalFeePerUnit:      req.RentalFeePerUnit,
		DurationUnits:         req.DurationUnits,
		InsuranceFee:          req.InsuranceFee,
		InsuranceCompensation: req.InsuranceCompensation,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, agreementResponse{Agreement: ag, Stage: ag.Stage()})
}

func (h *AgreementHandler) Rent(w http.ResponseWriter, r *http.Request) {
	party, ok := h.requireParty(w, r)
	if !ok {
		return
	}

	var req attachedValueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("invalid request body: %w", domain.ErrInvalidParameter))
		return
	}

	ag, err := h.svc.Rent(r.Context(), party, mux.Vars(r)["id"], req.AttachedValue)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agreementResponse{Agreement: ag, Stage: ag.Stage()})
}

func (h *AgreementHandler) CancelRental(w http.ResponseWriter, r *http.Request) {
	party, ok := h.requireParty(w, r)
	if !ok {
		return
	}

	ag, err := h.svc.CancelRental(r.Context(), party, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agreementResponse{Agreement: ag, Stage: ag.Stage()})
}

func (h *AgreementHandler) RequestReturn(w http.ResponseWriter, r *http.Request) {
	party, ok := h.requireParty(w, r)
	if !ok {
		return
	}

	ag, err := h.svc.RequestReturn(r.Context(), party, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agreementResponse{Agreement: ag, Stage: ag.Stage()})
}

func (h *AgreementHandler) ConfirmReturn(w http.ResponseWriter, r *http.Request) {
	party, ok := h.requireParty(w, r)
	if !ok {
		return
	}

	ag, err := h.svc.ConfirmReturn(r.Context(), party, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agreementResponse{Agreement: ag, Stage: ag.Stage()})
}

func (h *AgreementHandler) SetActualUsage(w http.ResponseWriter, r *http.Request) {
	party, ok := h.requireParty(w, r)
	if !ok {
		return
	}

	var req actualUsageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("invalid request body: %w", domain.ErrInvalidParameter))
		return
	}

	ag, err := h.svc.SetActualUsage(r.Context(), party, mux.Vars(r)["id"], req.Units)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agreementResponse{Agreement: ag, Stage: ag.Stage()})
}

func (h *AgreementHandler) ReportDamage(w http.ResponseWriter, r *http.Request) {
	party, ok := h.requireParty(w, r)
	if !ok {
		return
	}

	ag, err := h.svc.ReportDamage(r.Context(), party, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agreementResponse{Agreement: ag, Stage: ag.Stage()})
}

func (h *AgreementHandler) CompleteRental(w http.ResponseWriter, r *http.Request) {
	party, ok := h.requireParty(w, r)
	if !ok {
		return
	}

	var req attachedValueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("invalid request body: %w", domain.ErrInvalidParameter))
		return
	}

	ag, err := h.svc.CompleteRental(r.Context(), party, mux.Vars(r)["id"], req.AttachedValue)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agreementResponse{Agreement: ag, Stage: ag.Stage()})
}

func (h *AgreementHandler) GetAgreement(w http.ResponseWriter, r *http.Request) {
	ag, quote, err := h.svc.GetAgreement(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agreementResponse{Agreement: ag, Stage: ag.Stage(), Quote: quote})
}

func (h *AgreementHandler) ListAgreements(w http.ResponseWriter, r *http.Request) {
	party := domain.Party(r.URL.Query().Get("party"))
	if party == "" {
		authenticated, ok := h.requireParty(w, r)
		if !ok {
			return
		}
		party = authenticated
	}
	page, pageSize := pagination(r)

	agreements, total, err := h.svc.ListAgreements(r.Context(), party, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"agreements": agreements,
		"total":      total,
		"page":       page,
		"page_size":  pageSize,
	})
}

func (h *AgreementHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	events, total, err := h.svc.ListEvents(r.Context(), mux.Vars(r)["id"], page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"events":    events,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

func (h *AgreementHandler) ListLedger(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.ListLedger(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

// UpsertContact lets an authenticated party register the email address
// used for transition notifications.
func (h *AgreementHandler) UpsertContact(w http.ResponseWriter, r *http.Request) {
	party, ok := h.requireParty(w, r)
	if !ok {
		return
	}

	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeError(w, fmt.Errorf("email is required: %w", domain.ErrInvalidParameter))
		return
	}

	if err := h.contactRepo.Upsert(r.Context(), party, req.Email); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pagination(r *http.Request) (int32, int32) {
	page := int32(1)
	pageSize := int32(20)
	if v, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 32); err == nil && v > 0 {
		page = int32(v)
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("page_size"), 10, 32); err == nil && v > 0 && v <= 100 {
		pageSize = int32(v)
	}
	return page, pageSize
}
