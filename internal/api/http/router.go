package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"carrental-settlement-backend/internal/security"
)

// NewRouter wires the settlement API. All routes pass through the auth
// middleware; handlers that mutate state require an authenticated party.
func NewRouter(handler *AgreementHandler, tm security.TokenManager) *mux.Router {
	r := mux.NewRouter()
	r.Use(AuthMiddleware(tm))

	v1 := r.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/agreements", handler.CreateAgreement).Methods(http.MethodPost)
	v1.HandleFunc("/agreements", handler.ListAgreements).Methods(http.MethodGet)
	v1.HandleFunc("/agreements/{id}", handler.GetAgreement).Methods(http.MethodGet)
	v1.HandleFunc("/agreements/{id}/rent", handler.Rent).Methods(http.MethodPost)
	v1.HandleFunc("/agreements/{id}/cancel", handler.CancelRental).Methods(http.MethodPost)
	v1.HandleFunc("/agreements/{id}/request-return", handler.RequestReturn).Methods(http.MethodPost)
	v1.HandleFunc("/agreements/{id}/confirm-return", handler.ConfirmReturn).Methods(http.MethodPost)
	v1.HandleFunc("/agreements/{id}/actual-usage", handler.SetActualUsage).Methods(http.MethodPost)
	v1.HandleFunc("/agreements/{id}/report-damage", handler.ReportDamage).Methods(http.MethodPost)
	v1.HandleFunc("/agreements/{id}/complete", handler.CompleteRental).Methods(http.MethodPost)
	v1.HandleFunc("/agreements/{id}/events", handler.ListEvents).Methods(http.MethodGet)
	v1.HandleFunc("/agreements/{id}/ledger", handler.ListLedger).Methods(http.MethodGet)
	v1.HandleFunc("/contacts", handler.UpsertContact).Methods(http.MethodPut)

	return r
}
