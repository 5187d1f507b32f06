package handler

import (
	"net/http"

	"github.com/VitMok/bank-backend/internal/domain"
	"github.com/VitMok/bank-backend/internal/fx"
	"github.com/VitMok/bank-backend/internal/logging"
)

type rateQuoter interface {
	Quote(from, to domain.Currency) (*fx.Quote, error)
}

type FXHandler struct {
	fx rateQuoter
}

func NewFXHandler(quoter rateQuoter) *FXHandler {
	return &FXHandler{fx: quoter}
}

type fxRateResponse struct {
	FromCurrency string `json:"from_currency"`
	ToCurrency   string `json:"to_currency"`
	Rate         string `json:"rate"`
}

func (h *FXHandler) GetRate(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	if fields := validateFXRateParams(from, to); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	quote, err := h.fx.Quote(domain.Currency(from), domain.Currency(to))
	if err != nil {
		logging.FromContext(r.Context()).Warn("fx rate lookup failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, fxRateResponse{
		FromCurrency: string(quote.FromCurrency),
		ToCurrency:   string(quote.ToCurrency),
		Rate:         quote.Rate.String(),
	})
}

func validateFXRateParams(from, to string) []FieldError {
	var errs []FieldError

	if from == "" {
		errs = append(errs, FieldError{Field: "from", Message: "required"})
	} else if !domain.Currency(from).IsValid() {
		errs = append(errs, FieldError{Field: "from", Message: "must be RUB, USD or EUR"})
	}

	if to == "" {
		errs = append(errs, FieldError{Field: "to", Message: "required"})
	} else if !domain.Currency(to).IsValid() {
		errs = append(errs, FieldError{Field: "to", Message: "must be RUB, USD or EUR"})
	}

	return errs
}
