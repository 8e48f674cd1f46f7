package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"kisansathi-backend/internal/models"
	"kisansathi-backend/internal/services"
)

type MarketHandler struct {
	market *services.MarketService
}

func NewMarketHandler(market *services.MarketService) *MarketHandler {
	return &MarketHandler{market: market}
}

func (h *MarketHandler) Rates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, h.market.Rates(q.Get("crop"), q.Get("district")))
}

func (h *MarketHandler) Profit(w http.ResponseWriter, r *http.Request) {
	var req models.ProfitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("Invalid request body"))
		return
	}

	resp, err := h.market.Profit(req)
	if err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Validation failed", Message: ve.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("An unexpected error occurred"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
