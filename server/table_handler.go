package server

import (
	"net/http"

	"diceroyale/models"
	"diceroyale/service"
)

type tableHandler struct {
	table service.TableService
}

type placeBetRequest struct {
	Type   models.BetType `json:"type"`
	Choice models.Choice  `json:"choice"`
	Amount int64          `json:"amount"`
}

type boostRequest struct {
	Amount int64 `json:"amount"`
}

type actionResponse struct {
	Applied bool              `json:"applied"`
	State   models.RoundState `json:"state"`
}

func (h *tableHandler) snapshot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.table.Snapshot())
}

func (h *tableHandler) history(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.table.History())
}

func (h *tableHandler) notifications(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.table.Notifications())
}

func (h *tableHandler) placeBet(w http.ResponseWriter, r *http.Request) {
	var req placeBetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	bet, err := h.table.PlaceBet(req.Type, req.Choice, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, bet)
}

func (h *tableHandler) start(w http.ResponseWriter, _ *http.Request) {
	applied := h.table.ForceStartNow()
	writeJSON(w, http.StatusOK, actionResponse{Applied: applied, State: h.table.State()})
}

func (h *tableHandler) roll(w http.ResponseWriter, _ *http.Request) {
	applied := h.table.ForceResolveNow()
	writeJSON(w, http.StatusOK, actionResponse{Applied: applied, State: h.table.State()})
}

func (h *tableHandler) reset(w http.ResponseWriter, _ *http.Request) {
	h.table.Reset()
	writeJSON(w, http.StatusOK, h.table.Snapshot())
}

func (h *tableHandler) boost(w http.ResponseWriter, r *http.Request) {
	var req boostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.table.BoostOpponents(req.Amount); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.table.Players())
}
