package handler

import (
	"context"
	"net/http"

	"github.com/iho/payouts/internal/adapter/http/dto"
	"github.com/iho/payouts/internal/domain"
)

// NetworkService lists the supported crypto networks.
type NetworkService interface {
	ListNetworks(ctx context.Context) ([]*domain.Network, error)
}

// NetworkHandler handles crypto network HTTP requests.
type NetworkHandler struct {
	entryUC NetworkService
}

// NewNetworkHandler creates a new NetworkHandler.
func NewNetworkHandler(entryUC NetworkService) *NetworkHandler {
	return &NetworkHandler{entryUC: entryUC}
}

// List lists the supported crypto networks.
func (h *NetworkHandler) List(w http.ResponseWriter, r *http.Request) {
	networks, err := h.entryUC.ListNetworks(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list networks", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.NetworksFromDomain(networks))
}
