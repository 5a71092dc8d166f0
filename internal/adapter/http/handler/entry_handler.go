package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/payouts/internal/adapter/http/dto"
	"github.com/iho/payouts/internal/adapter/http/middleware"
	"github.com/iho/payouts/internal/domain"
	"github.com/iho/payouts/internal/infrastructure/metrics"
	"github.com/iho/payouts/internal/usecase"
)

// EntryService is the slice of the entry use case the HTTP layer needs.
type EntryService interface {
	CreateEntry(ctx context.Context, input usecase.CreateEntryInput) (*domain.LedgerEntry, error)
	GetEntry(ctx context.Context, id string) (*domain.LedgerEntry, error)
	ListEntries(ctx context.Context, filter usecase.EntryFilter) ([]*domain.LedgerEntry, error)
	SetTransactionStatus(ctx context.Context, entryID string, status domain.TransactionStatus, actor *domain.User) (*domain.LedgerEntry, error)
	SetWithdrawalStatus(ctx context.Context, entryID string, status domain.WithdrawalStatus, actor *domain.User) (*domain.LedgerEntry, error)
	UpdateNotes(ctx context.Context, entryID, notes string, actor *domain.User) (*domain.LedgerEntry, error)
	UpdateAmount(ctx context.Context, entryID string, amountLocal decimal.Decimal, actor *domain.User) (*domain.LedgerEntry, error)
	GetHistory(ctx context.Context, entryID string) ([]domain.HistoryRecord, error)
	AppendHistory(ctx context.Context, input usecase.AppendHistoryInput) (*domain.HistoryRecord, error)
}

// EntryHandler handles ledger entry HTTP requests.
type EntryHandler struct {
	entryUC EntryService
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entryUC EntryService) *EntryHandler {
	return &EntryHandler{entryUC: entryUC}
}

// Create creates a new entry.
func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := h.entryUC.CreateEntry(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create entry", err.Error())

		return
	}

	metrics.EntriesCreated.WithLabelValues(string(entry.Kind)).Inc()

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// Get retrieves an entry by ID.
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	entry, err := h.entryUC.GetEntry(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get entry", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// List lists entries with optional filters.
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := usecase.EntryFilter{
		OwnerID: r.URL.Query().Get("owner_id"),
		Status:  r.URL.Query().Get("status"),
		Kind:    domain.EntryKind(r.URL.Query().Get("kind")),
		Limit:   parseIntQuery(r, "limit", 20),
		Offset:  parseIntQuery(r, "offset", 0),
	}

	entries, err := h.entryUC.ListEntries(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}

// SetStatus transitions an entry's status. The entry's kind decides which
// status set applies.
func (h *EntryHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	var req dto.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	current, err := h.entryUC.GetEntry(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get entry", err.Error())

		return
	}

	actor, _ := middleware.GetUserFromContext(r.Context())

	var entry *domain.LedgerEntry
	if current.Kind == domain.KindWithdrawal {
		entry, err = h.entryUC.SetWithdrawalStatus(r.Context(), id, domain.WithdrawalStatus(req.Status), actor)
	} else {
		entry, err = h.entryUC.SetTransactionStatus(r.Context(), id, domain.TransactionStatus(req.Status), actor)
	}
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to update status", err.Error())

		return
	}

	metrics.StatusTransitions.WithLabelValues(string(entry.Kind), entry.Status).Inc()

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// UpdateNotes replaces an entry's notes.
func (h *EntryHandler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	var req dto.UpdateNotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	actor, _ := middleware.GetUserFromContext(r.Context())

	entry, err := h.entryUC.UpdateNotes(r.Context(), id, req.Notes, actor)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to update notes", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// UpdateAmount changes an entry's local amount.
func (h *EntryHandler) UpdateAmount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	var req dto.UpdateAmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	actor, _ := middleware.GetUserFromContext(r.Context())

	entry, err := h.entryUC.UpdateAmount(r.Context(), id, req.Amount, actor)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to update amount", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// GetHistory returns an entry's history timeline.
func (h *EntryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	// 404 for unknown entries rather than an empty timeline.
	if _, err := h.entryUC.GetEntry(r.Context(), id); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get entry", err.Error())

		return
	}

	records, err := h.entryUC.GetHistory(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get history", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.HistoryFromDomain(records))
}

// AppendHistory appends a free-form record to an entry's history.
func (h *EntryHandler) AppendHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	var req dto.AppendHistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if req.MessageKey == "" {
		writeError(w, http.StatusBadRequest, "missing message key", "")
		return
	}

	kind := req.Kind
	if kind == "" {
		kind = domain.HistoryInfo
	}

	actor, _ := middleware.GetUserFromContext(r.Context())

	rec, err := h.entryUC.AppendHistory(r.Context(), usecase.AppendHistoryInput{
		EntryID:    id,
		MessageKey: req.MessageKey,
		Kind:       kind,
		Parameters: req.Parameters,
		Actor:      actor,
	})
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to append history", err.Error())

		return
	}

	metrics.HistoryRecords.Inc()

	writeJSON(w, http.StatusCreated, dto.HistoryRecordFromDomain(*rec))
}
