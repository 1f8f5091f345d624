package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clarity/clarity/internal/ai"
	"github.com/clarity/clarity/internal/auth"
	"github.com/clarity/clarity/internal/handler/dto"
	"github.com/clarity/clarity/internal/service"
)

// TransactionHandler handles HTTP requests for transaction operations.
// Every route assumes the auth middleware already placed the caller's
// user ID in the request context.
type TransactionHandler struct {
	svc    *service.TransactionService
	logger *slog.Logger
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(svc *service.TransactionService, logger *slog.Logger) *TransactionHandler {
	return &TransactionHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /transactions.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustUserIDFromContext(r.Context())
	query := r.URL.Query()

	input := service.ListInput{
		Type:      query.Get("type"),
		Category:  query.Get("category"),
		StartDate: query.Get("startDate"),
		EndDate:   query.Get("endDate"),
	}

	transactions, err := h.svc.List(r.Context(), userID, input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTransactionListEnvelope(transactions))
}

// Create handles POST /transactions.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustUserIDFromContext(r.Context())

	var req dto.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	input := service.CreateTransactionInput{
		Type:     req.Type,
		Amount:   req.Amount,
		Category: req.Category,
		Date:     req.Date,
		Note:     req.Note,
	}

	tx, err := h.svc.Create(r.Context(), userID, input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("transaction_created",
		"transaction_id", tx.ID,
		"user_id", userID,
		"type", string(tx.Type),
	)

	writeJSON(w, http.StatusCreated, dto.ToTransactionEnvelope(tx))
}

// CreateFromPrompt handles POST /transactions/ai.
func (h *TransactionHandler) CreateFromPrompt(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustUserIDFromContext(r.Context())

	var req dto.AITransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tx, draft, err := h.svc.CreateFromPrompt(r.Context(), userID, req.Prompt, req.UserDate)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("ai_transaction_created",
		"transaction_id", tx.ID,
		"user_id", userID,
		"model", draft.Model,
		"type", string(tx.Type),
	)

	writeJSON(w, http.StatusCreated, dto.ToTransactionEnvelope(tx))
}

// Update handles PUT /transactions/{id}.
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustUserIDFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Transaction ID is required")
		return
	}

	var req dto.UpdateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	input := service.UpdateTransactionInput{
		Type:     req.Type,
		Amount:   req.Amount,
		Category: req.Category,
		Date:     req.Date,
		Note:     req.Note,
	}

	tx, err := h.svc.Update(r.Context(), userID, id, input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("transaction_updated",
		"transaction_id", tx.ID,
		"user_id", userID,
	)

	writeJSON(w, http.StatusOK, dto.ToTransactionEnvelope(tx))
}

// Delete handles DELETE /transactions/{id}.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustUserIDFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Transaction ID is required")
		return
	}

	if err := h.svc.Delete(r.Context(), userID, id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("transaction_deleted",
		"transaction_id", id,
		"user_id", userID,
	)

	writeJSON(w, http.StatusOK, map[string]string{"message": "Transaction deleted"})
}

// handleServiceError maps service and normalizer errors to HTTP
// responses. Normalizer errors carry their own status so an upstream
// model failure passes its code through.
func (h *TransactionHandler) handleServiceError(w http.ResponseWriter, err error) {
	var aiErr *ai.Error
	switch {
	case errors.As(err, &aiErr):
		writeError(w, aiErr.Status, aiErr.Message)
	case errors.Is(err, service.ErrMissingTransactionFields):
		writeError(w, http.StatusBadRequest, "Type, amount, and category are required")
	case errors.Is(err, service.ErrInvalidTransactionType):
		writeError(w, http.StatusBadRequest, "Type must be income or expense")
	case errors.Is(err, service.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, "Amount must be a valid number")
	case errors.Is(err, service.ErrTransactionNotFound):
		writeError(w, http.StatusNotFound, "Transaction not found")
	default:
		h.logger.Error("transaction request failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
