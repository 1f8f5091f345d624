package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/clarity/clarity/internal/ai"
	"github.com/clarity/clarity/internal/metrics"
	"github.com/clarity/clarity/internal/model"
	"github.com/clarity/clarity/internal/repository"
)

// Transaction errors.
var (
	ErrMissingTransactionFields = errors.New("type, amount, and category are required")
	ErrInvalidTransactionType   = errors.New("type must be income or expense")
	ErrInvalidAmount            = errors.New("amount must be a valid number")
	ErrTransactionNotFound      = errors.New("transaction not found")
)

// AIConfig carries the settings for the normalizer backend.
type AIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// TransactionService handles transaction business logic.
type TransactionService struct {
	repo    *repository.Repository
	ai      AIConfig
	metrics metrics.Recorder
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(repo *repository.Repository, aiCfg AIConfig, recorder metrics.Recorder) *TransactionService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &TransactionService{
		repo:    repo,
		ai:      aiCfg,
		metrics: recorder,
	}
}

// CreateTransactionInput defines input for creating a transaction.
// Amount is untyped because callers send it as either a JSON number
// or a numeric string.
type CreateTransactionInput struct {
	Type     string
	Amount   any
	Category string
	Date     string
	Note     string
}

// Create records a new transaction for the given user.
func (s *TransactionService) Create(ctx context.Context, userID string, input CreateTransactionInput) (*model.Transaction, error) {
	category := strings.TrimSpace(input.Category)
	if input.Type == "" || input.Amount == nil || category == "" {
		return nil, ErrMissingTransactionFields
	}

	txType := model.TransactionType(input.Type)
	if !txType.IsValid() {
		return nil, ErrInvalidTransactionType
	}

	amount, err := parseAmount(input.Amount)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	tx := &model.Transaction{
		ID:        newID(),
		UserID:    userID,
		Type:      txType,
		Amount:    amount,
		Category:  truncateRunes(category, model.MaxCategoryLength),
		Date:      ResolveDate(input.Date, ""),
		Note:      truncateRunes(strings.TrimSpace(input.Note), model.MaxNoteLength),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	s.metrics.IncTransactionCreated()

	return tx, nil
}

// ListInput defines optional filters for listing transactions.
type ListInput struct {
	Type      string
	Category  string
	StartDate string
	EndDate   string
}

// List returns the user's transactions, newest first, applying any
// filters that were supplied. Unparseable date bounds are ignored
// rather than rejected.
func (s *TransactionService) List(ctx context.Context, userID string, input ListInput) ([]*model.Transaction, error) {
	filter := repository.TransactionFilter{
		Type:     model.TransactionType(strings.TrimSpace(input.Type)),
		Category: strings.TrimSpace(input.Category),
	}

	if t, ok := parseFilterDate(input.StartDate); ok {
		filter.StartDate = &t
	}
	if t, ok := parseFilterDate(input.EndDate); ok {
		filter.EndDate = &t
	}

	transactions, err := s.repo.ListTransactions(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return transactions, nil
}

// UpdateTransactionInput defines the fields a caller may change.
// Nil pointers (and a nil Amount) mean "leave as is"; anything not
// represented here is ignored outright.
type UpdateTransactionInput struct {
	Type     *string
	Amount   any
	Category *string
	Date     *string
	Note     *string
}

// Update applies a partial update to one of the user's transactions.
func (s *TransactionService) Update(ctx context.Context, userID, id string, input UpdateTransactionInput) (*model.Transaction, error) {
	var update repository.TransactionUpdate

	if input.Type != nil {
		txType := model.TransactionType(*input.Type)
		if !txType.IsValid() {
			return nil, ErrInvalidTransactionType
		}
		update.Type = &txType
	}

	if input.Amount != nil {
		amount, err := parseAmount(input.Amount)
		if err != nil {
			return nil, err
		}
		update.Amount = &amount
	}

	if input.Category != nil {
		category := strings.TrimSpace(*input.Category)
		if category == "" {
			category = "Misc"
		}
		category = truncateRunes(category, model.MaxCategoryLength)
		update.Category = &category
	}

	if input.Date != nil {
		date := ResolveDate(*input.Date, "")
		update.Date = &date
	}

	if input.Note != nil {
		note := truncateRunes(strings.TrimSpace(*input.Note), model.MaxNoteLength)
		update.Note = &note
	}

	tx, err := s.repo.UpdateTransaction(ctx, userID, id, update)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	s.metrics.IncTransactionUpdated()

	return tx, nil
}

// Delete removes one of the user's transactions.
func (s *TransactionService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteTransaction(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return ErrTransactionNotFound
		}
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	s.metrics.IncTransactionDeleted()

	return nil
}

// CreateFromPrompt runs a free-text entry through the normalizer and
// records the resulting transaction. The returned draft carries the
// provenance of the AI call. A date the caller supplied takes
// precedence over the one the model suggested.
func (s *TransactionService) CreateFromPrompt(ctx context.Context, userID, text, userDate string) (*model.Transaction, *model.Draft, error) {
	client, err := ai.SharedClient(s.ai.APIKey, s.ai.BaseURL, s.ai.Model)
	if err != nil {
		return nil, nil, err
	}

	start := time.Now()
	draft, err := ai.NewNormalizer(client, s.ai.Model).Normalize(ctx, text)
	if err != nil {
		s.metrics.IncPromptNormalized("failed")
		return nil, nil, err
	}
	s.metrics.IncPromptNormalized("success")
	s.metrics.ObserveNormalizeDuration(time.Since(start))

	now := time.Now().UTC()
	tx := &model.Transaction{
		ID:        newID(),
		UserID:    userID,
		Type:      draft.Type,
		Amount:    draft.Amount,
		Category:  draft.Category,
		Date:      ResolveDate(userDate, draft.Date),
		Note:      draft.Note,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	s.metrics.IncTransactionCreated()

	return tx, draft, nil
}

// parseAmount coerces a caller-supplied amount into a positive float
// rounded to cents. Callers send JSON numbers or numeric strings;
// anything non-finite or zero is rejected.
func parseAmount(v any) (float64, error) {
	var amount float64

	switch value := v.(type) {
	case float64:
		amount = value
	case json.Number:
		f, err := value.Float64()
		if err != nil {
			return 0, ErrInvalidAmount
		}
		amount = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0, ErrInvalidAmount
		}
		amount = f
	default:
		return 0, ErrInvalidAmount
	}

	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount == 0 {
		return 0, ErrInvalidAmount
	}

	return math.Round(math.Abs(amount)*100) / 100, nil
}

// parseFilterDate parses a date bound from a query parameter.
func parseFilterDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if calendarDatePattern.MatchString(s) {
		if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
			return t, true
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// truncateRunes caps a string at max runes.
func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
