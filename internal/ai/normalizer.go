package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/clarity/clarity/internal/model"
)

// systemPrompt is the fixed instruction block sent ahead of every user note.
// The schema and domain rules here are what the coercion layer below expects;
// change them together.
const systemPrompt = `You are Clarity AI, an assistant that normalizes personal finance notes.
Return ONLY minified JSON that matches this schema:
{
  "type": "income" | "expense",
  "category": "short descriptive label",
  "amount": number,
  "date": "YYYY-MM-DD",
  "note": "<=120 characters"
}
Rules:
- Decide if it is money earned (income) or spent (expense) even if words like deposit/paid/upfront are used.
- amount must be a positive number (absolute value if the user includes +/- or words like "spent").
- category is 1-2 words (Salary, Freelancing, Groceries, Rent, Dining, Utilities, Health, Travel, Misc, etc.).
- date should use the one mentioned in the note or default to today's date in the user's timezone.
- note should be a concise summary (max 120 chars) derived from the input.
- If information is missing, make a practical assumption instead of leaving it blank.
Respond with JSON only. No prose, markdown, or code fences.`

// fencePattern strips markdown code-fence markers some models add despite
// being told not to.
var fencePattern = regexp.MustCompile("(?i)```json|```")

// dateLayouts are the formats tried when the model's date is not already
// a bare calendar day.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"January 2, 2006",
	"Jan 2, 2006",
	"01/02/2006",
}

// Normalizer turns free-text input into a validated transaction draft.
type Normalizer struct {
	completer Completer
	modelID   string
	now       func() time.Time
}

// NewNormalizer creates a Normalizer that classifies via the given completer.
// modelID is recorded on drafts as provenance.
func NewNormalizer(completer Completer, modelID string) *Normalizer {
	return &Normalizer{
		completer: completer,
		modelID:   modelID,
		now:       time.Now,
	}
}

// Normalize asks the external model to classify freeText and repairs the
// reply into a draft. Every field is coerced with a safe default except
// amount, which fails closed: a transaction with a wrong amount is worse
// than no transaction.
func (n *Normalizer) Normalize(ctx context.Context, freeText string) (*model.Draft, error) {
	trimmed := strings.TrimSpace(freeText)
	if trimmed == "" {
		return nil, ErrEmptyInput
	}

	prompt := fmt.Sprintf("%s\nTransaction note: %q", systemPrompt, trimmed)

	raw, err := n.completer.Complete(ctx, prompt)
	if err != nil {
		var aiErr *Error
		if errors.As(err, &aiErr) {
			return nil, aiErr
		}
		return nil, ErrUpstream
	}

	return n.parseReply(raw, trimmed)
}

// parseReply extracts and coerces the model's JSON answer.
func (n *Normalizer) parseReply(raw, originalInput string) (*model.Draft, error) {
	payload, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(payload), &fields); err != nil {
		return nil, ErrInvalidJSON
	}

	amount, err := coerceAmount(fields["amount"])
	if err != nil {
		return nil, err
	}

	return &model.Draft{
		Type:     coerceType(fields["type"]),
		Amount:   amount,
		Category: coerceCategory(fields["category"]),
		Date:     n.coerceDate(fields["date"]),
		Note:     coerceNote(fields["note"], originalInput),
		Prompt:   originalInput,
		Model:    n.modelID,
	}, nil
}

// extractJSON slices the first JSON object out of the model's reply,
// tolerating code fences and surrounding prose.
func extractJSON(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ErrEmptyResponse
	}

	cleaned := strings.TrimSpace(fencePattern.ReplaceAllString(raw, ""))

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return "", ErrNoJSON
	}

	return cleaned[start : end+1], nil
}

// coerceType maps anything other than the literal "income" to expense.
// A fail-safe default, not a round-trip of arbitrary strings.
func coerceType(v any) model.TransactionType {
	if s, ok := v.(string); ok && s == string(model.TypeIncome) {
		return model.TypeIncome
	}
	return model.TypeExpense
}

// coerceAmount numeric-casts the raw value. Not-a-number or non-positive
// values are fatal; otherwise the absolute value rounded to cents.
func coerceAmount(v any) (float64, error) {
	var amount float64

	switch value := v.(type) {
	case float64:
		amount = value
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0, ErrInvalidAmount
		}
		amount = parsed
	case json.Number:
		parsed, err := value.Float64()
		if err != nil {
			return 0, ErrInvalidAmount
		}
		amount = parsed
	default:
		return 0, ErrInvalidAmount
	}

	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return 0, ErrInvalidAmount
	}

	return math.Round(math.Abs(amount)*100) / 100, nil
}

// coerceCategory trims, collapses internal whitespace, and truncates.
// Anything unusable falls back to "Misc".
func coerceCategory(v any) string {
	if v == nil {
		return "Misc"
	}

	collapsed := strings.Join(strings.Fields(stringify(v)), " ")
	collapsed = truncate(collapsed, model.MaxCategoryLength)
	if collapsed == "" {
		return "Misc"
	}

	return collapsed
}

// coerceDate returns the model's suggestion as a YYYY-MM-DD string, or
// today when the suggestion is absent or unparseable.
func (n *Normalizer) coerceDate(v any) string {
	today := n.now().Format("2006-01-02")

	if v == nil {
		return today
	}

	s := strings.TrimSpace(stringify(v))
	if s == "" {
		return today
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t.Format("2006-01-02")
		}
	}

	return today
}

// coerceNote prefers the model's summary, falling back to the user's own
// words. Both are capped at the same length.
func coerceNote(v any, fallback string) string {
	if v == nil {
		return truncate(fallback, model.MaxNoteLength)
	}

	s := strings.TrimSpace(stringify(v))
	if s == "" {
		return truncate(fallback, model.MaxNoteLength)
	}

	return truncate(s, model.MaxNoteLength)
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
