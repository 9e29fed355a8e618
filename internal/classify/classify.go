// Package classify implements the intent classifier agent: free text in,
// structured Intent out. The model response is schema-checked and coerced
// before it is allowed to cross into the pipeline.
package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/taskpro/taskpro-backend/internal/catalog"
	"github.com/taskpro/taskpro-backend/internal/llm"
	"github.com/taskpro/taskpro-backend/internal/prompts"
	"github.com/taskpro/taskpro-backend/internal/schemas"
	"github.com/taskpro/taskpro-backend/internal/types"
)

// rawErrLimit caps how much model output rides along in error messages.
const rawErrLimit = 300

// Classifier maps free-text requests onto the service category catalog.
type Classifier struct {
	client llm.Client
}

// New creates a Classifier backed by the given LLM client.
func New(client llm.Client) *Classifier {
	return &Classifier{client: client}
}

// Classify interprets userText against the category catalog. The returned
// Intent never carries a category ID that is absent from categories: IDs
// the model invents are dropped to nil.
func (c *Classifier) Classify(ctx context.Context, userText string, categories []types.ServiceCategory) (*types.Intent, error) {
	if strings.TrimSpace(userText) == "" {
		return nil, &ClassificationError{Message: "request text is empty"}
	}
	if len(categories) == 0 {
		return nil, &ClassificationError{Message: "category catalog is empty"}
	}

	instruction := prompts.Format(
		prompts.MustGet("classify.json", "classify-request"),
		map[string]string{"Categories": catalog.RenderCategories(categories)},
	)

	raw, err := c.client.GenerateWithInstruction(ctx, instruction, userText, llm.TierLite)
	if err != nil {
		return nil, &ClassificationError{Message: "model call failed", Cause: err}
	}

	obj := llm.ExtractJSONObject(llm.CleanJSONBlock(raw))
	if obj == "" {
		return nil, &ClassificationError{
			Message: "no JSON object in model response",
			Raw:     llm.Truncate(raw, rawErrLimit),
		}
	}

	if err := schemas.Validate(schemas.IntentResponse, obj); err != nil {
		return nil, &ClassificationError{
			Message: "response failed schema validation",
			Raw:     llm.Truncate(obj, rawErrLimit),
			Cause:   err,
		}
	}

	var wire intentWire
	if err := json.Unmarshal([]byte(obj), &wire); err != nil {
		return nil, &ClassificationError{
			Message: "failed to decode response",
			Raw:     llm.Truncate(obj, rawErrLimit),
			Cause:   err,
		}
	}

	intent, err := wire.toIntent(userText, categories)
	if err != nil {
		return nil, &ClassificationError{
			Message: "response failed post-processing",
			Raw:     llm.Truncate(obj, rawErrLimit),
			Cause:   err,
		}
	}

	return intent, nil
}

// intentWire is the tolerant decode target for the classifier response.
// json.Number fields absorb numbers the model quoted as strings.
type intentWire struct {
	OriginalText          string       `json:"original_text"`
	CategoryID            *json.Number `json:"category_id"`
	CategoryName          string       `json:"category_name"`
	Urgency               string       `json:"urgency"`
	NormalizedDescription string       `json:"normalized_description"`
	EstimatedPrice        *json.Number `json:"estimated_price"`
	Explanation           string       `json:"explanation"`
	RiskSignals           []string     `json:"risk_signals"`
	NeedsClarification    bool         `json:"needs_clarification"`
	ClarifyingQuestions   []string     `json:"clarifying_questions"`
	Confidence            *json.Number `json:"confidence"`
}

func (w *intentWire) toIntent(userText string, categories []types.ServiceCategory) (*types.Intent, error) {
	urgency, err := types.ParseUrgency(w.Urgency)
	if err != nil {
		return nil, err
	}

	intent := &types.Intent{
		OriginalText:          userText,
		CategoryName:          w.CategoryName,
		Urgency:               urgency,
		NormalizedDescription: w.NormalizedDescription,
		Explanation:           w.Explanation,
		RiskSignals:           w.RiskSignals,
		NeedsClarification:    w.NeedsClarification,
		ClarifyingQuestions:   w.ClarifyingQuestions,
	}
	if intent.RiskSignals == nil {
		intent.RiskSignals = []string{}
	}
	if intent.ClarifyingQuestions == nil {
		intent.ClarifyingQuestions = []string{}
	}

	if w.CategoryID != nil {
		id, err := w.CategoryID.Int64()
		if err != nil {
			return nil, fmt.Errorf("category_id %q is not an integer", w.CategoryID.String())
		}
		// Drop IDs the model invented; the canonical name wins over
		// whatever the model echoed.
		if entry := catalog.CategoryByID(categories, id); entry != nil {
			intent.CategoryID = &id
			intent.CategoryName = entry.Name
		} else {
			intent.CategoryID = nil
			intent.CategoryName = ""
		}
	}

	if w.EstimatedPrice != nil {
		price, err := w.EstimatedPrice.Float64()
		if err != nil {
			return nil, fmt.Errorf("estimated_price %q is not numeric", w.EstimatedPrice.String())
		}
		intent.EstimatedPrice = &price
	}

	if w.Confidence != nil {
		confidence, err := w.Confidence.Float64()
		if err != nil {
			return nil, fmt.Errorf("confidence %q is not numeric", w.Confidence.String())
		}
		intent.Confidence = &confidence
	}

	if err := intent.Validate(); err != nil {
		return nil, err
	}
	return intent, nil
}
