// Package assistant answers free-text symptom descriptions with a likely
// cause, the specialist to book and a self-care tip.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pathakanu/myMeds/internal/metrics"
	"go.uber.org/zap"
)

// ErrEmptyMessage is returned when there is nothing to interpret.
var ErrEmptyMessage = errors.New("assistant: message is empty")

// FallbackText is sent when no symptom could be identified.
const FallbackText = "I'm sorry, I couldn't identify that symptom. Try 'fever', 'headache', 'rash', or 'stomach pain'."

// Classifier maps a message to one of labels, or to any other value when unsure.
type Classifier interface {
	ClassifySymptom(ctx context.Context, message string, labels []string) (string, error)
}

// Reply is the assistant's answer to one message.
type Reply struct {
	Text      string     `json:"text"`
	Doctor    string     `json:"doctor,omitempty"`
	Condition *Condition `json:"condition,omitempty"`
	Source    string     `json:"source"`
}

// Sources of a reply.
const (
	SourceTable    = "table"
	SourceModel    = "model"
	SourceFallback = "fallback"
)

// Assistant resolves symptoms from the fixed table first and falls back to
// the classifier, when one is configured.
type Assistant struct {
	classifier Classifier
	logger     *zap.Logger
	metrics    *metrics.Collector
	labels     []string
}

// New creates an Assistant. classifier may be nil.
func New(classifier Classifier, logger *zap.Logger, m *metrics.Collector) *Assistant {
	if logger == nil {
		logger = zap.NewNop()
	}
	labels := make([]string, len(Conditions))
	for i, c := range Conditions {
		labels[i] = c.Symptom
	}
	return &Assistant{classifier: classifier, logger: logger, metrics: m, labels: labels}
}

// Reply answers message.
func (a *Assistant) Reply(ctx context.Context, message string) (Reply, error) {
	if strings.TrimSpace(message) == "" {
		return Reply{}, ErrEmptyMessage
	}

	if c, ok := Lookup(message); ok {
		a.metrics.ObserveAssistant(SourceTable)
		return answer(c, SourceTable), nil
	}

	if a.classifier != nil {
		label, err := a.classifier.ClassifySymptom(ctx, message, a.labels)
		if err != nil {
			a.logger.Warn("assistant: classifier failed", zap.Error(err))
		} else if c, ok := bySymptom(label); ok {
			a.metrics.ObserveAssistant(SourceModel)
			return answer(c, SourceModel), nil
		}
	}

	a.metrics.ObserveAssistant(SourceFallback)
	return Reply{Text: FallbackText, Source: SourceFallback}, nil
}

// Lookup finds the condition whose symptom appears in message. Multi-word
// symptoms match with either underscores or spaces. The longest match wins;
// equal lengths go to the earlier table entry.
func Lookup(message string) (Condition, bool) {
	lower := strings.ToLower(message)

	var (
		best    Condition
		bestLen int
	)
	for _, c := range Conditions {
		spaced := strings.ReplaceAll(c.Symptom, "_", " ")
		if !strings.Contains(lower, c.Symptom) && !strings.Contains(lower, spaced) {
			continue
		}
		if len(c.Symptom) > bestLen {
			best, bestLen = c, len(c.Symptom)
		}
	}
	return best, bestLen > 0
}

func bySymptom(symptom string) (Condition, bool) {
	for _, c := range Conditions {
		if c.Symptom == symptom {
			return c, true
		}
	}
	return Condition{}, false
}

func answer(c Condition, source string) Reply {
	return Reply{
		Text:      fmt.Sprintf("Possible cause: %s\n\nRecommended: %s\nTip: %s", c.Cause, c.Doctor, c.Tip),
		Doctor:    c.Doctor,
		Condition: &c,
		Source:    source,
	}
}
