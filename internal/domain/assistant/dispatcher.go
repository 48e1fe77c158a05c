package assistant

import (
	"context"
	"fmt"
)

// ConfidenceThreshold is the floor below which the assistant declines to
// act and answers with a canned apology instead.
const ConfidenceThreshold = 0.5

// ApologyPrefix opens every fallback reply.
const ApologyPrefix = "Sorry, "

const fallbackMessage = ApologyPrefix + "I didn't catch that. Try \"create payroll batch\", \"batch status\" or \"show issues\"."

// ActionFunc executes the side effect for a matched intent and returns the
// assistant's reply text.
type ActionFunc func(ctx context.Context, actor string, m Match) (string, error)

// Reply is what the assistant sends back for one utterance.
type Reply struct {
	Intent     string            `json:"intent,omitempty"`
	Confidence float64           `json:"confidence"`
	Entities   map[string]string `json:"entities,omitempty"`
	Message    string            `json:"message"`
	Dispatched bool              `json:"dispatched"`
}

// Dispatcher routes utterances to actions. The action table is composed
// once at startup; nothing is loaded lazily.
type Dispatcher struct {
	actions map[string]ActionFunc
}

func NewDispatcher(actions map[string]ActionFunc) *Dispatcher {
	return &Dispatcher{actions: actions}
}

// Handle matches the utterance and runs the bound action when the match
// clears the confidence threshold. Unmatched and low-confidence input
// degrades to the apology reply rather than an error.
func (d *Dispatcher) Handle(ctx context.Context, actor, utterance string) Reply {
	m := MatchIntent(utterance)
	reply := Reply{Intent: m.Intent, Confidence: m.Confidence, Entities: m.Entities}

	if m.Confidence < ConfidenceThreshold {
		reply.Intent = ""
		reply.Message = fallbackMessage
		return reply
	}

	action, ok := d.actions[m.Intent]
	if !ok {
		reply.Message = fallbackMessage
		return reply
	}

	message, err := action(ctx, actor, m)
	if err != nil {
		reply.Message = fmt.Sprintf("%sI couldn't do that: %v", ApologyPrefix, err)
		return reply
	}
	reply.Dispatched = true
	reply.Message = message
	return reply
}
