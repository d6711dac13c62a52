package types

import "strings"

// Intent identifies the kind of work an operation performs.
type Intent string

const (
	IntentWrite Intent = "write"
	IntentEdit  Intent = "edit"
	IntentMove  Intent = "move"
	IntentAsk   Intent = "ask"
	IntentPlan  Intent = "plan"
)

// ValidIntent reports whether s names a known intent.
func ValidIntent(s string) bool {
	switch Intent(s) {
	case IntentWrite, IntentEdit, IntentMove, IntentAsk, IntentPlan:
		return true
	}
	return false
}

// Operation is one atomic unit of scheduled work.
type Operation struct {
	ID           string   `json:"id"`
	Intent       Intent   `json:"intent"`
	Target       string   `json:"target"`
	Description  string   `json:"description"`
	Dependencies []string `json:"dependencies,omitempty"`
	Priority     int      `json:"priority"`
}

// DependsOn reports whether the operation declares a dependency on target.
// Matching is plain string equality; paths are not normalized.
func (op *Operation) DependsOn(target string) bool {
	for _, dep := range op.Dependencies {
		if dep == target {
			return true
		}
	}
	return false
}

// OperationContext carries metadata extracted from the request independently
// of whether decomposition succeeded.
type OperationContext struct {
	TargetFolder  string            `json:"target_folder,omitempty"`
	DominantVerb  string            `json:"dominant_verb,omitempty"`
	Relationships map[string]string `json:"relationships,omitempty"` // source target -> linked target
	Warnings      []string          `json:"warnings,omitempty"`
}

// LinkedTarget returns the target that source is related to, if any.
func (c *OperationContext) LinkedTarget(source string) (string, bool) {
	if c == nil || c.Relationships == nil {
		return "", false
	}
	t, ok := c.Relationships[source]
	return t, ok
}

// CompoundIntent is the immutable parse result for one user request.
// It is created fresh per request and never mutated after parsing.
type CompoundIntent struct {
	Operations    []Operation      `json:"operations"`
	IsCompound    bool             `json:"is_compound"`
	OriginalInput string           `json:"original_input"`
	Context       OperationContext `json:"context"`
}

// OperationStatus tracks one operation through a run.
type OperationStatus string

const (
	OpPending   OperationStatus = "pending"
	OpRunning   OperationStatus = "running"
	OpCompleted OperationStatus = "completed"
	OpFailed    OperationStatus = "failed"
)

// RunStatus tracks the run as a whole.
type RunStatus string

const (
	RunInProgress      RunStatus = "in_progress"
	RunSucceeded       RunStatus = "succeeded"
	RunPartiallyFailed RunStatus = "partially_failed"
	RunAborted         RunStatus = "aborted"
)

// OperationFailure pairs a failed operation with its error message.
type OperationFailure struct {
	Operation Operation `json:"operation"`
	Error     string    `json:"error"`
}

// ExecutionResult is the terminal summary of one run.
type ExecutionResult struct {
	Success             bool               `json:"success"`
	Status              RunStatus          `json:"status"`
	CompletedOperations []Operation        `json:"completed_operations"`
	FailedOperations    []OperationFailure `json:"failed_operations"`
	Warnings            []string           `json:"warnings,omitempty"`
}

// Summary renders a human-readable account of the run.
func (r *ExecutionResult) Summary() string {
	var b strings.Builder
	switch r.Status {
	case RunSucceeded:
		b.WriteString("All operations completed.\n")
	case RunPartiallyFailed:
		b.WriteString("Run partially failed.\n")
	case RunAborted:
		b.WriteString("Run aborted: a blocking operation failed.\n")
	default:
		b.WriteString("Run finished.\n")
	}
	for _, op := range r.CompletedOperations {
		b.WriteString("  ✓ " + string(op.Intent) + " " + op.Target + "\n")
	}
	for _, f := range r.FailedOperations {
		b.WriteString("  ✗ " + string(f.Operation.Intent) + " " + f.Operation.Target + ": " + f.Error + "\n")
	}
	for _, w := range r.Warnings {
		b.WriteString("  ⚠ " + w + "\n")
	}
	return b.String()
}

// Category labels the kind of content a piece of text asks for.
type Category string

const (
	CategoryCode     Category = "code"
	CategoryAnalysis Category = "analysis"
	CategoryCreative Category = "creative"
	CategoryMixed    Category = "mixed"
	CategoryCompound Category = "compound"
)

// ClassificationResult is the router's verdict for one piece of text.
type ClassificationResult struct {
	Type           Category `json:"type"`
	Confidence     float64  `json:"confidence"`
	SuggestedModel string   `json:"suggested_model"`
	Reasoning      string   `json:"reasoning"`
}
