package executor

import "strings"

// ExecutionContext is the mutable, run-scoped state of one engine run. It is
// owned exclusively by that run and never shared.
type ExecutionContext struct {
	CreatedFiles  []string
	ModifiedFiles []string
	// ContextData maps a target to its most recent operation result, so
	// downstream steps can reference earlier output.
	ContextData map[string]string
}

// NewExecutionContext creates an empty run context.
func NewExecutionContext() *ExecutionContext {
	return &ExecutionContext{ContextData: make(map[string]string)}
}

// RecordCreated appends a created artifact.
func (c *ExecutionContext) RecordCreated(target, result string) {
	c.CreatedFiles = append(c.CreatedFiles, target)
	c.ContextData[target] = result
}

// RecordModified appends a modified artifact.
func (c *ExecutionContext) RecordModified(target, result string) {
	c.ModifiedFiles = append(c.ModifiedFiles, target)
	c.ContextData[target] = result
}

// Produced reports whether target was created or modified during this run.
func (c *ExecutionContext) Produced(target string) bool {
	for _, f := range c.CreatedFiles {
		if f == target {
			return true
		}
	}
	for _, f := range c.ModifiedFiles {
		if f == target {
			return true
		}
	}
	return false
}

// LatestCreatedWithSuffix returns the most recently created file ending in
// suffix, if any.
func (c *ExecutionContext) LatestCreatedWithSuffix(suffix string) (string, bool) {
	for i := len(c.CreatedFiles) - 1; i >= 0; i-- {
		if strings.HasSuffix(c.CreatedFiles[i], suffix) {
			return c.CreatedFiles[i], true
		}
	}
	return "", false
}
