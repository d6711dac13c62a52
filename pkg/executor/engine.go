package executor

import (
	"context"
	"fmt"
	"path"
	"strings"

	"opsmith/pkg/logging"
	"opsmith/pkg/resolver"
	"opsmith/pkg/router"
	"opsmith/pkg/types"
)

// CommandHandlers is the external collaborator the engine dispatches to. Any
// returned error is that step's failure; the engine decides continue or
// abort.
type CommandHandlers interface {
	Write(ctx context.Context, target, description, profile string) (string, error)
	Edit(ctx context.Context, target, description, profile string) (string, error)
	Move(ctx context.Context, source, destination string) (string, error)
	Plan(ctx context.Context, description, profile string) (string, error)
}

// ExistsFunc checks whether a dependency already exists outside this run.
type ExistsFunc func(path string) bool

// Engine runs the operations of one CompoundIntent strictly sequentially.
// Construct one Engine per CLI invocation; each Execute call owns its
// ExecutionContext.
type Engine struct {
	handlers CommandHandlers
	router   *router.Router
	exists   ExistsFunc
	logger   *logging.Logger

	// profileOverride, when set, bypasses routing for every operation.
	profileOverride string
}

// NewEngine wires the execution engine.
func NewEngine(handlers CommandHandlers, rt *router.Router, exists ExistsFunc, logger *logging.Logger) *Engine {
	return &Engine{handlers: handlers, router: rt, exists: exists, logger: logger}
}

// SetProfileOverride forces every operation onto the named profile.
func (e *Engine) SetProfileOverride(profile string) {
	e.profileOverride = profile
}

// Execute resolves and runs all operations of the intent. Cycle errors abort
// before anything executes. The returned result always reports what
// succeeded and what failed; completed steps are not rolled back.
func (e *Engine) Execute(ctx context.Context, ci types.CompoundIntent) (*types.ExecutionResult, error) {
	// Operations can come from registered strategies, not just the built-in
	// parser, so the intent vocabulary is checked here before anything runs.
	for i := range ci.Operations {
		if !types.ValidIntent(string(ci.Operations[i].Intent)) {
			return nil, fmt.Errorf("unknown intent %q for target %s", ci.Operations[i].Intent, ci.Operations[i].Target)
		}
	}

	ordered, err := resolver.Resolve(ci.Operations)
	if err != nil {
		return nil, fmt.Errorf("dependency resolution failed: %w", err)
	}

	result := &types.ExecutionResult{Status: types.RunInProgress}
	runCtx := NewExecutionContext()

	for i, op := range ordered {
		if ctx.Err() != nil {
			// Interruption is an unrecoverable abort, not a resumable pause.
			result.Status = types.RunAborted
			result.Success = false
			return result, fmt.Errorf("run interrupted: %w", ctx.Err())
		}

		e.logger.LogProcessStep(fmt.Sprintf("%s %s", op.Intent, op.Target))

		if unmet := e.unmetDependencies(op, runCtx); len(unmet) > 0 {
			failure := fmt.Sprintf("dependencies not satisfied: %s", strings.Join(unmet, ", "))
			result.FailedOperations = append(result.FailedOperations, types.OperationFailure{Operation: op, Error: failure})
			if e.isBlocking(op, ordered[i+1:]) {
				result.Status = types.RunAborted
				result.Success = false
				return result, nil
			}
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s %s failed (non-blocking): %s", op.Intent, op.Target, failure))
			continue
		}

		output, err := e.dispatch(ctx, op, ci, runCtx)
		if err != nil {
			result.FailedOperations = append(result.FailedOperations, types.OperationFailure{Operation: op, Error: err.Error()})
			if e.isBlocking(op, ordered[i+1:]) {
				e.logger.Error("blocking failure on %s %s: %v", op.Intent, op.Target, err)
				result.Status = types.RunAborted
				result.Success = false
				return result, nil
			}
			e.logger.Warn("non-blocking failure on %s %s: %v", op.Intent, op.Target, err)
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s %s failed (non-blocking): %v", op.Intent, op.Target, err))
			continue
		}

		result.CompletedOperations = append(result.CompletedOperations, op)
		switch op.Intent {
		case types.IntentWrite:
			runCtx.RecordCreated(op.Target, output)
		case types.IntentEdit:
			runCtx.RecordModified(op.Target, output)
		case types.IntentMove:
			runCtx.RecordModified(op.Target, output)
		default:
			runCtx.ContextData[op.Target] = output
		}
	}

	result.Success = len(result.FailedOperations) == 0
	if result.Success {
		result.Status = types.RunSucceeded
	} else {
		result.Status = types.RunPartiallyFailed
	}
	return result, nil
}

// unmetDependencies returns the dependencies satisfied neither by this run
// nor by the external filesystem.
func (e *Engine) unmetDependencies(op types.Operation, runCtx *ExecutionContext) []string {
	var unmet []string
	for _, dep := range op.Dependencies {
		if runCtx.Produced(dep) {
			continue
		}
		if e.exists != nil && e.exists(dep) {
			continue
		}
		unmet = append(unmet, dep)
	}
	return unmet
}

// isBlocking reports whether any remaining operation depends on op's target.
func (e *Engine) isBlocking(op types.Operation, remaining []types.Operation) bool {
	for i := range remaining {
		if remaining[i].DependsOn(op.Target) {
			return true
		}
	}
	return false
}

// dispatch routes one operation to its command handler with a
// router-selected profile.
func (e *Engine) dispatch(ctx context.Context, op types.Operation, ci types.CompoundIntent, runCtx *ExecutionContext) (string, error) {
	profile := e.profileOverride
	if profile == "" {
		verdict := e.router.Classify(router.Request{
			Text:       op.Description,
			Extension:  path.Ext(op.Target),
			IsCompound: ci.IsCompound,
		})
		profile = verdict.SuggestedModel
		e.logger.Debug("routed %s %s to profile %s (%.2f): %s",
			op.Intent, op.Target, profile, verdict.Confidence, verdict.Reasoning)
	}

	switch op.Intent {
	case types.IntentWrite:
		return e.handlers.Write(ctx, op.Target, op.Description, profile)
	case types.IntentEdit:
		description := e.synthesizeLinkDescription(op, ci, runCtx)
		return e.handlers.Edit(ctx, op.Target, description, profile)
	case types.IntentMove:
		source, destination, err := splitMoveTarget(op.Target)
		if err != nil {
			return "", err
		}
		return e.handlers.Move(ctx, source, destination)
	case types.IntentPlan:
		return e.handlers.Plan(ctx, op.Description, profile)
	default:
		// ask is advisory and never scheduled through the engine.
		return "", fmt.Errorf("intent %q cannot be executed", op.Intent)
	}
}

// synthesizeLinkDescription rewrites an edit instruction to reference the
// actual filename created earlier in the run, when the parse context
// recorded a link relationship targeting this operation.
func (e *Engine) synthesizeLinkDescription(op types.Operation, ci types.CompoundIntent, runCtx *ExecutionContext) string {
	for source, linked := range ci.Context.Relationships {
		if linked != op.Target {
			continue
		}
		actual := source
		if latest, ok := runCtx.LatestCreatedWithSuffix(path.Ext(source)); ok {
			actual = latest
		}
		return fmt.Sprintf("Add a <link rel=\"stylesheet\" href=%q> tag to %s referencing the new stylesheet",
			path.Base(actual), op.Target)
	}
	return op.Description
}

// splitMoveTarget splits a "source -> destination" target pair.
func splitMoveTarget(target string) (string, string, error) {
	parts := strings.SplitN(target, " -> ", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("move target %q is not a source -> destination pair", target)
	}
	return parts[0], parts[1], nil
}
