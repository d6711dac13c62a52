package compound

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"opsmith/pkg/types"
)

// StylesheetLinkStrategy handles the most common cross-file request: create a
// stylesheet, then edit a markup file to link it. The edit description is
// synthesized from the write target so the generated filename is echoed into
// the link-building instruction.
type StylesheetLinkStrategy struct{}

const defaultStylesheetName = "styles.css"

var (
	stylesheetSignal = regexp.MustCompile(`(?i)\b(css|stylesheet|style\s*sheet)\b`)
	markupFileToken  = regexp.MustCompile(`[\w./-]*\.(?:html?|xhtml)\b`)
	cssFileToken     = regexp.MustCompile(`[\w./-]*\.css\b`)
	linkSignal       = regexp.MustCompile(`(?i)\b(link|connect|reference|include|attach)\b`)
)

// Name identifies the strategy in warnings and logs.
func (s *StylesheetLinkStrategy) Name() string { return "stylesheet-link" }

// Decompose produces a write operation for the stylesheet followed by an edit
// operation on the markup file that depends on it.
func (s *StylesheetLinkStrategy) Decompose(input string, ctx *types.OperationContext) ([]types.Operation, error) {
	if !stylesheetSignal.MatchString(input) {
		return nil, nil
	}
	markup := markupFileToken.FindString(input)
	if markup == "" {
		return nil, nil
	}

	cssTarget := cssFileToken.FindString(input)
	if cssTarget == "" {
		cssTarget = defaultStylesheetName
	}
	if ctx.TargetFolder != "" {
		if !strings.Contains(cssTarget, "/") {
			cssTarget = path.Join(ctx.TargetFolder, cssTarget)
		}
		if !strings.Contains(markup, "/") {
			markup = path.Join(ctx.TargetFolder, markup)
		}
	}

	if ctx.Relationships == nil {
		ctx.Relationships = make(map[string]string)
	}
	if linkSignal.MatchString(input) {
		ctx.Relationships[cssTarget] = markup
	}

	writeOp := types.Operation{
		ID:          uuid.NewString(),
		Intent:      types.IntentWrite,
		Target:      cssTarget,
		Description: fmt.Sprintf("Create stylesheet %s: %s", cssTarget, input),
		Priority:    1,
	}
	editOp := types.Operation{
		ID:     uuid.NewString(),
		Intent: types.IntentEdit,
		Target: markup,
		Description: fmt.Sprintf("Add a <link rel=\"stylesheet\" href=%q> tag to %s referencing the new stylesheet",
			path.Base(cssTarget), markup),
		Dependencies: []string{cssTarget},
		Priority:     2,
	}
	return []types.Operation{writeOp, editOp}, nil
}
