package usecase

import (
	"context"
	"fmt"
	"strings"

	"selah/internal/domain"
	"selah/internal/ports"
)

// toolDispatcher services function-call requests from the model. Every
// recognized call yields exactly one result, success or failure, so the
// remote side is never left waiting; unrecognized tool names are ignored.
type toolDispatcher struct {
	scripture ports.ScriptureSource
}

func newToolDispatcher(scripture ports.ScriptureSource) toolDispatcher {
	return toolDispatcher{scripture: scripture}
}

// Dispatch performs the call's external action. The returned passage is
// non-nil only on a successful scripture lookup; a nil result means the tool
// name was not recognized and no response should be sent.
func (d toolDispatcher) Dispatch(ctx context.Context, call domain.FunctionCall) (*domain.FunctionResult, *domain.Passage) {
	if call.Name != ToolGetScripture {
		return nil, nil
	}

	reference, _ := call.Args["reference"].(string)
	if strings.TrimSpace(reference) == "" {
		return errorResult(call, `missing required "reference" argument`), nil
	}

	passage, err := d.scripture.Lookup(ctx, reference)
	if err != nil {
		return errorResult(call, fmt.Sprintf("Failed to retrieve the passage. Please ask the user to try another reference. Error: %v", err)), nil
	}

	result := &domain.FunctionResult{
		ID:   call.ID,
		Name: call.Name,
		Response: map[string]any{
			"result": fmt.Sprintf("Successfully fetched %q: %s", passage.Reference, passage.Text),
		},
	}
	return result, &passage
}

func errorResult(call domain.FunctionCall, detail string) *domain.FunctionResult {
	return &domain.FunctionResult{
		ID:       call.ID,
		Name:     call.Name,
		Response: map[string]any{"error": detail},
	}
}
