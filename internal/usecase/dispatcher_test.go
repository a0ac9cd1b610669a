package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"selah/internal/domain"
)

func TestDispatchScriptureSuccess(t *testing.T) {
	t.Parallel()

	scripture := &fakeScripture{passage: domain.Passage{
		Reference: "Psalm 23:1",
		Text:      "The LORD is my shepherd; I shall not want.",
	}}
	dispatcher := newToolDispatcher(scripture)

	result, passage := dispatcher.Dispatch(context.Background(), domain.FunctionCall{
		ID:   "fc-1",
		Name: ToolGetScripture,
		Args: map[string]any{"reference": "Psalm 23:1"},
	})

	if result == nil || passage == nil {
		t.Fatalf("expected result and passage, got %v, %v", result, passage)
	}
	if result.ID != "fc-1" || result.Name != ToolGetScripture {
		t.Fatalf("unexpected result addressing: %+v", result)
	}
	text, _ := result.Response["result"].(string)
	if !strings.Contains(text, `"Psalm 23:1"`) || !strings.Contains(text, "shepherd") {
		t.Fatalf("unexpected result text: %q", text)
	}
	if passage.Reference != "Psalm 23:1" {
		t.Fatalf("unexpected passage: %+v", passage)
	}
}

func TestDispatchScriptureLookupError(t *testing.T) {
	t.Parallel()

	dispatcher := newToolDispatcher(&fakeScripture{err: errors.New("not found")})

	result, passage := dispatcher.Dispatch(context.Background(), domain.FunctionCall{
		ID:   "fc-2",
		Name: ToolGetScripture,
		Args: map[string]any{"reference": "Hezekiah 3:16"},
	})

	if result == nil {
		t.Fatalf("expected error result")
	}
	if passage != nil {
		t.Fatalf("expected nil passage on failure, got %+v", passage)
	}
	detail, _ := result.Response["error"].(string)
	if !strings.Contains(detail, "Please ask the user to try another reference") || !strings.Contains(detail, "not found") {
		t.Fatalf("unexpected error detail: %q", detail)
	}
}

func TestDispatchMissingReference(t *testing.T) {
	t.Parallel()

	dispatcher := newToolDispatcher(&fakeScripture{})

	for _, args := range []map[string]any{
		nil,
		{"reference": ""},
		{"reference": "   "},
		{"reference": 42},
	} {
		result, passage := dispatcher.Dispatch(context.Background(), domain.FunctionCall{
			ID:   "fc-3",
			Name: ToolGetScripture,
			Args: args,
		})
		if result == nil || passage != nil {
			t.Fatalf("args %v: expected error result without passage", args)
		}
		if _, ok := result.Response["error"]; !ok {
			t.Fatalf("args %v: expected error response, got %+v", args, result.Response)
		}
	}
}

func TestDispatchUnknownToolName(t *testing.T) {
	t.Parallel()

	dispatcher := newToolDispatcher(&fakeScripture{})

	result, passage := dispatcher.Dispatch(context.Background(), domain.FunctionCall{
		ID:   "fc-4",
		Name: "open_browser",
	})
	if result != nil || passage != nil {
		t.Fatalf("expected unknown tool to be ignored, got %v, %v", result, passage)
	}
}
