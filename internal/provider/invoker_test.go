package provider

import (
	"context"
	"errors"
	"testing"

	"codeforge/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvokeGenericPath(t *testing.T) {
	mock := NewMockClient("export const Button = () => null;")
	inv := NewInvoker(mock, nil, nil)

	res, err := inv.Invoke(context.Background(), "make a button",
		types.ScopeDetection{Scope: types.ScopeSingleComponent, Tier: types.TierSimple})

	require.NoError(t, err)
	assert.Equal(t, "export const Button = () => null;", res.RawText)
	assert.Empty(t, res.Files)
	assert.Equal(t, "mock", res.Backend)
}

func TestInvokeFullstackStructuredPayload(t *testing.T) {
	mock := NewMockClient(`{"files": [{"path": "server/server.js", "content": "const app = 1;"}]}`)
	inv := NewInvoker(mock, NewAppGenerator(mock), nil)

	res, err := inv.Invoke(context.Background(), "build a blog",
		types.ScopeDetection{Scope: types.ScopeFullstack, Tier: types.TierComplex})

	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	assert.Equal(t, "server/server.js", res.Files[0].Path)
	assert.Empty(t, res.RawText)
	assert.Equal(t, "appgen", res.Backend)
}

func TestInvokeFullstackUnstructuredFallsThroughToRawText(t *testing.T) {
	mock := NewMockClient("here is some code instead of JSON")
	inv := NewInvoker(mock, NewAppGenerator(mock), nil)

	res, err := inv.Invoke(context.Background(), "build a blog",
		types.ScopeDetection{Scope: types.ScopeFullstack, Tier: types.TierComplex})

	require.NoError(t, err)
	assert.Empty(t, res.Files)
	assert.Equal(t, "here is some code instead of JSON", res.RawText)
}

func TestInvokeAppGenErrorFallsBackToGeneric(t *testing.T) {
	broken := &MockClient{Err: errors.New("boom")}
	healthy := NewMockClient("raw fallback output")
	inv := NewInvoker(healthy, NewAppGenerator(broken), nil)

	res, err := inv.Invoke(context.Background(), "build a blog",
		types.ScopeDetection{Scope: types.ScopeFullstack, Tier: types.TierComplex})

	require.NoError(t, err)
	assert.Equal(t, "raw fallback output", res.RawText)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "app generator failed")
}

func TestInvokeGenericErrorIsFatal(t *testing.T) {
	broken := &MockClient{Err: errors.New("provider down")}
	inv := NewInvoker(broken, nil, nil)

	_, err := inv.Invoke(context.Background(), "make a button",
		types.ScopeDetection{Scope: types.ScopeSingleComponent, Tier: types.TierSimple})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider down")
}

func TestOptionsForTiers(t *testing.T) {
	assert.Equal(t, 4096, optionsFor(types.ScopeDetection{Tier: types.TierSimple}).MaxTokens)
	assert.Equal(t, 8192, optionsFor(types.ScopeDetection{Tier: types.TierModerate}).MaxTokens)
	assert.Equal(t, 16384, optionsFor(types.ScopeDetection{Tier: types.TierComplex}).MaxTokens)
	assert.Equal(t, 16384, optionsFor(types.ScopeDetection{Tier: types.TierEnterprise}).MaxTokens)
}

func TestParseFilesPayloadFenced(t *testing.T) {
	raw := "```json\n{\"files\": [{\"path\": \"a.js\", \"content\": \"x\"}]}\n```"
	files := parseFilesPayload(raw)

	require.Len(t, files, 1)
	assert.Equal(t, "a.js", files[0].Path)
}

func TestParseFilesPayloadRejectsEmptyEntries(t *testing.T) {
	raw := `{"files": [{"path": "", "content": "x"}, {"path": "a.js", "content": "  "}]}`
	assert.Empty(t, parseFilesPayload(raw))
}
