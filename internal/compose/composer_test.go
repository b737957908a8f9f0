package compose

import (
	"context"
	"errors"
	"strings"
	"testing"

	"codeforge/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buttonScope() types.ScopeDetection {
	return types.ScopeDetection{
		Scope:        types.ScopeSingleComponent,
		Tier:         types.TierSimple,
		MinArtifacts: 3,
		MaxArtifacts: 5,
	}
}

func TestComposeEmbedsEntityAndFileList(t *testing.T) {
	c := NewComposer(nil, nil)
	req := types.NewRequest("create a simple login button component")

	instruction := c.Compose(context.Background(), req, buttonScope())

	assert.Contains(t, instruction, "Primary entity: Button")
	assert.Contains(t, instruction, "src/components/Button.tsx")
	assert.Contains(t, instruction, "src/components/Button.test.tsx")
}

func TestComposeRestatesCountConstraint(t *testing.T) {
	c := NewComposer(nil, nil)
	req := types.NewRequest("create a simple login button component")

	instruction := c.Compose(context.Background(), req, buttonScope())

	assert.Contains(t, instruction, "at least 3 and at most 5 files")
}

func TestComposeIncludesCoreRulesAndContract(t *testing.T) {
	c := NewComposer(nil, nil)
	req := types.NewRequest("build a dashboard")

	instruction := c.Compose(context.Background(), req, types.ScopeDetection{
		Scope: types.ScopeFeature, MinArtifacts: 8, MaxArtifacts: 15,
	})

	assert.Contains(t, instruction, "No placeholders")
	assert.Contains(t, instruction, "styled-components")
	assert.Contains(t, instruction, "component:<Name>:<lang>:<relative/path>")
}

func TestComposeIsPure(t *testing.T) {
	c := NewComposer(nil, nil)
	req := types.NewRequest("create a product table")

	first := c.Compose(context.Background(), req, buttonScope())
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, c.Compose(context.Background(), req, buttonScope()))
	}
}

type fakeSearch struct {
	results []string
	err     error
	queries []string
}

func (f *fakeSearch) FindSimilar(_ context.Context, query string, _ int) ([]string, error) {
	f.queries = append(f.queries, query)
	return f.results, f.err
}

func TestComposeAppendsPriorArt(t *testing.T) {
	search := &fakeSearch{results: []string{"export const Ref = () => null;"}}
	c := NewComposer(search, nil)
	req := types.NewRequest("create a simple login button component")

	instruction := c.Compose(context.Background(), req, buttonScope())

	require.Len(t, search.queries, 1)
	assert.Contains(t, instruction, "export const Ref = () => null;")
}

func TestComposeSearchFailureDegrades(t *testing.T) {
	search := &fakeSearch{err: errors.New("index offline")}
	c := NewComposer(search, nil)
	req := types.NewRequest("create a simple login button component")

	instruction := c.Compose(context.Background(), req, buttonScope())

	assert.False(t, strings.Contains(instruction, "Reference implementations"))
	assert.Contains(t, instruction, "Primary entity: Button")
}

func TestComposeUnknownScopeFallsBackToFeatureTemplate(t *testing.T) {
	c := NewComposer(nil, nil)
	req := types.NewRequest("create a product catalog")

	instruction := c.Compose(context.Background(), req, types.ScopeDetection{
		Scope: types.ScopeType("mystery"), MinArtifacts: 1, MaxArtifacts: 2,
	})

	assert.Contains(t, instruction, "src/features/Product/ProductView.tsx")
}
