package validate

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCleanCodePasses(t *testing.T) {
	v := NewStaticValidator()
	code := `import React from 'react';

export const Button = () => {
  return <button>Click</button>;
};

export default Button;
`
	outcome, err := v.Validate(context.Background(), code, "typescript")
	require.NoError(t, err)
	assert.True(t, outcome.Passed)
	assert.Equal(t, 100.0, outcome.Score)
	assert.Empty(t, outcome.Issues)
}

func TestValidateEmptyBodyIsCritical(t *testing.T) {
	v := NewStaticValidator()

	outcome, err := v.Validate(context.Background(), "   \n\t", "typescript")
	require.NoError(t, err)
	assert.False(t, outcome.Passed)
	assert.Equal(t, 50.0, outcome.Score)
	require.Len(t, outcome.Issues, 1)
	assert.Equal(t, "artifact body is empty", outcome.Issues[0].Message)
}

func TestValidateUnbalancedBraces(t *testing.T) {
	v := NewStaticValidator()

	outcome, err := v.Validate(context.Background(), "export const f = () => {\n  return 1;\n", "typescript")
	require.NoError(t, err)
	assert.False(t, outcome.Passed)
	assert.True(t, outcome.HasBlockingIssues())
}

func TestValidateBracesInsideStringsIgnored(t *testing.T) {
	v := NewStaticValidator()
	code := "export const f = () => {\n  return \"{ not a brace\";\n};\n"

	outcome, err := v.Validate(context.Background(), code, "typescript")
	require.NoError(t, err)
	assert.True(t, outcome.Passed)
}

func TestValidatePlaceholderFails(t *testing.T) {
	v := NewStaticValidator()
	code := "export const f = () => {\n  // TODO: implement\n  return null;\n};\n"

	outcome, err := v.Validate(context.Background(), code, "typescript")
	require.NoError(t, err)
	assert.False(t, outcome.Passed)
	assert.Equal(t, 75.0, outcome.Score)
}

func TestValidateForbiddenDependencyFails(t *testing.T) {
	v := NewStaticValidator()
	code := "import styled from 'styled-components';\nexport const S = styled.div``;\nexport default S;\n"

	outcome, err := v.Validate(context.Background(), code, "typescript")
	require.NoError(t, err)
	assert.False(t, outcome.Passed)
}

func TestValidateEmptyExportIsWarningOnly(t *testing.T) {
	v := NewStaticValidator()
	code := "export const noop = () => {}\nexport const real = () => {\n  return 1;\n};\n"

	outcome, err := v.Validate(context.Background(), code, "typescript")
	require.NoError(t, err)
	assert.True(t, outcome.Passed, "warnings alone must not fail validation")
	assert.Equal(t, 90.0, outcome.Score)
}

func TestValidateAccumulatesIssueCosts(t *testing.T) {
	v := NewStaticValidator()
	code := "import styled from 'styled-components';\n" +
		"// TODO: finish\n" +
		"export const f = () => {\n" +
		strings.Repeat("if (x) {}\n", 3)
	// unbalanced braces + placeholder + forbidden dep: three errors

	outcome, err := v.Validate(context.Background(), code, "typescript")
	require.NoError(t, err)
	assert.False(t, outcome.Passed)
	assert.Equal(t, 25.0, outcome.Score)
}

func TestBraceDelta(t *testing.T) {
	cases := []struct {
		code string
		want int
	}{
		{"{}", 0},
		{"{{}", 1},
		{"}", -1},
		{"'{'", 0},
		{"`${x} {`", 0},
		{"\"\\\"{\"", 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, braceDelta(tc.code), "code %q", tc.code)
	}
}
