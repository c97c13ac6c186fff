package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegexSelectorMatchesSubstring(t *testing.T) {
	s, err := NewRegex(`^aws-us-`)
	require.NoError(t, err)
	assert.True(t, s.Allow("aws-us-east-1"))
	assert.False(t, s.Allow("aws-eu-west-1"))
}

func TestRegexSelectorRejectsInvalidPattern(t *testing.T) {
	_, err := NewRegex(`(unclosed`)
	assert.Error(t, err)
}

func TestCELSelectorEvaluatesBooleanPredicate(t *testing.T) {
	s, err := NewCEL(`name.startsWith("aws-")`)
	require.NoError(t, err)
	assert.True(t, s.Allow("aws-us-east-1"))
	assert.False(t, s.Allow("gcp-us-east-1"))
}

func TestCELSelectorRejectsNonBooleanExpression(t *testing.T) {
	_, err := NewCEL(`"not a bool"`)
	// Compiles to a string-typed program; Allow should treat any
	// non-bool result as a rejection rather than panicking.
	if err != nil {
		return
	}
	s, _ := NewCEL(`"not a bool"`)
	assert.False(t, s.Allow("anything"))
}

func TestParseDispatchesOnCELPrefix(t *testing.T) {
	regexSel, err := Parse(`^aws-`)
	require.NoError(t, err)
	assert.True(t, regexSel.Allow("aws-us-east-1"))

	celSel, err := Parse(`cel:name.endsWith("-1")`)
	require.NoError(t, err)
	assert.True(t, celSel.Allow("aws-us-east-1"))
	assert.False(t, celSel.Allow("aws-us-east-2"))
}
