package workflow

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSubstituteReplacesKnownColumns(t *testing.T) {
	row := map[string]string{"USER": "JSMITH", "ID": "42"}
	out, err := Substitute("login ${data.USER} (${data.ID})", row)
	require.NoError(t, err)
	require.Equal(t, "login JSMITH (42)", out)
}

func TestSubstituteFailsOnMissingColumn(t *testing.T) {
	_, err := Substitute("${data.MISSING}", map[string]string{})
	var pe *ParameterResolutionError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, "MISSING", pe.Column)
}

func TestSubstituteLeavesMalformedReferenceLiteral(t *testing.T) {
	out, err := Substitute("${data.}", map[string]string{})
	require.NoError(t, err)
	require.Equal(t, "${data.}", out)
}

func TestSubstituteLeavesUnterminatedReferenceLiteral(t *testing.T) {
	out, err := Substitute("${data.USER", map[string]string{"USER": "x"})
	require.NoError(t, err)
	require.Equal(t, "${data.USER", out)
}

func TestSubstituteHandlesEmptyColumnValue(t *testing.T) {
	out, err := Substitute("[${data.NOTE}]", map[string]string{"NOTE": ""})
	require.NoError(t, err)
	require.Equal(t, "[]", out)
}

func TestSubstituteNoReferencesReturnsTemplateUnchanged(t *testing.T) {
	out, err := Substitute("plain text", nil)
	require.NoError(t, err)
	require.Equal(t, "plain text", out)
}
