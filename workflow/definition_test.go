package workflow

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDefinitionAcceptsWellFormedParameterReferences(t *testing.T) {
	yamlDoc := []byte(`
steps:
  - type: login
    host: "${data.HOST}"
    device_name: QPADEV0001
    ccsid: 37
  - type: fill
    bindings:
      - field: field_0
        value: "${data.NAME}"
  - type: assert
    expected_text: "${data.GREETING}"
  - type: capture
    artifact: "${data.LABEL}"
`)
	steps, err := ParseDefinition(yamlDoc)
	require.NoError(t, err)
	require.Len(t, steps, 4)
}

func TestParseDefinitionRejectsUnterminatedParameterReference(t *testing.T) {
	yamlDoc := []byte(`
steps:
  - type: login
    host: h
  - type: assert
    expected_text: "${data.GREETING"
`)
	_, err := ParseDefinition(yamlDoc)
	require.Error(t, err)
	require.Contains(t, err.Error(), "step 1")
}

func TestParseDefinitionRejectsInvalidColumnNameInFillBinding(t *testing.T) {
	yamlDoc := []byte(`
steps:
  - type: login
    host: h
  - type: fill
    bindings:
      - field: field_0
        value: "${data.1BAD}"
`)
	_, err := ParseDefinition(yamlDoc)
	require.Error(t, err)
	require.Contains(t, err.Error(), "step 1")
}

func TestParseDefinitionRejectsInvalidColumnNameInNavigateKeystrokes(t *testing.T) {
	yamlDoc := []byte(`
steps:
  - type: login
    host: h
  - type: navigate
    keystrokes: "${data.}[ENTER]"
`)
	_, err := ParseDefinition(yamlDoc)
	require.Error(t, err)
}

func TestParseDefinitionRejectsUnknownStepType(t *testing.T) {
	yamlDoc := []byte(`
steps:
  - type: teleport
`)
	_, err := ParseDefinition(yamlDoc)
	require.Error(t, err)
}
