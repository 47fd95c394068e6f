package workflow

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Definition is the on-disk (YAML) shape of a workflow: an ordered list
// of steps, each tagged by "type" so a single flat list can hold every
// variant without a YAML tag scheme per kind.
type Definition struct {
	Steps []StepDefinition `yaml:"steps"`
}

// StepDefinition is the union of every field any step variant uses;
// only the fields relevant to Type are read when converting to a Step.
type StepDefinition struct {
	Type string `yaml:"type"`

	// login
	Host               string        `yaml:"host,omitempty"`
	Port               int           `yaml:"port,omitempty"`
	DeviceName         string        `yaml:"device_name,omitempty"`
	CCSID              int           `yaml:"ccsid,omitempty"`
	TLS                bool          `yaml:"tls,omitempty"`
	ConnectTimeout     time.Duration `yaml:"connect_timeout,omitempty"`
	NegotiationTimeout time.Duration `yaml:"negotiation_timeout,omitempty"`
	SignonIndicator    string        `yaml:"signon_indicator,omitempty"`

	// navigate
	Keystrokes   string `yaml:"keystrokes,omitempty"`
	ExpectedText string `yaml:"expected_text,omitempty"`

	// fill
	Bindings []BindingDefinition `yaml:"bindings,omitempty"`

	// submit
	AID string `yaml:"aid,omitempty"`

	// capture
	Artifact string `yaml:"artifact,omitempty"`

	// wait
	Duration time.Duration `yaml:"duration,omitempty"`
}

// BindingDefinition is one Fill step field binding in YAML form.
type BindingDefinition struct {
	Field string `yaml:"field"`
	Value string `yaml:"value"`
}

// ParseDefinition unmarshals a workflow definition and converts it to
// the Step slice Engine.Execute expects.
func ParseDefinition(data []byte) ([]Step, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("workflow: parsing definition: %w", err)
	}

	steps := make([]Step, 0, len(def.Steps))
	for i, sd := range def.Steps {
		step, err := sd.toStep()
		if err != nil {
			return nil, fmt.Errorf("workflow: step %d: %w", i, err)
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func (sd StepDefinition) toStep() (Step, error) {
	switch sd.Type {
	case "login":
		return LoginStep{
			Host:               sd.Host,
			Port:               sd.Port,
			DeviceName:         sd.DeviceName,
			CCSID:              sd.CCSID,
			TLS:                sd.TLS,
			ConnectTimeout:     sd.ConnectTimeout,
			NegotiationTimeout: sd.NegotiationTimeout,
			SignonIndicator:    sd.SignonIndicator,
		}, nil
	case "navigate":
		if err := ValidateParameterSyntax(sd.Keystrokes); err != nil {
			return nil, err
		}
		if err := ValidateParameterSyntax(sd.ExpectedText); err != nil {
			return nil, err
		}
		return NavigateStep{Keystrokes: sd.Keystrokes, ExpectedText: sd.ExpectedText}, nil
	case "fill":
		bindings := make([]FieldBinding, 0, len(sd.Bindings))
		for _, b := range sd.Bindings {
			if err := ValidateParameterSyntax(b.Value); err != nil {
				return nil, err
			}
			bindings = append(bindings, FieldBinding{FieldName: b.Field, ValueTemplate: b.Value})
		}
		return FillStep{Bindings: bindings}, nil
	case "submit":
		return SubmitStep{AIDName: sd.AID}, nil
	case "assert":
		if err := ValidateParameterSyntax(sd.ExpectedText); err != nil {
			return nil, err
		}
		return AssertStep{ExpectedText: sd.ExpectedText}, nil
	case "capture":
		if err := ValidateParameterSyntax(sd.Artifact); err != nil {
			return nil, err
		}
		return CaptureStep{ArtifactName: sd.Artifact}, nil
	case "wait":
		return WaitStep{Duration: sd.Duration}, nil
	default:
		return nil, fmt.Errorf("unknown step type %q", sd.Type)
	}
}
