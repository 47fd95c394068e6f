package workflow

import (
	"errors"
	"fmt"
	"time"
)

// Bounds on each tolerance value; out-of-range values are rejected at
// ToleranceConfig.Valid rather than silently clamped.
const (
	KeyboardUnlockTimeoutMin = 1 * time.Second
	KeyboardUnlockTimeoutMax = 10 * time.Minute

	KeyboardLockCycleTimeoutMin = 500 * time.Millisecond
	KeyboardLockCycleTimeoutMax = 60 * time.Second

	InterFieldFillPauseMin = 0
	InterFieldFillPauseMax = 5 * time.Second

	OIAPollIntervalMin = 10 * time.Millisecond
	OIAPollIntervalMax = 5 * time.Second

	MaxRetryCountMin = 0
	MaxRetryCountMax = 20

	MaxTotalStepDurationMin = 1 * time.Second
	MaxTotalStepDurationMax = 60 * time.Minute
)

// ToleranceConfig bounds how long the engine waits at each
// synchronization point and how it retries a failed step. The default
// is applied for each unspecified (zero) value, via Valid.
type ToleranceConfig struct {
	// KeyboardUnlockTimeout bounds the wait, after Login connects, for
	// the keyboard to be unlocked. Navigate, Fill and Submit do not wait
	// for an unlocked keyboard before they type or send an AID key.
	// Default 30s.
	KeyboardUnlockTimeout time.Duration

	// KeyboardLockCycleTimeout bounds the wait, after an AID key is
	// sent, for the keyboard to lock (host is processing) and then
	// unlock again (host is done). Default 5s.
	KeyboardLockCycleTimeout time.Duration

	// InterFieldFillPause is an optional pause between successive field
	// writes within one Fill step, for hosts that validate on a
	// field-exit event. Default 0 (no pause).
	InterFieldFillPause time.Duration

	// OIAPollInterval is the polling granularity for keyboard-state
	// waits not driven directly by screen.Screen.WaitForOIA's
	// condition-variable wakeups (used by callers polling across
	// Session boundaries). Default 100ms.
	OIAPollInterval time.Duration

	// MaxRetryCount bounds how many times a failed step is retried
	// before the workflow fails outright. Default 0 (no retry).
	MaxRetryCount int

	// MaxTotalStepDuration bounds the wall-clock time a single step,
	// including all of its retries, may consume. Default 5m.
	MaxTotalStepDuration time.Duration
}

// Valid applies the default for each unspecified value and rejects
// out-of-range values.
func (c *ToleranceConfig) Valid() error {
	if c == nil {
		return errors.New("workflow: invalid pointer")
	}

	if c.KeyboardUnlockTimeout == 0 {
		c.KeyboardUnlockTimeout = 30 * time.Second
	} else if c.KeyboardUnlockTimeout < KeyboardUnlockTimeoutMin || c.KeyboardUnlockTimeout > KeyboardUnlockTimeoutMax {
		return errors.New("workflow: KeyboardUnlockTimeout out of range")
	}

	if c.KeyboardLockCycleTimeout == 0 {
		c.KeyboardLockCycleTimeout = 5 * time.Second
	} else if c.KeyboardLockCycleTimeout < KeyboardLockCycleTimeoutMin || c.KeyboardLockCycleTimeout > KeyboardLockCycleTimeoutMax {
		return errors.New("workflow: KeyboardLockCycleTimeout out of range")
	}

	if c.InterFieldFillPause < InterFieldFillPauseMin || c.InterFieldFillPause > InterFieldFillPauseMax {
		return errors.New("workflow: InterFieldFillPause out of range")
	}

	if c.OIAPollInterval == 0 {
		c.OIAPollInterval = 100 * time.Millisecond
	} else if c.OIAPollInterval < OIAPollIntervalMin || c.OIAPollInterval > OIAPollIntervalMax {
		return errors.New("workflow: OIAPollInterval out of range")
	}

	if c.MaxRetryCount < MaxRetryCountMin || c.MaxRetryCount > MaxRetryCountMax {
		return errors.New("workflow: MaxRetryCount out of range")
	}

	if c.MaxTotalStepDuration == 0 {
		c.MaxTotalStepDuration = 5 * time.Minute
	} else if c.MaxTotalStepDuration < MaxTotalStepDurationMin || c.MaxTotalStepDuration > MaxTotalStepDurationMax {
		return errors.New("workflow: MaxTotalStepDuration out of range")
	}

	return nil
}

// DefaultToleranceConfig returns a ToleranceConfig with every value at
// its default.
func DefaultToleranceConfig() ToleranceConfig {
	return ToleranceConfig{
		KeyboardUnlockTimeout:    30 * time.Second,
		KeyboardLockCycleTimeout: 5 * time.Second,
		OIAPollInterval:          100 * time.Millisecond,
		MaxTotalStepDuration:     5 * time.Minute,
	}
}

// ToleranceProfiles names the pre-set ToleranceConfigs selectable from the
// CLI's --tolerance-profile flag, so operators don't hand-tune every
// timeout per invocation.
var ToleranceProfiles = map[string]ToleranceConfig{
	"default": DefaultToleranceConfig(),
	"fast": {
		KeyboardUnlockTimeout:    5 * time.Second,
		KeyboardLockCycleTimeout: 1 * time.Second,
		OIAPollInterval:          50 * time.Millisecond,
		MaxTotalStepDuration:     30 * time.Second,
	},
	"lenient": {
		KeyboardUnlockTimeout:    2 * time.Minute,
		KeyboardLockCycleTimeout: 30 * time.Second,
		OIAPollInterval:          250 * time.Millisecond,
		MaxRetryCount:            3,
		MaxTotalStepDuration:     10 * time.Minute,
	},
}

// LookupToleranceProfile returns the named profile, or an error naming
// the available profiles if name is unrecognized.
func LookupToleranceProfile(name string) (ToleranceConfig, error) {
	if name == "" {
		return DefaultToleranceConfig(), nil
	}
	cfg, ok := ToleranceProfiles[name]
	if !ok {
		return ToleranceConfig{}, fmt.Errorf("workflow: unknown tolerance profile %q (have: default, fast, lenient)", name)
	}
	return cfg, nil
}
