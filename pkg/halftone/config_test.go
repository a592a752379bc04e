package halftone

import (
	"testing"

	"github.com/Bh3ky/themambacode/pkg/errors"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		wantCode errors.Code
	}{
		{"defaults are valid", func(c *Config) {}, ""},
		{"zero cell size", func(c *Config) { c.CellSize = 0 }, errors.ErrCodeInvalidConfig},
		{"negative cell size", func(c *Config) { c.CellSize = -4 }, errors.ErrCodeInvalidConfig},
		{"zero max radius", func(c *Config) { c.MaxRadius = 0 }, errors.ErrCodeInvalidConfig},
		{"zero gamma", func(c *Config) { c.Gamma = 0 }, errors.ErrCodeInvalidConfig},
		{"threshold above one", func(c *Config) { c.Threshold = 1.5 }, errors.ErrCodeInvalidConfig},
		{"threshold below zero", func(c *Config) { c.Threshold = -0.1 }, errors.ErrCodeInvalidConfig},
		{"unknown style", func(c *Config) { c.Style = "stipple" }, errors.ErrCodeInvalidStyle},
		{"negative jitter", func(c *Config) { c.Jitter = -1 }, errors.ErrCodeInvalidConfig},
		{"negative edge boost", func(c *Config) { c.EdgeBoost = -0.5 }, errors.ErrCodeInvalidConfig},
		{"negative feather", func(c *Config) { c.FeatherPx = -2 }, errors.ErrCodeInvalidConfig},
		{"radial is valid", func(c *Config) { c.Style = StyleRadial }, ""},
		{"flow_field is valid", func(c *Config) { c.Style = StyleFlowField }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantCode) {
				t.Fatalf("Validate() = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestConfig_FlowDefaults(t *testing.T) {
	var c Config
	if got := c.flowMaxSteps(); got != DefaultFlowMaxSteps {
		t.Errorf("flowMaxSteps() = %d, want default %d", got, DefaultFlowMaxSteps)
	}
	if got := c.flowSaturation(); got != DefaultFlowSaturation {
		t.Errorf("flowSaturation() = %d, want default %d", got, DefaultFlowSaturation)
	}

	c.FlowMaxSteps, c.FlowSaturation = 100, 5
	if got := c.flowMaxSteps(); got != 100 {
		t.Errorf("flowMaxSteps() = %d, want 100", got)
	}
	if got := c.flowSaturation(); got != 5 {
		t.Errorf("flowSaturation() = %d, want 5", got)
	}
}
