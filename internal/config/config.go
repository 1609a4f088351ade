// YAML scenario loader with CUE validation integration
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Scenario describes the network built by the event source.
type Scenario struct {
	Name      string        `yaml:"name"`
	Devices   int           `yaml:"devices"`
	Gateways  int           `yaml:"gateways"`
	AppPeriod time.Duration `yaml:"app_period"`
	Duration  time.Duration `yaml:"duration"`
	Seed      int64         `yaml:"seed"`
}

// Channel holds the lossy shared channel parameters.
type Channel struct {
	LossProbability float64       `yaml:"loss_probability"`
	Delay           time.Duration `yaml:"delay"`
	Jitter          time.Duration `yaml:"jitter"`
}

// Output controls where and how often results are emitted.
type Output struct {
	Folder           string        `yaml:"folder"`
	ProgressInterval time.Duration `yaml:"progress_interval"`
	// Pace is the simulated seconds per wall-clock second; 0 runs unpaced.
	Pace float64 `yaml:"pace"`
}

// SimulationConfig is the root configuration of a run.
type SimulationConfig struct {
	Scenario Scenario `yaml:"scenario"`
	Channel  Channel  `yaml:"channel"`
	Output   Output   `yaml:"output"`
}

// Default returns the baseline scenario: 50 devices, one gateway, a 50 s
// application period and a 2171 s stop time.
func Default() *SimulationConfig {
	return &SimulationConfig{
		Scenario: Scenario{
			Name:      "lorawan-baseline",
			Devices:   50,
			Gateways:  1,
			AppPeriod: 50 * time.Second,
			Duration:  2171 * time.Second,
			Seed:      1,
		},
		Channel: Channel{
			LossProbability: 0.1,
			Delay:           100 * time.Millisecond,
			Jitter:          50 * time.Millisecond,
		},
		Output: Output{
			ProgressInterval: time.Minute,
		},
	}
}

// Load reads a YAML config on top of Default and validates it against a CUE
// schema. An empty configPath yields the defaults; an empty cueSchemaPath uses
// the embedded schema.
func Load(configPath, cueSchemaPath string) (*SimulationConfig, error) {
	cfg := Default()
	if configPath == "" {
		return cfg, cfg.Validate()
	}

	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the semantic constraints the schema cannot express.
func (c *SimulationConfig) Validate() error {
	var errs []error
	if c.Scenario.Devices <= 0 {
		errs = append(errs, fmt.Errorf("scenario.devices must be positive, got %d", c.Scenario.Devices))
	}
	if c.Scenario.Gateways <= 0 {
		errs = append(errs, fmt.Errorf("scenario.gateways must be positive, got %d", c.Scenario.Gateways))
	}
	if c.Scenario.AppPeriod <= 0 {
		errs = append(errs, fmt.Errorf("scenario.app_period must be positive, got %s", c.Scenario.AppPeriod))
	}
	if c.Scenario.Duration <= 0 {
		errs = append(errs, fmt.Errorf("scenario.duration must be positive, got %s", c.Scenario.Duration))
	}
	if p := c.Channel.LossProbability; p < 0 || p > 1 {
		errs = append(errs, fmt.Errorf("channel.loss_probability must be within [0,1], got %v", p))
	}
	if c.Channel.Delay < 0 || c.Channel.Jitter < 0 {
		errs = append(errs, errors.New("channel.delay and channel.jitter must not be negative"))
	}
	if c.Output.ProgressInterval < 0 {
		errs = append(errs, fmt.Errorf("output.progress_interval must not be negative, got %s", c.Output.ProgressInterval))
	}
	if c.Output.Pace < 0 {
		errs = append(errs, fmt.Errorf("output.pace must not be negative, got %v", c.Output.Pace))
	}
	return errors.Join(errs...)
}
