package strategy

import "fmt"

// Config is the validated per-field generation configuration: a tagged
// union over the three strategies. Examples is meaningful only for
// ExampleBased.
type Config struct {
	Strategy string   `json:"strategy"`
	Examples []string `json:"examples,omitempty"`
}

// Validate checks the config once at the router boundary so downstream
// generation never sees a malformed strategy.
func (c Config) Validate() error {
	if !IsValid(c.Strategy) {
		return fmt.Errorf("unknown strategy %q", c.Strategy)
	}
	if c.Strategy == ExampleBased && len(c.Examples) == 0 {
		return fmt.Errorf("example_based strategy requires example values")
	}
	if c.Strategy != ExampleBased && len(c.Examples) > 0 {
		return fmt.Errorf("examples are only valid for example_based, not %s", c.Strategy)
	}
	return nil
}

// BuildConfig assembles a Config for the routed strategy, attaching sample
// values as examples when the strategy needs them.
func BuildConfig(routed string, samples []string) Config {
	cfg := Config{Strategy: routed}
	if routed == ExampleBased {
		cfg.Examples = samples
	}
	return cfg
}
