package strategy_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"synthcheck/internal/classify"
	"synthcheck/internal/strategy"
)

type fakeSelector struct {
	choice  string
	err     error
	gotReq  strategy.Request
	called  bool
	delayed time.Duration
}

func (f *fakeSelector) Select(ctx context.Context, req strategy.Request) (string, error) {
	f.called = true
	f.gotReq = req
	if f.delayed > 0 {
		select {
		case <-time.After(f.delayed):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.choice, f.err
}

func sensitiveField(piiType string) classify.FieldClassification {
	return classify.FieldClassification{
		FieldName:       "col",
		IsSensitive:     true,
		SensitivityType: piiType,
		Confidence:      0.9,
		DataType:        "string",
	}
}

func TestRoute_NonSensitiveAlwaysDistribution(t *testing.T) {
	sel := &fakeSelector{choice: strategy.TextGeneration}
	r := strategy.NewRouter(sel, 0)

	got := r.Route(classify.FieldClassification{IsSensitive: false}, nil)

	if got != strategy.DistributionPreserving {
		t.Errorf("expected distribution_preserving, got %s", got)
	}
	if sel.called {
		t.Error("selector must not be consulted for non-sensitive fields")
	}
}

func TestRoute_SelectorChoiceUsed(t *testing.T) {
	sel := &fakeSelector{choice: strategy.ExampleBased}
	r := strategy.NewRouter(sel, 0)

	got := r.Route(sensitiveField(classify.TypeIdentifier), []string{"a", "b"})

	if got != strategy.ExampleBased {
		t.Errorf("expected selector choice, got %s", got)
	}
}

func TestRoute_SelectorRequestShape(t *testing.T) {
	sel := &fakeSelector{choice: strategy.TextGeneration}
	r := strategy.NewRouter(sel, 0)

	samples := make([]string, 25)
	for i := range samples {
		samples[i] = "v"
	}
	r.Route(sensitiveField(classify.TypeEmail), samples)

	if len(sel.gotReq.Samples) != 10 {
		t.Errorf("samples must be capped at 10, got %d", len(sel.gotReq.Samples))
	}
	if len(sel.gotReq.Options) != 3 {
		t.Errorf("selector must be offered the 3-option menu, got %v", sel.gotReq.Options)
	}
}

func TestRoute_InvalidSelectorResponseFallsBack(t *testing.T) {
	cases := []struct {
		name string
		sel  *fakeSelector
	}{
		{"malformed choice", &fakeSelector{choice: "make_it_up"}},
		{"error", &fakeSelector{err: errors.New("llm down")}},
		{"empty", &fakeSelector{choice: ""}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := strategy.NewRouter(tc.sel, 0)
			got := r.Route(sensitiveField(classify.TypeEmail), nil)
			if got != strategy.TextGeneration {
				t.Errorf("expected text_generation fallback, got %s", got)
			}
		})
	}
}

func TestRoute_SelectorTimeoutFallsBack(t *testing.T) {
	sel := &fakeSelector{choice: strategy.ExampleBased, delayed: 200 * time.Millisecond}
	r := strategy.NewRouter(sel, 10*time.Millisecond)

	got := r.Route(sensitiveField(classify.TypeSSN), nil)

	if got != strategy.TextGeneration {
		t.Errorf("expected fallback on timeout, got %s", got)
	}
}

func TestFallbackRoute_RuleTable(t *testing.T) {
	textLike := []string{
		classify.TypeEmail, classify.TypePhone, classify.TypeName,
		classify.TypeAddress, classify.TypeTextPII, classify.TypeSSN,
		classify.TypeCreditCard, classify.TypeDateOfBirth,
		classify.TypePostalCode, classify.TypePassword,
	}
	for _, piiType := range textLike {
		if got := strategy.FallbackRoute(piiType); got != strategy.TextGeneration {
			t.Errorf("%s: expected text_generation, got %s", piiType, got)
		}
	}

	if got := strategy.FallbackRoute(classify.TypeIdentifier); got != strategy.DistributionPreserving {
		t.Errorf("identifier: expected distribution_preserving, got %s", got)
	}
}

func TestRoute_AlwaysReturnsValidStrategy(t *testing.T) {
	r := strategy.NewRouter(&fakeSelector{choice: "garbage"}, 0)
	for _, piiType := range []string{classify.TypeEmail, classify.TypeIdentifier, "weird_type", ""} {
		got := r.Route(sensitiveField(piiType), nil)
		if !strategy.IsValid(got) {
			t.Errorf("router returned invalid strategy %q for %s", got, piiType)
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     strategy.Config
		wantErr bool
	}{
		{"distribution", strategy.Config{Strategy: strategy.DistributionPreserving}, false},
		{"text", strategy.Config{Strategy: strategy.TextGeneration}, false},
		{"example with examples", strategy.Config{Strategy: strategy.ExampleBased, Examples: []string{"a"}}, false},
		{"example without examples", strategy.Config{Strategy: strategy.ExampleBased}, true},
		{"unknown", strategy.Config{Strategy: "nope"}, true},
		{"examples on wrong strategy", strategy.Config{Strategy: strategy.TextGeneration, Examples: []string{"a"}}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestBuildConfig(t *testing.T) {
	cfg := strategy.BuildConfig(strategy.ExampleBased, []string{"a", "b"})
	if err := cfg.Validate(); err != nil {
		t.Errorf("example config should validate: %v", err)
	}
	cfg = strategy.BuildConfig(strategy.TextGeneration, []string{"a"})
	if len(cfg.Examples) != 0 {
		t.Error("non-example strategies must not carry examples")
	}
}
