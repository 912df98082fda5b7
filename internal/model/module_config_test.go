package model

import "testing"

func TestDefaultModuleConfigsAreValid(t *testing.T) {
	for _, mt := range AllModuleTypes {
		cfg := DefaultModuleConfig(mt)
		if cfg == nil {
			t.Fatalf("no default config for %s", mt)
		}
		if err := cfg.Validate(); err != nil {
			t.Fatalf("default config for %s invalid: %v", mt, err)
		}
	}
}

func TestParseModuleConfigRejectsUnknownType(t *testing.T) {
	if _, err := ParseModuleConfig("QUIZ", "{}"); err == nil {
		t.Fatalf("expected error for unknown module type")
	}
}

func TestParseModuleConfigRoundTrip(t *testing.T) {
	raw := `{"playTimes": 2, "secondsPerQuestion": 45}`
	cfg, err := ParseModuleConfig(ModuleListeningMcq, raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	mcq, ok := cfg.(*McqModuleConfig)
	if !ok {
		t.Fatalf("expected McqModuleConfig, got %T", cfg)
	}
	if mcq.PlayTimes != 2 || mcq.SecondsPerQuestion != 45 {
		t.Fatalf("unexpected parsed config %+v", mcq)
	}
	if err := mcq.Validate(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
}

func TestModuleConfigValidateBounds(t *testing.T) {
	if err := (McqModuleConfig{PlayTimes: 0, SecondsPerQuestion: 30}).Validate(); err == nil {
		t.Fatalf("expected error for non-positive playTimes")
	}
	if err := (RetellModuleConfig{PlayTimes: 1, RetellSeconds: 60, PrepareSeconds: -1}).Validate(); err == nil {
		t.Fatalf("expected error for negative prepareSeconds")
	}
	if err := (AtcModuleConfig{ResponseSeconds: 0}).Validate(); err == nil {
		t.Fatalf("expected error for non-positive responseSeconds")
	}
	if err := (OpiModuleConfig{WarmupSeconds: 0}).Validate(); err != nil {
		t.Fatalf("zero warmup must be valid: %v", err)
	}
}
