package provider

import (
	"errors"
	"testing"
)

func TestDefaultModel_KnownProviders(t *testing.T) {
	for _, p := range All() {
		model, err := DefaultModel(p)
		if err != nil {
			t.Errorf("DefaultModel(%q) unexpected error: %v", p, err)
		}
		if model == "" {
			t.Errorf("DefaultModel(%q) returned empty model", p)
		}
	}
}

func TestDefaultModel_Unknown(t *testing.T) {
	_, err := DefaultModel(Provider("llamacpp"))
	if !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("DefaultModel(unknown) error = %v, want ErrUnknownProvider", err)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    Provider
		wantErr bool
	}{
		{"openai", OpenAI, false},
		{"gemini", Gemini, false},
		{"apizh-cost", ApizhCost, false},
		{"apizh-reason", ApizhReason, false},
		{"", "", true},
		{"azure", "", true},
		{"OPENAI", "", true}, // identifiers are exact, not case-folded
	}
	for _, tt := range tests {
		got, err := Parse(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("Parse(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestVariantsShareCredential(t *testing.T) {
	for _, p := range All() {
		base := VariantOf(p)
		if base == p {
			continue
		}
		pKey, err := EnvKey(p)
		if err != nil {
			t.Fatalf("EnvKey(%q): %v", p, err)
		}
		baseKey, err := EnvKey(base)
		if err != nil {
			t.Fatalf("EnvKey(%q): %v", base, err)
		}
		if pKey != baseKey {
			t.Errorf("variant %q env key %q differs from base %q key %q", p, pKey, base, baseKey)
		}
	}
}

func TestAll_StableOrder(t *testing.T) {
	first := All()
	second := All()
	if len(first) != len(second) {
		t.Fatalf("All() length changed between calls: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("All()[%d] = %q then %q, want stable order", i, first[i], second[i])
		}
	}
	// Mutating the returned slice must not affect the registry order.
	first[0] = Provider("mutated")
	if All()[0] == Provider("mutated") {
		t.Error("All() returned a slice aliasing internal state")
	}
}

func TestBaseURL_Unknown(t *testing.T) {
	_, err := BaseURL(Provider("nope"))
	if !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("BaseURL(unknown) error = %v, want ErrUnknownProvider", err)
	}
}
