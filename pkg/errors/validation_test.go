package errors

import (
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "A", false},
		{"valid with digits", "C12", false},
		{"valid with space", "Homo sapiens", false},
		{"valid unicode", "Pongo abelii é", false},

		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"too long", strings.Repeat("x", MaxNameLength+1), true},
		{"tab", "foo\tbar", true},
		{"newline", "foo\nbar", true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName("taxon", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidName) {
				t.Errorf("ValidateName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidName)
			}
		})
	}
}

func TestValidateName_MessageNamesKind(t *testing.T) {
	err := ValidateName("character", "")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := UserMessage(err); got != "character name cannot be empty" {
		t.Errorf("UserMessage() = %q", got)
	}
}

func TestValidateOutputName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "primates", false},
		{"valid with dot inside", "run.2", false},
		{"valid with dash", "data-set_1", false},

		{"empty", "", true},
		{"dot", ".", true},
		{"dot dot", "..", true},
		{"hidden", ".cache", true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"null byte", "a\x00b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
