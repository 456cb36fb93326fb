package phrase

import "testing"

func TestExtract_CanonicalPhrase(t *testing.T) {
	e := NewExtractor("HHG")

	ack, ok := e.Extract("I, Jane Doe, acknowledge and agree to the HHG Employee Handbook v2026-01-20")
	if !ok {
		t.Fatal("expected a match")
	}
	if ack.FullName != "Jane Doe" {
		t.Errorf("FullName = %q, want %q", ack.FullName, "Jane Doe")
	}
	if ack.Version != "v2026-01-20" {
		t.Errorf("Version = %q, want %q", ack.Version, "v2026-01-20")
	}
}

func TestExtract_Variants(t *testing.T) {
	e := NewExtractor("HHG")

	tests := []struct {
		name     string
		text     string
		wantName string
		wantVer  string
	}{
		{
			name:     "lowercase",
			text:     "i, jane doe, acknowledge and agree to the hhg employee handbook v2026-01-20",
			wantName: "jane doe",
			wantVer:  "v2026-01-20",
		},
		{
			name:     "no commas",
			text:     "I Jane Doe acknowledge and agree to the HHG Employee Handbook v1",
			wantName: "Jane Doe",
			wantVer:  "v1",
		},
		{
			name:     "extra whitespace",
			text:     "I,   Jane Doe ,  acknowledge  and agree to the HHG  Employee Handbook  v2026-01-20",
			wantName: "Jane Doe",
			wantVer:  "v2026-01-20",
		},
		{
			name:     "embedded in longer message",
			text:     "Hi all! I, Jane Doe, acknowledge and agree to the HHG Employee Handbook v2026-01-20. Thanks!",
			wantName: "Jane Doe",
			wantVer:  "v2026-01-20",
		},
		{
			name:     "single name",
			text:     "I, Cher, acknowledge and agree to the HHG Employee Handbook v2-0",
			wantName: "Cher",
			wantVer:  "v2-0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack, ok := e.Extract(tt.text)
			if !ok {
				t.Fatal("expected a match")
			}
			if ack.FullName != tt.wantName {
				t.Errorf("FullName = %q, want %q", ack.FullName, tt.wantName)
			}
			if ack.Version != tt.wantVer {
				t.Errorf("Version = %q, want %q", ack.Version, tt.wantVer)
			}
		})
	}
}

func TestExtract_NoMatch(t *testing.T) {
	e := NewExtractor("HHG")

	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"plain chatter", "good morning everyone"},
		{"missing version", "I, Jane Doe, acknowledge and agree to the HHG Employee Handbook"},
		{"version without v", "I, Jane Doe, acknowledge and agree to the HHG Employee Handbook 2026-01-20"},
		{"wrong organization", "I, Jane Doe, acknowledge and agree to the ACME Employee Handbook v1"},
		{"missing agree", "I, Jane Doe, acknowledge the HHG Employee Handbook v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := e.Extract(tt.text); ok {
				t.Errorf("Extract(%q) matched, want no match", tt.text)
			}
		})
	}
}

// Re-parsing the text a match was extracted from yields the same values.
func TestExtract_Idempotent(t *testing.T) {
	e := NewExtractor("HHG")
	text := "I, Jane Doe, acknowledge and agree to the HHG Employee Handbook v2026-01-20"

	first, ok := e.Extract(text)
	if !ok {
		t.Fatal("expected a match")
	}
	second, ok := e.Extract(text)
	if !ok {
		t.Fatal("expected a match on re-parse")
	}
	if first != second {
		t.Errorf("re-parse mismatch: %+v vs %+v", first, second)
	}
}

func TestExtract_CustomOrganization(t *testing.T) {
	e := NewExtractor("Acme Corp")

	ack, ok := e.Extract("I, Bob, acknowledge and agree to the Acme Corp Employee Handbook v3")
	if !ok {
		t.Fatal("expected a match")
	}
	if ack.FullName != "Bob" {
		t.Errorf("FullName = %q, want %q", ack.FullName, "Bob")
	}
}
