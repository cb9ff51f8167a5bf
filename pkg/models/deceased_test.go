package models

import "testing"

func TestAgeAtDeath(t *testing.T) {
	tests := []struct {
		name      string
		birth     string
		death     string
		wantAge   int
		wantValid bool
	}{
		{"seventy years", "1950-01-01", "2020-06-15", 70, true},
		{"birthday not yet reached", "1950-06-16", "2020-06-15", 69, true},
		{"birthday on death day", "1950-06-15", "2020-06-15", 70, true},
		{"same year", "2020-01-01", "2020-11-30", 0, true},
		{"death before birth", "2020-01-01", "2019-01-01", 0, false},
		{"malformed birth date", "not-a-date", "2020-01-01", 0, false},
		{"malformed death date", "1950-01-01", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Deceased{BirthDate: tt.birth, DeathDate: tt.death}
			age, ok := d.AgeAtDeath()
			if ok != tt.wantValid {
				t.Fatalf("expected valid=%v, got %v", tt.wantValid, ok)
			}
			if ok && age != tt.wantAge {
				t.Errorf("expected age %d, got %d", tt.wantAge, age)
			}
		})
	}
}

func TestObituaryText(t *testing.T) {
	o := &Obituary{GeneratedTextOpenAI: "openai text", GeneratedTextClaude: "claude text"}
	if o.Text() != "openai text" {
		t.Errorf("expected OpenAI text preferred, got %q", o.Text())
	}

	o = &Obituary{GeneratedTextClaude: "claude text"}
	if o.Text() != "claude text" {
		t.Errorf("expected Claude fallback, got %q", o.Text())
	}
}

func TestQuoteKey(t *testing.T) {
	sq := &SavedQuote{Quote: "To be, or not to be", Author: "Shakespeare"}
	if sq.Key() != "To be, or not to be|Shakespeare" {
		t.Errorf("unexpected key %q", sq.Key())
	}
	if QuoteKey("a", "b") != "a|b" {
		t.Error("unexpected QuoteKey result")
	}
}
