package i18n

import (
	"testing"

	"golang.org/x/text/language"
)

func TestResolveLocale(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"empty", "", "pt-BR"},
		{"exact portuguese", "pt-BR", "pt-BR"},
		{"bare portuguese", "pt", "pt-BR"},
		{"english", "en-US", "en-US"},
		{"british english", "en-GB", "en-US"},
		{"accept list", "fr-FR;q=0.9, en;q=0.8", "en-US"},
		{"unsupported", "ja-JP", "pt-BR"},
		{"garbage", ";;;", "pt-BR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveLocale(tt.value); got != tt.want {
				t.Fatalf("ResolveLocale(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestParseTag(t *testing.T) {
	if tag, ok := ParseTag("en"); !ok || tag != language.AmericanEnglish {
		t.Fatalf("ParseTag(en) = %v, %v", tag, ok)
	}
	if _, ok := ParseTag("not a tag!"); ok {
		t.Fatal("expected invalid tag to be rejected")
	}
}

func TestTextFallsBackToKey(t *testing.T) {
	if got := Text("en-US", "missing.key"); got != "missing.key" {
		t.Fatalf("Text = %q, want key", got)
	}
	if got := Text("en-US", "progression.aptitude.1"); got == "progression.aptitude.1" {
		t.Fatal("expected translated text")
	}
}

func TestPrinterUsesCatalog(t *testing.T) {
	got := Printer("pt-BR").Sprintf("progression.benefit.line", 1, "ok")
	if got != "Nível 1: ok" {
		t.Fatalf("Sprintf = %q", got)
	}
}
