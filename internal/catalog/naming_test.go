package catalog

import (
	"reflect"
	"testing"
)

func TestNormalizeLanguage(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"en_US", "en-US"},
		{"en_US_extra", "en-US_extra"},
		{"en-US", "en-US"},
		{"en", "en"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeLanguage(tt.in); got != tt.want {
			t.Errorf("NormalizeLanguage(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGoogleDerivation(t *testing.T) {
	d := StrategyFor("google").Derive("Aria", "en-US")

	if d.Name != "en-US-Chirp3-HD-Aria" {
		t.Errorf("name = %q, want %q", d.Name, "en-US-Chirp3-HD-Aria")
	}
	if d.Description != "google_Aria" {
		t.Errorf("description = %q, want %q", d.Description, "google_Aria")
	}
	if d.Attribution.Name != "Google" {
		t.Errorf("attribution name = %q, want %q", d.Attribution.Name, "Google")
	}
	if d.Attribution.URL != "https://cloud.google.com/text-to-speech/docs/chirp3-hd" {
		t.Errorf("attribution url = %q", d.Attribution.URL)
	}
}

func TestOpenAIDerivation(t *testing.T) {
	d := StrategyFor("openai").Derive("alloy", "en-US")

	if d.Name != "en-US-openai-alloy" {
		t.Errorf("name = %q, want %q", d.Name, "en-US-openai-alloy")
	}
	if d.Description != "openai_alloy" {
		t.Errorf("description = %q, want %q", d.Description, "openai_alloy")
	}
	if d.Attribution.Name != "OpenAI" {
		t.Errorf("attribution name = %q, want %q", d.Attribution.Name, "OpenAI")
	}
	if d.Attribution.URL != "https://platform.openai.com/docs/guides/text-to-speech" {
		t.Errorf("attribution url = %q", d.Attribution.URL)
	}
}

func TestGenericDerivation(t *testing.T) {
	d := StrategyFor("custom1").Derive("Bob", "fr-FR")

	if d.Name != "fr-FR-custom1-Bob" {
		t.Errorf("name = %q, want %q", d.Name, "fr-FR-custom1-Bob")
	}
	if d.Description != "custom1_Bob" {
		t.Errorf("description = %q, want %q", d.Description, "custom1_Bob")
	}
	if d.Attribution.Name != "Custom1" {
		t.Errorf("attribution name = %q, want %q", d.Attribution.Name, "Custom1")
	}
	if d.Attribution.URL != "" {
		t.Errorf("attribution url = %q, want empty", d.Attribution.URL)
	}
}

func TestGenericCapitalization(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"ibm", "Ibm"},
		{"IBM", "Ibm"},
		{"myTTS", "Mytts"},
		{"x", "X"},
	}
	for _, tt := range tests {
		d := StrategyFor(tt.key).Derive("v", "en-US")
		if d.Attribution.Name != tt.want {
			t.Errorf("attribution for key %q = %q, want %q", tt.key, d.Attribution.Name, tt.want)
		}
	}
}

func TestProviderMatchIsCaseSensitive(t *testing.T) {
	// "Google" is not the builtin google key; it gets the generic rule.
	d := StrategyFor("Google").Derive("Aria", "en-US")
	if d.Name != "en-US-Google-Aria" {
		t.Errorf("name = %q, want %q", d.Name, "en-US-Google-Aria")
	}
	if d.Attribution.URL != "" {
		t.Errorf("attribution url = %q, want empty for generic rule", d.Attribution.URL)
	}
}

func TestSynthesizeCrossProduct(t *testing.T) {
	merged := ProviderTable{
		"google": {
			Voices:    []string{"Aria", "Puck", "Kore"},
			Languages: []string{"en_US", "de_DE", "fr_FR", "it_IT"},
		},
	}

	voices := Synthesize(merged)

	if len(voices) != 12 {
		t.Fatalf("Synthesize produced %d descriptors, want 12 (3 voices x 4 languages)", len(voices))
	}
}

func TestSynthesizeDescriptorFields(t *testing.T) {
	merged := ProviderTable{
		"google": {Voices: []string{"Aria"}, Languages: []string{"en_US"}},
	}

	voices := Synthesize(merged)
	if len(voices) != 1 {
		t.Fatalf("got %d descriptors, want 1", len(voices))
	}

	v := voices[0]
	if v.Name != "en-US-Chirp3-HD-Aria" {
		t.Errorf("name = %q, want %q", v.Name, "en-US-Chirp3-HD-Aria")
	}
	if v.Description != "google_Aria" {
		t.Errorf("description = %q, want %q", v.Description, "google_Aria")
	}
	if !v.Installed {
		t.Error("installed = false, want true")
	}
	// The advertised language keeps the original tag, not the
	// normalized one used in the name.
	if want := []string{"en_US"}; !reflect.DeepEqual(v.Languages, want) {
		t.Errorf("languages = %v, want %v", v.Languages, want)
	}
	if len(v.Speakers) != 0 {
		t.Errorf("speakers = %v, want none", v.Speakers)
	}
}

func TestSynthesizeGlobalNameUniqueness(t *testing.T) {
	merged := ProviderTable{
		"google":  {Voices: []string{"Aria"}, Languages: []string{"en_US"}},
		"openai":  {Voices: []string{"Aria"}, Languages: []string{"en_US"}},
		"custom1": {Voices: []string{"Aria"}, Languages: []string{"en_US"}},
	}

	voices := Synthesize(merged)

	seen := make(map[string]struct{}, len(voices))
	for _, v := range voices {
		if _, dup := seen[v.Name]; dup {
			t.Errorf("duplicate canonical name %q", v.Name)
		}
		seen[v.Name] = struct{}{}
	}
	for _, want := range []string{"en-US-Chirp3-HD-Aria", "en-US-openai-Aria", "en-US-custom1-Aria"} {
		if _, ok := seen[want]; !ok {
			t.Errorf("missing expected name %q in %v", want, voices)
		}
	}
}

func TestSynthesizeDeterministic(t *testing.T) {
	merged := ProviderTable{
		"openai": {Voices: []string{"alloy", "nova"}, Languages: []string{"en_US"}},
		"google": {Voices: []string{"Aria"}, Languages: []string{"en_US", "de_DE"}},
	}

	first := Synthesize(merged)
	second := Synthesize(merged)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated synthesis differs: %v vs %v", first, second)
	}
}
