package catalog

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/eslavnov/wyoming-cloud-streamer/internal/wyoming"
)

// Derivation is the canonical identity of one advertisable voice.
type Derivation struct {
	Name        string
	Description string
	Attribution wyoming.Attribution
}

// NamingStrategy derives the canonical voice name, description, and
// attribution for a provider. The language tag is already normalized
// (first underscore rewritten as a hyphen).
type NamingStrategy interface {
	Derive(voice, language string) Derivation
}

// strategies maps provider keys to their naming rules. Keys not listed
// here fall back to the generic strategy. Match is case-sensitive.
var strategies = map[string]NamingStrategy{
	"google": googleStrategy{},
	"openai": openaiStrategy{},
}

// StrategyFor returns the naming strategy for a provider key.
func StrategyFor(key string) NamingStrategy {
	if s, ok := strategies[key]; ok {
		return s
	}
	return genericStrategy{key: key}
}

type googleStrategy struct{}

func (googleStrategy) Derive(voice, language string) Derivation {
	return Derivation{
		Name:        language + "-Chirp3-HD-" + voice,
		Description: "google_" + voice,
		Attribution: wyoming.Attribution{
			Name: "Google",
			URL:  "https://cloud.google.com/text-to-speech/docs/chirp3-hd",
		},
	}
}

type openaiStrategy struct{}

func (openaiStrategy) Derive(voice, language string) Derivation {
	return Derivation{
		Name:        language + "-openai-" + voice,
		Description: "openai_" + voice,
		Attribution: wyoming.Attribution{
			Name: "OpenAI",
			URL:  "https://platform.openai.com/docs/guides/text-to-speech",
		},
	}
}

// genericStrategy covers custom provider keys: the key itself becomes
// the provider segment of the name and, capitalized, the attribution.
type genericStrategy struct {
	key string
}

func (g genericStrategy) Derive(voice, language string) Derivation {
	return Derivation{
		Name:        language + "-" + g.key + "-" + voice,
		Description: g.key + "_" + voice,
		Attribution: wyoming.Attribution{Name: capitalize(g.key)},
	}
}

// NormalizeLanguage rewrites only the first underscore of a language
// tag as a hyphen: "en_US" becomes "en-US", "en_US_extra" becomes
// "en-US_extra".
func NormalizeLanguage(tag string) string {
	return strings.Replace(tag, "_", "-", 1)
}

// capitalize uppercases the first rune and lowercases the rest, the
// same rule catalog authors see applied to custom keys today ("ibm"
// renders as "Ibm").
func capitalize(s string) string {
	if s == "" {
		return s
	}
	first, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(first)) + strings.ToLower(s[size:])
}

// Synthesize walks the full voices x languages cross-product of every
// provider in the merged table and produces one descriptor per
// combination. Provider keys are visited in sorted order so the output
// is deterministic; the advertiser re-sorts by name regardless.
func Synthesize(merged ProviderTable) []wyoming.TtsVoice {
	var voices []wyoming.TtsVoice
	for _, key := range merged.sortedKeys() {
		entry := merged[key]
		strategy := StrategyFor(key)
		for _, voice := range entry.Voices {
			for _, language := range entry.Languages {
				d := strategy.Derive(voice, NormalizeLanguage(language))
				voices = append(voices, wyoming.TtsVoice{
					Name:        d.Name,
					Description: d.Description,
					Attribution: d.Attribution,
					Installed:   true,
					Languages:   []string{language},
				})
			}
		}
	}
	return voices
}
