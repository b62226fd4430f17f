// Package catalog builds the voice catalog the streamer advertises.
// At startup it loads the builtin provider table, merges an optional
// user override table, derives a canonical name for every
// (provider, voice, language) combination, and packages the sorted
// result into the Wyoming info payload.
package catalog

import "slices"

// ProviderEntry lists the base voice names and language tags one
// provider offers. Voices and languages are catalogs, not pairs: every
// voice is advertised once per language.
type ProviderEntry struct {
	Voices    []string `json:"voices"`
	Languages []string `json:"languages"`
}

// ProviderTable maps a provider key ("google", "openai", or any custom
// key) to its entry. Tables only live during startup; once descriptors
// are built they are discarded.
type ProviderTable map[string]ProviderEntry

// clone returns a deep copy so merges never alias the input slices.
func (e ProviderEntry) clone() ProviderEntry {
	return ProviderEntry{
		Voices:    slices.Clone(e.Voices),
		Languages: slices.Clone(e.Languages),
	}
}

// sortedKeys returns the provider keys in lexicographic order. Map
// iteration order is randomized; walking keys sorted keeps descriptor
// construction and logs deterministic.
func (t ProviderTable) sortedKeys() []string {
	keys := make([]string, 0, len(t))
	for key := range t {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
