package catalog

// Route maps a canonical voice name back to the provider triple that
// produced it, so synthesis requests can be dispatched upstream.
type Route struct {
	Provider string
	Voice    string
	Language string // normalized tag, e.g. "en-US"
}

// Routes builds the canonical-name lookup table for the merged
// catalog. It walks the same cross-product as Synthesize, so every
// advertised name resolves to exactly one route.
func Routes(merged ProviderTable) map[string]Route {
	routes := make(map[string]Route)
	for _, key := range merged.sortedKeys() {
		entry := merged[key]
		strategy := StrategyFor(key)
		for _, voice := range entry.Voices {
			for _, language := range entry.Languages {
				normalized := NormalizeLanguage(language)
				d := strategy.Derive(voice, normalized)
				routes[d.Name] = Route{
					Provider: key,
					Voice:    voice,
					Language: normalized,
				}
			}
		}
	}
	return routes
}
