package catalog

// Merge combines the builtin table with a user override table. For
// every provider present in either input the merged entry keeps all
// builtin voices and languages in their original order, followed by
// override entries not already present. Providers only in the override
// table are inserted unchanged. Merge is pure: inputs are never
// mutated and identical inputs always produce identical entries.
func Merge(builtin, override ProviderTable) ProviderTable {
	merged := make(ProviderTable, len(builtin)+len(override))
	for key, entry := range builtin {
		merged[key] = entry.clone()
	}

	for key, entry := range override {
		base, ok := merged[key]
		if !ok {
			merged[key] = entry.clone()
			continue
		}
		base.Voices = mergeLists(base.Voices, entry.Voices)
		base.Languages = mergeLists(base.Languages, entry.Languages)
		merged[key] = base
	}
	return merged
}

// mergeLists builds an order-preserving duplicate-free union: base
// entries first, then extra entries not yet seen. Membership is exact
// string equality.
func mergeLists(base, extra []string) []string {
	out := make([]string, 0, len(base)+len(extra))
	seen := make(map[string]struct{}, len(base)+len(extra))
	for _, lists := range [2][]string{base, extra} {
		for _, s := range lists {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}
