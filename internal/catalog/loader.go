package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
)

// BuiltinFileName is the builtin catalog shipped alongside the binary.
const BuiltinFileName = "voices.json"

// Loader reads the builtin and override provider tables.
type Loader struct {
	// BuiltinPath overrides the candidate-path discovery of voices.json.
	BuiltinPath string

	// OverridePath points at the optional user catalog; empty disables
	// the override entirely.
	OverridePath string

	Log *slog.Logger
}

// Load returns the builtin table and the override table. A missing or
// unparsable builtin catalog is fatal; every override failure degrades
// to an empty override table with a warning.
func (l Loader) Load() (builtin, override ProviderTable, err error) {
	if l.Log == nil {
		l.Log = slog.Default()
	}

	builtin, err = l.loadBuiltin()
	if err != nil {
		return nil, nil, err
	}

	override = l.loadOverride()
	return builtin, override, nil
}

func (l Loader) loadBuiltin() (ProviderTable, error) {
	path := l.BuiltinPath
	if path == "" {
		var err error
		path, err = findBuiltinFile()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read builtin catalog %s: %w", path, err)
	}
	table, err := decodeTable(data)
	if err != nil {
		return nil, fmt.Errorf("catalog: parse builtin catalog %s: %w", path, err)
	}
	l.Log.Debug("builtin catalog loaded", "path", path, "providers", len(table))
	return table, nil
}

func (l Loader) loadOverride() ProviderTable {
	path := l.OverridePath
	if path == "" {
		return ProviderTable{}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			l.Log.Warn("custom voices path set but file does not exist", "path", path)
		} else {
			l.Log.Warn("failed to read custom voices", "path", path, "error", err)
		}
		return ProviderTable{}
	}

	table, err := decodeTable(data)
	if err != nil {
		l.Log.Warn("failed to parse custom voices, using builtin catalog only", "path", path, "error", err)
		return ProviderTable{}
	}
	l.Log.Info("custom voices loaded", "path", path, "providers", len(table))
	return table
}

// decodeTable parses a catalog file and normalizes the shape once at
// the boundary: missing voices/languages keys become empty slices so
// the rest of the pipeline never sees nil.
func decodeTable(data []byte) (ProviderTable, error) {
	var table ProviderTable
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, err
	}
	for key, entry := range table {
		if entry.Voices == nil {
			entry.Voices = []string{}
		}
		if entry.Languages == nil {
			entry.Languages = []string{}
		}
		table[key] = entry
	}
	if table == nil {
		table = ProviderTable{}
	}
	return table, nil
}

// findBuiltinFile looks for voices.json next to the binary, in the
// working directory, and in the source tree root.
func findBuiltinFile() (string, error) {
	var candidates []string
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Dir(exe))
	}
	if wd, err := os.Getwd(); err == nil {
		candidates = append(candidates, wd)
	}
	if _, file, _, ok := runtime.Caller(0); ok {
		srcRoot := filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
		candidates = append(candidates, srcRoot)
	}

	seen := make(map[string]struct{})
	for _, base := range candidates {
		base = filepath.Clean(base)
		if _, ok := seen[base]; ok {
			continue
		}
		seen[base] = struct{}{}

		candidate := filepath.Join(base, BuiltinFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("catalog: %s not found next to binary or source tree", BuiltinFileName)
}
