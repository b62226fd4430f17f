// Package programinfo supplies the static program metadata advertised
// to Wyoming clients. Values come from program.yaml when one ships
// next to the binary; otherwise the compiled-in defaults apply so the
// daemon still starts in minimal containers.
package programinfo

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/eslavnov/wyoming-cloud-streamer/internal/wyoming"
)

const manifestFileName = "program.yaml"

// Defaults used when no manifest is found.
const (
	DefaultName        = "Cloud TTS Streamer"
	DefaultDescription = "Wyoming streaming proxy for cloud TTS providers"
	DefaultVersion     = "1.0.0"
	DefaultAttrName    = "eslavnov"
	DefaultAttrURL     = "https://github.com/eslavnov/wyoming-cloud-streamer"
)

// Metadata identifies the program in capability advertisements.
type Metadata struct {
	Name        string
	Description string
	Version     string
	Attribution wyoming.Attribution
}

// Load finds and parses program.yaml, falling back to defaults for the
// whole manifest when none exists and per-field when entries are blank.
func Load() (Metadata, error) {
	data, ok := findManifest()
	if !ok {
		return defaults(), nil
	}
	return parseManifest(data)
}

func defaults() Metadata {
	return Metadata{
		Name:        DefaultName,
		Description: DefaultDescription,
		Version:     DefaultVersion,
		Attribution: wyoming.Attribution{Name: DefaultAttrName, URL: DefaultAttrURL},
	}
}

// findManifest checks next to the binary, the working directory, and
// the source tree root.
func findManifest() ([]byte, bool) {
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

		if data, err := os.ReadFile(filepath.Join(base, manifestFileName)); err == nil {
			return data, true
		}
	}
	return nil, false
}

type manifestDocument struct {
	Program struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Version     string `yaml:"version"`
		Attribution struct {
			Name string `yaml:"name"`
			URL  string `yaml:"url"`
		} `yaml:"attribution"`
	} `yaml:"program"`
}

func parseManifest(data []byte) (Metadata, error) {
	var doc manifestDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Metadata{}, fmt.Errorf("programinfo: decode manifest: %w", err)
	}

	meta := Metadata{
		Name:        strings.TrimSpace(doc.Program.Name),
		Description: strings.TrimSpace(doc.Program.Description),
		Version:     strings.TrimSpace(doc.Program.Version),
		Attribution: wyoming.Attribution{
			Name: strings.TrimSpace(doc.Program.Attribution.Name),
			URL:  strings.TrimSpace(doc.Program.Attribution.URL),
		},
	}

	if meta.Name == "" {
		meta.Name = DefaultName
	}
	if meta.Description == "" {
		meta.Description = DefaultDescription
	}
	if meta.Version == "" {
		meta.Version = DefaultVersion
	}
	if meta.Attribution.Name == "" {
		meta.Attribution.Name = DefaultAttrName
	}
	if meta.Attribution.URL == "" {
		meta.Attribution.URL = DefaultAttrURL
	}
	return meta, nil
}
