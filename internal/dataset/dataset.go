// Package dataset loads claim sets for batch-mode runs: one claim
// plus its ground-truth label per entry, from JSONL or YAML files.
package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Claim is one row of a claim set: the natural-language claim and its
// ground-truth label, if known (label is empty for unlabeled claims).
type Claim struct {
	Claim       string `json:"claim" yaml:"claim"`
	GroundTruth string `json:"label" yaml:"label"`
}

// Load reads a claim set from path, dispatching on file extension: ".jsonl"
// for newline-delimited JSON objects, ".yaml"/".yml" for a YAML list.
func Load(path string) ([]Claim, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".jsonl":
		return loadJSONL(path)
	case ".yaml", ".yml":
		return loadYAML(path)
	default:
		return nil, fmt.Errorf("dataset: unsupported extension %q for %s", ext, path)
	}
}

func loadJSONL(path string) ([]Claim, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer f.Close()

	var claims []Claim
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var c Claim
		if err := json.Unmarshal([]byte(line), &c); err != nil {
			return nil, fmt.Errorf("dataset: parse %s line %d: %w", path, lineNo, err)
		}
		claims = append(claims, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("dataset: read %s: %w", path, err)
	}
	return claims, nil
}

func loadYAML(path string) ([]Claim, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	var claims []Claim
	if err := yaml.Unmarshal(data, &claims); err != nil {
		return nil, fmt.Errorf("dataset: parse %s: %w", path, err)
	}
	return claims, nil
}

// Slice applies the batch-mode start_index/max_samples window to
// a loaded claim set.
func Slice(claims []Claim, startIndex, maxSamples int) []Claim {
	if startIndex < 0 {
		startIndex = 0
	}
	if startIndex >= len(claims) {
		return nil
	}
	windowed := claims[startIndex:]
	if maxSamples > 0 && maxSamples < len(windowed) {
		windowed = windowed[:maxSamples]
	}
	return windowed
}
