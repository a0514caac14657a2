package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ternarybob/testpilot/internal/models"
	"gopkg.in/yaml.v3"
)

const (
	// FormatJSON writes the analysis document as indented JSON
	FormatJSON = "json"
	// FormatYAML writes the analysis document as YAML
	FormatYAML = "yaml"
)

// MarshalDocument serialises the records in the given format
func MarshalDocument(format string, records []models.AnalysisRecord) ([]byte, error) {
	if records == nil {
		records = []models.AnalysisRecord{}
	}

	switch format {
	case "", FormatJSON:
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode analysis document: %w", err)
		}
		return data, nil
	case FormatYAML:
		var buf bytes.Buffer
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(records); err != nil {
			return nil, fmt.Errorf("failed to encode analysis document: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode analysis document: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported analysis document format: %s", format)
	}
}

// WriteDocument replaces path with the serialised records
func WriteDocument(path, format string, records []models.AnalysisRecord) error {
	data, err := MarshalDocument(format, records)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write analysis document %s: %w", path, err)
	}
	return nil
}

// ReadDocument loads a previously written analysis document. Files ending in
// .yaml or .yml are read as YAML, everything else as JSON.
func ReadDocument(path string) ([]models.AnalysisRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read analysis document %s: %w", path, err)
	}

	records := make([]models.AnalysisRecord, 0)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &records)
	default:
		err = json.Unmarshal(data, &records)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse analysis document %s: %w", path, err)
	}

	return records, nil
}
