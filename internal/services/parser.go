package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Capstone-E1/aquasmart_wqi/internal/models"
	"github.com/Capstone-E1/aquasmart_wqi/internal/wqi"
)

// MeasurementParser turns device and file payloads into evaluation requests
type MeasurementParser struct{}

// NewMeasurementParser creates a new instance of MeasurementParser
func NewMeasurementParser() *MeasurementParser {
	return &MeasurementParser{}
}

// Parse tries JSON first and falls back to the key=value text format
func (mp *MeasurementParser) Parse(payload []byte) (*models.EvaluationRequest, error) {
	req, jsonErr := mp.ParseJSON(payload)
	if jsonErr == nil {
		return req, nil
	}

	req, err := mp.ParseText(string(payload))
	if err != nil {
		return nil, fmt.Errorf("payload is neither JSON (%v) nor key=value text (%w)", jsonErr, err)
	}
	return req, nil
}

// ParseJSON accepts {"device_id": "...", "values": {...}} or a flat object of parameter values
func (mp *MeasurementParser) ParseJSON(payload []byte) (*models.EvaluationRequest, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, fmt.Errorf("failed to parse measurement JSON: %w", err)
	}

	req := &models.EvaluationRequest{}
	if raw, ok := fields["device_id"]; ok {
		if err := json.Unmarshal(raw, &req.DeviceID); err != nil {
			return nil, fmt.Errorf("device_id must be a string: %w", err)
		}
		delete(fields, "device_id")
	}

	if raw, ok := fields["values"]; ok {
		if len(fields) > 1 {
			return nil, fmt.Errorf("unexpected fields next to values: %s", strings.Join(extraKeys(fields, "values"), ", "))
		}
		if err := json.Unmarshal(raw, &req.Values); err != nil {
			return nil, fmt.Errorf("failed to parse values: %w", err)
		}
		if req.Values == nil {
			req.Values = wqi.MeasurementSet{}
		}
		return req, nil
	}

	req.Values = make(wqi.MeasurementSet, len(fields))
	for key, raw := range fields {
		var v float64
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("parameter %s: value must be a number: %w", key, err)
		}
		req.Values[key] = v
	}
	return req, nil
}

// ParseText parses "TDS=500,pH=7.0,..." (commas, semicolons or newlines separate pairs)
func (mp *MeasurementParser) ParseText(payload string) (*models.EvaluationRequest, error) {
	var pairs []string
	for _, p := range strings.FieldsFunc(payload, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n' || r == '\r'
	}) {
		if strings.TrimSpace(p) != "" {
			pairs = append(pairs, p)
		}
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("empty measurement payload")
	}

	req := &models.EvaluationRequest{Values: make(wqi.MeasurementSet, len(pairs))}
	for _, pair := range pairs {
		key, value, err := ParseAssignment(pair)
		if err != nil {
			return nil, err
		}
		if key == "device_id" {
			req.DeviceID = value
			continue
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: invalid number %q", key, value)
		}
		if _, dup := req.Values[key]; dup {
			return nil, fmt.Errorf("parameter %s given twice", key)
		}
		req.Values[key] = v
	}
	return req, nil
}

// ParseYAML reads a measurement document, either with a values block or flat
func (mp *MeasurementParser) ParseYAML(data []byte) (*models.EvaluationRequest, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse measurement YAML: %w", err)
	}
	if len(doc.Content) == 0 {
		return &models.EvaluationRequest{Values: wqi.MeasurementSet{}}, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("measurement YAML must be a mapping")
	}

	hasValues := false
	for i := 0; i < len(root.Content); i += 2 {
		if root.Content[i].Value == "values" {
			hasValues = true
		}
	}

	req := &models.EvaluationRequest{}
	if hasValues {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(req); err != nil {
			return nil, fmt.Errorf("failed to decode measurement YAML: %w", err)
		}
		if req.Values == nil {
			req.Values = wqi.MeasurementSet{}
		}
		return req, nil
	}

	req.Values = make(wqi.MeasurementSet, len(root.Content)/2)
	for i := 0; i < len(root.Content); i += 2 {
		key, val := root.Content[i].Value, root.Content[i+1]
		if key == "device_id" {
			req.DeviceID = val.Value
			continue
		}
		var v float64
		if err := val.Decode(&v); err != nil {
			return nil, fmt.Errorf("parameter %s: value must be a number: %w", key, err)
		}
		req.Values[key] = v
	}
	return req, nil
}

// ParseAssignment splits "key=value"
func ParseAssignment(s string) (string, string, error) {
	key, value, ok := strings.Cut(s, "=")
	key, value = strings.TrimSpace(key), strings.TrimSpace(value)
	if !ok || key == "" || value == "" {
		return "", "", fmt.Errorf("expected key=value, got %q", s)
	}
	return key, value, nil
}

// FormatMeasurements formats a measurement set for logging, keys sorted
func (mp *MeasurementParser) FormatMeasurements(m wqi.MeasurementSet) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%.2f", k, m[k])
	}
	return strings.Join(parts, ", ")
}

func extraKeys(fields map[string]json.RawMessage, except string) []string {
	var keys []string
	for k := range fields {
		if k != except {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
