package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	contractx "github.com/tanpawarit/chative-shop-assistant/agent/contract"
	"gopkg.in/yaml.v3"
)

// document accepts either a bare list of items or an object with an items key.
type document struct {
	Items []contractx.Item `json:"items" yaml:"items"`
}

func loadYAML(path string) ([]contractx.Item, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var list []contractx.Item
	if err := yaml.Unmarshal(raw, &list); err == nil {
		return keepValid(list), nil
	}
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml catalog: %w", err)
	}
	return keepValid(doc.Items), nil
}

func loadJSON(path string) ([]contractx.Item, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var list []contractx.Item
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("decode json catalog: %w", err)
		}
		return keepValid(list), nil
	}
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode json catalog: %w", err)
	}
	return keepValid(doc.Items), nil
}
