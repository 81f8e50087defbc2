package rules

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// JSON writes the inventory as indented JSON.
func (inv *Inventory) JSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(inv); err != nil {
		return fmt.Errorf("encoding inventory: %w", err)
	}
	return nil
}

// YAML writes the inventory as YAML.
func (inv *Inventory) YAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(inv); err != nil {
		enc.Close()
		return fmt.Errorf("encoding inventory: %w", err)
	}
	return enc.Close()
}
