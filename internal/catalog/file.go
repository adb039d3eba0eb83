// Package catalog reads rule catalogs from files on disk.
package catalog

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"caregiver-support/internal/core"
)

// LoadFile reads a YAML rule catalog from path.  Unknown keys are rejected
// so that a typo such as "trigger:" does not silently drop a rule.
func LoadFile(path string) (core.RuleSpecs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.RuleSpecs{}, fmt.Errorf("read rules file %s: %w", path, err)
	}
	specs, err := Decode(data)
	if err != nil {
		return core.RuleSpecs{}, fmt.Errorf("parse rules file %s: %w", path, err)
	}
	return specs, nil
}

// Decode parses a YAML rule catalog.
func Decode(data []byte) (core.RuleSpecs, error) {
	var specs core.RuleSpecs
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&specs); err != nil && err != io.EOF {
		return core.RuleSpecs{}, err
	}
	return specs, nil
}

// Encode writes specs as YAML to w.
func Encode(w io.Writer, specs core.RuleSpecs) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(specs); err != nil {
		return err
	}
	return enc.Close()
}
