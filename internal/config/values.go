package config

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ToMap converts cfg to the generic map form of its JSON encoding.
func ToMap(cfg *Config) (map[string]any, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal config map: %w", err)
	}
	return m, nil
}

// ListValues returns every setting keyed by its dot-separated path.
func ListValues(cfg *Config) (map[string]any, error) {
	m, err := ToMap(cfg)
	if err != nil {
		return nil, err
	}
	return Flatten(m), nil
}

// GetValue loads the config at path and returns the value at key.
func GetValue(path, key string) (any, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	flat, err := ListValues(cfg)
	if err != nil {
		return nil, err
	}
	v, ok := flat[key]
	if !ok {
		return nil, fmt.Errorf("unknown config key: %s", key)
	}
	return v, nil
}

// SetValue parses raw according to the type of the existing value at key,
// validates the result and saves it back to path. Environment overrides are
// not applied, so they never end up in the file.
func SetValue(path, key, raw string) error {
	cfg, err := readFile(path)
	if err != nil {
		return err
	}
	flat, err := ListValues(cfg)
	if err != nil {
		return err
	}
	current, ok := flat[key]
	if !ok {
		return fmt.Errorf("unknown config key: %s", key)
	}

	var value any
	switch current.(type) {
	case float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("%s expects a number: %w", key, err)
		}
		value = f
	case bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%s expects true or false: %w", key, err)
		}
		value = b
	default:
		value = raw
	}
	flat[key] = value

	data, err := json.Marshal(Unflatten(flat))
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	updated := &Config{}
	if err := json.Unmarshal(data, updated); err != nil {
		return fmt.Errorf("apply %s: %w", key, err)
	}
	if err := Validate(updated); err != nil {
		return err
	}
	return Save(path, updated)
}
