// Package output serializes graphs across the persistence boundary. The
// encoding is deterministic: map-typed graph fields become lists sorted by
// concept id, JSON keys are ordered, and floats are rounded so that
// re-encoding an unchanged graph is byte-identical.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// floatPrecision is the number of decimal places kept in encoded output.
const floatPrecision = 6

// DeterministicEncode produces byte-stable JSON for any value: keys sorted,
// floats rounded, HTML escaping off.
func DeterministicEncode(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}

	// Round-trip through interface{} so encoding/json's sorted map-key
	// ordering applies to every object, then normalize floats in place.
	var parsed interface{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	parsed = roundFloats(parsed)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(parsed); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// RoundFloat rounds to the encoding precision.
func RoundFloat(f float64) float64 {
	m := math.Pow(10, floatPrecision)
	return math.Round(f*m) / m
}

func roundFloats(v interface{}) interface{} {
	switch val := v.(type) {
	case float64:
		return RoundFloat(val)
	case map[string]interface{}:
		for k, elem := range val {
			val[k] = roundFloats(elem)
		}
		return val
	case []interface{}:
		for i, elem := range val {
			val[i] = roundFloats(elem)
		}
		return val
	default:
		return v
	}
}
