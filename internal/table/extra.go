package table

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Extra holds pass-through columns of a source row keyed by normalised name.
// Known fields of a record never appear in its Extra.
type Extra map[string]string

// Collect gathers every column of row not listed in reserved, keyed by
// NormalizeKey, with values trimmed.
//
// Postcondition: Returns nil when no column qualifies.
func Collect(row Row, reserved map[string]bool) Extra {
	return collect(row, reserved, NormalizeKey)
}

// CollectVerbatim is Collect with keys left exactly as the header spells them.
func CollectVerbatim(row Row, reserved map[string]bool) Extra {
	return collect(row, reserved, func(col string) string { return col })
}

func collect(row Row, reserved map[string]bool, keyOf func(string) string) Extra {
	var out Extra
	for _, col := range row.table.Header {
		key := keyOf(col)
		if reserved[key] || reserved[col] {
			continue
		}
		if out == nil {
			out = make(Extra)
		}
		out[key] = row.Trimmed(col)
	}
	return out
}

// MarshalWithExtra encodes v as a JSON object and merges extra into it.
// Fields produced by v take precedence over extra keys of the same name.
func MarshalWithExtra(v any, extra Extra) ([]byte, error) {
	base, err := Encode(v)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return base, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(base, &obj); err != nil {
		return nil, fmt.Errorf("merging extra fields: %w", err)
	}
	for k, val := range extra {
		if _, taken := obj[k]; taken {
			continue
		}
		raw, err := Encode(val)
		if err != nil {
			return nil, err
		}
		obj[k] = raw
	}
	return Encode(obj)
}

// Encode marshals v to compact JSON without HTML escaping, so descriptions
// containing "<" or "&" stay readable in the emitted files.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// SplitExtra decodes data as a JSON object and returns every string member
// whose key is not in known.
//
// Postcondition: Returns nil Extra when there are none; non-string unknown
// members are an error.
func SplitExtra(data []byte, known map[string]bool) (Extra, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	var out Extra
	for k, raw := range obj {
		if known[k] {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		if out == nil {
			out = make(Extra)
		}
		out[k] = s
	}
	return out, nil
}

// KeySet builds a lookup set from keys.
func KeySet(keys ...string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}
