// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package vartype provides Value, a loosely typed JSON value that keeps track of whether it was
// present in a document at all. The widget uses it to read backend responses without imposing
// stricter typing than the backend contract guarantees.
package vartype

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind describes the JSON type of a Value.
type Kind int

const (
	KindUndefined Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindObject
	KindArray
)

// Value holds a raw JSON value and tracks its initialization state. The zero Value is
// "undefined", i.e. the member was absent from the document.
type Value struct {
	raw   json.RawMessage
	isset bool
}

// NewValue creates a Value from any JSON-marshalable Go value.
func NewValue(val any) (Value, error) {
	raw, err := json.Marshal(val)
	if err != nil {
		return Value{}, fmt.Errorf("failed to marshal value: %w", err)
	}
	return Value{raw: raw, isset: true}, nil
}

// UnmarshalJSON satisfies the json.Unmarshaler interface. JSON null is kept as a set value.
func (v *Value) UnmarshalJSON(b []byte) error {
	v.raw = append(v.raw[:0], b...)
	v.isset = true
	return nil
}

// MarshalJSON satisfies the json.Marshaler interface. An unset Value marshals to null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.isset {
		return []byte("null"), nil
	}
	return v.raw, nil
}

// IsSet returns true if the Value was present in the decoded document.
func (v Value) IsSet() bool {
	return v.isset
}

// Kind returns the JSON type of the Value.
func (v Value) Kind() Kind {
	if !v.isset {
		return KindUndefined
	}
	trimmed := bytes.TrimSpace(v.raw)
	if len(trimmed) == 0 {
		return KindUndefined
	}
	switch trimmed[0] {
	case 'n':
		return KindNull
	case 't', 'f':
		return KindBool
	case '"':
		return KindString
	case '{':
		return KindObject
	case '[':
		return KindArray
	default:
		return KindNumber
	}
}

// Number returns the numeric value and true if the Value is a JSON number.
func (v Value) Number() (float64, bool) {
	if v.Kind() != KindNumber {
		return 0, false
	}
	// Out of range numbers yield ±Inf or 0 together with ErrRange.
	num, err := strconv.ParseFloat(string(bytes.TrimSpace(v.raw)), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return num, true
}

// Field returns the member with the given name of an object Value. Missing members and
// non-object Values yield an undefined Value.
func (v Value) Field(name string) Value {
	if v.Kind() != KindObject {
		return Value{}
	}
	var members map[string]json.RawMessage
	if err := json.Unmarshal(v.raw, &members); err != nil {
		return Value{}
	}
	raw, ok := members[name]
	if !ok {
		return Value{}
	}
	return Value{raw: raw, isset: true}
}

// Truthy reports whether the Value counts as true in a boolean context: false, 0, NaN, "",
// null and undefined are falsy, everything else is truthy.
func (v Value) Truthy() bool {
	switch v.Kind() {
	case KindUndefined, KindNull:
		return false
	case KindBool:
		return bytes.Equal(bytes.TrimSpace(v.raw), []byte("true"))
	case KindNumber:
		num, ok := v.Number()
		return ok && num != 0 && !math.IsNaN(num)
	case KindString:
		return v.str() != ""
	default:
		return true
	}
}

// String returns the natural string form of the Value: numbers in their shortest form,
// strings verbatim, "null" and "undefined" for null and absent values.
func (v Value) String() string {
	switch v.Kind() {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBool:
		return string(bytes.TrimSpace(v.raw))
	case KindNumber:
		num, ok := v.Number()
		if !ok {
			return string(bytes.TrimSpace(v.raw))
		}
		return FormatNumber(num)
	case KindString:
		return v.str()
	case KindArray:
		var elems []Value
		if err := json.Unmarshal(v.raw, &elems); err != nil {
			return ""
		}
		parts := make([]string, len(elems))
		for i, elem := range elems {
			if kind := elem.Kind(); kind == KindNull || kind == KindUndefined {
				continue
			}
			parts[i] = elem.String()
		}
		return strings.Join(parts, ",")
	default:
		return "[object Object]"
	}
}

func (v Value) str() string {
	var s string
	if err := json.Unmarshal(v.raw, &s); err != nil {
		return ""
	}
	return s
}
