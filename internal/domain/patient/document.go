package patient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// document is a decoded JSON object in key order. values holds the members a
// type does not model, plus modelled members whose stored value had an
// unexpected type; invalid lists the latter.
type document struct {
	keys    []string
	values  map[string]json.RawMessage
	invalid []string
}

// field is a modelled member written by encode.
type field struct {
	key   string
	value any
}

func decodeObject(kind string, data []byte) (document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return document{}, fmt.Errorf("%s: %w", kind, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return document{}, fmt.Errorf("%s: expected a JSON object", kind)
	}

	doc := document{values: map[string]json.RawMessage{}}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return document{}, fmt.Errorf("%s: %w", kind, err)
		}
		key := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return document{}, fmt.Errorf("%s %s: %w", kind, key, err)
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return document{}, fmt.Errorf("%s %s: %w", kind, key, err)
		}
		if _, seen := doc.values[key]; !seen {
			doc.keys = append(doc.keys, key)
		}
		doc.values[key] = buf.Bytes()
	}
	return doc, nil
}

// take decodes the member key into dst and drops it from d.values. A value of
// the wrong type is kept raw, recorded as invalid and dst is left unchanged.
func take[T any](d *document, key string, dst *T) {
	if peek(d, key, dst, false) {
		delete(d.values, key)
	}
}

// peek decodes the member key into dst without dropping it. useNumber keeps
// numbers as json.Number.
func peek[T any](d *document, key string, dst *T, useNumber bool) bool {
	raw, ok := d.values[key]
	if !ok {
		return false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	if useNumber {
		dec.UseNumber()
	}
	var v T
	if err := dec.Decode(&v); err != nil {
		d.invalid = append(d.invalid, key)
		return false
	}
	*dst = v
	return true
}

// set replaces a member without touching the document it was copied from.
func (d document) set(key string, raw json.RawMessage) document {
	values := make(map[string]json.RawMessage, len(d.values)+1)
	for k, v := range d.values {
		values[k] = v
	}
	keys := d.keys
	if !d.hasKey(key) {
		keys = append(append([]string(nil), d.keys...), key)
	}
	values[key] = raw
	return document{keys: keys, values: values, invalid: d.invalid}
}

func (d document) hasKey(key string) bool {
	for _, k := range d.keys {
		if k == key {
			return true
		}
	}
	return false
}

// holds reports whether key is kept raw.
func (d document) holds(key string) bool {
	_, ok := d.values[key]
	return ok
}

// check reports the members kept raw because of their type.
func (d document) check(kind string) error {
	if len(d.invalid) == 0 {
		return nil
	}
	return fmt.Errorf("%s: unexpected type for %s", kind, strings.Join(d.invalid, ", "))
}

// compact releases an empty document so values built in code and values
// decoded from storage compare equal.
func (d document) compact() document {
	if len(d.values) == 0 && len(d.invalid) == 0 {
		return document{}
	}
	return d
}

// encode writes an object in stored key order, then the remaining fields in
// the order given. A member kept raw is written in place of its field while
// the field is still zero.
func (d document) encode(fields []field) ([]byte, error) {
	byKey := make(map[string]any, len(fields))
	for _, f := range fields {
		byKey[f.key] = f.value
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	written := make(map[string]bool, len(d.keys)+len(fields))
	write := func(key string, v any) error {
		raw, ok := v.(json.RawMessage)
		if !ok {
			var err error
			if raw, err = marshalValue(v); err != nil {
				return fmt.Errorf("encode %s: %w", key, err)
			}
		}
		name, _ := json.Marshal(key)
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(raw)
		written[key] = true
		return nil
	}

	for _, key := range d.keys {
		raw, hasRaw := d.values[key]
		v, modelled := byKey[key]
		var err error
		switch {
		case modelled && !(hasRaw && isZero(v)):
			err = write(key, v)
		case hasRaw:
			err = write(key, raw)
		}
		if err != nil {
			return nil, err
		}
	}
	for _, f := range fields {
		if written[f.key] {
			continue
		}
		if err := write(f.key, f.value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalValue leaves markup unescaped; the caller's encoder decides.
func marshalValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func isZero(v any) bool {
	if v == nil {
		return true
	}
	return reflect.ValueOf(v).IsZero()
}
