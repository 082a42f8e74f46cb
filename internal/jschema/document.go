// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package jschema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"gopkg.in/yaml.v3"
)

// document is one fetched schema file, kept as a generic tree so any JSON
// pointer can be followed, plus the key order of every object in it.
type document struct {
	uri      string
	raw      any
	keyOrder map[string][]string // JSON pointer of an object -> keys in document order
}

func parseDocument(uri string, data []byte) (*document, error) {
	doc := &document{uri: uri}

	var err error
	if isYAML(uri, data) {
		doc.raw, doc.keyOrder, err = parseYAML(data)
	} else {
		doc.raw, doc.keyOrder, err = parseJSON(data)
	}
	if err != nil {
		return nil, newError(ErrSchemaParse, uri, "", err)
	}

	// Decode the whole document once so malformed keywords are reported
	// up front, not at first use.
	if _, ok := doc.raw.(bool); !ok {
		if _, err := decodeSchema(doc.raw); err != nil {
			return nil, newError(ErrSchemaParse, uri, "", err)
		}
	}
	return doc, nil
}

func isYAML(uri string, data []byte) bool {
	p := uri
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	switch {
	case strings.HasSuffix(p, ".yaml"), strings.HasSuffix(p, ".yml"):
		return true
	case strings.HasSuffix(p, ".json"):
		return false
	}
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || (trimmed[0] != '{' && trimmed[0] != '[')
}

func parseJSON(data []byte) (any, map[string][]string, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, err
	}
	keyOrder, err := ExtractKeyOrderFromJSON(data)
	if err != nil {
		return nil, nil, err
	}
	return raw, keyOrder, nil
}

func parseYAML(data []byte) (any, map[string][]string, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, nil, err
	}
	if root.Kind == 0 {
		return nil, nil, errors.New("empty document")
	}
	var raw any
	if err := root.Decode(&raw); err != nil {
		return nil, nil, err
	}
	raw, err := normalizeYAML(raw)
	if err != nil {
		return nil, nil, err
	}
	return raw, ExtractKeyOrderFromYAML(&root), nil
}

// normalizeYAML converts YAML-decoded values into the shapes encoding/json
// produces, so both formats share one code path.
func normalizeYAML(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			n, err := normalizeYAML(val)
			if err != nil {
				return nil, err
			}
			t[k] = n
		}
		return t, nil
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			n, err := normalizeYAML(val)
			if err != nil {
				return nil, err
			}
			m[fmt.Sprint(k)] = n
		}
		return m, nil
	case []any:
		for i, val := range t {
			n, err := normalizeYAML(val)
			if err != nil {
				return nil, err
			}
			t[i] = n
		}
		return t, nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case uint64:
		return float64(t), nil
	default:
		return v, nil
	}
}

// ExtractKeyOrderFromJSON walks raw JSON and records the key order of every
// object, keyed by the object's JSON pointer ("" for the document root).
func ExtractKeyOrderFromJSON(data []byte) (map[string][]string, error) {
	result := make(map[string][]string)

	var extract func(dec *json.Decoder, ptr string) error
	extract = func(dec *json.Decoder, ptr string) error {
		token, err := dec.Token()
		if err != nil {
			return err
		}
		t, ok := token.(json.Delim)
		if !ok {
			return nil
		}
		switch t {
		case '{':
			var keys []string
			for dec.More() {
				keyToken, err := dec.Token()
				if err != nil {
					return err
				}
				key, ok := keyToken.(string)
				if !ok {
					continue
				}
				keys = append(keys, key)
				if err := extract(dec, ptr+"/"+EscapePointer(key)); err != nil {
					return err
				}
			}
			if _, err := dec.Token(); err != nil {
				return err
			}
			result[ptr] = keys
		case '[':
			for i := 0; dec.More(); i++ {
				if err := extract(dec, ptr+"/"+strconv.Itoa(i)); err != nil {
					return err
				}
			}
			if _, err := dec.Token(); err != nil {
				return err
			}
		}
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if err := extract(dec, ""); err != nil {
		return nil, err
	}
	return result, nil
}

// ExtractKeyOrderFromYAML records the key order of every mapping in a parsed
// YAML document, keyed by JSON pointer.
func ExtractKeyOrderFromYAML(root *yaml.Node) map[string][]string {
	result := make(map[string][]string)

	var extract func(n *yaml.Node, ptr string)
	extract = func(n *yaml.Node, ptr string) {
		switch n.Kind {
		case yaml.DocumentNode:
			for _, c := range n.Content {
				extract(c, ptr)
			}
		case yaml.AliasNode:
			if n.Alias != nil {
				extract(n.Alias, ptr)
			}
		case yaml.MappingNode:
			keys := make([]string, 0, len(n.Content)/2)
			for i := 0; i+1 < len(n.Content); i += 2 {
				key := n.Content[i].Value
				keys = append(keys, key)
				extract(n.Content[i+1], ptr+"/"+EscapePointer(key))
			}
			result[ptr] = keys
		case yaml.SequenceNode:
			for i, c := range n.Content {
				extract(c, ptr+"/"+strconv.Itoa(i))
			}
		}
	}

	extract(root, "")
	return result
}

// lookup follows a JSON pointer through the generic document tree.
func (d *document) lookup(ptr string) (any, bool) {
	if ptr == "" || ptr == "/" {
		return d.raw, true
	}
	if !strings.HasPrefix(ptr, "/") {
		return nil, false
	}
	cur := d.raw
	for _, seg := range strings.Split(ptr[1:], "/") {
		seg = UnescapePointer(seg)
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

// orderedKeys returns the keys of the object at ptr in document order.
func (d *document) orderedKeys(ptr string, obj map[string]any) []string {
	order := d.keyOrder[ptr]
	seen := make(map[string]bool, len(obj))
	keys := make([]string, 0, len(obj))
	for _, k := range order {
		if _, ok := obj[k]; ok && !seen[k] {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range obj {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)
	return append(keys, rest...)
}

// decodeSchema decodes a generic subtree into a typed schema. The input is
// never modified.
func decodeSchema(raw any) (*jsonschema.Schema, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var s jsonschema.Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// EscapePointer escapes a single JSON pointer reference token.
func EscapePointer(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")
	return strings.ReplaceAll(s, "/", "~1")
}

// UnescapePointer reverses EscapePointer.
func UnescapePointer(s string) string {
	s = strings.ReplaceAll(s, "~1", "/")
	return strings.ReplaceAll(s, "~0", "~")
}
