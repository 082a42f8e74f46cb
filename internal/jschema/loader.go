// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package jschema

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"go.uber.org/zap"
)

// Defaults for remote fetches.
const (
	DefaultTimeout = 30 * time.Second
	DefaultRetries = 2
	DefaultBackoff = 250 * time.Millisecond
)

// Loader loads schemas from a filesystem or over HTTP and resolves them
// into a SchemaNode graph. A Loader holds no per-load state and may be
// shared between goroutines.
type Loader struct {
	fsys           fs.FS
	client         *http.Client
	timeout        time.Duration
	retries        int
	backoff        time.Duration
	logger         *zap.Logger
	allowRecursive bool
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient sets the client used for http(s) sources.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) { l.client = c }
}

// WithTimeout sets the per-attempt timeout for remote fetches.
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// WithRetries sets how many times a failed remote fetch is retried and the
// initial backoff between attempts, doubled after each retry.
func WithRetries(n int, backoff time.Duration) Option {
	return func(l *Loader) {
		if n >= 0 {
			l.retries = n
		}
		if backoff >= 0 {
			l.backoff = backoff
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// AllowRecursive keeps structural reference cycles in the graph instead of
// failing with ErrCyclicReference. Pure $ref alias cycles always fail.
func AllowRecursive(allow bool) Option {
	return func(l *Loader) { l.allowRecursive = allow }
}

// NewLoader creates a Loader that reads local documents from fsys.
func NewLoader(fsys fs.FS, opts ...Option) *Loader {
	l := &Loader{
		fsys:    fsys,
		client:  http.DefaultClient,
		timeout: DefaultTimeout,
		retries: DefaultRetries,
		backoff: DefaultBackoff,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches source and resolves it into a Graph.
//
// The source is a path inside the loader's filesystem or an http(s) URI,
// optionally followed by a fragment naming the definition to load:
//
//	schema.json                    the document root
//	schema.json#/definitions/Point one definition
//	schema.json#/definitions/      every definition under the pointer
func (l *Loader) Load(ctx context.Context, source string) (*Graph, error) {
	docURI, fragment, _ := strings.Cut(source, "#")
	if docURI == "" {
		return nil, newError(ErrSchemaNotFound, source, "", errors.New("empty schema source"))
	}
	if !isRemote(docURI) {
		docURI = path.Clean(strings.TrimPrefix(docURI, "./"))
	}
	ptr, err := url.PathUnescape(fragment)
	if err != nil {
		return nil, newError(ErrSchemaNotFound, docURI, fragment, err)
	}

	r := &resolution{
		Loader: l,
		ctx:    ctx,
		docs:   make(map[string]*document),
		nodes:  make(map[string]*SchemaNode),
		state:  make(map[string]visitState),
	}

	doc, err := r.document(docURI)
	if err != nil {
		return nil, err
	}

	graph := &Graph{}
	switch {
	case ptr != "/" && strings.HasSuffix(ptr, "/"):
		ptr = strings.TrimSuffix(ptr, "/")
		raw, ok := doc.lookup(ptr)
		if !ok {
			return nil, newError(ErrSchemaNotFound, docURI, ptr, errors.New("definition path not found"))
		}
		defs, ok := raw.(map[string]any)
		if !ok {
			return nil, newError(ErrSchemaParse, docURI, ptr, errors.New("definition path is not an object"))
		}
		for _, name := range doc.orderedKeys(ptr, defs) {
			node, err := r.resolve(doc, ptr+"/"+EscapePointer(name), name)
			if err != nil {
				return nil, err
			}
			graph.Roots = appendUnique(graph.Roots, node)
		}
	default:
		if _, ok := doc.lookup(ptr); !ok {
			return nil, newError(ErrSchemaNotFound, docURI, ptr, errors.New("definition not found"))
		}
		node, err := r.resolve(doc, ptr, rootName(doc, ptr))
		if err != nil {
			return nil, err
		}
		graph.Roots = append(graph.Roots, node)
	}

	graph.Sources = r.sources
	l.logger.Debug("schema loaded",
		zap.String("source", source),
		zap.Int("roots", len(graph.Roots)),
		zap.Int("documents", len(r.sources)),
		zap.Int("nodes", len(r.nodes)))
	return graph, nil
}

type visitState int

const (
	unvisited visitState = iota
	aliasing             // following a $ref chain
	visiting             // building a concrete node
	done
)

// resolution holds the state of one Load call.
type resolution struct {
	*Loader
	ctx     context.Context
	docs    map[string]*document
	sources []string
	nodes   map[string]*SchemaNode
	state   map[string]visitState
	stack   []string
}

func (r *resolution) document(uri string) (*document, error) {
	if doc, ok := r.docs[uri]; ok {
		return doc, nil
	}
	data, err := r.fetch(r.ctx, uri)
	if err != nil {
		return nil, err
	}
	doc, err := parseDocument(uri, data)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("fetched schema document", zap.String("uri", uri), zap.Int("bytes", len(data)))
	r.docs[uri] = doc
	r.sources = append(r.sources, uri)
	return doc, nil
}

func nodeKey(doc *document, ptr string) string {
	return doc.uri + "#" + ptr
}

// resolve returns the node for the schema at ptr in doc. A schema that is a
// bare $ref resolves to its target's node.
func (r *resolution) resolve(doc *document, ptr, name string) (*SchemaNode, error) {
	key := nodeKey(doc, ptr)
	switch r.state[key] {
	case done:
		return r.nodes[key], nil
	case aliasing:
		return nil, r.cycleError(doc, ptr, key)
	case visiting:
		if r.allowRecursive {
			return r.nodes[key], nil
		}
		return nil, r.cycleError(doc, ptr, key)
	}

	raw, ok := doc.lookup(ptr)
	if !ok {
		return nil, newError(ErrUnresolvedReference, doc.uri, ptr, errors.New("no schema at pointer"))
	}

	r.stack = append(r.stack, key)
	defer func() { r.stack = r.stack[:len(r.stack)-1] }()

	if m, ok := raw.(map[string]any); ok {
		if ref, ok := m["$ref"].(string); ok {
			r.state[key] = aliasing
			target, err := r.follow(doc, ptr, ref)
			if err != nil {
				return nil, err
			}
			r.nodes[key] = target
			r.state[key] = done
			return target, nil
		}
	}

	node := &SchemaNode{Name: name, Pointer: key}
	r.nodes[key] = node
	r.state[key] = visiting
	if err := r.fill(node, doc, ptr, raw); err != nil {
		return nil, err
	}
	r.state[key] = done
	return node, nil
}

func (r *resolution) cycleError(doc *document, ptr, key string) error {
	start := slices.Index(r.stack, key)
	chain := append(slices.Clone(r.stack[max(start, 0):]), key)
	return &Error{
		Kind:    ErrCyclicReference,
		Source:  doc.uri,
		Pointer: ptr,
		Err:     errors.New(strings.Join(chain, " -> ")),
	}
}

// follow resolves a $ref found at ptr in doc.
func (r *resolution) follow(doc *document, ptr, ref string) (*SchemaNode, error) {
	unresolved := func(err error) error {
		return &Error{Kind: ErrUnresolvedReference, Source: doc.uri, Pointer: ptr, Ref: ref, Err: err}
	}

	refDoc, fragment, _ := strings.Cut(ref, "#")
	target := doc
	if IsFileRef(ref) {
		uri, err := resolveURI(doc.uri, refDoc)
		if err != nil {
			return nil, unresolved(err)
		}
		target, err = r.document(uri)
		if err != nil {
			return nil, unresolved(err)
		}
	}

	tptr, err := url.PathUnescape(fragment)
	if err != nil {
		return nil, unresolved(err)
	}
	if tptr != "" && !strings.HasPrefix(tptr, "/") {
		return nil, unresolved(fmt.Errorf("anchor references are not supported"))
	}
	if _, ok := target.lookup(tptr); !ok {
		return nil, unresolved(errors.New("target does not exist"))
	}

	node, err := r.resolve(target, tptr, rootName(target, tptr))
	if err != nil {
		return nil, err
	}
	return node, nil
}

// resolveURI resolves ref against the document base.
func resolveURI(base, ref string) (string, error) {
	if isRemote(ref) {
		return ref, nil
	}
	if isRemote(base) {
		b, err := url.Parse(base)
		if err != nil {
			return "", err
		}
		rel, err := url.Parse(ref)
		if err != nil {
			return "", err
		}
		return b.ResolveReference(rel).String(), nil
	}
	if strings.Contains(ref, "://") {
		return "", fmt.Errorf("unsupported reference scheme in %q", ref)
	}
	p := path.Join(path.Dir(base), ref)
	if !fsPathValid(p) {
		return "", fmt.Errorf("%q escapes the schema root", ref)
	}
	return p, nil
}

// rootName names the schema at ptr: the last pointer segment, or for a
// document root its title or file name.
func rootName(doc *document, ptr string) string {
	if ptr != "" && ptr != "/" {
		seg := ptr[strings.LastIndex(ptr, "/")+1:]
		return UnescapePointer(seg)
	}
	if m, ok := doc.raw.(map[string]any); ok {
		if title, ok := m["title"].(string); ok && title != "" {
			return title
		}
	}
	base := doc.uri
	if isRemote(base) {
		if u, err := url.Parse(base); err == nil {
			base = u.Path
		}
	}
	base = path.Base(base)
	return strings.TrimSuffix(base, path.Ext(base))
}

func (r *resolution) fill(node *SchemaNode, doc *document, ptr string, raw any) error {
	if b, ok := raw.(bool); ok {
		if !b {
			node.Unsupported = append(node.Unsupported, "false schema")
		}
		return nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return newError(ErrSchemaParse, doc.uri, ptr, errors.New("schema must be an object or a boolean"))
	}
	s, err := decodeSchema(m)
	if err != nil {
		return newError(ErrSchemaParse, doc.uri, ptr, err)
	}

	node.Title = s.Title
	node.Description = s.Description
	node.Unsupported = append(node.Unsupported, unsupportedKeywords(s, m)...)

	types := s.Types
	if s.Type != "" {
		types = []string{s.Type}
	}
	var nonNull []string
	for _, t := range types {
		if t == "null" {
			node.Nullable = true
			continue
		}
		nonNull = append(nonNull, t)
	}

	switch {
	case s.Enum != nil || s.Const != nil:
		return r.fillEnum(node, s)
	case len(s.AllOf) > 0:
		return r.fillAllOf(node, doc, ptr, m, s)
	case len(s.AnyOf) > 0 || len(s.OneOf) > 0:
		return r.fillUnion(node, doc, ptr, s)
	case len(nonNull) > 1:
		node.Kind = KindUnion
		for _, t := range nonNull {
			variant := &SchemaNode{Pointer: node.Pointer + "(" + t + ")"}
			if err := r.fillTyped(variant, doc, ptr, m, s, t); err != nil {
				return err
			}
			node.Variants = append(node.Variants, variant)
		}
		return nil
	case len(nonNull) == 1:
		return r.fillTyped(node, doc, ptr, m, s, nonNull[0])
	case node.Nullable:
		node.Kind = KindPrimitive
		node.Type = "null"
		return nil
	default:
		return r.fillTyped(node, doc, ptr, m, s, "")
	}
}

func unsupportedKeywords(s *jsonschema.Schema, m map[string]any) []string {
	var out []string
	if s.Not != nil {
		out = append(out, "not")
	}
	if s.If != nil || s.Then != nil || s.Else != nil {
		out = append(out, "if/then/else")
	}
	if len(s.PatternProperties) > 0 {
		out = append(out, "patternProperties")
	}
	if len(s.DependentSchemas) > 0 {
		out = append(out, "dependentSchemas")
	}
	if len(s.PrefixItems) > 0 {
		out = append(out, "prefixItems")
	}
	if _, ok := m["$dynamicRef"]; ok {
		out = append(out, "$dynamicRef")
	}
	if len(s.AnyOf) > 0 && len(s.OneOf) > 0 {
		out = append(out, "anyOf with oneOf")
	}
	return out
}

func (r *resolution) fillEnum(node *SchemaNode, s *jsonschema.Schema) error {
	node.Kind = KindEnum
	values := s.Enum
	if s.Const != nil {
		values = []any{*s.Const}
	}
	for _, v := range values {
		if v == nil {
			node.Nullable = true
			continue
		}
		node.Enum = append(node.Enum, v)
	}
	return nil
}

func (r *resolution) fillAllOf(node *SchemaNode, doc *document, ptr string, m map[string]any, s *jsonschema.Schema) error {
	node.Kind = KindAllOf
	for i := range s.AllOf {
		part, err := r.resolve(doc, ptr+"/allOf/"+strconv.Itoa(i), "")
		if err != nil {
			return err
		}
		node.Parts = append(node.Parts, part)
	}
	// Properties declared next to allOf form one more part.
	if _, ok := m["properties"]; ok {
		own := &SchemaNode{Pointer: node.Pointer + "(properties)"}
		if err := r.fillObject(own, doc, ptr, m, s); err != nil {
			return err
		}
		node.Parts = append(node.Parts, own)
	}
	return nil
}

func (r *resolution) fillUnion(node *SchemaNode, doc *document, ptr string, s *jsonschema.Schema) error {
	node.Kind = KindUnion
	keyword, count := "anyOf", len(s.AnyOf)
	if count == 0 {
		keyword, count = "oneOf", len(s.OneOf)
	}
	for i := range count {
		variant, err := r.resolve(doc, ptr+"/"+keyword+"/"+strconv.Itoa(i), "")
		if err != nil {
			return err
		}
		node.Variants = append(node.Variants, variant)
	}
	return nil
}

// fillTyped fills node as the single JSON type t. An empty t infers the
// type from the keywords present.
func (r *resolution) fillTyped(node *SchemaNode, doc *document, ptr string, m map[string]any, s *jsonschema.Schema, t string) error {
	if t == "" {
		_, hasProps := m["properties"]
		_, hasAdditional := m["additionalProperties"]
		_, hasItems := m["items"]
		switch {
		case hasProps || hasAdditional:
			t = "object"
		case hasItems:
			t = "array"
		default:
			node.Kind = KindAny
			return nil
		}
	}

	switch t {
	case "object":
		return r.fillObject(node, doc, ptr, m, s)
	case "array":
		node.Kind = KindArray
		switch m["items"].(type) {
		case nil, bool:
			node.Items = &SchemaNode{Kind: KindAny, Pointer: node.Pointer + "/items"}
		case []any:
			node.Unsupported = append(node.Unsupported, "items array")
			node.Items = &SchemaNode{Kind: KindAny, Pointer: node.Pointer + "/items"}
		default:
			child, err := r.resolve(doc, ptr+"/items", "")
			if err != nil {
				return err
			}
			node.Items = child
		}
		return nil
	case "string", "integer", "number", "boolean", "null":
		node.Kind = KindPrimitive
		node.Type = t
		node.Format = s.Format
		return nil
	default:
		return newError(ErrSchemaParse, doc.uri, ptr, fmt.Errorf("unknown type %q", t))
	}
}

func (r *resolution) fillObject(node *SchemaNode, doc *document, ptr string, m map[string]any, s *jsonschema.Schema) error {
	props, _ := m["properties"].(map[string]any)
	if len(props) == 0 {
		node.Kind = KindMap
		switch additional := m["additionalProperties"].(type) {
		case map[string]any:
			values, err := r.resolve(doc, ptr+"/additionalProperties", "")
			if err != nil {
				return err
			}
			node.Values = values
		case bool:
			if !additional {
				// A closed object without properties is an empty record.
				node.Kind = KindObject
				return nil
			}
			node.Values = &SchemaNode{Kind: KindAny, Pointer: node.Pointer + "/additionalProperties"}
		default:
			node.Values = &SchemaNode{Kind: KindAny, Pointer: node.Pointer + "/additionalProperties"}
		}
		return nil
	}

	node.Kind = KindObject
	node.Fields = make(map[string]*SchemaNode, len(props))
	node.Required = make(map[string]bool, len(s.Required))
	for _, name := range s.Required {
		node.Required[name] = true
	}
	propsPtr := ptr + "/properties"
	for _, name := range doc.orderedKeys(propsPtr, props) {
		child, err := r.resolve(doc, propsPtr+"/"+EscapePointer(name), "")
		if err != nil {
			return err
		}
		node.Fields[name] = child
		node.FieldOrder = append(node.FieldOrder, name)
	}
	return nil
}

func appendUnique(nodes []*SchemaNode, n *SchemaNode) []*SchemaNode {
	if slices.Contains(nodes, n) {
		return nodes
	}
	return append(nodes, n)
}
