// Package export renders syntax trees for downstream tools: a JSON document
// with sorted keys and a schema version, and a Go-syntax debug dump.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"
	"unicode"

	"github.com/Masterminds/semver/v3"

	"github.com/orizon-lang/swiftparse/internal/ast"
	"github.com/orizon-lang/swiftparse/internal/lexer"
	"github.com/orizon-lang/swiftparse/internal/position"
)

// SchemaVersion is the version of the JSON tree layout. The minor version
// grows when node kinds or fields are added, the major version when a field
// changes meaning or disappears.
const SchemaVersion = "1.1.0"

// Options controls the JSON document.
type Options struct {
	// Indent pretty-prints the document with two-space indentation.
	Indent bool
	// Tokens includes the file's token stream.
	Tokens bool
	// Offsets includes byte offsets in spans.
	Offsets bool
}

// Document is the top-level JSON object. Fields are declared in key order
// so the encoded object has sorted keys like the nested maps.
type Document struct {
	Errors        []string       `json:"errors,omitempty"`
	File          string         `json:"file"`
	SchemaVersion string         `json:"schema_version"`
	Tokens        []any          `json:"tokens,omitempty"`
	Tree          map[string]any `json:"tree"`
}

// CheckSchema reports whether SchemaVersion satisfies constraint, such as
// "^1.0" or ">= 1.1, < 2". An empty constraint always passes.
func CheckSchema(constraint string) error {
	if strings.TrimSpace(constraint) == "" {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid schema constraint %q: %w", constraint, err)
	}
	v := semver.MustParse(SchemaVersion)
	if ok, reasons := c.Validate(v); !ok {
		msgs := make([]string, len(reasons))
		for i, r := range reasons {
			msgs[i] = r.Error()
		}
		return fmt.Errorf("schema version %s does not satisfy %q: %s", v, constraint, strings.Join(msgs, "; "))
	}
	return nil
}

// NewDocument builds the JSON document for f. errs may carry parse errors
// that accompany a partial tree.
func NewDocument(f *ast.File, errs []error, opts Options) *Document {
	doc := &Document{SchemaVersion: SchemaVersion}
	if f == nil {
		doc.Tree = map[string]any{}
	} else {
		doc.File = f.Name
		doc.Tree = Value(f, opts)
		if opts.Tokens {
			for _, tok := range f.Tokens {
				doc.Tokens = append(doc.Tokens, encodeToken(tok, opts))
			}
		}
	}
	for _, err := range errs {
		doc.Errors = append(doc.Errors, err.Error())
	}
	return doc
}

// Encode writes the JSON document for f to w.
func Encode(w io.Writer, f *ast.File, errs []error, opts Options) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if opts.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(NewDocument(f, errs, opts))
}

// Value converts a node to its JSON object form. Every object carries a
// "node" key naming the node type; absent children and zero-valued fields
// other than enumerations are omitted.
func Value(n ast.Node, opts Options) map[string]any {
	if n == nil {
		return nil
	}
	v, _ := encode(reflect.ValueOf(n), opts).(map[string]any)
	return v
}

var (
	spanType  = reflect.TypeOf(position.Span{})
	tagsType  = reflect.TypeOf(ast.ModifierTags(0))
	tokenType = reflect.TypeOf(lexer.Token{})
	stringer  = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
)

func encode(v reflect.Value, opts Options) any {
	switch v.Type() {
	case spanType:
		return encodeSpan(v.Interface().(position.Span), opts)
	case tagsType:
		tags := v.Interface().(ast.ModifierTags)
		if tags == 0 {
			return nil
		}
		var names []string
		for _, m := range tags.List() {
			names = append(names, m.String())
		}
		return names
	}

	switch v.Kind() {
	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			return nil
		}
		if v.Kind() == reflect.Interface {
			return encode(v.Elem(), opts)
		}
		elem := v.Elem()
		if elem.Kind() != reflect.Struct {
			return encode(elem, opts)
		}
		obj := encodeStruct(elem, opts)
		if _, ok := v.Interface().(ast.Node); ok {
			obj["node"] = elem.Type().Name()
		}
		if d, ok := v.Interface().(ast.Decl); ok {
			obj["decl_kind"] = d.Kind().String()
		}
		return obj
	case reflect.Struct:
		obj := encodeStruct(v, opts)
		if len(obj) == 0 {
			return nil
		}
		return obj
	case reflect.Slice:
		if v.Len() == 0 {
			return nil
		}
		out := make([]any, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			out = append(out, encode(v.Index(i), opts))
		}
		return out
	case reflect.String:
		if v.String() == "" {
			return nil
		}
		return v.String()
	case reflect.Bool:
		if !v.Bool() {
			return nil
		}
		return true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		// Enumerations render by name, zero members included.
		if v.Type().Implements(stringer) {
			return v.Interface().(fmt.Stringer).String()
		}
		if v.IsZero() {
			return nil
		}
		return v.Interface()
	}
	return nil
}

// encodeStruct flattens embedded structs into the enclosing object.
func encodeStruct(v reflect.Value, opts Options) map[string]any {
	obj := make(map[string]any)
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		fv := v.Field(i)
		if field.Type.Kind() == reflect.Slice && field.Type.Elem() == tokenType {
			continue
		}
		if field.Anonymous && fv.Kind() == reflect.Struct {
			for k, val := range encodeStruct(fv, opts) {
				obj[k] = val
			}
			continue
		}
		if val := encode(fv, opts); val != nil {
			obj[snakeCase(field.Name)] = val
		}
	}
	return obj
}

func encodeSpan(s position.Span, opts Options) any {
	if !s.Start.IsValid() {
		return nil
	}
	point := func(p position.Position) map[string]any {
		m := map[string]any{"line": p.Line, "column": p.Column}
		if opts.Offsets {
			m["offset"] = p.Offset
		}
		return m
	}
	return map[string]any{"start": point(s.Start), "end": point(s.End)}
}

func encodeToken(tok lexer.Token, opts Options) map[string]any {
	m := map[string]any{
		"type":    tok.Type.String(),
		"kind":    tok.Kind().String(),
		"literal": tok.Literal,
		"span":    encodeSpan(tok.Span, opts),
	}
	if tok.NewlineBefore {
		m["newline_before"] = true
	} else if tok.SpaceBefore {
		m["space_before"] = true
	}
	return m
}

// snakeCase maps a Go field name such as SetterAccess to setter_access.
func snakeCase(name string) string {
	var sb strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				sb.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
