// Package schema loads the parameter schema document (nextflow_schema.json
// in spec.md's terminology) adjacent to a script, and hosts the static
// built-in config-path schema tree used by the config-schema checker
// (spec.md §4.4, §4.6, §6).
package schema

import (
	"encoding/json"
	"sort"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/standardbeagle/wflsp/internal/errs"
)

// FieldType is the DSL's dynamic-typing view of a schema-declared field.
type FieldType int

const (
	FieldDynamic FieldType = iota // no declared type, or a type this loader doesn't map
	FieldBool
	FieldInt
	FieldFloat
	FieldString
)

func (t FieldType) String() string {
	switch t {
	case FieldBool:
		return "bool"
	case FieldInt:
		return "i64"
	case FieldFloat:
		return "f64"
	case FieldString:
		return "string"
	default:
		return "dynamic"
	}
}

// ParamField is one flattened parameter declaration.
type ParamField struct {
	Name        string // dotted, e.g. "reads.r1"
	Type        FieldType
	Description string
	Required    bool
}

// ParamSchema is a flattened view of a schema document's parameter
// surface, synthesized as a virtual class for name resolution (spec.md
// §4.4's "schema-driven virtual params class").
type ParamSchema struct {
	Fields map[string]ParamField
}

// Lookup returns the field declared at dotted name, if any.
func (s *ParamSchema) Lookup(name string) (ParamField, bool) {
	f, ok := s.Fields[name]
	return f, ok
}

// Names returns every declared dotted field name, sorted, for
// "did you mean" suggestion candidates and completion.
func (s *ParamSchema) Names() []string {
	out := make([]string, 0, len(s.Fields))
	for n := range s.Fields {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// LoadParamSchema parses raw as a nextflow_schema.json-shaped JSON Schema
// document and flattens it into a ParamSchema. Grounded on
// internal/mcp/server.go's jsonschema.Schema{Type, Properties, Items,
// Description} construction, used there for outgoing tool schemas and
// here for an incoming schema document — same struct, the other
// direction.
func LoadParamSchema(path string, raw []byte) (*ParamSchema, error) {
	var doc jsonschema.Schema
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errs.NewSchemaLoadError(path, err)
	}
	out := &ParamSchema{Fields: make(map[string]ParamField)}

	// nf-core style schemas group properties under $defs, defs or
	// definitions "groups", each itself a schema with its own Properties.
	var alt struct {
		Defs        map[string]*jsonschema.Schema `json:"defs"`
		Definitions map[string]*jsonschema.Schema `json:"definitions"`
	}
	if err := json.Unmarshal(raw, &alt); err != nil {
		return nil, errs.NewSchemaLoadError(path, err)
	}
	for _, defs := range []map[string]*jsonschema.Schema{doc.Defs, alt.Defs, alt.Definitions} {
		keys := sortedKeys(defs)
		for _, k := range keys {
			group := defs[k]
			if group == nil {
				continue
			}
			flattenProperties(group.Properties, group.Required, "", out)
		}
	}
	flattenProperties(doc.Properties, doc.Required, "", out)
	return out, nil
}

func sortedKeys(m map[string]*jsonschema.Schema) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func flattenProperties(props map[string]*jsonschema.Schema, required []string, prefix string, out *ParamSchema) {
	if len(props) == 0 {
		return
	}
	requiredSet := make(map[string]bool, len(required))
	for _, r := range required {
		requiredSet[r] = true
	}
	names := make([]string, 0, len(props))
	for n := range props {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, name := range names {
		sub := props[name]
		if sub == nil {
			continue
		}
		dotted := name
		if prefix != "" {
			dotted = prefix + "." + name
		}
		if sub.Type == "object" && len(sub.Properties) > 0 {
			flattenProperties(sub.Properties, sub.Required, dotted, out)
			continue
		}
		out.Fields[dotted] = ParamField{
			Name:        dotted,
			Type:        mapJSONSchemaType(sub.Type),
			Description: sub.Description,
			Required:    requiredSet[name],
		}
	}
}

// mapJSONSchemaType maps a JSON Schema primitive type name onto the DSL's
// dynamic-typing surface (spec.md §6's type-mapping table); anything
// unrecognized falls back to FieldDynamic rather than rejecting the
// schema outright, consistent with spec.md §7's degrade-gracefully
// recovery policy.
func mapJSONSchemaType(t string) FieldType {
	switch t {
	case "boolean":
		return FieldBool
	case "integer":
		return FieldInt
	case "number":
		return FieldFloat
	case "string":
		return FieldString
	default:
		return FieldDynamic
	}
}
