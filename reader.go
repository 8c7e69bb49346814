package avrojson

import (
	"bytes"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/hamba/avro/v2"

	"github.com/avrokit/avrojson/decimal"
)

// UnknownFieldHook is notified for every JSON key that has no same-named field
// in the record schema being converted. It is advisory: conversion never
// fails because of an unknown field. path is always empty: the hook fires at
// record level with no field context, whatever the nesting depth.
type UnknownFieldHook func(name string, value any, path string)

// Option configures a Reader.
type Option func(*Reader)

// WithUnknownFieldHook installs hook on the Reader.
func WithUnknownFieldHook(hook UnknownFieldHook) Option {
	return func(r *Reader) { r.unknownField = hook }
}

// Reader converts generic JSON values into Avro generic values directed by a
// schema. A Reader holds no per-call state and is safe for concurrent use;
// each conversion call builds its own field path.
type Reader struct {
	unknownField UnknownFieldHook
}

// NewReader returns a Reader with the given options applied.
func NewReader(opts ...Option) *Reader {
	r := &Reader{}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Read parses data as a JSON object and converts it against schema. Numbers
// are decoded as json.Number so integer precision survives to the narrowing
// step. The root schema must resolve to a record.
func (r *Reader) Read(data []byte, schema avro.Schema) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, &Issue{
			Code:    CodeParseError,
			Message: "Failed to parse JSON to map format: " + err.Error(),
			Cause:   err,
		}
	}
	return r.ReadValue(m, schema)
}

// ReadValue converts an already-decoded generic JSON tree (nested
// map[string]any, []any, string, json.Number/float64, bool, nil) against
// schema. The result contains exactly the schema fields present in v that
// converted successfully; absent fields are left unset.
func (r *Reader) ReadValue(v map[string]any, schema avro.Schema) (map[string]any, error) {
	rec, ok := resolve(schema).(*avro.RecordSchema)
	if !ok {
		p := &fieldPath{}
		return nil, unsupportedIssue(p, string(schema.Type()))
	}
	return r.readRecord(v, rec, &fieldPath{})
}

// read is the schema-directed descent. The three-way result replaces the
// sentinel object the trial-and-error union resolution needs: ok=false with a
// nil error means "this schema does not match this value", which only silent
// mode may produce. A non-nil error is terminal for the current candidate.
func (r *Reader) read(field string, schema avro.Schema, v any, p *fieldPath, silent bool) (any, bool, error) {
	leave := p.enter(field)
	defer leave()

	switch s := resolve(schema).(type) {
	case *avro.RecordSchema:
		return onValid(v, "record", p, silent, func(m map[string]any) (any, error) {
			return r.readRecord(m, s, p)
		})
	case *avro.ArraySchema:
		return onValid(v, "array", p, silent, func(items []any) (any, error) {
			return r.readArray(field, s, items, p)
		})
	case *avro.MapSchema:
		return onValid(v, "map", p, silent, func(m map[string]any) (any, error) {
			return r.readMap(field, s, m, p)
		})
	case *avro.UnionSchema:
		out, err := r.readUnion(field, s, v, p)
		if err != nil {
			return nil, false, err
		}
		return out, true, nil
	case *avro.EnumSchema:
		return onValid(v, "string", p, silent, func(sym string) (any, error) {
			return ensureEnum(s, sym, p)
		})
	case *avro.FixedSchema:
		return onValid(v, "string", p, silent, func(str string) (any, error) {
			return readFixed(s, str, p)
		})
	case *avro.NullSchema:
		if v == nil {
			return nil, true, nil
		}
		if silent {
			return nil, false, nil
		}
		return nil, false, typeIssue(p, "null")
	case *avro.PrimitiveSchema:
		return readPrimitive(s, v, p, silent)
	default:
		return nil, false, unsupportedIssue(p, string(schema.Type()))
	}
}

func (r *Reader) readRecord(m map[string]any, schema *avro.RecordSchema, p *fieldPath) (map[string]any, error) {
	out := make(map[string]any, len(m))
	for key, val := range m {
		field := fieldByName(schema, key)
		if field == nil {
			if r.unknownField != nil {
				r.unknownField(key, val, "")
			}
			continue
		}
		converted, _, err := r.read(field.Name(), field.Type(), val, p, false)
		if err != nil {
			return nil, err
		}
		out[field.Name()] = converted
	}
	return out, nil
}

func (r *Reader) readArray(field string, schema *avro.ArraySchema, items []any, p *fieldPath) ([]any, error) {
	out := make([]any, 0, len(items))
	for _, item := range items {
		converted, _, err := r.read(field, schema.Items(), item, p, false)
		if err != nil {
			return nil, err
		}
		out = append(out, converted)
	}
	return out, nil
}

func (r *Reader) readMap(field string, schema *avro.MapSchema, m map[string]any, p *fieldPath) (map[string]any, error) {
	out := make(map[string]any, len(m))
	for key, val := range m {
		converted, _, err := r.read(field, schema.Values(), val, p, false)
		if err != nil {
			return nil, err
		}
		out[key] = converted
	}
	return out, nil
}

// readUnion tries each member in declaration order with silent probing. A
// mismatch moves on to the next candidate; an error raised deeper inside a
// complex member is swallowed and also moves on. Only an unsupported schema
// tag aborts outright: that is a schema problem, never retried.
func (r *Reader) readUnion(field string, schema *avro.UnionSchema, v any, p *fieldPath) (any, error) {
	for _, member := range schema.Types() {
		out, ok, err := r.read(field, member, v, p, true)
		if err != nil {
			if iss, found := AsIssue(err); found && iss.Code == CodeUnsupportedSchema {
				return nil, err
			}
			continue
		}
		if ok {
			return out, nil
		}
	}
	candidates := make([]string, 0, len(schema.Types()))
	for _, member := range schema.Types() {
		candidates = append(candidates, string(resolve(member).Type()))
	}
	return nil, unionIssue(field, candidates, p)
}

func readPrimitive(schema *avro.PrimitiveSchema, v any, p *fieldPath, silent bool) (any, bool, error) {
	switch schema.Type() {
	case avro.Int:
		return onValidNumber(v, p, silent, jsonNumber.toInt)
	case avro.Long:
		return onValidNumber(v, p, silent, jsonNumber.toLong)
	case avro.Float:
		return onValidNumber(v, p, silent, jsonNumber.toFloat)
	case avro.Double:
		return onValidNumber(v, p, silent, jsonNumber.toDouble)
	case avro.Boolean:
		return onValid(v, "boolean", p, silent, func(b bool) (any, error) { return b, nil })
	case avro.String:
		return onValid(v, "string", p, silent, func(s string) (any, error) { return s, nil })
	case avro.Bytes:
		return onValid(v, "string", p, silent, func(s string) (any, error) {
			return readBytes(schema, s, p)
		})
	default:
		return nil, false, unsupportedIssue(p, string(schema.Type()))
	}
}

// readBytes turns the string payload into UTF-8 bytes. A decimal logical type
// means the payload is human-readable decimal text: decode it through the
// codec and re-encode into the final two's-complement layout.
func readBytes(schema *avro.PrimitiveSchema, s string, p *fieldPath) (any, error) {
	raw := []byte(s)
	dec, ok := decimalLogical(schema.Logical())
	if !ok {
		return raw, nil
	}
	cod := decimal.New(dec.Precision(), dec.Scale())
	text, err := cod.DecodeText(raw)
	if err != nil {
		return nil, decimalIssue(err, p)
	}
	out, err := cod.EncodeBytes(text)
	if err != nil {
		return nil, decimalIssue(err, p)
	}
	return out, nil
}

// readFixed handles fixed-width payloads. With a decimal logical type the
// value is sign-extended to the declared size; otherwise the UTF-8 bytes must
// fill the width exactly.
func readFixed(schema *avro.FixedSchema, s string, p *fieldPath) (any, error) {
	dec, ok := decimalLogical(schema.Logical())
	if !ok {
		raw := []byte(s)
		if len(raw) != schema.Size() {
			return nil, typeIssue(p, "fixed of size "+strconv.Itoa(schema.Size()))
		}
		return raw, nil
	}
	cod := decimal.New(dec.Precision(), dec.Scale())
	text, err := cod.DecodeText([]byte(s))
	if err != nil {
		return nil, decimalIssue(err, p)
	}
	out, err := cod.EncodeFixed(text, schema.Size())
	if err != nil {
		return nil, decimalIssue(err, p)
	}
	return out, nil
}

func ensureEnum(schema *avro.EnumSchema, sym string, p *fieldPath) (any, error) {
	for _, known := range schema.Symbols() {
		if known == sym {
			return sym, nil
		}
	}
	return nil, enumIssue(p, schema.Symbols())
}

// onValid runs fn when v has the expected dynamic type. Under silent mode a
// mismatch reports incompatibility instead of failing.
func onValid[T any](v any, expected string, p *fieldPath, silent bool, fn func(T) (any, error)) (any, bool, error) {
	t, ok := v.(T)
	if !ok {
		if silent {
			return nil, false, nil
		}
		return nil, false, typeIssue(p, expected)
	}
	out, err := fn(t)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func onValidNumber(v any, p *fieldPath, silent bool, narrow func(jsonNumber) any) (any, bool, error) {
	n, ok := asNumber(v)
	if !ok {
		if silent {
			return nil, false, nil
		}
		return nil, false, typeIssue(p, "number")
	}
	return narrow(n), true, nil
}

func fieldByName(schema *avro.RecordSchema, name string) *avro.Field {
	for _, f := range schema.Fields() {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

func resolve(schema avro.Schema) avro.Schema {
	if ref, ok := schema.(*avro.RefSchema); ok {
		return ref.Schema()
	}
	return schema
}

func decimalLogical(ls avro.LogicalSchema) (*avro.DecimalLogicalSchema, bool) {
	if ls == nil || ls.Type() != avro.Decimal {
		return nil, false
	}
	dec, ok := ls.(*avro.DecimalLogicalSchema)
	return dec, ok
}
