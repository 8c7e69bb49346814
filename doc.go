package avrojson

// Package avrojson converts schema-less JSON documents into Avro generic
// values:
//
// - Schema-directed recursive conversion of a generic JSON tree (Reader.Read / Reader.ReadValue)
// - Trial-and-error union resolution in declaration order with silent backtracking
// - Decimal logical-type payloads carried as human-readable strings (decimal subpackage)
// - A stable error model via Issue (dotted field path, code, message)
//
// Design policy:
// - Keep only public APIs in the root package; the decimal codec lives under decimal/.
// - Schema parsing belongs to the caller: pass any avro.Schema from hamba/avro.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	schema := avro.MustParse(schemaJSON)
//	r := avrojson.NewReader()
//	record, err := r.Read(data, schema)
//
//	r = avrojson.NewReader(avrojson.WithUnknownFieldHook(func(name string, value any, path string) {
//		log.Printf("unknown field %q at %q", name, path)
//	}))
