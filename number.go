package avrojson

import json "github.com/goccy/go-json"

// jsonNumber is the numeric value a JSON tree can carry, tagged by whether it
// arrived as an integer. Narrowing to the schema's width truncates toward
// zero for fractional values and widens exactly otherwise; no range
// validation happens beyond what the conversion itself performs.
type jsonNumber struct {
	i       int64
	f       float64
	integer bool
}

func (n jsonNumber) toInt() any {
	if n.integer {
		return int(n.i)
	}
	return int(n.f)
}

func (n jsonNumber) toLong() any {
	if n.integer {
		return n.i
	}
	return int64(n.f)
}

func (n jsonNumber) toFloat() any {
	if n.integer {
		return float32(n.i)
	}
	return float32(n.f)
}

func (n jsonNumber) toDouble() any {
	if n.integer {
		return float64(n.i)
	}
	return n.f
}

// asNumber recognizes the numeric shapes a generic JSON tree may hold:
// json.Number from the UseNumber decoding path, float64 from a plain decode,
// and Go integer kinds from hand-built trees.
func asNumber(v any) (jsonNumber, bool) {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return jsonNumber{i: i, integer: true}, true
		}
		if f, err := x.Float64(); err == nil {
			return jsonNumber{f: f}, true
		}
		return jsonNumber{}, false
	case float64:
		return jsonNumber{f: x}, true
	case float32:
		return jsonNumber{f: float64(x)}, true
	case int:
		return jsonNumber{i: int64(x), integer: true}, true
	case int32:
		return jsonNumber{i: int64(x), integer: true}, true
	case int64:
		return jsonNumber{i: x, integer: true}, true
	}
	return jsonNumber{}, false
}
