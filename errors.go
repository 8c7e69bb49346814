package avrojson

import (
	"errors"
	"fmt"
	"strings"

	"github.com/avrokit/avrojson/decimal"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType       = "invalid_type"
	CodeInvalidEnum       = "invalid_enum"
	CodeUnionUnmatched    = "union_unmatched"
	CodeParseError        = "parse_error"
	CodeUnsupportedSchema = "unsupported_schema"

	// Decimal codec failures surface with the codec's own codes.
	CodeDecimalFormat    = decimal.CodeFormat
	CodeDecimalScale     = decimal.CodeScale
	CodeDecimalPrecision = decimal.CodePrecision
)

// Issue is the single structured error a conversion call produces. Every
// failure aborts the whole top-level call; there is no partial record and no
// multi-error aggregation. Message embeds the dotted field path so the error
// is self-describing when logged as-is.
type Issue struct {
	Path    string // Dotted field path (for example: a.b.c). Empty at the root.
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Optional: underlying error.
}

func (i *Issue) Error() string { return i.Message }

func (i *Issue) Unwrap() error { return i.Cause }

// AsIssue extracts an *Issue from an error using errors.As internally.
func AsIssue(err error) (*Issue, bool) {
	if err == nil {
		return nil, false
	}
	var iss *Issue
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

func typeIssue(p *fieldPath, expected string) *Issue {
	return &Issue{
		Path:    p.String(),
		Code:    CodeInvalidType,
		Message: fmt.Sprintf("Field %s is expected to be type: %s", p, expected),
	}
}

func enumIssue(p *fieldPath, symbols []string) *Issue {
	return &Issue{
		Path:    p.String(),
		Code:    CodeInvalidEnum,
		Message: fmt.Sprintf("Field %s is expected to be of enum type and be one of %s", p, strings.Join(symbols, ", ")),
	}
}

func unionIssue(field string, candidates []string, p *fieldPath) *Issue {
	return &Issue{
		Path: p.String(),
		Code: CodeUnionUnmatched,
		Message: fmt.Sprintf(
			"Could not evaluate union, field %s is expected to be one of these: %s. If this is a complex type, check if offending field: %s adheres to schema.",
			field, strings.Join(candidates, ", "), p),
	}
}

func unsupportedIssue(p *fieldPath, tag string) *Issue {
	return &Issue{
		Path:    p.String(),
		Code:    CodeUnsupportedSchema,
		Message: fmt.Sprintf("Unsupported type: %s", tag),
	}
}

// decimalIssue lifts a codec error into an Issue carrying the field path.
func decimalIssue(err error, p *fieldPath) error {
	var derr *decimal.Error
	if errors.As(err, &derr) {
		return &Issue{
			Path:    p.String(),
			Code:    derr.Code,
			Message: fmt.Sprintf("Field %s: %s", p, derr.Message),
			Cause:   derr,
		}
	}
	return err
}
