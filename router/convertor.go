package router

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Convertor adapts between a URL path segment and a typed value. Parse and
// Format are inverses over the convertor's valid domain: a value produced by
// Parse renders back to the original segment.
//
// Custom convertors are registered with RegisterConvertor and referenced in
// patterns as {param:name}.
type Convertor interface {
	// Regex returns the unanchored pattern a path segment must match for
	// Parse to be attempted.
	Regex() string

	// Parse converts a matched segment into its typed value. A Parse error
	// during matching means the route does not match; it is not surfaced.
	Parse(value string) (any, error)

	// Format renders a typed value back into a path segment. It fails when
	// the value is outside the convertor's domain.
	Format(value any) (string, error)
}

// StringConvertor matches any segment without a path separator. It is the
// default for parameters declared without a type.
type StringConvertor struct{}

func (StringConvertor) Regex() string { return "[^/]+" }

func (StringConvertor) Parse(value string) (any, error) { return value, nil }

func (StringConvertor) Format(value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("expected string, got %T", value)
	}
	if s == "" {
		return "", fmt.Errorf("must not be empty")
	}
	if strings.Contains(s, "/") {
		return "", fmt.Errorf("may not contain path separators")
	}
	return s, nil
}

// IntegerConvertor matches non-negative decimal integers.
type IntegerConvertor struct{}

func (IntegerConvertor) Regex() string { return "[0-9]+" }

func (IntegerConvertor) Parse(value string) (any, error) {
	return strconv.Atoi(value)
}

func (IntegerConvertor) Format(value any) (string, error) {
	var n int64
	switch v := value.(type) {
	case int:
		n = int64(v)
	case int64:
		n = v
	default:
		return "", fmt.Errorf("expected int, got %T", value)
	}
	if n < 0 {
		return "", fmt.Errorf("negative integers are not supported")
	}
	return strconv.FormatInt(n, 10), nil
}

// DecimalConvertor matches non-negative decimal numbers and converts them to
// decimal.Decimal values. Trailing zeros are trimmed when rendering.
type DecimalConvertor struct{}

func (DecimalConvertor) Regex() string { return `[0-9]+(\.[0-9]+)?` }

func (DecimalConvertor) Parse(value string) (any, error) {
	return decimal.NewFromString(value)
}

func (DecimalConvertor) Format(value any) (string, error) {
	var d decimal.Decimal
	switch v := value.(type) {
	case decimal.Decimal:
		d = v
	case string:
		parsed, err := decimal.NewFromString(v)
		if err != nil {
			return "", err
		}
		d = parsed
	default:
		return "", fmt.Errorf("expected decimal.Decimal, got %T", value)
	}
	if d.IsNegative() {
		return "", fmt.Errorf("negative decimals are not supported")
	}
	s := d.String()
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
	}
	return s, nil
}

// UUIDConvertor matches lowercase hyphenated UUIDs.
type UUIDConvertor struct{}

func (UUIDConvertor) Regex() string {
	return "[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}"
}

func (UUIDConvertor) Parse(value string) (any, error) {
	return uuid.Parse(value)
}

func (UUIDConvertor) Format(value any) (string, error) {
	switch v := value.(type) {
	case uuid.UUID:
		return v.String(), nil
	case string:
		parsed, err := uuid.Parse(v)
		if err != nil {
			return "", err
		}
		return parsed.String(), nil
	default:
		return "", fmt.Errorf("expected uuid.UUID, got %T", value)
	}
}

const dateLayout = "2006-01-02"

// DateConvertor matches ISO 8601 calendar dates and converts them to
// time.Time values.
type DateConvertor struct{}

func (DateConvertor) Regex() string { return "[0-9]{4}-[0-9]{2}-[0-9]{2}" }

func (DateConvertor) Parse(value string) (any, error) {
	return time.Parse(dateLayout, value)
}

func (DateConvertor) Format(value any) (string, error) {
	t, ok := value.(time.Time)
	if !ok {
		return "", fmt.Errorf("expected time.Time, got %T", value)
	}
	return t.Format(dateLayout), nil
}

// AnyConvertor matches the rest of the path, including separators. It is
// only valid as the final token of a pattern.
type AnyConvertor struct{}

func (AnyConvertor) Regex() string { return ".*" }

func (AnyConvertor) Parse(value string) (any, error) { return value, nil }

func (AnyConvertor) Format(value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("expected string, got %T", value)
	}
	return s, nil
}

// catchAllType is the registered name of the convertor that may only appear
// as the final token of a pattern.
const catchAllType = "any"

var (
	convertorsMu sync.RWMutex
	convertors   = map[string]Convertor{
		"str":     StringConvertor{},
		"int":     IntegerConvertor{},
		"decimal": DecimalConvertor{},
		"uuid":    UUIDConvertor{},
		"date":    DateConvertor{},
		"any":     AnyConvertor{},
	}
)

// RegisterConvertor makes a convertor available under the given type name,
// referenceable as {param:name} in patterns compiled afterwards. Names are
// unique: re-registering one fails with ErrConvertorExists.
func RegisterConvertor(name string, c Convertor) error {
	if name == "" || c == nil {
		return ErrInvalidConvertor
	}
	convertorsMu.Lock()
	defer convertorsMu.Unlock()
	if _, exists := convertors[name]; exists {
		return fmt.Errorf("%w: %q", ErrConvertorExists, name)
	}
	convertors[name] = c
	return nil
}

func lookupConvertor(name string) (Convertor, bool) {
	convertorsMu.RLock()
	defer convertorsMu.RUnlock()
	c, ok := convertors[name]
	return c, ok
}
