package ecommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/siparisbot/backend/internal/domain/integration"
)

// userAgent is sent on every marketplace request that accepts one
const userAgent = "SiparisBot/1.0"

// flexString decodes a JSON string, number or null into a string.
// Marketplaces are inconsistent about quoting identifiers such as tracking numbers.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("flexString: unsupported value %s", data)
	}
	*s = flexString(n.String())
	return nil
}

func (s flexString) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

func (s flexString) String() string {
	return string(s)
}

// flexDecimal decodes a JSON number, numeric string or null into a decimal.
type flexDecimal struct {
	decimal.Decimal
}

func (d *flexDecimal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte(`""`)) {
		d.Decimal = decimal.Zero
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		parsed, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("flexDecimal: %w", err)
		}
		d.Decimal = parsed
		return nil
	}
	parsed, err := decimal.NewFromString(string(data))
	if err != nil {
		return fmt.Errorf("flexDecimal: %w", err)
	}
	d.Decimal = parsed
	return nil
}

func (d flexDecimal) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Decimal.String())
}

func decStr(s string) flexDecimal {
	return flexDecimal{Decimal: decimal.RequireFromString(s)}
}

// fromUnixMillis converts epoch milliseconds to UTC, zero stays zero
func fromUnixMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

// fromUnixSeconds converts epoch seconds to UTC, zero stays zero
func fromUnixSeconds(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

// parseTimestamp accepts the RFC 3339 variants marketplaces emit.
// Unparseable values yield the zero time.
func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05-0700"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// joinName joins non-empty name parts with a space
func joinName(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

// rawJSON re-encodes a native order for NormalizedOrder.Raw
func rawJSON(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}

// nativeRaw keeps the exact provider JSON a native order was decoded from
type nativeRaw struct {
	raw json.RawMessage
}

func (n *nativeRaw) setRaw(raw json.RawMessage) { n.raw = raw }

// RawJSON returns the provider payload, nil for orders built in code
func (n nativeRaw) RawJSON() json.RawMessage { return n.raw }

type rawHolder[T any] interface {
	*T
	setRaw(json.RawMessage)
}

// decodeEach decodes every element of a listing and remembers its raw bytes
func decodeEach[T any, PT rawHolder[T]](provider string, raws []json.RawMessage) ([]T, error) {
	out := make([]T, len(raws))
	for i, raw := range raws {
		if err := json.Unmarshal(raw, &out[i]); err != nil {
			return nil, integration.NewInvalidResponseError(provider, err)
		}
		PT(&out[i]).setRaw(raw)
	}
	return out, nil
}

// cursorFetch fetches the page at cursor and returns the cursor of the next one
type cursorFetch[T any] func(ctx context.Context, cursor string) ([]T, string, error)

// walkToPage serves a zero-based page number on top of a cursor listing by
// following next cursors from the first page. A listing that ends before page
// yields an empty slice.
func walkToPage[T any](ctx context.Context, page int, fetch cursorFetch[T]) ([]T, error) {
	items, next, err := fetch(ctx, "")
	for i := 0; err == nil && i < page; i++ {
		if next == "" {
			return []T{}, nil
		}
		items, next, err = fetch(ctx, next)
	}
	if err != nil {
		return nil, err
	}
	return items, nil
}
