// Package export serializes decoded documents as JSON, YAML or CBOR.
//
// All three formats share one shape: the document is rendered through
// its JSON form first, so behaviour records appear as
// {Kind, Code, Data} entries and back references stay cut in every
// format.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

// Format selects the output encoding. It implements pflag.Value.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	CBOR Format = "cbor"
)

// ParseFormat accepts a format name or a file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(s), ".") {
	case "json", "":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "cbor":
		return CBOR, nil
	}
	return "", fmt.Errorf("export: unknown format %q", s)
}

func (f *Format) String() string { return string(*f) }

func (f *Format) Set(s string) error {
	v, err := ParseFormat(s)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

func (*Format) Type() string { return "format" }

// Ext returns the file extension for the format, with the dot.
func (f Format) Ext() string { return "." + string(f) }

var encMode cbor.EncMode

func init() {
	opts := cbor.CoreDetEncOptions()
	opts.TextMarshaler = cbor.TextMarshalerTextString
	var err error
	encMode, err = opts.EncMode()
	if err != nil {
		panic("export: CBOR encoder initialization failed: " + err.Error())
	}
}

// Encode writes v to w in the given format. Values that cannot be
// represented in JSON, NaN floats included, fail in every format.
func Encode(w io.Writer, f Format, v any) error {
	if f == JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("export: json: %w", err)
		}
		return nil
	}

	tree, err := Tree(v)
	if err != nil {
		return err
	}
	switch f {
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tree); err != nil {
			return fmt.Errorf("export: yaml: %w", err)
		}
		return enc.Close()
	case CBOR:
		b, err := encMode.Marshal(tree)
		if err != nil {
			return fmt.Errorf("export: cbor: %w", err)
		}
		_, err = w.Write(b)
		return err
	}
	return fmt.Errorf("export: unknown format %q", string(f))
}

// Marshal is Encode into a byte slice.
func Marshal(f Format, v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, f, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Tree renders v through its JSON form into maps, slices and scalars.
// Integral numbers become int64, the rest float64.
func Tree(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("export: json: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, fmt.Errorf("export: json: %w", err)
	}
	return numbers(tree), nil
}

func numbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = numbers(e)
		}
	case []any:
		for i, e := range t {
			t[i] = numbers(e)
		}
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	}
	return v
}
