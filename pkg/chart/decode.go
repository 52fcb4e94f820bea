package chart

import (
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/aretw0/orgtree/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a chart document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath guesses the format from a file extension. Anything that is not
// ".json" is treated as YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// node mirrors the document layout. ID is a pointer so a missing id can be told
// apart from id 0.
type node struct {
	ID           *int   `mapstructure:"id"`
	Subordinates []node `mapstructure:"subordinates"`
}

// Parse decodes a chart document and validates it.
func Parse(data []byte, format Format) (domain.Chart, error) {
	var raw map[string]any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return domain.Chart{}, fmt.Errorf("failed to parse chart json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return domain.Chart{}, fmt.Errorf("failed to parse chart yaml: %w", err)
		}
	default:
		return domain.Chart{}, fmt.Errorf("unsupported chart format %q", format)
	}
	if raw == nil {
		return domain.Chart{}, fmt.Errorf("%w: empty document", domain.ErrInvalidChart)
	}
	return FromMap(raw)
}

// FromMap maps an already decoded document (e.g. a request body) onto a chart.
func FromMap(raw map[string]any) (domain.Chart, error) {
	var root node
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.DecodeHookFuncType(integralIDHook),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &root,
	})
	if err != nil {
		return domain.Chart{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return domain.Chart{}, fmt.Errorf("%w: %w", domain.ErrInvalidChart, err)
	}

	c, err := root.toChart("root")
	if err != nil {
		return domain.Chart{}, err
	}
	if err := c.Validate(); err != nil {
		return domain.Chart{}, err
	}
	return c, nil
}

// integralIDHook refuses floats that would be truncated on their way into an int.
// JSON decodes every number as float64, YAML every non-integer.
func integralIDHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() == reflect.Pointer {
		to = to.Elem()
	}
	if to.Kind() != reflect.Int {
		return data, nil
	}
	f, ok := data.(float64)
	if !ok {
		return data, nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f > math.MaxInt64 || f < math.MinInt64 {
		return nil, fmt.Errorf("id %v is not an integer", f)
	}
	return data, nil
}

func (n node) toChart(path string) (domain.Chart, error) {
	if n.ID == nil {
		return domain.Chart{}, fmt.Errorf("%w: %s is missing an id", domain.ErrInvalidChart, path)
	}
	c := domain.Chart{ID: *n.ID}
	for i, sub := range n.Subordinates {
		child, err := sub.toChart(fmt.Sprintf("%s.subordinates[%d]", path, i))
		if err != nil {
			return domain.Chart{}, err
		}
		c.Subordinates = append(c.Subordinates, child)
	}
	return c, nil
}

// Marshal encodes a chart in the given format.
func Marshal(c domain.Chart, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(c, "", "  ")
	case FormatYAML:
		return yaml.Marshal(c)
	default:
		return nil, fmt.Errorf("unsupported chart format %q", format)
	}
}
