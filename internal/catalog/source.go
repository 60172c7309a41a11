package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrSourceUnavailable = errors.New("catalog source unavailable")
	ErrMalformedSource   = errors.New("malformed catalog source")
)

// Source supplies the seed records. It is consulted once, at startup.
type Source interface {
	Load(ctx context.Context) ([]Product, error)
}

// Load reads src and freezes the result into a Catalog.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	products, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	return New(products)
}

//go:embed data/products.json
var embeddedProducts []byte

// EmbeddedSource serves the product table compiled into the binary.
type EmbeddedSource struct{}

func (EmbeddedSource) Load(_ context.Context) ([]Product, error) {
	return decodeJSON(bytes.NewReader(embeddedProducts))
}

// FileSource reads a JSON array, or a YAML sequence when the extension is
// .yaml or .yml.
type FileSource struct {
	Path string
}

func (s FileSource) Load(_ context.Context) ([]Product, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".yaml", ".yml":
		return decodeYAML(f)
	default:
		return decodeJSON(f)
	}
}

func decodeJSON(r io.Reader) ([]Product, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var out []Product
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSource, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("%w: extra data after json array", ErrMalformedSource)
	}
	if out == nil {
		return nil, fmt.Errorf("%w: expected a json array", ErrMalformedSource)
	}
	return out, nil
}

func decodeYAML(r io.Reader) ([]Product, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var out []Product
	if err := dec.Decode(&out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty yaml document", ErrMalformedSource)
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformedSource, err)
	}
	if out == nil {
		return nil, fmt.Errorf("%w: expected a yaml sequence", ErrMalformedSource)
	}
	return out, nil
}
