// Package fixture serves candidate pools from JSON or YAML files.
package fixture

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/portlink/streetturn/core/source"
)

// File is the on-disk layout: one pool per organization.
type File struct {
	Organizations map[string]source.Pool `json:"organizations" yaml:"organizations"`
}

// Load reads a pool file from path. The format follows the extension.
func Load(path string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return File{}, err
	}
	defer func() { _ = f.Close() }()
	return Decode(f, strings.TrimPrefix(filepath.Ext(path), "."))
}

// Decode reads a pool file in the given format ("json", "yaml" or "yml").
func Decode(r io.Reader, format string) (File, error) {
	var file File
	if err := decode(r, format, &file); err != nil {
		return File{}, err
	}
	if file.Organizations == nil {
		file.Organizations = map[string]source.Pool{}
	}
	return file, nil
}

// LoadPool reads a single bare pool ({containers, bookings}) from path.
func LoadPool(path string) (source.Pool, error) {
	f, err := os.Open(path)
	if err != nil {
		return source.Pool{}, err
	}
	defer func() { _ = f.Close() }()
	var p source.Pool
	if err := decode(f, strings.TrimPrefix(filepath.Ext(path), "."), &p); err != nil {
		return source.Pool{}, err
	}
	return p, nil
}

func decode(r io.Reader, format string, out any) error {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(out); err != nil && err != io.EOF {
			return fmt.Errorf("decode yaml: %w", err)
		}
	case "json":
		if err := json.NewDecoder(r).Decode(out); err != nil && err != io.EOF {
			return fmt.Errorf("decode json: %w", err)
		}
	default:
		return fmt.Errorf("unsupported pool format: %s", format)
	}
	return nil
}

// Source serves the eligible records of a loaded file.
type Source struct {
	file File
}

// NewSource loads path and returns a Source over it.
func NewSource(path string) (*Source, error) {
	file, err := Load(path)
	if err != nil {
		return nil, fmt.Errorf("load pool file %s: %w", path, err)
	}
	return &Source{file: file}, nil
}

// NewSourceFromFile wraps an already decoded file.
func NewSourceFromFile(file File) *Source { return &Source{file: file} }

// Pool returns the eligible containers and bookings of the organization.
func (s *Source) Pool(ctx context.Context, orgID string) (source.Pool, error) {
	if err := ctx.Err(); err != nil {
		return source.Pool{}, err
	}
	p, ok := s.file.Organizations[orgID]
	if !ok {
		return source.Pool{}, fmt.Errorf("%w: %s", source.ErrUnknownOrg, orgID)
	}
	return source.FilterEligible(p), nil
}

// Organizations lists the organization IDs present in the file.
func (s *Source) Organizations() []string {
	out := make([]string, 0, len(s.file.Organizations))
	for id := range s.file.Organizations {
		out = append(out, id)
	}
	return out
}
