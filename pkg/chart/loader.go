package chart

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/orgtree/pkg/domain"
)

// FileLoader implements ports.ChartLoader for a chart stored on disk.
type FileLoader struct {
	Path string
}

// NewFileLoader creates a loader for the document at path.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{Path: path}
}

// LoadChart reads and parses the file every time it is called.
func (l *FileLoader) LoadChart(ctx context.Context) (domain.Chart, error) {
	return LoadFile(l.Path)
}

// LoadFile reads a chart document, picking the format from the file extension.
func LoadFile(path string) (domain.Chart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Chart{}, fmt.Errorf("failed to read chart: %w", err)
	}
	c, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return domain.Chart{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// WriteFile encodes c into path, picking the format from the file extension.
func WriteFile(path string, c domain.Chart) error {
	data, err := Marshal(c, FormatFromPath(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	return nil
}
