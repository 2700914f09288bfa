package household

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/speaker-autogroup/internal/config"
)

// Repository defines persistence operations for household layouts.
type Repository interface {
	Load(ctx context.Context) (*Layout, error)
	Save(ctx context.Context, layout *Layout) error
}

// FileRepository keeps a layout in a YAML file.
type FileRepository struct {
	// path is the filesystem location of the layout file.
	path string
	// mu serialises access to the file.
	mu sync.Mutex
}

// DefaultFilename is the household layout read by the bridge simulator.
const DefaultFilename = "speaker-household.yaml"

// ErrNotFound is returned when the layout file does not exist yet.
var ErrNotFound = errors.New("household layout not found")

// NewFileRepository creates a repository reading and writing YAML at path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Load reads, normalizes and validates the layout.
func (r *FileRepository) Load(_ context.Context) (*Layout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read household file: %w", err)
	}

	var layout Layout
	if err = yaml.Unmarshal(contents, &layout); err != nil {
		return nil, fmt.Errorf("decode household file: %w", err)
	}

	layout.Normalize()

	if err = layout.Validate(); err != nil {
		return nil, err
	}

	return &layout, nil
}

// Save validates and writes the layout.
func (r *FileRepository) Save(_ context.Context, layout *Layout) error {
	if err := layout.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := yaml.Marshal(layout)
	if err != nil {
		return fmt.Errorf("encode household: %w", err)
	}

	if err = os.WriteFile(r.path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write household file: %w", err)
	}

	return nil
}
