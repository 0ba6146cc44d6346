package scene

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/matzehuels/pointpack/pkg/errors"
)

// =============================================================================
// Scene Serialization API
// =============================================================================

// Marshal serializes a Scene to pretty-printed JSON bytes.
func Marshal(s *Scene) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Unmarshal deserializes JSON bytes into a Scene and checks that the
// references inside it are consistent.
func Unmarshal(data []byte) (*Scene, error) {
	var s Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal scene")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the kind and branch endpoints.
func (s *Scene) Validate() error {
	if !s.Kind.Valid() {
		return errors.New(errors.ErrCodeInvalidFormat, "unknown scene kind %q", s.Kind)
	}
	for k, b := range s.Branches {
		if b.From < 0 || b.From >= len(s.Nodes) || b.To < 0 || b.To >= len(s.Nodes) {
			return errors.New(errors.ErrCodeInvalidFormat, "branch %d (%v) references a missing node", k, b)
		}
	}
	return nil
}

// WriteFile writes a Scene to a JSON file, creating parent directories.
func WriteFile(s *Scene, path string) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", filepath.Dir(path))
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a Scene from a JSON file.
func ReadFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	return Unmarshal(data)
}
