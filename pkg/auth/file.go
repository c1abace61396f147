package auth

import (
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

type fileIdentity struct {
	UserName string `yaml:"userName"`
}

// FileStore persists the display name in a YAML file, surviving restarts of the
// terminal front end the way browser local storage survives reloads.
type FileStore struct {
	path string
}

// NewFileStore creates a store at path; the file is created on first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	var v fileIdentity
	if err := yaml.Unmarshal(data, &v); err != nil {
		return "", err
	}
	return v.UserName, nil
}

func (s *FileStore) Save(name string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(fileIdentity{UserName: name})
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Clear removes the file; absence means signed out.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
