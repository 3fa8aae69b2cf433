// Package templates manages reusable solidity contract templates on disk
package templates

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrTemplateNotFound returned when no template file exists for the name
	ErrTemplateNotFound = errors.New("template not found")
	// ErrTemplateExists returned when adding a template that already exists
	ErrTemplateExists = errors.New("template already exists")
)

var templateNameRegexp = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// Store keeps one .sol file per template under a directory
type Store struct {
	dir string
}

// NewStore creates the templates directory if needed
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create templates directory")
	}
	return &Store{dir: dir}, nil
}

// CanonicalName appends the .sol extension when missing and validates the
// result is a plain file name
func CanonicalName(name string) (string, error) {
	if !strings.HasSuffix(name, ".sol") {
		name += ".sol"
	}
	if !templateNameRegexp.MatchString(name) || strings.Contains(name, "..") {
		return "", errors.Errorf("invalid template name %q", name)
	}
	return name, nil
}

// List returns template names without the .sol extension
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read templates directory")
	}

	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sol") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".sol"))
	}
	sort.Strings(names)
	return names, nil
}

// Code returns the solidity source of the named template
func (s *Store) Code(name string) (string, error) {
	fileName, err := CanonicalName(name)
	if err != nil {
		return "", err
	}

	content, err := os.ReadFile(filepath.Join(s.dir, fileName))
	if os.IsNotExist(err) {
		return "", ErrTemplateNotFound
	}
	if err != nil {
		return "", errors.Wrap(err, "failed to read template")
	}
	return string(content), nil
}

// Add stores a new template, refusing to overwrite an existing one
func (s *Store) Add(name string, code []byte) (string, error) {
	fileName, err := CanonicalName(name)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, fileName)
	if _, err := os.Stat(path); err == nil {
		return "", ErrTemplateExists
	}

	if err := os.WriteFile(path, code, 0644); err != nil {
		return "", errors.Wrap(err, "failed to write template")
	}
	return fileName, nil
}

// Delete removes the named template
func (s *Store) Delete(name string) (string, error) {
	fileName, err := CanonicalName(name)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, fileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", ErrTemplateNotFound
	}

	if err := os.Remove(path); err != nil {
		return "", errors.Wrap(err, "failed to delete template")
	}
	return fileName, nil
}

// Render replaces every <KEY> placeholder in the template source with the
// matching parameter value
func Render(source string, params map[string]string) string {
	for key, value := range params {
		source = strings.ReplaceAll(source, "<"+key+">", value)
	}
	return source
}
