// Package packages installs solidity dependency packages from github tags,
// pinned as org/repo@version
package packages

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var (
	// ErrPackageNotFound returned when the package is not installed
	ErrPackageNotFound = errors.New("package not found")
	// ErrPackageExists returned when installing an already installed package
	ErrPackageExists = errors.New("package already installed")
)

var packageIDRegexp = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9_.-]*)/([A-Za-z0-9][A-Za-z0-9_.-]*)@([A-Za-z0-9][A-Za-z0-9_.-]*)$`)

// Package is one installed solidity dependency
type Package struct {
	Org     string `json:"org"`
	Repo    string `json:"repo"`
	Version string `json:"version"`
}

// ID returns the canonical org/repo@version identifier
func (p Package) ID() string {
	return fmt.Sprintf("%s/%s@%s", p.Org, p.Repo, p.Version)
}

// Manager clones packages under a directory, one subdirectory per org
type Manager struct {
	dir string
}

// NewManager creates the packages directory if needed
func NewManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create packages directory")
	}
	return &Manager{dir: dir}, nil
}

// ParseID parses an org/repo@version package identifier
func ParseID(id string) (Package, error) {
	match := packageIDRegexp.FindStringSubmatch(id)
	if match == nil {
		return Package{}, errors.Errorf("invalid package id %q, expected org/repo@version", id)
	}
	return Package{Org: match[1], Repo: match[2], Version: match[3]}, nil
}

// Install clones the github repository at the version tag
func (m *Manager) Install(ctx context.Context, id string) (Package, error) {
	pkg, err := ParseID(id)
	if err != nil {
		return Package{}, err
	}

	path := m.path(pkg)
	if _, err := os.Stat(path); err == nil {
		return Package{}, ErrPackageExists
	}

	url := fmt.Sprintf("https://github.com/%s/%s", pkg.Org, pkg.Repo)
	log.Info().Str("url", url).Str("version", pkg.Version).Msg("installing package")

	_, err = git.PlainCloneContext(ctx, path, false, &git.CloneOptions{
		URL:           url,
		ReferenceName: plumbing.NewTagReferenceName(pkg.Version),
		SingleBranch:  true,
		Depth:         1,
	})
	if err != nil {
		// retry with the common v prefix before giving up
		_, vErr := git.PlainCloneContext(ctx, path, false, &git.CloneOptions{
			URL:           url,
			ReferenceName: plumbing.NewTagReferenceName("v" + pkg.Version),
			SingleBranch:  true,
			Depth:         1,
		})
		if vErr != nil {
			_ = os.RemoveAll(path)
			return Package{}, errors.Wrapf(err, "failed to clone %s at tag %s", url, pkg.Version)
		}
	}

	return pkg, nil
}

// Remove deletes an installed package
func (m *Manager) Remove(id string) (Package, error) {
	pkg, err := ParseID(id)
	if err != nil {
		return Package{}, err
	}

	path := m.path(pkg)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Package{}, ErrPackageNotFound
	}

	if err := os.RemoveAll(path); err != nil {
		return Package{}, errors.Wrap(err, "failed to remove package")
	}
	return pkg, nil
}

// List returns all installed packages
func (m *Manager) List() ([]Package, error) {
	orgs, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read packages directory")
	}

	packages := []Package{}
	for _, org := range orgs {
		if !org.IsDir() {
			continue
		}
		repos, err := os.ReadDir(filepath.Join(m.dir, org.Name()))
		if err != nil {
			return nil, errors.Wrap(err, "failed to read packages directory")
		}
		for _, repo := range repos {
			if !repo.IsDir() {
				continue
			}
			name, version, found := strings.Cut(repo.Name(), "@")
			if !found {
				continue
			}
			packages = append(packages, Package{Org: org.Name(), Repo: name, Version: version})
		}
	}

	sort.Slice(packages, func(i, j int) bool { return packages[i].ID() < packages[j].ID() })
	return packages, nil
}

// Remappings builds solc import remappings so rendered contracts can import
// installed packages as @org/repo/path.sol
func (m *Manager) Remappings() ([]string, error) {
	packages, err := m.List()
	if err != nil {
		return nil, err
	}

	remappings := make([]string, 0, len(packages))
	for _, pkg := range packages {
		remappings = append(remappings,
			fmt.Sprintf("@%s/%s/=%s/", pkg.Org, pkg.Repo, m.path(pkg)))
	}
	return remappings, nil
}

func (m *Manager) path(pkg Package) string {
	return filepath.Join(m.dir, pkg.Org, pkg.Repo+"@"+pkg.Version)
}
