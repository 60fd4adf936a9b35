package profile

import (
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed profiles/*.yaml
var embeddedProfiles embed.FS

// Registry holds loaded profiles by name.
type Registry struct {
	profiles map[string]*Profile
}

// NewRegistry creates a registry with the embedded profiles loaded.
func NewRegistry() (*Registry, error) {
	r := &Registry{
		profiles: map[string]*Profile{DefaultName: Default()},
	}

	entries, err := embeddedProfiles.ReadDir("profiles")
	if err != nil {
		return r, nil
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		data, err := embeddedProfiles.ReadFile("profiles/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("reading embedded profile %s: %w", entry.Name(), err)
		}

		p, err := parse(data)
		if err != nil {
			return nil, fmt.Errorf("embedded profile %s: %w", entry.Name(), err)
		}
		r.add(strings.TrimSuffix(entry.Name(), ".yaml"), p)
	}

	return r, nil
}

func (r *Registry) add(fallbackName string, p *Profile) {
	if p.Name == "" {
		p.Name = fallbackName
	}
	r.profiles[p.Name] = Merge(Default(), p)
}

// Get retrieves a profile by name.
func (r *Registry) Get(name string) (*Profile, bool) {
	p, ok := r.profiles[name]
	return p, ok
}

// Register adds a profile to the registry, replacing one with the same name.
func (r *Registry) Register(p *Profile) {
	r.profiles[p.Name] = p
}

// List returns all registered profile names in sorted order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadFromDirectory loads every YAML profile in dir. Profiles that fail to
// parse are logged and skipped. A missing directory is not an error.
func (r *Registry) LoadFromDirectory(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading profile directory: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !(strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")) {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			slog.Warn("skipping profile", "file", name, "err", err)
			continue
		}
		p, err := parse(data)
		if err != nil {
			slog.Warn("skipping profile", "file", name, "err", err)
			continue
		}
		r.add(strings.TrimSuffix(strings.TrimSuffix(name, ".yaml"), ".yml"), p)
	}

	return nil
}

// configDirOverride holds a user-specified configuration directory.
// When empty, the default $HOME/.curfill is used.
var configDirOverride string

// SetConfigDir overrides the default configuration directory.
func SetConfigDir(dir string) {
	configDirOverride = dir
}

// ConfigDir returns the curfill configuration directory.
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".curfill"), nil
}

// ProfilesDir returns the user profiles directory.
func ProfilesDir() (string, error) {
	configDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "profiles"), nil
}

// ProfilePath returns the path for a user profile file.
func ProfilePath(name string) (string, error) {
	dir, err := ProfilesDir()
	if err != nil {
		return "", err
	}
	name = strings.ToLower(strings.ReplaceAll(name, " ", "-"))
	return filepath.Join(dir, name+".yaml"), nil
}

// Save writes the profile to the user profiles directory.
func (p *Profile) Save() error {
	dir, err := ProfilesDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating profiles directory: %w", err)
	}

	path, err := ProfilePath(p.Name)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling profile: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing profile: %w", err)
	}

	return nil
}

// LoadRegistry builds the full registry: embedded profiles first and user
// profiles on top.
func LoadRegistry() (*Registry, error) {
	r, err := NewRegistry()
	if err != nil {
		return nil, err
	}
	dir, err := ProfilesDir()
	if err != nil {
		return nil, err
	}
	if err := r.LoadFromDirectory(dir); err != nil {
		return nil, err
	}
	return r, nil
}

// Load returns the named profile from the full registry. An empty name selects
// the default profile.
func Load(name string) (*Profile, error) {
	if name == "" {
		name = DefaultName
	}

	r, err := LoadRegistry()
	if err != nil {
		return nil, err
	}

	p, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown profile: %s (not found in user or embedded profiles)", name)
	}
	return p, nil
}
