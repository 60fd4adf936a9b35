package format

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Registry holds registered formats.
type Registry struct {
	formats map[string]Format
}

// DefaultRegistry is the global format registry.
var DefaultRegistry = NewRegistry()

// NewRegistry creates a new format registry.
func NewRegistry() *Registry {
	return &Registry{
		formats: make(map[string]Format),
	}
}

// Register adds a format to the registry.
func (r *Registry) Register(f Format) {
	r.formats[f.Name()] = f
}

// Get retrieves a format by name.
func (r *Registry) Get(name string) (Format, bool) {
	f, ok := r.formats[strings.ToLower(name)]
	return f, ok
}

// List returns all registered format names in sorted order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.formats))
	for name := range r.formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ForPath picks the format registered for the file extension of path.
func (r *Registry) ForPath(path string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return nil, fmt.Errorf("cannot detect format of %s: no file extension", path)
	}
	for _, name := range r.List() {
		f := r.formats[name]
		for _, fext := range f.Extensions() {
			if ext == fext {
				return f, nil
			}
		}
	}
	return nil, fmt.Errorf("unsupported file type %q for %s (supported: %s)", "."+ext, path, strings.Join(r.extensions(), ", "))
}

// ReaderForPath returns the reader for path's extension.
func (r *Registry) ReaderForPath(path string) (Reader, error) {
	f, err := r.ForPath(path)
	if err != nil {
		return nil, err
	}
	rd, ok := f.(Reader)
	if !ok {
		return nil, fmt.Errorf("format %s does not support reading", f.Name())
	}
	return rd, nil
}

// WriterForPath returns the writer for path's extension.
func (r *Registry) WriterForPath(path string) (Writer, error) {
	f, err := r.ForPath(path)
	if err != nil {
		return nil, err
	}
	w, ok := f.(Writer)
	if !ok {
		return nil, fmt.Errorf("format %s does not support writing", f.Name())
	}
	return w, nil
}

func (r *Registry) extensions() []string {
	var exts []string
	for _, name := range r.List() {
		for _, e := range r.formats[name].Extensions() {
			exts = append(exts, "."+e)
		}
	}
	return exts
}

// Register adds a format to the default registry.
func Register(f Format) {
	DefaultRegistry.Register(f)
}

// Get retrieves a format from the default registry.
func Get(name string) (Format, bool) {
	return DefaultRegistry.Get(name)
}

// ReaderForPath looks up a reader in the default registry.
func ReaderForPath(path string) (Reader, error) {
	return DefaultRegistry.ReaderForPath(path)
}

// WriterForPath looks up a writer in the default registry.
func WriterForPath(path string) (Writer, error) {
	return DefaultRegistry.WriterForPath(path)
}
