// Package jar is a class repository over a jar (zip) archive.
package jar

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/klauspost/compress/zip"

	"github.com/blacktop/bytebun/pkg/classfile"
)

// DefaultCacheSize is the number of parsed classes kept per archive
const DefaultCacheSize = 1024

// ErrClassNotFound is returned by Load for a class the archive does not contain.
var ErrClassNotFound = errors.New("class not found")

// Match is one constant pool entry accepted by a SearchConstantPool predicate
type Match struct {
	Class    string
	Index    uint16
	Constant classfile.Constant
}

type Option func(*Archive)

// WithCacheSize sets how many parsed classes the archive keeps
func WithCacheSize(n int) Option {
	return func(a *Archive) {
		a.cacheSize = n
	}
}

// Archive is a read-only view of one artifact. Parsed classes are cached per
// Archive and never shared with another one.
type Archive struct {
	path   string
	size   int64
	closer io.Closer

	files   map[string]*zip.File
	entries []string
	classes []string

	cacheSize int
	cache     *lru.Cache[string, *classfile.ClassFile]
}

// Open opens the jar at path
func Open(path string, opts ...Option) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to read jar %s: %w", path, err)
	}
	a, err := newArchive(path, info.Size(), zr, f, opts...)
	if err != nil {
		f.Close()
		return nil, err
	}
	return a, nil
}

// NewMemory builds an archive from entry name to contents. Class entries must
// use the ".class" suffix.
func NewMemory(files map[string][]byte, opts ...Option) (*Archive, error) {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(files[name]); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		return nil, err
	}
	return newArchive("memory", int64(buf.Len()), zr, nil, opts...)
}

func newArchive(path string, size int64, zr *zip.Reader, closer io.Closer, opts ...Option) (*Archive, error) {
	a := &Archive{
		path:      path,
		size:      size,
		closer:    closer,
		files:     make(map[string]*zip.File, len(zr.File)),
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(a)
	}

	cache, err := lru.New[string, *classfile.ClassFile](a.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create class cache: %w", err)
	}
	a.cache = cache

	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if _, dup := a.files[f.Name]; dup {
			continue
		}
		a.files[f.Name] = f
		a.entries = append(a.entries, f.Name)
		if name, ok := strings.CutSuffix(f.Name, ".class"); ok {
			a.classes = append(a.classes, name)
		}
	}
	sort.Strings(a.classes)

	return a, nil
}

// Path returns the file the archive was opened from
func (a *Archive) Path() string {
	return a.path
}

// Size returns the archive size in bytes
func (a *Archive) Size() int64 {
	return a.size
}

// Entries returns every file entry in archive order
func (a *Archive) Entries() []string {
	return a.entries
}

// Classes returns the internal names of all classes, sorted
func (a *Archive) Classes() []string {
	return a.classes
}

// HasClass reports whether the archive contains the class
func (a *Archive) HasClass(name string) bool {
	_, ok := a.files[strings.TrimSuffix(name, ".class")+".class"]
	return ok
}

// Load parses (or returns the cached) class called name. Both "a/b" and
// "a/b.class" are accepted.
func (a *Archive) Load(name string) (*classfile.ClassFile, error) {
	name = strings.TrimSuffix(name, ".class")
	if cf, ok := a.cache.Get(name); ok {
		return cf, nil
	}
	f, ok := a.files[name+".class"]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrClassNotFound, name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer rc.Close()

	cf, err := classfile.Parse(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", f.Name, err)
	}
	a.cache.Add(name, cf)
	return cf, nil
}

// SearchConstantPool loads every class and returns the constants for which
// pred returns true, in class order then pool order.
func (a *Archive) SearchConstantPool(pred func(classfile.Constant) bool) ([]Match, error) {
	var matches []Match
	for _, name := range a.classes {
		cf, err := a.Load(name)
		if err != nil {
			return nil, err
		}
		for i, c := range cf.Constants {
			if c != nil && pred(c) {
				matches = append(matches, Match{Class: name, Index: uint16(i), Constant: c})
			}
		}
	}
	return matches, nil
}

// Open opens a non-class resource such as "version.json"
func (a *Archive) Open(name string) (io.ReadCloser, error) {
	f, ok := a.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return f.Open()
}

// ReadFile returns the contents of a resource
func (a *Archive) ReadFile(name string) ([]byte, error) {
	rc, err := a.Open(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Close releases the underlying file and drops the class cache
func (a *Archive) Close() error {
	a.cache.Purge()
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}
