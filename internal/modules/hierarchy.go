package modules

import (
	"github.com/blacktop/bytebun/internal/analysis"
)

// NoSuperclass is the parent of every class whose superclass is not part of
// the artifact, e.g. classes extending java/lang/Object directly.
const NoSuperclass = "<no superclass>"

// Hierarchy answers superclass questions about one artifact, loading each
// class at most once.
type Hierarchy struct {
	repo    analysis.Repository
	classes map[string]bool
	parents map[string]string
}

// NewHierarchy returns a Hierarchy over repo
func NewHierarchy(repo analysis.Repository) *Hierarchy {
	h := &Hierarchy{
		repo:    repo,
		classes: make(map[string]bool),
		parents: make(map[string]string),
	}
	for _, name := range repo.Classes() {
		h.classes[name] = true
	}
	return h
}

// Contains reports whether name is a class of the artifact
func (h *Hierarchy) Contains(name string) bool {
	return h.classes[name]
}

// Parent returns the superclass of name, or NoSuperclass
func (h *Hierarchy) Parent(name string) (string, error) {
	if parent, ok := h.parents[name]; ok {
		return parent, nil
	}
	parent := NoSuperclass
	if h.Contains(name) {
		cf, err := h.repo.Load(name)
		if err != nil {
			return "", err
		}
		if h.Contains(cf.SuperClass) {
			parent = cf.SuperClass
		}
	}
	h.parents[name] = parent
	return parent, nil
}

// Root returns the topmost ancestor of name that is still part of the artifact
func (h *Hierarchy) Root(name string) (string, error) {
	for {
		parent, err := h.Parent(name)
		if err != nil {
			return "", err
		}
		if parent == NoSuperclass {
			return name, nil
		}
		name = parent
	}
}
