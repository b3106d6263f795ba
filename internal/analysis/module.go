// Package analysis runs analysis modules over artifacts in dependency order.
//
// Modules declare the fact names they provide and depend on. Resolve orders
// them so every module runs after the providers of its dependencies, and the
// Executor runs that order once per artifact against a fresh Facts store,
// skipping modules whose dependencies are not available for the artifact and
// rolling back the store when a module fails.
package analysis

import (
	"errors"
	"fmt"
	"io"

	"github.com/blacktop/bytebun/pkg/classfile"
	"github.com/blacktop/bytebun/pkg/jar"
)

// Repository gives modules access to the classes and resources of one artifact.
type Repository interface {
	// Classes returns the internal names of all classes in the artifact.
	Classes() []string
	// Load returns the parsed class; unknown names are an error.
	Load(name string) (*classfile.ClassFile, error)
	// SearchConstantPool returns every constant accepted by pred across all classes.
	SearchConstantPool(pred func(classfile.Constant) bool) ([]jar.Match, error)
	// Open opens a non-class resource.
	Open(name string) (io.ReadCloser, error)
}

// Artifact is a Repository the executor can describe and release.
type Artifact interface {
	Repository
	Entries() []string
	Size() int64
	Path() string
	Close() error
}

// Module is a self-contained analysis unit.
//
// Modules must be stateless across artifacts; everything they learn goes into
// the Facts passed to Act.
type Module interface {
	// Name is the identifier used to request the module.
	Name() string

	// Description is shown by the module listing.
	Description() string

	// Provides returns the dot-delimited fact names this module makes available,
	// e.g. "entities.metadata".
	Provides() []string

	// Depends returns the fact names that must be available before Act is called.
	Depends() []string

	// Act derives facts from repo and writes them to facts.
	//
	// Returning an error (or panicking) makes the executor restore facts to
	// their state before the call and leave this module's provides unavailable.
	Act(facts *Facts, repo Repository, verbose bool) error
}

// ModuleFunc is an adapter to allow ordinary functions to be used as Modules.
//
// Example:
//
//	m := NewModuleFunc(
//	    "enchantments",
//	    "Provides a list of all enchantments",
//	    []string{"enchantments"},
//	    []string{"identify.enchantments"},
//	    func(facts *Facts, repo Repository, verbose bool) error {
//	        // extraction logic here
//	        return nil
//	    },
//	)
type ModuleFunc struct {
	name        string
	description string
	provides    []string
	depends     []string
	act         func(*Facts, Repository, bool) error
}

func (m *ModuleFunc) Name() string        { return m.name }
func (m *ModuleFunc) Description() string { return m.description }
func (m *ModuleFunc) Provides() []string  { return m.provides }
func (m *ModuleFunc) Depends() []string   { return m.depends }
func (m *ModuleFunc) Act(facts *Facts, repo Repository, verbose bool) error {
	return m.act(facts, repo, verbose)
}

func (m *ModuleFunc) String() string { return m.name }

// NewModuleFunc creates a Module from a function.
func NewModuleFunc(
	name, description string,
	provides, depends []string,
	act func(*Facts, Repository, bool) error,
) Module {
	return &ModuleFunc{
		name:        name,
		description: description,
		provides:    provides,
		depends:     depends,
		act:         act,
	}
}

// AnalysisError reports input a module cannot handle, such as a class that
// does not have the expected shape in this version.
type AnalysisError struct {
	Module string
	Msg    string
	Err    error
}

func (e *AnalysisError) Error() string {
	return e.Module + ": " + e.Msg
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// Failf returns an *AnalysisError for module. A trailing error argument is
// also kept for errors.Is and errors.As.
func Failf(module, format string, args ...any) error {
	e := &AnalysisError{Module: module, Msg: fmt.Sprintf(format, args...)}
	if len(args) > 0 {
		if err, ok := args[len(args)-1].(error); ok {
			e.Err = err
		}
	}
	return e
}

var (
	// ErrUnresolvedDependency indicates a module depends on a fact no module provides.
	ErrUnresolvedDependency = errors.New("unresolved dependency")

	// ErrDependencyCycle indicates modules that (transitively) depend on each other.
	ErrDependencyCycle = errors.New("dependency cycle")

	// ErrDuplicateProvider indicates two modules that claim the same fact.
	ErrDuplicateProvider = errors.New("fact provided by more than one module")

	// ErrModuleFailed wraps the error (or recovered panic) of a failed module.
	ErrModuleFailed = errors.New("module failed")
)
