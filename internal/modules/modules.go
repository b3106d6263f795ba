// Package modules contains the analysis modules run by bytebun.
//
// Every module is a small struct implementing analysis.Module. Modules read
// the class names found by identify from the "classes" namespace and drive
// symexec walks with their own Observer to pull facts out of the bytecode.
package modules

import (
	"github.com/apex/log"
	"github.com/apex/log/handlers/discard"

	"github.com/blacktop/bytebun/internal/analysis"
	"github.com/blacktop/bytebun/pkg/classfile"
)

// All returns every known module in a fixed order
func All() []analysis.Module {
	return []analysis.Module{
		&IdentifyModule{},
		&VersionModule{},
		&LanguageModule{},
		&EnchantmentsModule{},
		&InstrumentsModule{},
		&EntitiesModule{},
		&EntityMetadataModule{},
	}
}

// className returns the class identify found for key
func className(module string, facts *analysis.Facts, key string) (string, error) {
	name, ok := facts.String("classes", key)
	if !ok || name == "" {
		return "", analysis.Failf(module, "class %q was not identified", key)
	}
	return name, nil
}

// load is repo.Load with the module's name on the error
func load(module string, repo analysis.Repository, name string) (*classfile.ClassFile, error) {
	cf, err := repo.Load(name)
	if err != nil {
		return nil, analysis.Failf(module, "failed to load %s: %v", name, err)
	}
	return cf, nil
}

// verboseLog returns the package logger when verbose is set and a silent one otherwise
func verboseLog(verbose bool) log.Interface {
	if verbose {
		return log.Log
	}
	return quiet
}

var quiet = &log.Logger{Handler: discard.Default, Level: log.InfoLevel}
