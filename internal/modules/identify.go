package modules

import (
	"slices"
	"strings"

	"github.com/blacktop/bytebun/internal/analysis"
	"github.com/blacktop/bytebun/pkg/classfile"
)

// fingerprint finds a class by the string constants it holds
type fingerprint struct {
	key     string
	anyOf   []string
	outer   bool // report the enclosing class of the match
	matches func(cf *classfile.ClassFile, s string) bool
}

var fingerprints = []fingerprint{
	{key: "anvilchunkloader", anyOf: []string{"hasLegacyStructureData", "Chunk file at {} is in the wrong location; relocating. (Expected {}, got {})"}},
	{key: "chatcomponent", anyOf: []string{"Don't know how to serialize ", "Don't know how to turn "}, outer: true},
	{key: "enchantments", anyOf: []string{"sweeping"}},
	{key: "entity.list", anyOf: []string{"Skipping Entity with id ", "Skipping Entity with id {}"}},
	{key: "itemstack", anyOf: []string{"#%04d/%d%s"}},
	{key: "metadata", anyOf: []string{"Data value id is too big with "}, matches: hasPrefixString},
	{key: "nbtcompound", anyOf: []string{"Tried to read NBT tag that was too big; tried to allocate: ", "Corrupt NBT tag"}, matches: hasPrefixString},
	{key: "nethandler.server", anyOf: []string{"Outdated server! I'm still on ", "multiplayer.disconnect.outdated_client"}, matches: hasPrefixString},
	{key: "position", anyOf: []string{"Position{x="}, matches: hasPrefixString},
}

func hasPrefixString(cf *classfile.ClassFile, s string) bool {
	for _, str := range cf.Constants.Strings() {
		if strings.HasPrefix(str, s) {
			return true
		}
	}
	return false
}

func hasString(cf *classfile.ClassFile, s string) bool {
	return cf.Constants.HasString(s)
}

// IdentifyModule finds the obfuscated names of the classes other modules work on.
type IdentifyModule struct{}

// Name returns the module name
func (m *IdentifyModule) Name() string {
	return "identify"
}

// Description returns what the module provides
func (m *IdentifyModule) Description() string {
	return "Identifies key classes by the strings they contain"
}

// Provides returns "identify.<key>" for every fingerprint
func (m *IdentifyModule) Provides() []string {
	out := make([]string, 0, len(fingerprints))
	for _, fp := range fingerprints {
		out = append(out, "identify."+fp.key)
	}
	return out
}

// Depends returns nothing; identify runs first.
func (m *IdentifyModule) Depends() []string {
	return nil
}

// Act writes the name of every identified class to facts["classes"][key]
func (m *IdentifyModule) Act(facts *analysis.Facts, repo analysis.Repository, verbose bool) error {
	logger := verboseLog(verbose)
	classes := facts.Ensure("classes")

	for _, name := range repo.Classes() {
		var cf *classfile.ClassFile
		for _, fp := range fingerprints {
			if _, found := classes[fp.key]; found {
				continue
			}
			if cf == nil {
				var err error
				if cf, err = repo.Load(name); err != nil {
					logger.WithError(err).Warnf("Skipping unreadable class %s", name)
					break
				}
			}
			if !fp.match(cf) {
				continue
			}
			found := name
			if fp.outer {
				found, _, _ = strings.Cut(name, "$")
			}
			classes[fp.key] = found
			logger.Debugf("Identified %s as %s", fp.key, found)
		}
		if len(classes) == len(fingerprints) {
			break
		}
	}

	for _, fp := range fingerprints {
		if _, found := classes[fp.key]; !found {
			logger.Warnf("Unable to identify %s", fp.key)
		}
	}
	return nil
}

func (fp fingerprint) match(cf *classfile.ClassFile) bool {
	matches := fp.matches
	if matches == nil {
		matches = hasString
	}
	return slices.ContainsFunc(fp.anyOf, func(s string) bool {
		return matches(cf, s)
	})
}
