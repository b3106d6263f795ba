package modules

import (
	"slices"
	"strings"

	"github.com/blacktop/bytebun/internal/analysis"
	"github.com/blacktop/bytebun/pkg/classfile"
)

// InstrumentsModule provides the note block instruments, read from the enum
// that names the "harp" instrument.
type InstrumentsModule struct{}

func (m *InstrumentsModule) Name() string        { return "instruments" }
func (m *InstrumentsModule) Description() string { return "Provides all instruments" }
func (m *InstrumentsModule) Provides() []string  { return []string{"instruments"} }
func (m *InstrumentsModule) Depends() []string   { return nil }

func (m *InstrumentsModule) Act(facts *analysis.Facts, repo analysis.Repository, verbose bool) error {
	logger := verboseLog(verbose)

	matches, err := repo.SearchConstantPool(func(c classfile.Constant) bool {
		s, ok := c.(*classfile.String)
		return ok && s.Value == "harp"
	})
	if err != nil {
		return analysis.Failf(m.Name(), "failed to search constant pools: %v", err)
	}
	var candidates []string
	for _, match := range matches {
		if !slices.Contains(candidates, match.Class) {
			candidates = append(candidates, match.Class)
		}
	}

	for _, name := range candidates {
		cf, err := load(m.Name(), repo, name)
		if err != nil {
			return err
		}
		if !cf.AccessFlags.IsEnum() {
			continue
		}
		constants, err := EnumConstants(cf)
		if err != nil {
			logger.WithError(err).Warnf("Failed to read enum constants of %s", name)
			continue
		}

		instruments := make([]any, 0, len(constants))
		for _, c := range constants {
			instruments = append(instruments, map[string]any{
				"id":    c.Ordinal,
				"name":  instrumentName(c),
				"enum":  c.Name,
				"field": c.Field,
			})
		}
		if len(instruments) == 0 {
			continue
		}
		facts.Set("instruments", instruments)
		logger.Debugf("Found %d instruments in %s", len(instruments), name)
		return nil
	}
	return analysis.Failf(m.Name(), "no instrument enum found among %v", candidates)
}

// instrumentName is the first string constructor argument, or the lowercased constant name
func instrumentName(c EnumConstant) string {
	for _, arg := range c.Args {
		if s, ok := arg.(string); ok {
			return s
		}
	}
	return strings.ToLower(c.Name)
}
