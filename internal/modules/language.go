package modules

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"

	"github.com/blacktop/bytebun/internal/analysis"
)

// language files, newest layout first
var languageFiles = []struct {
	path   string
	isJSON bool
}{
	{"assets/minecraft/lang/en_us.json", true},
	{"assets/minecraft/lang/en_us.lang", false},
	{"assets/minecraft/lang/en_US.lang", false},
	{"lang/en_US.lang", false},
}

// LanguageModule provides the English translation table, grouped by the first
// component of each key.
type LanguageModule struct{}

func (m *LanguageModule) Name() string        { return "language" }
func (m *LanguageModule) Description() string { return "Provides the English translation strings" }
func (m *LanguageModule) Provides() []string  { return []string{"language"} }
func (m *LanguageModule) Depends() []string   { return nil }

func (m *LanguageModule) Act(facts *analysis.Facts, repo analysis.Repository, verbose bool) error {
	logger := verboseLog(verbose)
	for _, lf := range languageFiles {
		f, err := repo.Open(lf.path)
		if err != nil {
			continue
		}
		var entries map[string]string
		if lf.isJSON {
			err = json.NewDecoder(f).Decode(&entries)
		} else {
			entries, err = parseLang(f)
		}
		f.Close()
		if err != nil {
			return analysis.Failf("language", "failed to parse %s: %v", lf.path, err)
		}

		language := facts.Ensure("language")
		for key, value := range entries {
			category, name, ok := strings.Cut(key, ".")
			if !ok {
				logger.Warnf("Skipping translation key without a category: %s", key)
				continue
			}
			group, ok := language[category].(map[string]any)
			if !ok {
				group = make(map[string]any)
				language[category] = group
			}
			group[name] = value
		}
		logger.Debugf("Loaded %d translations from %s", len(entries), lf.path)
		return nil
	}
	return analysis.Failf("language", "no language file found")
}

// parseLang reads the legacy key=value format
func parseLang(r io.Reader) (map[string]string, error) {
	entries := make(map[string]string)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		entries[key] = value
	}
	return entries, scanner.Err()
}
