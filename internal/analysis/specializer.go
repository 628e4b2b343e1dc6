package analysis

import (
	"sort"
	"strings"

	"github.com/rohankatakam/codeinsight/internal/errors"
	"github.com/rohankatakam/codeinsight/internal/models"
)

// Language selects a specializer
type Language string

const (
	LanguagePython Language = "python"
	LanguageGo     Language = "go"
)

// markerRule raises tag when every marker occurs in the text
type markerRule struct {
	markers []string
	tag     models.PatternTag
}

// specializers is read-only after package init. Add a language by adding an
// entry here.
var specializers = map[Language][]markerRule{
	LanguagePython: {
		{[]string{"async def"}, models.PatternAsyncFunction},
		{[]string{"await "}, models.PatternAwaitUsage},
		{[]string{"@"}, models.PatternDecoratorUsage},
		{[]string{"yield"}, models.PatternGenerator},
	},
	LanguageGo: {
		{[]string{"[", "]", "func"}, models.PatternGenericsUsage},
		{[]string{"interface{"}, models.PatternInterfaceDefinition},
		{[]string{"defer "}, models.PatternDeferUsage},
		{[]string{"recover()"}, models.PatternPanicRecovery},
	},
}

// ParseLanguage resolves a selector case-insensitively
func ParseLanguage(name string) (Language, error) {
	lang := Language(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := specializers[lang]; !ok {
		return "", errors.UnsupportedLanguage(name)
	}
	return lang, nil
}

// SupportedLanguages lists the registered selectors in sorted order
func SupportedLanguages() []Language {
	out := make([]Language, 0, len(specializers))
	for lang := range specializers {
		out = append(out, lang)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Specialize re-scans text for language-specific markers and returns a copy of
// base carrying them as LanguagePatterns. base itself is left untouched.
func Specialize(base *models.AnalysisResult, text string, lang Language) (*models.AnalysisResult, error) {
	rules, ok := specializers[lang]
	if !ok {
		return nil, errors.UnsupportedLanguage(string(lang))
	}
	if base == nil {
		base = ScanStructure(text)
	}

	var extra []models.PatternTag
	for _, rule := range rules {
		if containsAll(text, rule.markers) {
			extra = append(extra, rule.tag)
		}
	}

	out := base.Clone()
	out.Language = string(lang)
	out.LanguagePatterns = extra
	return out, nil
}

// AnalyzeLanguage scans text and specializes it for the named language
func AnalyzeLanguage(text, language string) (*models.AnalysisResult, error) {
	lang, err := ParseLanguage(language)
	if err != nil {
		return nil, err
	}
	return Specialize(ScanStructure(text), text, lang)
}

func containsAll(text string, markers []string) bool {
	for _, m := range markers {
		if !strings.Contains(text, m) {
			return false
		}
	}
	return true
}
