package markup

import (
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
)

// LanguageDetector guesses the language of a code snippet. It returns ""
// when it has no guess.
type LanguageDetector interface {
	Detect(code string) string
}

// ChromaDetector guesses languages with chroma's lexer analysers.
type ChromaDetector struct{}

// Detect returns the primary alias of the best scoring lexer.
func (ChromaDetector) Detect(code string) string {
	lexer := lexers.Analyse(code)
	if lexer == nil {
		return ""
	}
	cfg := lexer.Config()
	if cfg == nil {
		return ""
	}
	if len(cfg.Aliases) > 0 {
		return cfg.Aliases[0]
	}
	return strings.ReplaceAll(strings.ToLower(cfg.Name), " ", "-")
}
