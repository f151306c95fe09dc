package buffer

import "github.com/alecthomas/chroma/v2/lexers"

// DetectLanguage names the language of filename, or "" when no lexer
// claims it.
func DetectLanguage(filename string) string {
	lexer := lexers.Match(filename)
	if lexer == nil {
		return ""
	}
	config := lexer.Config()
	if config == nil {
		return ""
	}
	return config.Name
}
