// Package translator is the boundary to an external language-detection and
// translation service. The core treats it as a fallible black box: it hands
// over free text and gets back either a usable short language code /
// translated string or the Unknown sentinel, never a panic.
package translator

import "golang.org/x/text/language"

// Unknown is the sentinel for "no usable language tag". Posts carrying it
// simply render untranslated.
const Unknown = ""

// MaxTagLength bounds the language tag stored on a post. Anything longer is
// treated as unusable.
const MaxTagLength = 8

// Translator abstracts the external language service.
type Translator interface {
	// Detect returns a best-guess BCP-47 tag for the text, or Unknown.
	Detect(text string) string
	// Translate renders text from the source into the target language.
	Translate(text, source, target string) (string, error)
}

// NormalizeTag canonicalizes a BCP-47 language tag. Malformed, unknown, or
// over-long tags normalize to Unknown rather than failing the caller.
func NormalizeTag(tag string) string {
	if tag == "" {
		return Unknown
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return Unknown
	}
	canonical := parsed.String()
	if len(canonical) > MaxTagLength {
		return Unknown
	}
	return canonical
}
