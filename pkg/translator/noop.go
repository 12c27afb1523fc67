package translator

import "errors"

// ErrUnavailable is returned when no translation backend is configured or
// the backend failed. Callers surface it as "translation unavailable", never
// as a crash.
var ErrUnavailable = errors.New("translation service unavailable")

// Noop is the default Translator used when no external service is wired in.
// It detects nothing and translates nothing.
type Noop struct{}

// Detect always reports Unknown; posts keep whatever tag the client sent.
func (Noop) Detect(text string) string {
	return Unknown
}

// Translate always fails with ErrUnavailable.
func (Noop) Translate(text, source, target string) (string, error) {
	return "", ErrUnavailable
}
