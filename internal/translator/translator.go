package translator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"korean_news_vn/internal/logger"
	"korean_news_vn/internal/metrics"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// ErrTranslation is wrapped by every error a Translator returns.
var ErrTranslation = errors.New("translation failed")

// Kind classifies translation failures.
type Kind string

const (
	KindTransport Kind = "transport"
	KindStatus    Kind = "status"
	KindDecode    Kind = "decode"
	KindEmpty     Kind = "empty"
)

// Error describes why a translation failed.
type Error struct {
	Kind     Kind
	Provider string
	Status   int
	Err      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s %s", ErrTranslation, e.Provider, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTranslation}
	}
	return []error{ErrTranslation, e.Err}
}

// Request is one piece of text to translate between two BCP-47 tags.
type Request struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

// Translator sends text to a hosted model and returns the translation.
type Translator interface {
	Translate(ctx context.Context, req Request) (string, error)
	Provider() string
}

// KindOf returns the failure kind of err, or "" if err is not a translation error.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return ""
}

// TranslateOrOriginal translates req and falls back to the untranslated text
// on any failure. The failure is logged and counted, never returned.
func TranslateOrOriginal(ctx context.Context, t Translator, m *metrics.Metrics, req Request) string {
	out, err := t.Translate(ctx, req)
	if err != nil {
		kind := KindOf(err)
		if kind == "" {
			kind = KindTransport
		}
		m.ObserveTranslation(t.Provider(), string(kind))
		logger.Log.WithFields(map[string]interface{}{
			"provider": t.Provider(),
			"kind":     string(kind),
		}).Errorf("Translation error: %v", err)
		return req.Text
	}
	m.ObserveTranslation(t.Provider(), "ok")
	return out
}

// Prompt builds the instruction sent to the model.
func Prompt(req Request) string {
	return fmt.Sprintf("Translate the following %s text to %s. Only return the translation, nothing else:\n\n%s",
		languageName(req.SourceLang), languageName(req.TargetLang), req.Text)
}

// languageName turns a tag like "ko" into "Korean". Unknown tags are used as-is.
func languageName(tag string) string {
	t, err := language.Parse(tag)
	if err != nil {
		return tag
	}
	if name := display.English.Tags().Name(t); name != "" {
		return name
	}
	return tag
}

// normalize defaults to Korean → Vietnamese.
func normalize(req Request) Request {
	if strings.TrimSpace(req.SourceLang) == "" {
		req.SourceLang = "ko"
	}
	if strings.TrimSpace(req.TargetLang) == "" {
		req.TargetLang = "vi"
	}
	return req
}
