package editor

import (
	"regexp"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/nobatyar/nobat/internal/slug"
)

// Rule is one validation constraint on a draft field.
type Rule struct {
	Check   func(value string) bool
	Message string
}

// Field describes an editable field and its constraints, checked in
// order; the first failure per field is reported.
type Field struct {
	Key   string
	Rules []Rule
}

// Messages are the user-facing notification strings for one entity kind.
type Messages struct {
	Created      string
	Updated      string
	CreateFailed string
	UpdateFailed string
	FetchFailed  string
	NotFound     string
	ImageFailed  string
}

// Config parameterizes the generic machine for one entity kind.
type Config struct {
	Kind        string
	AddModal    string
	EditModal   string
	TargetParam string
	ListTag     string

	Fields     []Field
	NameField  string
	SlugField  string
	ImageField string
	Defaults   map[string]string

	// ToPayload converts the draft into the mutation payload; FromRecord
	// converts a fetched record back into draft form.
	ToPayload  func(draft map[string]string) map[string]any
	FromRecord func(record map[string]any) map[string]string

	Messages Messages
}

// DetailTag returns the cache tag for one record of this kind.
func (c Config) DetailTag(id string) string {
	return c.Kind + "/detail/" + id
}

// Validate checks every field rule against the draft and returns the
// failures keyed by field.
func (c Config) Validate(draft map[string]string) map[string]string {
	errs := make(map[string]string)
	for _, f := range c.Fields {
		value := draft[f.Key]
		for _, r := range f.Rules {
			if !r.Check(value) {
				errs[f.Key] = r.Message
				break
			}
		}
	}
	return errs
}

var digitsRe = regexp.MustCompile(`^\d+$`)

func minRunes(n int, msg string) Rule {
	return Rule{Check: func(v string) bool { return utf8.RuneCountInString(v) >= n }, Message: msg}
}

func exactRunes(n int, msg string) Rule {
	return Rule{Check: func(v string) bool { return utf8.RuneCountInString(v) == n }, Message: msg}
}

func required(msg string) Rule {
	return Rule{Check: func(v string) bool { return v != "" }, Message: msg}
}

func persianScript(msg string) Rule {
	return Rule{Check: slug.IsPersian, Message: msg}
}

func slugAlphabet(msg string) Rule {
	return Rule{Check: slug.IsSlug, Message: msg}
}

func digitsOnly(msg string) Rule {
	return Rule{Check: func(v string) bool { return digitsRe.MatchString(v) }, Message: msg}
}

func uuidValue(msg string) Rule {
	return Rule{Check: func(v string) bool {
		_, err := uuid.Parse(v)
		return err == nil
	}, Message: msg}
}

func oneOf(msg string, allowed ...string) Rule {
	return Rule{Check: func(v string) bool {
		for _, a := range allowed {
			if v == a {
				return true
			}
		}
		return false
	}, Message: msg}
}

func isoDate(msg string) Rule {
	dateRe := regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	return Rule{Check: func(v string) bool { return dateRe.MatchString(v) }, Message: msg}
}

func str(record map[string]any, key string) string {
	if v, ok := record[key].(string); ok {
		return v
	}
	return ""
}

func strList(record map[string]any, key string) []string {
	raw, ok := record[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
