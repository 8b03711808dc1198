package survey

import (
	"bytes"
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Document is the survey payload returned by the generation service.
// The store treats it as an opaque JSON value; the accessors below only
// read well-known fields for display and never affect state handling.
type Document json.RawMessage

// Question is a display summary of one generated question.
type Question struct {
	Text    string
	Options []string
}

// IsZero reports whether the document is absent
func (d Document) IsZero() bool {
	trimmed := bytes.TrimSpace(d)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// MarshalJSON emits the raw payload unchanged
func (d Document) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return d, nil
}

// UnmarshalJSON stores a copy of the raw payload in fresh memory
func (d *Document) UnmarshalJSON(data []byte) error {
	*d = Document(bytes.Clone(data))
	return nil
}

// Clone returns a copy of d that shares no memory with it
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	return Document(bytes.Clone(d))
}

// Title returns the survey name, if the payload has one
func (d Document) Title() string {
	return d.first("survey_name", "title", "name")
}

// Intro returns the survey introduction, if the payload has one
func (d Document) Intro() string {
	return d.first("survey_intro", "intro", "description")
}

// Questions summarizes the question list, if the payload has one
func (d Document) Questions() []Question {
	if d.IsZero() || !gjson.ValidBytes(d) {
		return nil
	}

	list := gjson.GetBytes(d, "questions")
	if !list.IsArray() {
		return nil
	}

	var questions []Question
	list.ForEach(func(_, q gjson.Result) bool {
		question := Question{
			Text: firstOf(q, "question_text", "question", "title", "text"),
		}
		if question.Text == "" && q.Type == gjson.String {
			question.Text = q.String()
		}
		q.Get("options").ForEach(func(_, opt gjson.Result) bool {
			question.Options = append(question.Options, opt.String())
			return true
		})
		questions = append(questions, question)
		return true
	})
	return questions
}

func (d Document) first(paths ...string) string {
	if d.IsZero() || !gjson.ValidBytes(d) {
		return ""
	}
	return firstOf(gjson.ParseBytes(d), paths...)
}

func firstOf(r gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := r.Get(p); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}
