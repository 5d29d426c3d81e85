// Package content maps the serialized text stored in a note's content
// column to and from its structured in-memory shape. A note holds an
// ordered list of sections; an interview holds a main answer plus
// follow-up question/answer pairs. Text that does not parse as the
// structured form for its type is carried as a single plain-markdown
// body.
package content

import (
	"encoding/json"
	"fmt"
)

// Note types as stored in the type column. Anything unrecognized is
// normalized to TypeNote.
const (
	TypeNote      = "note"
	TypeInterview = "interview"
)

// NormalizeType collapses unknown type values to TypeNote, matching
// the defaulting applied on create and update.
func NormalizeType(t string) string {
	if t == TypeInterview {
		return TypeInterview
	}
	return TypeNote
}

type Kind string

const (
	KindSections  Kind = "sections"
	KindInterview Kind = "interview"
)

// Section is one heading/body block of a plain note. Heading may be
// empty.
type Section struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

type FollowUp struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Interview struct {
	Answer    string     `json:"answer"`
	FollowUps []FollowUp `json:"followUps"`
}

// Payload is the decoded form of a note's content column. Exactly one
// of Sections or Interview is meaningful, selected by Kind.
type Payload struct {
	Kind      Kind
	Sections  []Section
	Interview Interview
}

// Decode parses raw content for the given note type. It never fails:
// text that is not valid JSON, or whose shape does not match the type,
// degrades to a single plain-markdown body.
func Decode(noteType, raw string) Payload {
	switch noteType {
	case TypeInterview:
		var iv Interview
		if jsonObjectHasKey(raw, "answer") && json.Unmarshal([]byte(raw), &iv) == nil {
			if iv.FollowUps == nil {
				iv.FollowUps = []FollowUp{}
			}
			return Payload{Kind: KindInterview, Interview: iv}
		}
		return Payload{Kind: KindInterview, Interview: Interview{Answer: raw, FollowUps: []FollowUp{}}}
	default:
		var secs []Section
		// []Section stays nil for JSON null, so this also rejects "null".
		if err := json.Unmarshal([]byte(raw), &secs); err == nil && secs != nil {
			return Payload{Kind: KindSections, Sections: secs}
		}
		return Payload{Kind: KindSections, Sections: []Section{{Body: raw}}}
	}
}

// Encode serializes a payload back to the stored text form. Sections
// become a JSON array of {heading, body}; an interview becomes
// {answer, followUps}.
func Encode(p Payload) (string, error) {
	switch p.Kind {
	case KindSections:
		b, err := json.Marshal(p.Sections)
		if err != nil {
			return "", fmt.Errorf("encode sections: %w", err)
		}
		return string(b), nil
	case KindInterview:
		iv := p.Interview
		if iv.FollowUps == nil {
			iv.FollowUps = []FollowUp{}
		}
		b, err := json.Marshal(iv)
		if err != nil {
			return "", fmt.Errorf("encode interview: %w", err)
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("encode: unknown kind %q", p.Kind)
	}
}

// jsonObjectHasKey reports whether raw is a JSON object containing the
// given top-level key. Decoding into a map first keeps a bare string or
// array from being mistaken for an interview payload.
func jsonObjectHasKey(raw, key string) bool {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return false
	}
	_, ok := obj[key]
	return ok
}
