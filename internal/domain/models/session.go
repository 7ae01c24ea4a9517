package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// SessionKind is the discriminant of the Session sum type
type SessionKind string

const (
	SessionKindChat    SessionKind = "chat"
	SessionKindCompare SessionKind = "compare"
)

// Role identifies the author of a chat message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of document Q&A
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Session is one unit of user work: either a *ChatSession or a *CompareSession.
// The interface is sealed; no other implementations exist.
type Session interface {
	SessionID() int64
	Kind() SessionKind
	// Clone returns a deep copy so stores never hand out aliased state
	Clone() Session
	// WithID returns a copy carrying the given id
	WithID(id int64) Session

	sealed()
}

// ChatSession is an analysis-and-Q&A thread over one document.
// Analysis is nil until the document has been demystified; it is set at most once.
// Messages only ever grow.
type ChatSession struct {
	ID       int64     `json:"id"`
	Document Document  `json:"document"`
	Analysis *Analysis `json:"analysis"`
	Messages []Message `json:"messages"`
}

// CompareSession is a structural comparison of DocumentA (original) against DocumentB (revised)
type CompareSession struct {
	ID         int64       `json:"id"`
	DocumentA  Document    `json:"documentA"`
	DocumentB  Document    `json:"documentB"`
	Comparison *Comparison `json:"comparison"`
}

func (s *ChatSession) SessionID() int64  { return s.ID }
func (s *ChatSession) Kind() SessionKind { return SessionKindChat }
func (s *ChatSession) sealed()           {}

func (s *ChatSession) Clone() Session {
	return &ChatSession{
		ID:       s.ID,
		Document: s.Document,
		Analysis: s.Analysis.Clone(),
		Messages: cloneSlice(s.Messages),
	}
}

func (s *ChatSession) WithID(id int64) Session {
	c := s.Clone().(*ChatSession)
	c.ID = id
	return c
}

func (s *CompareSession) SessionID() int64  { return s.ID }
func (s *CompareSession) Kind() SessionKind { return SessionKindCompare }
func (s *CompareSession) sealed()           {}

func (s *CompareSession) Clone() Session {
	return &CompareSession{
		ID:         s.ID,
		DocumentA:  s.DocumentA,
		DocumentB:  s.DocumentB,
		Comparison: s.Comparison.Clone(),
	}
}

func (s *CompareSession) WithID(id int64) Session {
	c := s.Clone().(*CompareSession)
	c.ID = id
	return c
}

// NewChatSession creates an unanalyzed chat session for a document (id assigned by the store)
func NewChatSession(doc Document) *ChatSession {
	return &ChatSession{Document: doc, Messages: []Message{}}
}

// NewCompareSession creates a compare session (id assigned by the store)
func NewCompareSession(docA, docB Document, comparison *Comparison) *CompareSession {
	return &CompareSession{DocumentA: docA, DocumentB: docB, Comparison: comparison}
}

// MarshalJSON adds the "type" discriminator
func (s *ChatSession) MarshalJSON() ([]byte, error) {
	type alias ChatSession
	a := alias(*s)
	if a.Messages == nil {
		a.Messages = []Message{}
	}
	return json.Marshal(struct {
		Type SessionKind `json:"type"`
		alias
	}{SessionKindChat, a})
}

// MarshalJSON adds the "type" discriminator
func (s *CompareSession) MarshalJSON() ([]byte, error) {
	type alias CompareSession
	return json.Marshal(struct {
		Type SessionKind `json:"type"`
		alias
	}{SessionKindCompare, alias(*s)})
}

// UnmarshalSession decodes a session from its discriminated JSON form
func UnmarshalSession(data []byte) (Session, error) {
	var head struct {
		Type SessionKind `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode session type: %w", err)
	}

	switch head.Type {
	case SessionKindChat:
		var s ChatSession
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("decode chat session: %w", err)
		}
		if s.Messages == nil {
			s.Messages = []Message{}
		}
		return &s, nil
	case SessionKindCompare:
		var s CompareSession
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("decode compare session: %w", err)
		}
		return &s, nil
	default:
		return nil, fmt.Errorf("unknown session type %q", head.Type)
	}
}

// NextSessionID returns a creation-timestamp id (milliseconds) that is strictly
// greater than last, so ids stay unique and monotonic even within one millisecond.
func NextSessionID(last int64, now time.Time) int64 {
	id := now.UnixMilli()
	if id <= last {
		id = last + 1
	}
	return id
}
