package activity

import (
	"encoding/json"
	"fmt"
)

// DetailKind names a detail variant.
type DetailKind string

const (
	KindTask      DetailKind = "task"
	KindProject   DetailKind = "project"
	KindMilestone DetailKind = "milestone"
	KindComment   DetailKind = "comment"
	KindDocument  DetailKind = "document"
	KindAuth      DetailKind = "auth"
	KindResource  DetailKind = "resource"
	KindPageVisit DetailKind = "page_visit"
)

// Detail is the type-specific payload of an event. The concrete variant is
// selected by the event type; see EventType.DetailKind.
type Detail interface {
	Kind() DetailKind
}

type TaskDetail struct {
	TaskID string `json:"task_id,omitempty"`
	Title  string `json:"title,omitempty"`
	Status string `json:"status,omitempty"`
}

type ProjectDetail struct {
	Name string `json:"name,omitempty"`
}

type MilestoneDetail struct {
	MilestoneID string `json:"milestone_id,omitempty"`
	Title       string `json:"title,omitempty"`
}

type CommentDetail struct {
	CommentID string `json:"comment_id,omitempty"`
	TaskID    string `json:"task_id,omitempty"`
	Excerpt   string `json:"excerpt,omitempty"`
}

type DocumentDetail struct {
	DocumentID string `json:"document_id,omitempty"`
	Name       string `json:"name,omitempty"`
	SizeBytes  int64  `json:"size_bytes,omitempty"`
}

type AuthDetail struct {
	Method    string `json:"method,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

type ResourceDetail struct {
	ResourceID string  `json:"resource_id,omitempty"`
	Name       string  `json:"name,omitempty"`
	Hours      float64 `json:"hours,omitempty"`
}

// PageVisitDetail is the only variant the aggregation reads: Pathname feeds
// the distinct-pages metric.
type PageVisitDetail struct {
	Pathname string `json:"pathname"`
	Title    string `json:"title,omitempty"`
}

func (TaskDetail) Kind() DetailKind      { return KindTask }
func (ProjectDetail) Kind() DetailKind   { return KindProject }
func (MilestoneDetail) Kind() DetailKind { return KindMilestone }
func (CommentDetail) Kind() DetailKind   { return KindComment }
func (DocumentDetail) Kind() DetailKind  { return KindDocument }
func (AuthDetail) Kind() DetailKind      { return KindAuth }
func (ResourceDetail) Kind() DetailKind  { return KindResource }
func (PageVisitDetail) Kind() DetailKind { return KindPageVisit }

// checkDetail reports whether d may be attached to an event of type t.
// A nil detail is always accepted.
func checkDetail(t EventType, d Detail) error {
	if d == nil {
		return nil
	}
	if d.Kind() != t.DetailKind() {
		return fmt.Errorf("%w: %s carries %s detail, got %s", ErrDetailMismatch, t, t.DetailKind(), d.Kind())
	}
	return nil
}

// MarshalDetail encodes a detail for storage. Nil encodes as an empty object.
func MarshalDetail(d Detail) ([]byte, error) {
	if d == nil {
		return []byte("{}"), nil
	}
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode %s detail: %w", d.Kind(), err)
	}
	return data, nil
}

// UnmarshalDetail decodes a stored detail into the variant for t. Empty input
// yields a nil detail.
func UnmarshalDetail(t EventType, data []byte) (Detail, error) {
	if len(data) == 0 || string(data) == "{}" || string(data) == "null" {
		return nil, nil
	}
	switch t.DetailKind() {
	case KindTask:
		return decodeAs[TaskDetail](data)
	case KindProject:
		return decodeAs[ProjectDetail](data)
	case KindMilestone:
		return decodeAs[MilestoneDetail](data)
	case KindComment:
		return decodeAs[CommentDetail](data)
	case KindDocument:
		return decodeAs[DocumentDetail](data)
	case KindAuth:
		return decodeAs[AuthDetail](data)
	case KindResource:
		return decodeAs[ResourceDetail](data)
	case KindPageVisit:
		return decodeAs[PageVisitDetail](data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, t)
	}
}

// DetailFromMap converts a loosely typed payload (as received over the wire)
// into the detail variant for t.
func DetailFromMap(t EventType, fields map[string]any) (Detail, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode detail fields: %w", err)
	}
	return UnmarshalDetail(t, data)
}

// DetailToMap flattens a detail for wire responses.
func DetailToMap(d Detail) map[string]any {
	if d == nil {
		return nil
	}
	data, err := json.Marshal(d)
	if err != nil {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

func decodeAs[T Detail](data []byte) (Detail, error) {
	var d T
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode %s detail: %w", d.Kind(), err)
	}
	return d, nil
}
