package activity

import (
	"fmt"
	"time"
)

// EventType represents the kind of user action recorded in the log.
type EventType string

const (
	TypeTaskCreated         EventType = "TASK_CREATED"
	TypeTaskUpdated         EventType = "TASK_UPDATED"
	TypeTaskCompleted       EventType = "TASK_COMPLETED"
	TypeTaskDeleted         EventType = "TASK_DELETED"
	TypeProjectCreated      EventType = "PROJECT_CREATED"
	TypeProjectUpdated      EventType = "PROJECT_UPDATED"
	TypeProjectDeleted      EventType = "PROJECT_DELETED"
	TypeMilestoneCreated    EventType = "MILESTONE_CREATED"
	TypeMilestoneUpdated    EventType = "MILESTONE_UPDATED"
	TypeMilestoneCompleted  EventType = "MILESTONE_COMPLETED"
	TypeCommentAdded        EventType = "COMMENT_ADDED"
	TypeDocumentUploaded    EventType = "DOCUMENT_UPLOADED"
	TypeDocumentUpdated     EventType = "DOCUMENT_UPDATED"
	TypeDocumentDeleted     EventType = "DOCUMENT_DELETED"
	TypeUserLogin           EventType = "USER_LOGIN"
	TypeUserLogout          EventType = "USER_LOGOUT"
	TypeResourceAllocated   EventType = "RESOURCE_ALLOCATED"
	TypeResourceDeallocated EventType = "RESOURCE_DEALLOCATED"
	TypePageVisit           EventType = "PAGE_VISIT"
)

// eventKinds maps every known event type to the detail variant it carries.
// New kinds are added here by name; arbitrary strings are never accepted.
var eventKinds = map[EventType]DetailKind{
	TypeTaskCreated:         KindTask,
	TypeTaskUpdated:         KindTask,
	TypeTaskCompleted:       KindTask,
	TypeTaskDeleted:         KindTask,
	TypeProjectCreated:      KindProject,
	TypeProjectUpdated:      KindProject,
	TypeProjectDeleted:      KindProject,
	TypeMilestoneCreated:    KindMilestone,
	TypeMilestoneUpdated:    KindMilestone,
	TypeMilestoneCompleted:  KindMilestone,
	TypeCommentAdded:        KindComment,
	TypeDocumentUploaded:    KindDocument,
	TypeDocumentUpdated:     KindDocument,
	TypeDocumentDeleted:     KindDocument,
	TypeUserLogin:           KindAuth,
	TypeUserLogout:          KindAuth,
	TypeResourceAllocated:   KindResource,
	TypeResourceDeallocated: KindResource,
	TypePageVisit:           KindPageVisit,
}

// Valid reports whether t belongs to the closed set of event types.
func (t EventType) Valid() bool {
	_, ok := eventKinds[t]
	return ok
}

// DetailKind returns the detail variant carried by events of type t.
func (t EventType) DetailKind() DetailKind {
	return eventKinds[t]
}

// ParseEventType validates a wire value. Only the exact upper-case names are
// accepted.
func ParseEventType(raw string) (EventType, error) {
	t := EventType(raw)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownEventType, raw)
	}
	return t, nil
}

// EventTypes returns the closed enumeration in declaration order.
func EventTypes() []EventType {
	return []EventType{
		TypeTaskCreated, TypeTaskUpdated, TypeTaskCompleted, TypeTaskDeleted,
		TypeProjectCreated, TypeProjectUpdated, TypeProjectDeleted,
		TypeMilestoneCreated, TypeMilestoneUpdated, TypeMilestoneCompleted,
		TypeCommentAdded,
		TypeDocumentUploaded, TypeDocumentUpdated, TypeDocumentDeleted,
		TypeUserLogin, TypeUserLogout,
		TypeResourceAllocated, TypeResourceDeallocated,
		TypePageVisit,
	}
}

// Event is one immutable entry in the activity log.
type Event struct {
	ID              string    `json:"id"`
	ActorID         string    `json:"actor_id"`
	Type            EventType `json:"type"`
	Detail          Detail    `json:"detail,omitempty"`
	ProjectID       string    `json:"project_id,omitempty"`
	ClientTimestamp time.Time `json:"client_timestamp"`
	// OrderingKey is assigned by the store and only orders events for paging.
	OrderingKey int64 `json:"ordering_key"`
}

// Pathname returns the visited path for page-visit events, or "".
func (e Event) Pathname() string {
	if d, ok := e.Detail.(PageVisitDetail); ok {
		return d.Pathname
	}
	if d, ok := e.Detail.(*PageVisitDetail); ok && d != nil {
		return d.Pathname
	}
	return ""
}
