package entity

import (
	"time"
)

// Audit actions
const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// FieldChange records one field of an UPDATE diff
type FieldChange struct {
	Field    string      `json:"field" bson:"field"`
	OldValue interface{} `json:"oldValue" bson:"oldValue"`
	NewValue interface{} `json:"newValue" bson:"newValue"`
}

// AuditLogEntry is an append-only record of a reservation mutation
type AuditLogEntry struct {
	ID        string        `json:"id" bson:"_id"`
	Timestamp time.Time     `json:"timestamp" bson:"timestamp"`
	UserID    string        `json:"userId" bson:"userId"`
	Username  string        `json:"username" bson:"username"`
	Action    string        `json:"action" bson:"action"`
	EntityID  string        `json:"entityId" bson:"entityId"`
	EntityPNR string        `json:"entityPNR" bson:"entityPnr"`
	Details   string        `json:"details" bson:"details"`
	Changes   []FieldChange `json:"changes,omitempty" bson:"changes,omitempty"`
}

// AuditLogFilter narrows an audit log query
type AuditLogFilter struct {
	Search string
	From   time.Time
	To     time.Time
	Limit  int
}
