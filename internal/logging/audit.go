package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// =============================================================================
// AUDIT EVENT TYPES
// =============================================================================

// AuditEventType defines the type of audit event
type AuditEventType string

const (
	// Search cascade
	AuditSearchComplete AuditEventType = "search_complete"
	AuditTierFailure    AuditEventType = "tier_failure"
	AuditSearchStale    AuditEventType = "search_stale"

	// Order lifecycle
	AuditOrderCreated AuditEventType = "order_created"
	AuditOrderStatus  AuditEventType = "order_status"
	AuditOrderMiss    AuditEventType = "order_miss"

	// Dispatch
	AuditDispatchPrimary  AuditEventType = "dispatch_primary"
	AuditDispatchFallback AuditEventType = "dispatch_fallback"
)

// AuditEvent is one JSON line in the audit log.
type AuditEvent struct {
	Timestamp  int64                  `json:"ts"`      // Unix milliseconds
	EventType  AuditEventType         `json:"event"`   // Event kind
	Category   string                 `json:"cat"`     // Log category
	SessionID  string                 `json:"session"` // Search session correlation
	Target     string                 `json:"target"`  // Order id, query, tier name
	Success    bool                   `json:"success"`
	DurationMs int64                  `json:"dur_ms"`
	Error      string                 `json:"error,omitempty"`
	Message    string                 `json:"msg,omitempty"`
	Fields     map[string]interface{} `json:"fields,omitempty"`
}

// =============================================================================
// AUDIT LOGGER
// =============================================================================

var (
	auditFile *os.File
	auditMu   sync.Mutex
)

// AuditLogger writes audit events, optionally scoped to a session.
type AuditLogger struct {
	sessionID string
	category  Category
}

// InitAudit opens the audit log. No-op outside debug mode.
func InitAudit() error {
	if !IsDebugMode() {
		return nil
	}

	configMu.RLock()
	dir := logsDir
	configMu.RUnlock()

	auditMu.Lock()
	defer auditMu.Unlock()

	if auditFile != nil {
		return nil // Already initialized
	}

	date := time.Now().Format("2006-01-02")
	auditPath := filepath.Join(dir, fmt.Sprintf("%s_audit.log", date))

	file, err := os.OpenFile(auditPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	auditFile = file
	return nil
}

// CloseAudit closes the audit log file
func CloseAudit() {
	auditMu.Lock()
	defer auditMu.Unlock()

	if auditFile != nil {
		auditFile.Close()
		auditFile = nil
	}
}

// Audit returns an unscoped audit logger for the given category.
func Audit(category Category) *AuditLogger {
	return &AuditLogger{category: category}
}

// AuditWithSession creates an audit logger scoped to a search session
func AuditWithSession(sessionID string, category Category) *AuditLogger {
	return &AuditLogger{sessionID: sessionID, category: category}
}

// Log writes an audit event
func (a *AuditLogger) Log(event AuditEvent) {
	if !IsDebugMode() {
		return
	}

	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UnixMilli()
	}
	if event.SessionID == "" {
		event.SessionID = a.sessionID
	}
	if event.Category == "" {
		event.Category = string(a.category)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	auditMu.Lock()
	defer auditMu.Unlock()
	if auditFile == nil {
		return
	}
	auditFile.Write(append(data, '\n'))
}

// SearchComplete records the tier that answered a search.
func (a *AuditLogger) SearchComplete(query, tier string, results int, dur time.Duration) {
	a.Log(AuditEvent{
		EventType:  AuditSearchComplete,
		Target:     query,
		Success:    results > 0,
		DurationMs: dur.Milliseconds(),
		Fields:     map[string]interface{}{"tier": tier, "results": results},
	})
}

// TierFailure records a tier that errored or came back empty.
func (a *AuditLogger) TierFailure(query, tier string, err error) {
	e := AuditEvent{EventType: AuditTierFailure, Target: tier, Message: query}
	if err != nil {
		e.Error = err.Error()
	}
	a.Log(e)
}

// OrderCreated records a new order.
func (a *AuditLogger) OrderCreated(orderID string, total float64) {
	a.Log(AuditEvent{
		EventType: AuditOrderCreated,
		Target:    orderID,
		Success:   true,
		Fields:    map[string]interface{}{"total": total},
	})
}

// OrderStatus records a status update, or a miss when found is false.
func (a *AuditLogger) OrderStatus(orderID, status string, found bool) {
	event := AuditOrderStatus
	if !found {
		event = AuditOrderMiss
	}
	a.Log(AuditEvent{EventType: event, Target: orderID, Success: found, Message: status})
}

// Dispatch records a dispatch outcome.
func (a *AuditLogger) Dispatch(target string, fallback bool, err error) {
	e := AuditEvent{EventType: AuditDispatchPrimary, Target: target, Success: !fallback}
	if fallback {
		e.EventType = AuditDispatchFallback
	}
	if err != nil {
		e.Error = err.Error()
	}
	a.Log(e)
}
