// Package audit provides security audit logging for SIEM consumption.
// It logs security-relevant events in structured JSON format for easy parsing
// and integration with security information and event management systems.
package audit

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// SecurityEventType categorizes security-relevant events for filtering and alerting.
type SecurityEventType string

const (
	// EventAuthFailure is logged when a request to a protected route carries
	// no valid session.
	EventAuthFailure SecurityEventType = "auth_failure"
	// EventSessionRejected is logged when a presented token fails validation.
	EventSessionRejected SecurityEventType = "session_rejected"
)

// SecurityEvent represents an auditable security event with the request
// context a SIEM needs to correlate it.
type SecurityEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType SecurityEventType `json:"event_type"`
	Method    string            `json:"method,omitempty"`
	Route     string            `json:"route,omitempty"`
	ClientIP  string            `json:"client_ip,omitempty"`
	Reason    string            `json:"reason,omitempty"`
	Severity  string            `json:"severity"` // info, warning, critical
}

// SecurityAuditor logs security events for SIEM consumption.
// A nil auditor is valid and drops every event.
type SecurityAuditor struct {
	logger *zap.Logger
}

// NewSecurityAuditor creates a new security auditor with a dedicated logger
// namespace so SIEM systems can filter on it.
func NewSecurityAuditor(logger *zap.Logger) *SecurityAuditor {
	return &SecurityAuditor{logger: logger.Named("security_audit")}
}

// LogAuthFailure records a rejected request to a protected route.
// Logged at WARN level; a burst of these from one client is a probe.
func (a *SecurityAuditor) LogAuthFailure(method, route, clientIP, reason string) {
	if a == nil {
		return
	}
	a.log("Unauthenticated request to protected route", SecurityEvent{
		Timestamp: time.Now().UTC(),
		EventType: EventAuthFailure,
		Method:    method,
		Route:     route,
		ClientIP:  clientIP,
		Reason:    reason,
		Severity:  "warning",
	})
}

// LogSessionRejected records a presented token that failed validation.
func (a *SecurityAuditor) LogSessionRejected(method, route, clientIP, reason string) {
	if a == nil {
		return
	}
	a.log("Session token rejected", SecurityEvent{
		Timestamp: time.Now().UTC(),
		EventType: EventSessionRejected,
		Method:    method,
		Route:     route,
		ClientIP:  clientIP,
		Reason:    reason,
		Severity:  "warning",
	})
}

func (a *SecurityAuditor) log(message string, event SecurityEvent) {
	// Marshaling known types should never fail
	eventJSON, _ := json.Marshal(event)

	a.logger.Warn(message,
		zap.String("event_json", string(eventJSON)),
		zap.String("event_type", string(event.EventType)),
		zap.String("method", event.Method),
		zap.String("route", event.Route),
		zap.String("client_ip", event.ClientIP),
		zap.String("severity", event.Severity),
	)
}
