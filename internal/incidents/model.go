package incidents

import (
	"errors"
	"time"
)

type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
)

func (s Severity) Valid() bool {
	return s == SeverityHigh || s == SeverityMedium
}

// StatusAlertSent is the only status a successful Process returns.
const StatusAlertSent = "alert_sent"

// Classification is the derived triple for one event.
type Classification struct {
	Severity       Severity `json:"severity" yaml:"severity"`
	Summary        string   `json:"summary" yaml:"summary"`
	Recommendation string   `json:"recommendation" yaml:"recommendation"`
}

// Incident is written once and never updated.
type Incident struct {
	IncidentID     string    `json:"incident_id" dynamodbav:"incident_id"`
	Timestamp      time.Time `json:"timestamp" dynamodbav:"timestamp"`
	Source         string    `json:"source" dynamodbav:"source"`
	DetailType     string    `json:"detail_type" dynamodbav:"detail_type"`
	Severity       Severity  `json:"ai_severity" dynamodbav:"ai_severity"`
	Summary        string    `json:"ai_summary" dynamodbav:"ai_summary"`
	Recommendation string    `json:"ai_recommendation" dynamodbav:"ai_recommendation"`
}

type Result struct {
	Status     string `json:"status"`
	IncidentID string `json:"incident_id"`
}

type ListFilter struct {
	Severity Severity
	Source   string
	Limit    int
}

var (
	ErrPersist  = errors.New("persist incident")
	ErrNotify   = errors.New("publish notification")
	ErrNotFound = errors.New("incident not found")
)
