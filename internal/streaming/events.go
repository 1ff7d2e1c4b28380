package streaming

import (
	"time"

	"github.com/google/uuid"

	"argus/internal/domain/models"
)

// EventType represents the type of scan event
type EventType string

const (
	EventTypeScanStarted   EventType = "scan_started"
	EventTypeScanCompleted EventType = "scan_completed"
	EventTypeScanFailed    EventType = "scan_failed"
	EventTypeAppFlagged    EventType = "app_flagged"
	EventTypeFeedback      EventType = "feedback_recorded"
)

// ScanEvent is a real-time scan lifecycle or per-app risk event
type ScanEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	// Scan details
	ScanID   string `json:"scan_id,omitempty"`
	Apps     int    `json:"apps,omitempty"`
	Scanned  int    `json:"scanned,omitempty"`
	Excluded int    `json:"excluded,omitempty"`
	Flagged  int    `json:"flagged,omitempty"`
	Failed   int    `json:"failed,omitempty"`
	Error    string `json:"error,omitempty"`

	// App details, set for app_flagged events
	PackageName string           `json:"package_name,omitempty"`
	AppName     string           `json:"app_name,omitempty"`
	RiskScore   int              `json:"risk_score,omitempty"`
	RiskLevel   models.RiskLevel `json:"risk_level,omitempty"`
	RiskFactors []string         `json:"risk_factors,omitempty"`

	Metadata map[string]any `json:"metadata,omitempty"`
}

// NewScanLifecycleEvent creates a scan_started/completed/failed event
func NewScanLifecycleEvent(eventType EventType, scanID string) *ScanEvent {
	return &ScanEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		ScanID:    scanID,
	}
}

// NewAppFlaggedEvent creates an app_flagged event from an analyzed record
func NewAppFlaggedEvent(scanID string, rec *models.AppRecord) *ScanEvent {
	return &ScanEvent{
		ID:          uuid.New().String(),
		Type:        EventTypeAppFlagged,
		Timestamp:   time.Now(),
		ScanID:      scanID,
		PackageName: rec.PackageName,
		AppName:     rec.AppName,
		RiskScore:   rec.RiskScore,
		RiskLevel:   rec.RiskLevel,
		RiskFactors: rec.RiskFactors,
	}
}

// Subscription represents a client's event filtering preferences
type Subscription struct {
	// Filter by minimum risk level for app_flagged events (empty = all)
	MinRiskLevel models.RiskLevel `json:"min_risk_level,omitempty"`

	// Filter by event types (empty = all)
	Types []EventType `json:"types,omitempty"`

	// Filter by package names (empty = all)
	Packages []string `json:"packages,omitempty"`

	// Include scan lifecycle events even when MinRiskLevel is set
	IncludeLifecycle bool `json:"include_lifecycle,omitempty"`
}

// Matches checks if an event passes the subscription filters
func (s *Subscription) Matches(event *ScanEvent) bool {
	if len(s.Types) > 0 {
		found := false
		for _, t := range s.Types {
			if t == event.Type {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if event.Type == EventTypeAppFlagged {
		if s.MinRiskLevel != "" && event.RiskLevel.Ordinal() < s.MinRiskLevel.Ordinal() {
			return false
		}
		if len(s.Packages) > 0 {
			found := false
			for _, p := range s.Packages {
				if p == event.PackageName {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	} else if s.MinRiskLevel != "" && !s.IncludeLifecycle {
		return false
	}

	return true
}
