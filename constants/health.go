package constants

// HealthStatus classifies project risk from completion and deadline.
type HealthStatus string

const (
	HealthOnTrack   HealthStatus = "ON_TRACK"
	HealthAtRisk    HealthStatus = "AT_RISK"
	HealthOverdue   HealthStatus = "OVERDUE"
	HealthCompleted HealthStatus = "COMPLETED"
)

// Color codes shown alongside health statuses.
const (
	HealthColorGreen  = "#10B981"
	HealthColorBlue   = "#3B82F6"
	HealthColorOrange = "#F59E0B"
	HealthColorRed    = "#EF4444"
)
