package constants

type TaskStatus string

const (
	TaskStatusNotStarted TaskStatus = "NOT_STARTED"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusBlocked    TaskStatus = "BLOCKED"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusNotStarted, TaskStatusInProgress, TaskStatusBlocked, TaskStatusCompleted:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityCritical TaskPriority = "CRITICAL"
	TaskPriorityHigh     TaskPriority = "HIGH"
	TaskPriorityMedium   TaskPriority = "MEDIUM"
	TaskPriorityLow      TaskPriority = "LOW"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityCritical, TaskPriorityHigh, TaskPriorityMedium, TaskPriorityLow:
		return true
	}
	return false
}

type AssignmentType string

const (
	AssignmentAdminAssigned AssignmentType = "ADMIN_ASSIGNED"
	AssignmentGeneralPool   AssignmentType = "GENERAL_POOL"
)

func (a AssignmentType) Valid() bool {
	return a == AssignmentAdminAssigned || a == AssignmentGeneralPool
}
