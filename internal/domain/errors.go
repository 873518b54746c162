package domain

import "errors"

// Domain errors.
var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrSubtaskNotFound    = errors.New("subtask not found")
	ErrEmptyTitle         = errors.New("title cannot be empty")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidOrder       = errors.New("reorder list must be a permutation of one sibling group")
	ErrParentNotComposite = errors.New("parent subtask is not composite")
	ErrCompositeToggle    = errors.New("composite subtask cannot be completed directly")
	ErrNoSession          = errors.New("no active focus session")
	ErrSessionActive      = errors.New("focus session already active")
	ErrNotInitialized     = errors.New("store not initialized (run 'taskflow init' first)")
	ErrAlreadyInitialized = errors.New("taskflow already initialized")
	ErrAlreadyMigrated    = errors.New("guest data already migrated for this user")
	ErrMigrationFailed    = errors.New("guest migration failed")
)
