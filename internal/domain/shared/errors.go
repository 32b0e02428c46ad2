package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Schedule-related errors

type ScheduleError struct {
	*DomainError
	LegID int
}

func NewScheduleError(legID int, message string) *ScheduleError {
	return &ScheduleError{DomainError: &DomainError{Message: message}, LegID: legID}
}

// BallastLegError is returned when an edit targets the voyage's starting leg
type BallastLegError struct {
	*ScheduleError
}

func NewBallastLegError(legID int, operation string) *BallastLegError {
	return &BallastLegError{
		ScheduleError: NewScheduleError(legID, fmt.Sprintf("cannot %s the ballast leg", operation)),
	}
}

// NonDeletableLegError is returned when a cargo leg is removed directly instead of
// through the cargo's port lists
type NonDeletableLegError struct {
	*ScheduleError
	PortName string
}

func NewNonDeletableLegError(legID int, portName string) *NonDeletableLegError {
	return &NonDeletableLegError{
		ScheduleError: NewScheduleError(legID,
			fmt.Sprintf("port call %d (%s) belongs to the cargo and must be removed from its port list", legID, portName)),
		PortName: portName,
	}
}

// Lookup errors

type NotFoundError struct {
	*DomainError
	Kind string
	Key  string
}

func NewNotFoundError(kind, key string) *NotFoundError {
	return &NotFoundError{
		DomainError: &DomainError{Message: fmt.Sprintf("%s not found: %s", kind, key)},
		Kind:        kind,
		Key:         key,
	}
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
