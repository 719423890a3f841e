package models

import "fmt"

type TaskStatus string

const (
	TaskIncomplete TaskStatus = "INCOMPLETE"
	TaskNotStarted TaskStatus = "NOT_STARTED"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskCompleted  TaskStatus = "COMPLETED"
	TaskCancelled  TaskStatus = "CANCELLED"
)

// taskTransitions lists the legal targets of each task status.
var taskTransitions = map[TaskStatus][]TaskStatus{
	TaskIncomplete: {TaskNotStarted, TaskCancelled},
	TaskNotStarted: {TaskInProgress, TaskCancelled},
	TaskInProgress: {TaskNotStarted, TaskCompleted, TaskCancelled},
	TaskCompleted:  {},
	TaskCancelled:  {TaskNotStarted},
}

// Valid reports whether s is a known task status literal.
func (s TaskStatus) Valid() bool {
	_, ok := taskTransitions[s]
	return ok
}

// CanTransitionTo reports whether moving from s to target is legal.
// Staying in the same status is always legal.
func (s TaskStatus) CanTransitionTo(target TaskStatus) bool {
	if s == target {
		return s.Valid()
	}
	for _, next := range taskTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Transition validates a move from s to target and returns the new status.
func (s TaskStatus) Transition(target TaskStatus) (TaskStatus, error) {
	if !target.Valid() {
		return s, &TransitionError{Entity: "task", From: string(s), To: string(target), Unknown: true}
	}
	if !s.CanTransitionTo(target) {
		return s, &TransitionError{Entity: "task", From: string(s), To: string(target)}
	}
	return target, nil
}

type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "PENDING"
	ApplicationAccepted  ApplicationStatus = "ACCEPTED"
	ApplicationRejected  ApplicationStatus = "REJECTED"
	ApplicationWithdrawn ApplicationStatus = "WITHDRAWN"
)

var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationPending:   {ApplicationAccepted, ApplicationRejected, ApplicationWithdrawn},
	ApplicationAccepted:  {ApplicationRejected, ApplicationWithdrawn},
	ApplicationRejected:  {ApplicationPending},
	ApplicationWithdrawn: {ApplicationPending},
}

// Valid reports whether s is a known application status literal.
func (s ApplicationStatus) Valid() bool {
	_, ok := applicationTransitions[s]
	return ok
}

// CanTransitionTo reports whether moving from s to target is legal.
func (s ApplicationStatus) CanTransitionTo(target ApplicationStatus) bool {
	if s == target {
		return s.Valid()
	}
	for _, next := range applicationTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Deletable reports whether an application in status s may be removed by its applicant.
func (s ApplicationStatus) Deletable() bool {
	return s == ApplicationRejected || s == ApplicationWithdrawn
}

// Transition validates a move from s to target and returns the new status.
func (s ApplicationStatus) Transition(target ApplicationStatus) (ApplicationStatus, error) {
	if !target.Valid() {
		return s, &TransitionError{Entity: "application", From: string(s), To: string(target), Unknown: true}
	}
	if !s.CanTransitionTo(target) {
		return s, &TransitionError{Entity: "application", From: string(s), To: string(target)}
	}
	return target, nil
}

// TransitionError is returned when a status change is not allowed.
type TransitionError struct {
	Entity  string
	From    string
	To      string
	Unknown bool
}

func (e *TransitionError) Error() string {
	if e.Unknown {
		return fmt.Sprintf("unknown %s status %q", e.Entity, e.To)
	}
	return fmt.Sprintf("cannot move %s from %s to %s", e.Entity, e.From, e.To)
}
