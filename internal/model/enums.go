package model

import "fmt"

// RequestStatus represents the lifecycle state of a service request.
type RequestStatus string

const (
	RequestStatusPending    RequestStatus = "PENDING"
	RequestStatusInProgress RequestStatus = "IN_PROGRESS"
	RequestStatusOnHold     RequestStatus = "ON_HOLD"
	RequestStatusCompleted  RequestStatus = "COMPLETED"
	RequestStatusCancelled  RequestStatus = "CANCELLED"
	RequestStatusRejected   RequestStatus = "REJECTED"
)

// ParseRequestStatus validates a raw status value from the API boundary.
func ParseRequestStatus(raw string) (RequestStatus, error) {
	switch RequestStatus(raw) {
	case RequestStatusPending, RequestStatusInProgress, RequestStatusOnHold,
		RequestStatusCompleted, RequestStatusCancelled, RequestStatusRejected:
		return RequestStatus(raw), nil
	}
	return "", fmt.Errorf("%w: invalid request status %q", ErrValidation, raw)
}

// RequestPriority represents the urgency of a service request.
type RequestPriority string

const (
	RequestPriorityLow      RequestPriority = "LOW"
	RequestPriorityMedium   RequestPriority = "MEDIUM"
	RequestPriorityHigh     RequestPriority = "HIGH"
	RequestPriorityCritical RequestPriority = "CRITICAL"
)

// ParseRequestPriority validates a raw priority value from the API boundary.
func ParseRequestPriority(raw string) (RequestPriority, error) {
	switch RequestPriority(raw) {
	case RequestPriorityLow, RequestPriorityMedium, RequestPriorityHigh, RequestPriorityCritical:
		return RequestPriority(raw), nil
	}
	return "", fmt.Errorf("%w: invalid request priority %q", ErrValidation, raw)
}

// StepStatus represents the state of a single request step.
type StepStatus string

const (
	StepStatusPending    StepStatus = "PENDING"
	StepStatusInProgress StepStatus = "IN_PROGRESS"
	StepStatusCompleted  StepStatus = "COMPLETED"
	StepStatusSkipped    StepStatus = "SKIPPED"
)

// Step types recorded on the audit trail.
const (
	StepTypeInitial      = "Inicio"
	StepTypeStatusChange = "StatusChange"
	StepTypeAssignment   = "Assignment"
)

// InitialStepName is the name of the step appended when a request is created.
const InitialStepName = "Solicitud Creada"
