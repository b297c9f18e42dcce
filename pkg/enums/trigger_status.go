package enums

import "fmt"

// TriggerStatus is the lifecycle state of a procurement trigger.
type TriggerStatus string

const (
	TriggerStatusPending   TriggerStatus = "pending"
	TriggerStatusResolved  TriggerStatus = "resolved"
	TriggerStatusFulfilled TriggerStatus = "fulfilled"
)

var validTriggerStatuses = []TriggerStatus{
	TriggerStatusPending,
	TriggerStatusResolved,
	TriggerStatusFulfilled,
}

// IsValid reports whether the value matches a canonical trigger status.
func (s TriggerStatus) IsValid() bool {
	for _, candidate := range validTriggerStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseTriggerStatus converts raw input into TriggerStatus.
func ParseTriggerStatus(value string) (TriggerStatus, error) {
	for _, candidate := range validTriggerStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid trigger status %q", value)
}
