package task

import (
	"encoding/json"
	"fmt"
)

const (
	TypeRefreshAccess = "RefreshAccessTask"
	TypeResetAccess   = "ResetAccessTask"
)

// Types lists every task type; each has its own stream.
var Types = []string{TypeRefreshAccess, TypeResetAccess}

type Task interface {
	TaskType() string
	TaskValue() ([]byte, error)
}

// DefaultTaskValue provides a common implementation for TaskValue
func DefaultTaskValue(task any) ([]byte, error) {
	return json.Marshal(task)
}

func UnmarshalTask[T any](data []byte) (*T, error) {
	var t T
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to decode task: %w", err)
	}
	return &t, nil
}
