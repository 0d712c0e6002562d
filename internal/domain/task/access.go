package task

// RefreshAccessTask drops the cached access of a session and regenerates it.
type RefreshAccessTask struct {
	SessionID string   `json:"session_id"`
	Roles     []string `json:"roles"`
	Mode      string   `json:"mode,omitempty"` // empty uses the configured mode
}

func (t *RefreshAccessTask) TaskType() string {
	return TypeRefreshAccess
}

func (t *RefreshAccessTask) TaskValue() ([]byte, error) {
	return DefaultTaskValue(t)
}

// ResetAccessTask drops the cached access of a session (logout).
type ResetAccessTask struct {
	SessionID string `json:"session_id"`
}

func (t *ResetAccessTask) TaskType() string {
	return TypeResetAccess
}

func (t *ResetAccessTask) TaskValue() ([]byte, error) {
	return DefaultTaskValue(t)
}
