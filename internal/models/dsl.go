package models

// DSLRequest carries a Harmony DSL script
type DSLRequest struct {
	DSL  string  `json:"dsl" binding:"required"`
	Seed *uint64 `json:"seed,omitempty"`
}

// DSLResponse represents the executed statements, one action each
type DSLResponse struct {
	Actions []map[string]interface{} `json:"actions"`
	Seed    uint64                   `json:"seed"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind"`
	RequestID string `json:"request_id,omitempty"`
}
