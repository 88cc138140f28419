package models

// RequestContext is threaded through every payload of one pipeline run.
type RequestContext struct {
	RequestID string `json:"meta_request_id"`
	ClientID  string `json:"meta_client_id"`
}
