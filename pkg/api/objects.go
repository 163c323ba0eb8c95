package api

import (
	"encoding/json"
)

// ObjectInfo is an entry of an object storage listing.
type ObjectInfo struct {
	LastModified string `json:"last_modified"`
	Size         int64  `json:"size"`
	Key          string `json:"key"`
}

// ErrorResponse is the error body written at the command line and HTTP boundaries
type ErrorResponse struct {
	Message string `json:"message"`
}

// ErrorJSON returns the JSON error body for the given message
func ErrorJSON(message string) string {
	b, _ := json.Marshal(ErrorResponse{Message: message})
	return string(b)
}
