package models

import (
	"strconv"
	"time"
)

// Task is the record stored in the tasks table. Timestamps are kept as
// decimal strings of epoch milliseconds, matching the wire contract.
type Task struct {
	ID        string `json:"id" dynamodbav:"id"`
	Text      string `json:"text" dynamodbav:"text"`
	Done      bool   `json:"done" dynamodbav:"done"`
	CreatedAt string `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt string `json:"updatedAt" dynamodbav:"updatedAt"`
}

// EpochMillis encodes t in the timestamp format used by CreatedAt/UpdatedAt.
func EpochMillis(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}
