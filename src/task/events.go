package task

import "time"

type TaskEvent struct {
	JobID     string        `json:"job_id"`
	Type      TaskEventType `json:"type"`
	Timestamp time.Time     `json:"timestamp"`
}

type TaskEventType string

const (
	Started            TaskEventType = "started"
	Downloaded         TaskEventType = "downloaded"
	Failed             TaskEventType = "failed"
	Completed          TaskEventType = "completed"
	Cleaned            TaskEventType = "cleaned"
	Processing         TaskEventType = "processing"
	ProcessingComplete TaskEventType = "processing-complete"
	Uploading          TaskEventType = "uploading"
)
