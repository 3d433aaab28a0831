package model

import "time"

// PromptRecord is an archived prompt as stored on disk.
type PromptRecord struct {
	ID        string
	Action    Action
	Resource  string
	Call      string // the call source, e.g. Backend.eliminar("proyecto", 789)
	Prompt    string
	Source    string // file the call was read from, if any
	CreatedAt time.Time
}
