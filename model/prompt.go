package model

import "time"

// RenderedPrompt is the output of one render. It is never modified after
// creation.
type RenderedPrompt struct {
	ID        string          `json:"id"`
	Command   Command         `json:"command"`
	Text      string          `json:"prompt"`
	CreatedAt time.Time       `json:"timestamp"`
	Context   *ProjectContext `json:"context,omitempty"`
}
