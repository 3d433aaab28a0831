package model

type ProjectType string

const (
	ProjectGenesis ProjectType = "genesis"
	ProjectOther   ProjectType = "other"
)

// ProjectContext is a snapshot of the entity, model and repository names
// known in a workspace. It is read, never modified, while rendering.
type ProjectContext struct {
	Root         string      `json:"root,omitempty"`
	Entities     []string    `json:"entities"`
	Models       []string    `json:"models"`
	Repositories []string    `json:"repositories"`
	Type         ProjectType `json:"projectType"`
}

// Recognized reports whether c describes a Genesis workspace. A nil
// context is never recognized.
func (c *ProjectContext) Recognized() bool {
	return c != nil && c.Type == ProjectGenesis
}
