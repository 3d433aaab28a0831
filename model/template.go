package model

// Template describes how one action is turned into an instruction.
type Template struct {
	Action      Action    `yaml:"action"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Body        string    `yaml:"template"`
	Required    []string  `yaml:"required"`
	Optional    []string  `yaml:"optional,omitempty"`
	Examples    []Example `yaml:"examples,omitempty"`
}

type Example struct {
	Input       string `yaml:"input"`
	Output      string `yaml:"output"`
	Description string `yaml:"description,omitempty"`
}
