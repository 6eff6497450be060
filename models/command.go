package models

// Command is one bot command shown on the commands page.
type Command struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Usage       string `json:"usage,omitempty" yaml:"usage,omitempty"`
}

// CommandCategory groups commands under a heading. Slug and Title are
// derived from Name when the catalog is loaded.
type CommandCategory struct {
	Name     string    `json:"name" yaml:"name"`
	Slug     string    `json:"slug" yaml:"-"`
	Title    string    `json:"title" yaml:"-"`
	Commands []Command `json:"commands" yaml:"commands"`
}
