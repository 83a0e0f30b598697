package mcp

// OutputInfo is one display output as reported by the tools.
type OutputInfo struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Mode        string  `json:"mode"`
	X           int     `json:"x"`
	Y           int     `json:"y"`
	Scale       float64 `json:"scale"`
	Enabled     bool    `json:"enabled"`
	Connected   bool    `json:"connected"`
	Workspaces  []int   `json:"workspaces,omitempty"`
}

// ListOutputsInput is the input for the list_outputs tool.
type ListOutputsInput struct{}

// ListOutputsOutput is the output for the list_outputs tool.
type ListOutputsOutput struct {
	Backend string       `json:"backend"`
	Outputs []OutputInfo `json:"outputs"`
}

// PresetInfo is one saved preset as reported by list_presets.
type PresetInfo struct {
	Name    string `json:"name"`
	Outputs int    `json:"outputs"`
	SavedAt string `json:"saved_at"`
}

// ListPresetsInput is the input for the list_presets tool.
type ListPresetsInput struct{}

// ListPresetsOutput is the output for the list_presets tool.
type ListPresetsOutput struct {
	Presets []PresetInfo `json:"presets"`
}

// ApplyPresetInput is the input for the apply_preset tool.
type ApplyPresetInput struct {
	Name string `json:"name" jsonschema:"required,Name of the preset to apply"`
}

// ApplyPresetOutput is the output for the apply_preset tool.
type ApplyPresetOutput struct {
	Applied string       `json:"applied"`
	Outputs []OutputInfo `json:"outputs"`
}

// SavePresetInput is the input for the save_preset tool.
type SavePresetInput struct {
	Name      string `json:"name" jsonschema:"required,Name to save the preset under"`
	Overwrite bool   `json:"overwrite,omitempty" jsonschema:"Replace an existing preset of the same name"`
}

// SavePresetOutput is the output for the save_preset tool.
type SavePresetOutput struct {
	Saved   string `json:"saved"`
	Outputs int    `json:"outputs"`
}

// SetOutputInput is the input for the set_output tool. Only the fields
// that are set change the output; everything else stays as is.
type SetOutputInput struct {
	Output     string   `json:"output" jsonschema:"required,Name of the output to change (e.g. DP-1)"`
	X          *int     `json:"x,omitempty" jsonschema:"New X position in the shared logical coordinate space"`
	Y          *int     `json:"y,omitempty" jsonschema:"New Y position in the shared logical coordinate space"`
	Width      *int     `json:"width,omitempty" jsonschema:"Pixel width of the mode to select (requires height)"`
	Height     *int     `json:"height,omitempty" jsonschema:"Pixel height of the mode to select (requires width)"`
	Scale      *float64 `json:"scale,omitempty" jsonschema:"New scale factor (e.g. 1.0, 1.5, 2.0)"`
	Enabled    *bool    `json:"enabled,omitempty" jsonschema:"Enable or disable the output; a disabled output keeps its position"`
	Workspaces []int    `json:"workspaces,omitempty" jsonschema:"Workspace numbers to assign to this output; each is removed from other outputs first"`
}

// SetOutputOutput is the output for the set_output tool.
type SetOutputOutput struct {
	Output  OutputInfo   `json:"output"`
	Outputs []OutputInfo `json:"outputs"`
}
