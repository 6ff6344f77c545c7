package mcptools

// --- MCP Tool Input Types ---
// These structs define the JSON schema for each MCP tool's input.
// The MCP Go SDK auto-generates JSON schemas from struct tags.
// Identifiers travel as 32-character lowercase hex strings.

// AddNodeInput is the input for the add_node MCP tool.
type AddNodeInput struct {
	Attrs map[string]any `json:"attrs,omitempty" jsonschema:"node attributes; keys must not be empty, contain '.', start with '$' or equal _id"`
}

// AddNodeOutput is the result of the add_node MCP tool.
type AddNodeOutput struct {
	ID string `json:"id"`
}

// GetNodeInput is the input for the get_node MCP tool.
type GetNodeInput struct {
	ID string `json:"id" jsonschema:"node identifier (hex)"`
}

// GetNodeOutput is the result of the get_node MCP tool.
type GetNodeOutput struct {
	Found bool           `json:"found"`
	Node  map[string]any `json:"node,omitempty"`
}

// UpdateNodeInput is the input for the update_node MCP tool.
type UpdateNodeInput struct {
	ID    string         `json:"id" jsonschema:"node identifier (hex); a missing node is created"`
	Attrs map[string]any `json:"attrs" jsonschema:"attributes to merge into the node"`
}

// UpdateNodeOutput is the result of the update_node MCP tool.
type UpdateNodeOutput struct {
	ID string `json:"id"`
}

// RemoveNodeInput is the input for the remove_node MCP tool.
type RemoveNodeInput struct {
	ID string `json:"id" jsonschema:"node identifier (hex)"`
}

// RemoveNodeOutput is the result of the remove_node MCP tool.
type RemoveNodeOutput struct {
	// Cleaned is false when cascade cleanup of the node's edges failed.
	Cleaned bool `json:"cleaned"`
}

// EdgeInput is the input for the add_edge MCP tool.
type EdgeInput struct {
	From  string         `json:"from" jsonschema:"source node identifier (hex)"`
	To    string         `json:"to" jsonschema:"target node identifier (hex)"`
	Attrs map[string]any `json:"attrs,omitempty" jsonschema:"edge attributes to merge"`
}

// RemoveEdgeInput is the input for the remove_edge MCP tool.
type RemoveEdgeInput struct {
	From string `json:"from" jsonschema:"source node identifier (hex)"`
	To   string `json:"to" jsonschema:"target node identifier (hex)"`
}

// EdgeOutput is the result of the add_edge and remove_edge MCP tools.
type EdgeOutput struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// GetNodeEdgesInput is the input for the get_node_edges MCP tool.
type GetNodeEdgesInput struct {
	ID        string `json:"id" jsonschema:"node identifier (hex)"`
	Direction string `json:"direction,omitempty" jsonschema:"in, out or both. Default: both"`
}

// GetNodeEdgesOutput is the result of the get_node_edges MCP tool.
type GetNodeEdgesOutput struct {
	ID  string                    `json:"id"`
	In  map[string]map[string]any `json:"in,omitempty"`
	Out map[string]map[string]any `json:"out,omitempty"`
}

// TraverseInput is the input for the traverse MCP tool.
type TraverseInput struct {
	From  string `json:"from" jsonschema:"start node identifier (hex); it is not included in the result"`
	Mode  string `json:"mode,omitempty" jsonschema:"bfs or dfs. Default: bfs"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of steps (default: 100)"`
}

// StepOutput is one traversal step.
type StepOutput struct {
	Parent map[string]any `json:"parent"`
	Node   map[string]any `json:"node"`
}

// TraverseOutput is the result of the traverse MCP tool.
type TraverseOutput struct {
	Steps     []StepOutput `json:"steps,omitempty"`
	Truncated bool         `json:"truncated"`
}

// ShortestPathInput is the input for the shortest_path MCP tool.
type ShortestPathInput struct {
	From string `json:"from" jsonschema:"start node identifier (hex)"`
	To   string `json:"to" jsonschema:"target node identifier (hex)"`
}

// ShortestPathOutput is the result of the shortest_path MCP tool.
type ShortestPathOutput struct {
	Found bool `json:"found"`
	// Path excludes the start node and ends with the target.
	Path []map[string]any `json:"path,omitempty"`
}
