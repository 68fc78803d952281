package dto

// Function calling modes for the Vertex tool config.
const (
	FunctionCallingModeAuto = "auto"
	FunctionCallingModeAny  = "any"
	FunctionCallingModeNone = "none"
)

type VertexGenerateRequest struct {
	Model           string
	System          string
	Contents        []VertexContent
	Tools           []VertexTool
	ToolConfig      *VertexToolConfig
	Temperature     *float32
	MaxOutputTokens *int32
}

type VertexGenerateResponse struct {
	Text      string
	ToolCalls []VertexToolCall
	Raw       any
}

type VertexContent struct {
	Role  string // "user" or "model"
	Parts []VertexPart
}

// VertexPart holds exactly one of its fields.
type VertexPart struct {
	Text             *string
	FunctionCall     *VertexToolCall
	FunctionResponse *VertexToolResult
}

type VertexToolConfig struct {
	Mode string
}

type VertexTool struct {
	Name        string
	Description string
	Parameters  *VertexSchema
}

type VertexToolCall struct {
	Name string
	Args map[string]any
}

type VertexToolResult struct {
	Name     string
	Response map[string]any
}

type VertexSchema struct {
	Type        string
	Description string
	Enum        []string
	Properties  map[string]*VertexSchema
	Required    []string
	Items       *VertexSchema
}
