package llm

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ContentPartType discriminates the members of a message's content list.
type ContentPartType string

const (
	ContentPartText  ContentPartType = "text"
	ContentPartImage ContentPartType = "image"
)

// ContentPart is one element of a multi-modal message: either a text
// segment or a base64-encoded image with its media type. Exactly one of
// Text and Data is populated, selected by Type.
type ContentPart struct {
	Type ContentPartType `json:"type"`

	Text string `json:"text,omitempty"`

	// Base64 payload and media type (e.g. "image/png") for image parts.
	Data      string `json:"data,omitempty"`
	MediaType string `json:"media_type,omitempty"`
}

// NewTextPart creates a text content part.
func NewTextPart(text string) ContentPart {
	return ContentPart{Type: ContentPartText, Text: text}
}

// NewImagePart creates an image content part from base64 data.
func NewImagePart(data, mediaType string) ContentPart {
	return ContentPart{Type: ContentPartImage, Data: data, MediaType: mediaType}
}

// Message is a single conversation turn.
type Message struct {
	Role    Role          `json:"role"`
	Content []ContentPart `json:"content"`
}

// UserText builds a user message with a single text part.
func UserText(text string) Message {
	return Message{Role: RoleUser, Content: []ContentPart{NewTextPart(text)}}
}

// SystemPrompt is an instruction passed alongside the conversation.
type SystemPrompt struct {
	Text string `json:"text"`
}

// Usage carries the token counters reported by the remote endpoint for
// text tasks. Counters are zero when the response omits them.
type Usage struct {
	InputTokens  int `json:"input_tokens,omitempty"`
	OutputTokens int `json:"output_tokens,omitempty"`
	TotalTokens  int `json:"total_tokens,omitempty"`
}
