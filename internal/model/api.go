package model

// GenerateRequest is the body of POST /generate.
type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

// GenerateResponse is the success body of POST /generate.
type GenerateResponse struct {
	Slides []Slide `json:"slides"`
}

// SaveHistoryRequest is the body of POST /history. Nil slices mean "not
// provided"; an empty JSON array is a provided, empty value.
type SaveHistoryRequest struct {
	SessionID string        `json:"sessionId,omitempty"`
	Prompt    string        `json:"prompt,omitempty"`
	Slides    []Slide       `json:"slides,omitempty"`
	Messages  []ChatMessage `json:"messages,omitempty"`
}

// SaveHistoryResponse is the success body of POST /history.
type SaveHistoryResponse struct {
	Item      HistoryItem `json:"item"`
	SessionID string      `json:"sessionId"`
}

// ListHistoryResponse is the body of GET /history.
type ListHistoryResponse struct {
	Items []HistoryItem `json:"items"`
}

// UploadResponse is the body of POST /upload.
type UploadResponse struct {
	URL  string `json:"url"`
	Mime string `json:"mime,omitempty"`
}

// ExportRequest is the body of POST /export.
type ExportRequest struct {
	Title  string       `json:"title,omitempty"`
	Slides []Slide      `json:"slides"`
	Styles []SlideStyle `json:"styles,omitempty"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}
