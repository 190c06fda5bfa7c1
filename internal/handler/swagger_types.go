package handler

// Request and envelope types referenced by the handler annotations.

// AnalyzeRequest represents the analyze policy request body.
type AnalyzeRequest struct {
	PolicyContent string `json:"policy_content" binding:"required" example:"## Information We Collect\nWe collect your email address..."`
	CompanyName   string `json:"company_name" binding:"required" example:"Acme Corp"`
	CompanyURL    string `json:"company_url" example:"https://acme.example"`
	ContactEmail  string `json:"contact_email" binding:"omitempty,email" example:"privacy@acme.example"`
	PolicyTitle   string `json:"policy_title" example:"Acme Privacy Notice"`
	Version       string `json:"version" example:"3.2"`
	EffectiveDate string `json:"effective_date" example:"2026-01-01"`
	MaxChunkSize  int    `json:"max_chunk_size" example:"2000"`
}

// Response is the generic success envelope.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody is the error envelope.
type ErrorResponseBody struct {
	Success bool     `json:"success" example:"false"`
	Error   APIError `json:"error"`
}
