package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx
// responses. Rendered centrally by the API error handler; declared here so
// the generated API docs can reference it.
type errorResponse struct {
	StatusCode int    `json:"statusCode"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
	Method     string `json:"method"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
	Field      string `json:"field,omitempty"`
	ErrorCode  string `json:"errorCode,omitempty"`
}

// --- Request types ---

type createConsultationRequest struct {
	DoctorID string `json:"doctorId" validate:"required"`
}

type consultationMessageRequest struct {
	Message string `json:"message" validate:"required"`
}

type updateNotesRequest struct {
	Notes string `json:"notes" validate:"required"`
}

type supportChatMessage struct {
	Role    string `json:"role"    validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

type supportChatRequest struct {
	Message string               `json:"message" validate:"required"`
	History []supportChatMessage `json:"history" validate:"omitempty,dive"`
}
