package dto

type SessionResponse struct {
	SessionID string `json:"sessionId"`
}

type RegisterSessionRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
}
