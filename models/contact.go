package models

// ContactRequest represents the request body of POST /api/contact
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// ContactResponse represents the response of the contact endpoint
type ContactResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
