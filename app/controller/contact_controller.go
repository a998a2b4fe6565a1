package controller

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"leoga-storefront/models"
	"leoga-storefront/service"
)

// ContactController handles the storefront contact form
type ContactController struct {
	mail *service.MailService
}

// NewContactController creates a new ContactController
func NewContactController(mail *service.MailService) *ContactController {
	return &ContactController{mail: mail}
}

// SendContact handles POST /api/contact
func (c *ContactController) SendContact(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 SendContact: Received %s request to %s", r.Method, r.URL.Path)

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ SendContact: Error decoding request: %v", err)
		writeJSON(w, http.StatusBadRequest, models.ContactResponse{Error: "Invalid request body"})
		return
	}

	if err := c.mail.SendContact(r.Context(), req); err != nil {
		var validationErr *service.ValidationError
		switch {
		case errors.As(err, &validationErr):
			writeJSON(w, http.StatusBadRequest, models.ContactResponse{Error: validationErr.Message})
		case errors.Is(err, service.ErrMailDisabled):
			log.Printf("⚠️  SendContact: mail delivery is not configured")
			writeJSON(w, http.StatusInternalServerError, models.ContactResponse{Error: "Email service not configured"})
		default:
			writeJSON(w, http.StatusInternalServerError, models.ContactResponse{Error: "Failed to send message"})
		}
		return
	}

	writeJSON(w, http.StatusOK, models.ContactResponse{Message: "Message sent successfully"})
}
