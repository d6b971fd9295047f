package models

// ContactMessage stores a submitted contact-form entry.
type ContactMessage struct {
	BaseModel
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}
