package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Delivery is strictly best-effort; a lost or failed job never affects the
// request that produced it.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "welcome"
	Data     map[string]any `json:"data,omitempty"`
}
