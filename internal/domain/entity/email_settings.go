package entity

// EmailSettings configures the sender identity of outgoing reminder mail
type EmailSettings struct {
	GmailAddress string `json:"gmailAddress" yaml:"gmailAddress"`
	SenderName   string `json:"senderName" yaml:"senderName"`
}

// SendResult is what the mail collaborator reports for one call
type SendResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	MessageID string `json:"messageId,omitempty"`
}
