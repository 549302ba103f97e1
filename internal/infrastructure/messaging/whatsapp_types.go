package messaging

import (
	"encoding/json"
	"time"
)

// MessageType is the WhatsApp message type
type MessageType string

const (
	MessageTypeText     MessageType = "text"
	MessageTypeTemplate MessageType = "template"
	MessageTypeImage    MessageType = "image"
)

// IsValid checks if the message type can be sent
func (t MessageType) IsValid() bool {
	switch t {
	case MessageTypeText, MessageTypeTemplate, MessageTypeImage:
		return true
	}
	return false
}

// TemplateLanguage is the language code sent with template messages
const TemplateLanguage = "tr"

// Message is an outbound message. Exactly the member matching Type is sent.
type Message struct {
	// To is the recipient phone number; every non-digit is stripped before sending
	To       string
	Type     MessageType
	Body     string
	Template *Template
	Image    *Image
}

// Template is a pre-approved message template
type Template struct {
	Name       string              `json:"name"`
	Language   TemplateLanguageRef `json:"language"`
	Components []TemplateComponent `json:"components,omitempty"`
}

// TemplateLanguageRef is the language object of a template
type TemplateLanguageRef struct {
	Code string `json:"code"`
}

// TemplateComponent is one component (header, body, button) of a template
type TemplateComponent struct {
	Type       string              `json:"type"`
	Parameters []TemplateParameter `json:"parameters"`
}

// TemplateParameter fills one template placeholder
type TemplateParameter struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Image references a publicly reachable image
type Image struct {
	Link string `json:"link"`
}

// InboundMessage is a message delivered to the business number
type InboundMessage struct {
	ID        string          `json:"id"`
	From      string          `json:"from"`
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Text      string          `json:"text,omitempty"`
	Raw       json.RawMessage `json:"-"`
}

// IsText reports whether the message carries text
func (m InboundMessage) IsText() bool {
	return m.Type == string(MessageTypeText) && m.Text != ""
}

// ---------------------------------------------------------------------------
// Wire types
// ---------------------------------------------------------------------------

type whatsappSendPayload struct {
	MessagingProduct string        `json:"messaging_product"`
	To               string        `json:"to"`
	Type             MessageType   `json:"type"`
	Text             *whatsappText `json:"text,omitempty"`
	Template         *Template     `json:"template,omitempty"`
	Image            *Image        `json:"image,omitempty"`
}

type whatsappText struct {
	Body string `json:"body"`
}

type whatsappSendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

type whatsappWebhook struct {
	Object string `json:"object"`
	Entry  []struct {
		ID      string `json:"id"`
		Changes []struct {
			Field string `json:"field"`
			Value struct {
				Messages []json.RawMessage `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type whatsappInbound struct {
	ID        string `json:"id"`
	From      string `json:"from"`
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
	Text      *struct {
		Body string `json:"body"`
	} `json:"text"`
}
