package handler

import (
	whatsapp "github.com/siparisbot/backend/internal/infrastructure/messaging"
)

// SendMessageRequest is an outbound WhatsApp message
type SendMessageRequest struct {
	To   string `json:"to" binding:"required,min=10,max=20"`
	Type string `json:"type" binding:"required,oneof=text template image"`
	// Body is the text of a text message
	Body string `json:"body" binding:"required_if=Type text,max=4096"`
	// Template fields
	TemplateName     string   `json:"template_name" binding:"required_if=Type template"`
	TemplateLanguage string   `json:"template_language" binding:"omitempty,min=2,max=10"`
	Variables        []string `json:"variables"`
	// ImageURL is the public link of an image message
	ImageURL string `json:"image_url" binding:"required_if=Type image,omitempty,http_url"`
}

// ToMessage converts the request into an outbound message
func (r SendMessageRequest) ToMessage() whatsapp.Message {
	msg := whatsapp.Message{To: r.To, Type: whatsapp.MessageType(r.Type)}

	switch msg.Type {
	case whatsapp.MessageTypeText:
		msg.Body = r.Body
	case whatsapp.MessageTypeTemplate:
		lang := r.TemplateLanguage
		if lang == "" {
			lang = whatsapp.TemplateLanguage
		}
		tpl := &whatsapp.Template{
			Name:     r.TemplateName,
			Language: whatsapp.TemplateLanguageRef{Code: lang},
		}
		if len(r.Variables) > 0 {
			params := make([]whatsapp.TemplateParameter, 0, len(r.Variables))
			for _, v := range r.Variables {
				params = append(params, whatsapp.TemplateParameter{Type: "text", Text: v})
			}
			tpl.Components = []whatsapp.TemplateComponent{{Type: "body", Parameters: params}}
		}
		msg.Template = tpl
	case whatsapp.MessageTypeImage:
		msg.Image = &whatsapp.Image{Link: r.ImageURL}
	}
	return msg
}

// SuggestReplyRequest asks for a drafted answer to a customer message
type SuggestReplyRequest struct {
	Message      string `json:"message" binding:"required,max=4096"`
	CustomerName string `json:"customer_name" binding:"max=100"`
	SystemPrompt string `json:"system_prompt" binding:"max=8192"`
}

// SuggestReplyResponse carries the drafted answer
type SuggestReplyResponse struct {
	Reply string `json:"reply"`
}

// SentimentRequest asks for the sentiment of a text
type SentimentRequest struct {
	Text string `json:"text" binding:"required,max=4096"`
}

// SentimentResponse carries the classified sentiment
type SentimentResponse struct {
	Sentiment string `json:"sentiment"`
}
