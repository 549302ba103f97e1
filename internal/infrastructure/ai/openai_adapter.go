package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/siparisbot/backend/internal/domain/integration"
	"github.com/siparisbot/backend/internal/infrastructure/providerhttp"
)

// OpenAIProvider is the provider name used in errors, spans and metrics
const OpenAIProvider = "OpenAI"

// Chat defaults
const (
	DefaultModel       = openai.GPT4
	DefaultTemperature = float32(0.7)
	DefaultMaxTokens   = 500

	sentimentModel       = openai.GPT3Dot5Turbo
	sentimentTemperature = float32(0.3)
	sentimentMaxTokens   = 10
)

// Role is the author of a chat message
type Role string

const (
	RoleSystem    Role = openai.ChatMessageRoleSystem
	RoleUser      Role = openai.ChatMessageRoleUser
	RoleAssistant Role = openai.ChatMessageRoleAssistant
)

// ChatMessage is one turn of a conversation
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatOptions overrides the chat defaults. Zero values keep the default.
type ChatOptions struct {
	Model       string
	Temperature *float32
	MaxTokens   int
}

// Sentiment is the tone of a customer message
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// ParseSentiment accepts a model answer in any case, surrounded by whitespace
func ParseSentiment(s string) (Sentiment, bool) {
	switch v := Sentiment(strings.ToLower(strings.TrimSpace(s))); v {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return v, true
	}
	return "", false
}

// CustomerContext personalizes the default customer service prompt
type CustomerContext struct {
	CustomerName string
	BusinessName string
}

const (
	defaultBusinessName = "SiparişBot"
	defaultCustomerName = "Değerli müşterimiz"

	sentimentPrompt    = "Analyze the sentiment of the following text and respond with only one word: positive, neutral, or negative"
	orderSummarySystem = "Sen bir müşteri hizmetleri asistanısın."
)

// OpenAIAdapter is a stateless chat completions client. It does not retry.
type OpenAIAdapter struct {
	config OpenAIConfig
	client *providerhttp.Client
	api    *openai.Client
}

var _ integration.ConfigReporter = (*OpenAIAdapter)(nil)

// NewOpenAIAdapter creates an OpenAI adapter. The SDK sends through the
// provider client's http.Client so timeouts and tracing apply.
func NewOpenAIAdapter(cfg OpenAIConfig, opts ...providerhttp.Option) *OpenAIAdapter {
	client := providerhttp.NewWithOptions(OpenAIProvider, opts...)

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	apiCfg.HTTPClient = client.HTTPClient()

	return &OpenAIAdapter{
		config: cfg,
		client: client,
		api:    openai.NewClientWithConfig(apiCfg),
	}
}

// IsConfigured reports whether the API key is set
func (a *OpenAIAdapter) IsConfigured() bool {
	return a.config.Status().Configured
}

// ConfigStatus lists the missing credential keys
func (a *OpenAIAdapter) ConfigStatus() integration.ConfigStatus {
	return a.config.Status()
}

// Chat sends a conversation and returns the first choice's content
func (a *OpenAIAdapter) Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       DefaultModel,
		Messages:    toSDKMessages(messages),
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
	}
	if opts.Model != "" {
		req.Model = opts.Model
	}
	if opts.Temperature != nil {
		req.Temperature = *opts.Temperature
	}
	if opts.MaxTokens > 0 {
		req.MaxTokens = opts.MaxTokens
	}

	content, err := a.complete(ctx, "chat.completions", req)
	if err != nil {
		return "", fmt.Errorf("openai chat: %w", err)
	}
	return content, nil
}

// GenerateCustomerResponse answers a customer message. An empty systemPrompt
// selects the default Turkish customer service prompt.
func (a *OpenAIAdapter) GenerateCustomerResponse(ctx context.Context, customerMessage string, cc CustomerContext, systemPrompt string) (string, error) {
	if systemPrompt == "" {
		systemPrompt = CustomerServicePrompt(cc)
	}
	return a.Chat(ctx, []ChatMessage{
		{Role: RoleSystem, Content: systemPrompt},
		{Role: RoleUser, Content: customerMessage},
	}, ChatOptions{})
}

// AnalyzeSentiment classifies text. Any answer other than positive, neutral
// or negative is an error.
func (a *OpenAIAdapter) AnalyzeSentiment(ctx context.Context, text string) (Sentiment, error) {
	content, err := a.complete(ctx, "sentiment", openai.ChatCompletionRequest{
		Model: sentimentModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: sentimentPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: sentimentTemperature,
		MaxTokens:   sentimentMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openai sentiment: %w", err)
	}

	sentiment, ok := ParseSentiment(content)
	if !ok {
		return "", integration.NewProviderLogicError(OpenAIProvider, "Invalid sentiment response")
	}
	return sentiment, nil
}

// GenerateOrderSummary writes a short customer facing summary of an order
func (a *OpenAIAdapter) GenerateOrderSummary(ctx context.Context, order integration.NormalizedOrder) (string, error) {
	prompt, err := OrderSummaryPrompt(order)
	if err != nil {
		return "", err
	}
	return a.Chat(ctx, []ChatMessage{
		{Role: RoleSystem, Content: orderSummarySystem},
		{Role: RoleUser, Content: prompt},
	}, ChatOptions{})
}

// CustomerServicePrompt renders the default system prompt
func CustomerServicePrompt(cc CustomerContext) string {
	business := cc.BusinessName
	if business == "" {
		business = defaultBusinessName
	}
	customer := cc.CustomerName
	if customer == "" {
		customer = defaultCustomerName
	}

	return "Sen bir e-ticaret müşteri hizmetleri asistanısın.\n" +
		"İşletme adı: " + business + "\n" +
		"Müşteri: " + customer + "\n\n" +
		"Görevin:\n" +
		"- Müşterilere yardımcı olmak\n" +
		"- Sipariş durumlarını kontrol etmek\n" +
		"- Ürün bilgileri vermek\n" +
		"- Kibar ve profesyonel olmak\n\n" +
		"Eğer bir soruyu cevaplayamıyorsan, insan temsilciye yönlendir."
}

// OrderSummaryPrompt renders the order summary request
func OrderSummaryPrompt(order integration.NormalizedOrder) (string, error) {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return "", fmt.Errorf("failed to encode order items: %w", err)
	}
	currency := order.Currency
	if currency == "" || currency == "TRY" {
		currency = "TL"
	}

	return "Aşağıdaki sipariş bilgilerini müşteri dostu bir şekilde özetle:\n\n" +
		"Sipariş No: " + order.ExternalID + "\n" +
		"Durum: " + order.Status + "\n" +
		"Tutar: " + order.Total.StringFixed(2) + " " + currency + "\n" +
		"Ürünler: " + string(items) + "\n\n" +
		"Kısa ve net bir özet yaz.", nil
}

// complete runs one chat completion through the provider client
func (a *OpenAIAdapter) complete(ctx context.Context, operation string, req openai.ChatCompletionRequest) (string, error) {
	if err := a.ConfigStatus().Err(OpenAIProvider); err != nil {
		return "", err
	}

	var resp openai.ChatCompletionResponse
	err := a.client.Run(ctx, operation, func(ctx context.Context) (int, error) {
		var err error
		resp, err = a.api.CreateChatCompletion(ctx, req)
		if err != nil {
			ie := classify(err)
			return ie.StatusCode, ie
		}
		return http.StatusOK, nil
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// classify maps SDK errors onto the integration taxonomy. API errors keep the
// provider's message.
func classify(err error) *integration.IntegrationError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return integration.NewHTTPStatusError(OpenAIProvider, apiErr.HTTPStatusCode, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		msg := ""
		if reqErr.Err != nil {
			msg = reqErr.Err.Error()
		}
		return integration.NewHTTPStatusError(OpenAIProvider, reqErr.HTTPStatusCode, msg)
	}
	return integration.NewTransportError(OpenAIProvider, err)
}

func toSDKMessages(messages []ChatMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, openai.ChatCompletionMessage{Role: string(m.Role), Content: m.Content})
	}
	return out
}
