package ai

import (
	"BazarBot/internal/core/ports"
	"BazarBot/internal/shared/config"
	"context"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const systemPrompt = "Ти — помічник онлайн-барахолки в Telegram. " +
	"Відповідай українською, коротко і по суті. Допомагай покупцям з " +
	"питаннями про товари, ціни, фото та доставку. Не вигадуй деталей " +
	"про конкретні оголошення, яких не знаєш."

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Client calls an OpenAI-style chat-completions endpoint. It never
// returns an error to callers: every failure mode degrades to the local
// fallback generator, so a reply is always produced.
type Client struct {
	http     *resty.Client
	apiURL   string
	apiKey   string
	model    string
	fallback *Fallback
	log      zerolog.Logger
}

var _ ports.Completer = (*Client)(nil)

// NewClient creates the completion client. With empty credentials the
// client still works, answering from the fallback templates only.
func NewClient(cfg config.AIConfig, baseLogger *zerolog.Logger) *Client {
	httpClient := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:     httpClient,
		apiURL:   cfg.APIURL,
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		fallback: NewFallback(),
		log:      baseLogger.With().Str("component", "ai_client").Logger(),
	}
}

// Complete returns a reply for the prompt, given an optional conversation
// history (oldest first).
func (c *Client) Complete(ctx context.Context, prompt string, history []ports.ChatTurn) string {
	if c.apiURL == "" || c.apiKey == "" {
		c.log.Debug().Msg("AI endpoint not configured, using fallback reply")
		return c.fallback.Reply(prompt)
	}

	messages := make([]chatMessage, 0, len(history)+2)
	messages = append(messages, chatMessage{Role: "system", Content: systemPrompt})
	for _, turn := range history {
		messages = append(messages, chatMessage{Role: string(turn.Role), Content: turn.Content})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	var result completionResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetBody(completionRequest{Model: c.model, Messages: messages}).
		SetResult(&result).
		Post(c.apiURL)
	if err != nil {
		c.log.Warn().Err(err).Msg("AI completion request failed, using fallback reply")
		return c.fallback.Reply(prompt)
	}
	if resp.IsError() {
		c.log.Warn().Int("status", resp.StatusCode()).Msg("AI completion returned error status, using fallback reply")
		return c.fallback.Reply(prompt)
	}
	if len(result.Choices) == 0 {
		c.log.Warn().Msg("AI completion response had no choices, using fallback reply")
		return c.fallback.Reply(prompt)
	}

	reply := strings.TrimSpace(result.Choices[0].Message.Content)
	if reply == "" {
		c.log.Warn().Msg("AI completion response was empty, using fallback reply")
		return c.fallback.Reply(prompt)
	}
	return reply
}
