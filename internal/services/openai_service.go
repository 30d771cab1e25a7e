package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/arunanksharan/rivo/internal/config"
	"github.com/arunanksharan/rivo/internal/dto"
)

// ImageDescription is the caption pair generated for an uploaded photo.
type ImageDescription struct {
	Title       string
	Description string
}

// Vision generates listing copy from a property photo. Implementations
// must fail soft: an AI outage returns the fallback pair, never an error.
type Vision interface {
	DescribeImage(ctx context.Context, imageURL string) ImageDescription
}

// Transcriber turns an audio clip into text, returning "" on any failure.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio []byte) string
}

// CommandParser extracts an intent from a transcribed voice command,
// returning the unknown-intent fallback on any failure.
type CommandParser interface {
	ParseCommand(ctx context.Context, text string) dto.CommandReply
}

const visionPrompt = "Describe this property in detail as a real estate listing. " +
	"Include notable features, architectural style, condition, and potential selling points. " +
	"Also suggest a catchy title for this property listing."

const commandSystemPrompt = `You are an AI assistant for a real estate app called Rivo. Parse the user's voice command and extract the intent and parameters.

Supported intents:
1. schedule_viewing - Schedule a property viewing
2. send_email - Send an email about a property
3. save_note - Save a note about a property
4. search_properties - Search for properties
5. get_directions - Get directions to a property

Return a JSON object with the following structure:
{"intent": "intent_name", "parameters": {"param1": "value1"}, "response": "A natural language response to the user"}`

// OpenAIService calls the OpenAI HTTP API directly for vision captioning,
// Whisper transcription and command parsing.
type OpenAIService struct {
	apiKey       string
	baseURL      string
	model        string
	visionModel  string
	whisperModel string
	httpClient   *http.Client
}

func NewOpenAIService(cfg *config.Config) *OpenAIService {
	timeout := cfg.AITimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OpenAIService{
		apiKey:       cfg.OpenAIAPIKey,
		baseURL:      "https://api.openai.com/v1",
		model:        cfg.OpenAIModel,
		visionModel:  cfg.OpenAIVisionModel,
		whisperModel: cfg.OpenAIWhisperModel,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	MaxTokens      int           `json:"max_tokens,omitempty"`
	Temperature    float64       `json:"temperature,omitempty"`
	ResponseFormat *formatSpec   `json:"response_format,omitempty"`
}

type formatSpec struct {
	Type string `json:"type"`
}

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type contentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *imagePayload `json:"image_url,omitempty"`
}

type imagePayload struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// DescribeImage captions a property photo. The first line of the
// completion becomes the title, the remainder the description. Any failure
// yields a fixed fallback pair so image uploads never fail on AI outages.
func (s *OpenAIService) DescribeImage(ctx context.Context, imageURL string) ImageDescription {
	fallback := ImageDescription{
		Title:       "Property Listing",
		Description: "No description available.",
	}

	content, err := s.chat(ctx, chatRequest{
		Model: s.visionModel,
		Messages: []chatMessage{
			{Role: "user", Content: []contentPart{
				{Type: "text", Text: visionPrompt},
				{Type: "image_url", ImageURL: &imagePayload{URL: imageURL}},
			}},
		},
		MaxTokens: 500,
	})
	if err != nil {
		slog.Error("image captioning failed", "image_url", imageURL, "error", err)
		return fallback
	}

	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return fallback
	}

	title := strings.TrimSpace(lines[0])
	if idx := strings.Index(title, ":"); idx >= 0 {
		title = strings.TrimSpace(title[idx+1:])
	}
	description := strings.TrimSpace(strings.Join(lines[1:], "\n"))
	if description == "" {
		description = content
	}

	return ImageDescription{Title: title, Description: description}
}

// Transcribe sends an audio clip to Whisper. Failures return "".
func (s *OpenAIService) Transcribe(ctx context.Context, filename string, audio []byte) string {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return ""
	}
	if _, err := part.Write(audio); err != nil {
		return ""
	}
	_ = writer.WriteField("model", s.whisperModel)
	_ = writer.WriteField("language", "en")
	if err := writer.Close(); err != nil {
		return ""
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/audio/transcriptions", &buf)
	if err != nil {
		return ""
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		slog.Error("transcription request failed", "error", err)
		return ""
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil || resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Error("transcription failed", "status", resp.StatusCode)
		return ""
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return ""
	}
	return result.Text
}

// ParseCommand extracts an intent from a transcribed voice command.
// Failures return a fixed unknown-intent reply.
func (s *OpenAIService) ParseCommand(ctx context.Context, text string) dto.CommandReply {
	fallback := dto.CommandReply{
		Intent:     "unknown",
		Parameters: map[string]interface{}{},
		Response:   "I'm sorry, I couldn't process that command.",
	}

	content, err := s.chat(ctx, chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: commandSystemPrompt},
			{Role: "user", Content: text},
		},
		Temperature:    0.2,
		ResponseFormat: &formatSpec{Type: "json_object"},
	})
	if err != nil {
		slog.Error("command parsing failed", "error", err)
		return fallback
	}

	var reply dto.CommandReply
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &reply); err != nil {
		slog.Error("command parsing returned malformed JSON", "error", err)
		return fallback
	}
	if reply.Intent == "" {
		return fallback
	}
	if reply.Parameters == nil {
		reply.Parameters = map[string]interface{}{}
	}
	return reply
}

func (s *OpenAIService) chat(ctx context.Context, reqBody chatRequest) (string, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("AI API error: status %d", resp.StatusCode)
	}

	var completion chatResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("no response from AI")
	}

	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
	}
	return strings.TrimSpace(content)
}
