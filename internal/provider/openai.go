package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const defaultOpenAIBaseURL = "https://api.openai.com"

type implOpenAI struct {
	apiKey          string
	transcribeModel string
	chatModel       string
	baseURL         string
	client          *http.Client
}

// NewOpenAI creates a Provider backed by the OpenAI speech and chat APIs
func NewOpenAI(apiKey, transcribeModel, chatModel string) Provider {
	return &implOpenAI{
		apiKey:          apiKey,
		transcribeModel: transcribeModel,
		chatModel:       chatModel,
		baseURL:         defaultOpenAIBaseURL,
		client:          &http.Client{Timeout: 30 * time.Minute},
	}
}

func (o *implOpenAI) Name() string {
	return "openai"
}

type openAITranscription struct {
	Text string `json:"text"`
}

// Transcribe sends one audio segment to audio.transcriptions
func (o *implOpenAI) Transcribe(ctx context.Context, audioPath string, language string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := mw.WriteField("model", o.transcribeModel); err != nil {
		return "", err
	}
	if language != "" {
		if err := mw.WriteField("language", language); err != nil {
			return "", err
		}
	}
	if err := mw.WriteField("response_format", "json"); err != nil {
		return "", err
	}

	fw, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(fw, f); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/v1/audio/transcriptions", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := o.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("openai http %d: %s", resp.StatusCode, string(b))
	}

	var tr openAITranscription
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("decode transcription: %w", err)
	}

	text := strings.TrimSpace(tr.Text)
	if text == "" {
		return "", ErrEmptyTranscript
	}
	return text, nil
}

type openAIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatRequest struct {
	Model       string              `json:"model"`
	Messages    []openAIChatMessage `json:"messages"`
	Temperature float64             `json:"temperature"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends one generation request to chat.completions. The prior
// context, when present, rides along as an assistant turn.
func (o *implOpenAI) Complete(ctx context.Context, creq CompleteRequest) (string, error) {
	messages := []openAIChatMessage{
		{Role: "system", Content: creq.Instruction},
	}
	if creq.PriorContext != "" {
		messages = append(messages, openAIChatMessage{Role: "assistant", Content: creq.PriorContext})
	}
	messages = append(messages, openAIChatMessage{Role: "user", Content: creq.Content})

	payload, err := json.Marshal(openAIChatRequest{
		Model:       o.chatModel,
		Messages:    messages,
		Temperature: 0.2,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("openai http %d: %s", resp.StatusCode, string(b))
	}

	var cr openAIChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("decode completion: %w", err)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI")
	}

	return strings.TrimSpace(cr.Choices[0].Message.Content), nil
}
