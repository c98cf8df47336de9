package provider

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"google.golang.org/genai"
)

type implGemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Provider backed by the Gemini API
func NewGemini(ctx context.Context, apiKey, model string) (Provider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &implGemini{client: client, model: model}, nil
}

func (g *implGemini) Name() string {
	return "gemini"
}

// Transcribe uploads the audio segment and asks the model for a plain
// transcription in the hinted language.
func (g *implGemini) Transcribe(ctx context.Context, audioPath string, language string) (string, error) {
	file, err := g.client.Files.UploadFromPath(ctx, audioPath, &genai.UploadFileConfig{
		MIMEType: audioMIMEType(audioPath),
	})
	if err != nil {
		return "", fmt.Errorf("upload audio: %w", err)
	}

	prompt := fmt.Sprintf("言語は%sで、以下の音声を文字起こししてください。書き起こした本文のみを出力してください。", language)
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromURI(file.URI, file.MIMEType),
		}, genai.RoleUser),
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := strings.TrimSpace(responseText(result))
	if text == "" {
		return "", ErrEmptyTranscript
	}
	return text, nil
}

// Complete sends one generation request as a single user turn. The prior
// context, when present, precedes the content part.
func (g *implGemini) Complete(ctx context.Context, creq CompleteRequest) (string, error) {
	parts := []*genai.Part{genai.NewPartFromText(creq.Instruction)}
	if creq.PriorContext != "" {
		parts = append(parts, genai.NewPartFromText(creq.PriorContext))
	}
	parts = append(parts, genai.NewPartFromText(creq.Content))

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := strings.TrimSpace(responseText(result))
	if text == "" {
		return "", fmt.Errorf("empty response from Gemini")
	}
	return text, nil
}

func responseText(result *genai.GenerateContentResponse) string {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return ""
	}
	var text string
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}
	return text
}

func audioMIMEType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".m4a":
		return "audio/mp4"
	case ".aac":
		return "audio/aac"
	case ".ogg":
		return "audio/ogg"
	case ".flac":
		return "audio/flac"
	default:
		return "application/octet-stream"
	}
}
