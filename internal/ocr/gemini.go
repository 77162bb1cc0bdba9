package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"google.golang.org/genai"
)

const geminiPrompt = `Transcribe every line of text in this bank statement screenshot exactly as printed, top to bottom, one line per output line.
Do not summarize, translate, reformat numbers or add commentary. If the image contains no text, return nothing.`

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini transcribes screenshots with a Gemini vision model.
type Gemini struct {
	models  contentGenerator
	model   string
	timeout time.Duration
}

// NewGemini creates a Gemini extractor using the Gemini API backend.
func NewGemini(ctx context.Context, apiKey, model string, timeout time.Duration) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Gemini{models: client.Models, model: model, timeout: timeout}, nil
}

// Name implements Extractor.
func (g *Gemini) Name() string { return "gemini" }

// ExtractText implements Extractor.
func (g *Gemini) ExtractText(ctx context.Context, image []byte, filename string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: geminiPrompt},
				{InlineData: &genai.Blob{MIMEType: imageMIMEType(image, filename), Data: image}},
			},
		},
	}

	slog.Info("sending image to Gemini", "model", g.model, "filename", filename, "size_bytes", len(image))
	resp, err := g.models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0),
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}

func imageMIMEType(image []byte, filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	}
	return http.DetectContentType(image)
}
