package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"
)

// OCRSpace calls the OCR.space parse/image endpoint.
type OCRSpace struct {
	endpoint   string
	apiKey     string
	language   string
	httpClient *http.Client
}

// NewOCRSpace creates an OCR.space client.
func NewOCRSpace(endpoint, apiKey, language string, timeout time.Duration) *OCRSpace {
	return &OCRSpace{
		endpoint:   endpoint,
		apiKey:     apiKey,
		language:   language,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Name implements Extractor.
func (c *OCRSpace) Name() string { return "ocrspace" }

type ocrSpaceResponse struct {
	ParsedResults []struct {
		ParsedText string `json:"ParsedText"`
	} `json:"ParsedResults"`
	IsErroredOnProcessing bool            `json:"IsErroredOnProcessing"`
	ErrorMessage          json.RawMessage `json:"ErrorMessage"`
}

// errorText flattens ErrorMessage, which the service sends either as a
// string or as a list of strings.
func (r ocrSpaceResponse) errorText() string {
	var list []string
	if err := json.Unmarshal(r.ErrorMessage, &list); err == nil {
		return strings.Join(list, "; ")
	}
	var single string
	if err := json.Unmarshal(r.ErrorMessage, &single); err == nil {
		return single
	}
	return "unknown error"
}

// ExtractText implements Extractor.
func (c *OCRSpace) ExtractText(ctx context.Context, image []byte, filename string) (string, error) {
	body, contentType, err := c.form(image, filename)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return "", fmt.Errorf("failed to create OCR request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	slog.Info("sending image to OCR.space", "filename", filename, "size_bytes", len(image), "language", c.language)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call OCR.space: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read OCR response: %w", err)
	}
	if resp.StatusCode >= 300 {
		slog.Error("OCR.space request failed", "status", resp.StatusCode, "body", string(raw))
		return "", fmt.Errorf("OCR.space returned status %d", resp.StatusCode)
	}

	var result ocrSpaceResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("failed to decode OCR response: %w", err)
	}
	if result.IsErroredOnProcessing {
		return "", fmt.Errorf("OCR.space failed to process image: %s", result.errorText())
	}
	if len(result.ParsedResults) == 0 {
		return "", nil
	}
	return result.ParsedResults[0].ParsedText, nil
}

func (c *OCRSpace) form(image []byte, filename string) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, "", fmt.Errorf("failed to write form file: %w", err)
	}

	fields := [][2]string{
		{"apikey", c.apiKey},
		{"language", c.language},
		{"isTable", "true"},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %s: %w", f[0], err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
