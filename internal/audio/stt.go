package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

const (
	transcribeEndpoint = "/audio/transcriptions"

	// ModelWhisper1 is the OpenAI Whisper model for transcription.
	ModelWhisper1 = "whisper-1"

	sttRequestTimeout = 60 * time.Second
)

// Transcription errors.
var (
	// ErrEmptyAudio is returned when audio data is empty.
	ErrEmptyAudio = errors.New("audio data is empty")

	// ErrNoSpeech is returned when the provider found no speech in the audio.
	ErrNoSpeech = errors.New("no speech detected in audio")
)

// TranscriptionError wraps a provider failure with the detail the
// speech-to-text endpoint forwards to clients.
type TranscriptionError struct {
	StatusCode int
	Details    string
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcription failed with status %d: %s", e.StatusCode, e.Details)
}

// TranscriptionConfig configures one transcription call.
type TranscriptionConfig struct {
	// Filename hints the audio container to the provider ("audio.webm").
	Filename string

	// Language is the primary ISO-639-1 language hint ("vi").
	Language string

	// Prompt steers the model; used for the fallback-language hint.
	Prompt string
}

// Transcriber converts recorded audio to text using a Whisper-compatible
// transcription API.
type Transcriber struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// TranscriberOption configures the transcriber.
type TranscriberOption func(*Transcriber)

// WithTranscriberBaseURL sets a custom base URL (for testing or proxies).
func WithTranscriberBaseURL(url string) TranscriberOption {
	return func(t *Transcriber) {
		t.baseURL = url
	}
}

// WithTranscriberClient sets a custom HTTP client.
func WithTranscriberClient(client *http.Client) TranscriberOption {
	return func(t *Transcriber) {
		t.client = client
	}
}

// NewTranscriber creates a speech-to-text service.
func NewTranscriber(apiKey string, opts ...TranscriberOption) *Transcriber {
	t := &Transcriber{
		apiKey:  apiKey,
		baseURL: "https://api.openai.com/v1",
		model:   ModelWhisper1,
		client:  &http.Client{Timeout: sttRequestTimeout},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transcribe converts audio bytes to text.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, config TranscriptionConfig) (string, error) {
	if len(audio) == 0 {
		return "", ErrEmptyAudio
	}

	filename := config.Filename
	if filename == "" {
		filename = "audio.webm"
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("failed to write audio data: %w", err)
	}

	if err := writer.WriteField("model", t.model); err != nil {
		return "", fmt.Errorf("failed to write model field: %w", err)
	}
	if config.Language != "" {
		if err := writer.WriteField("language", config.Language); err != nil {
			return "", fmt.Errorf("failed to write language field: %w", err)
		}
	}
	if config.Prompt != "" {
		if err := writer.WriteField("prompt", config.Prompt); err != nil {
			return "", fmt.Errorf("failed to write prompt field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+transcribeEndpoint, &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+t.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &TranscriptionError{StatusCode: resp.StatusCode, Details: providerErrorMessage(body)}
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if result.Text == "" {
		return "", ErrNoSpeech
	}
	return result.Text, nil
}

// providerErrorMessage extracts the error message from a provider error
// body, falling back to the raw body.
func providerErrorMessage(body []byte) string {
	var errResp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		return errResp.Error.Message
	}
	return string(body)
}
