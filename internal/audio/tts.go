package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	ttsEndpoint = "/audio/speech"

	// ModelTTS1HD is the quality-optimized OpenAI TTS model.
	ModelTTS1HD = "tts-1-hd"

	ttsRequestTimeout = 30 * time.Second

	// Speed limits accepted by the provider.
	maxSpeechSpeed = 1.15
	speedNudge     = 0.15
)

// ErrEmptyText is returned when attempting to synthesize empty text.
var ErrEmptyText = errors.New("text cannot be empty")

// voiceConfig holds per-language synthesis defaults.
type voiceConfig struct {
	Voice        string
	Speed        float64
	Instructions string
}

const tutorVoiceInstructions = "Voice: Clear, authoritative, and composed, projecting confidence and professionalism.\n\n" +
	"Tone: Neutral and informative, maintaining a balance between formality and approachability.\n\n" +
	"Punctuation: Structured with commas and pauses for clarity, ensuring information is digestible and well-paced.\n\n" +
	"Delivery: Steady and measured, with slight emphasis on key figures and deadlines to highlight critical points."

// languageVoices maps language codes to synthesis defaults. Unknown
// languages fall back to the en-US entry.
var languageVoices = map[string]voiceConfig{
	"en-US": {Voice: "nova", Speed: 1.0, Instructions: tutorVoiceInstructions},
	"vi-VN": {Voice: "nova", Speed: 1.0, Instructions: tutorVoiceInstructions},
}

// SynthesisConfig configures one synthesis call. Zero values pick the
// per-language defaults.
type SynthesisConfig struct {
	Language string
	Voice    string
	Speed    float64
}

// Synthesizer converts text to MP3 audio using an OpenAI-compatible
// text-to-speech API.
type Synthesizer struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// SynthesizerOption configures the synthesizer.
type SynthesizerOption func(*Synthesizer)

// WithSynthesizerBaseURL sets a custom base URL (for testing or proxies).
func WithSynthesizerBaseURL(url string) SynthesizerOption {
	return func(s *Synthesizer) {
		s.baseURL = url
	}
}

// WithSynthesizerClient sets a custom HTTP client.
func WithSynthesizerClient(client *http.Client) SynthesizerOption {
	return func(s *Synthesizer) {
		s.client = client
	}
}

// NewSynthesizer creates a TTS service.
func NewSynthesizer(apiKey string, opts ...SynthesizerOption) *Synthesizer {
	s := &Synthesizer{
		apiKey:  apiKey,
		baseURL: "https://api.openai.com/v1",
		model:   ModelTTS1HD,
		client:  &http.Client{Timeout: ttsRequestTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ttsRequest is the request body for the speech endpoint.
type ttsRequest struct {
	Model          string  `json:"model"`
	Input          string  `json:"input"`
	Voice          string  `json:"voice"`
	ResponseFormat string  `json:"response_format"`
	Speed          float64 `json:"speed"`
	Instructions   string  `json:"instructions,omitempty"`
}

// ProviderStatusError reports a non-2xx TTS provider response. The status
// code is passed through to the HTTP caller.
type ProviderStatusError struct {
	StatusCode int
	Body       string
}

func (e *ProviderStatusError) Error() string {
	return fmt.Sprintf("tts provider returned status %d", e.StatusCode)
}

// Synthesize converts text to MP3 bytes.
func (s *Synthesizer) Synthesize(ctx context.Context, text string, config SynthesisConfig) ([]byte, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	vc, ok := languageVoices[config.Language]
	if !ok {
		vc = languageVoices["en-US"]
	}

	voice := config.Voice
	if voice == "" {
		voice = vc.Voice
	}

	// An explicit positive speed wins; otherwise nudge the language
	// default slightly, capped so speech stays intelligible.
	speed := config.Speed
	if speed <= 0 {
		speed = vc.Speed + speedNudge
		if speed > maxSpeechSpeed {
			speed = maxSpeechSpeed
		}
	}

	payload, err := json.Marshal(ttsRequest{
		Model:          s.model,
		Input:          text,
		Voice:          voice,
		ResponseFormat: "mp3",
		Speed:          speed,
		Instructions:   vc.Instructions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+ttsEndpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &ProviderStatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}
	return data, nil
}
