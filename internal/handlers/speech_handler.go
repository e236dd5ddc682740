package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"talktalk/internal/audio"
)

// SpeechHandler handles speech-to-text and text-to-speech HTTP requests
type SpeechHandler struct {
	transcriber   *audio.Transcriber
	synthesizer   *audio.Synthesizer
	uploadMaxSize int64
}

// NewSpeechHandler creates a new speech handler
func NewSpeechHandler(transcriber *audio.Transcriber, synthesizer *audio.Synthesizer, uploadMaxSize int64) *SpeechHandler {
	return &SpeechHandler{
		transcriber:   transcriber,
		synthesizer:   synthesizer,
		uploadMaxSize: uploadMaxSize,
	}
}

// SpeechToText transcribes an uploaded audio recording.
func (h *SpeechHandler) SpeechToText(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.uploadMaxSize)

	file, header, err := r.FormFile("audio")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Audio file is required", "Missing audio upload", err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "An error occurred during speech recognition", "Failed to read audio upload", err)
		return
	}
	if len(data) == 0 {
		respondWithError(w, http.StatusBadRequest, "Empty audio buffer received", "", nil)
		return
	}

	// Vietnamese learners record in either language; the prompt hint lets
	// the model fall back to English without a second pass.
	text, err := h.transcriber.Transcribe(r.Context(), data, audio.TranscriptionConfig{
		Filename: header.Filename,
		Language: "vi",
		Prompt:   "The audio may be in Vietnamese or English.",
	})
	if err != nil {
		if errors.Is(err, audio.ErrNoSpeech) {
			respondWithError(w, http.StatusBadRequest, "No speech detected in audio", "", nil)
			return
		}

		var terr *audio.TranscriptionError
		if errors.As(err, &terr) {
			respondWithJSON(w, http.StatusInternalServerError, map[string]string{
				"error":   "An error occurred during speech recognition",
				"details": terr.Details,
			})
			return
		}

		respondWithError(w, http.StatusInternalServerError, "An error occurred during speech recognition", "Transcription failed", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"text": text})
}

// TextToSpeech synthesizes text into MP3 audio.
func (h *SpeechHandler) TextToSpeech(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text     string  `json:"text"`
		Language string  `json:"language"`
		Voice    string  `json:"voice"`
		Speed    float64 `json:"speed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		respondWithError(w, http.StatusBadRequest, "Text is required", "", nil)
		return
	}

	data, err := h.synthesizer.Synthesize(r.Context(), audio.PrepareTextForSpeech(req.Text), audio.SynthesisConfig{
		Language: req.Language,
		Voice:    req.Voice,
		Speed:    req.Speed,
	})
	if err != nil {
		var perr *audio.ProviderStatusError
		if errors.As(err, &perr) {
			respondWithError(w, perr.StatusCode, "Failed to generate speech", "TTS provider error", err)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "An error occurred during speech synthesis", "Speech synthesis failed", err)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		// Client gone; audio cannot be resent.
		return
	}
}
