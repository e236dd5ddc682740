package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"talktalk/internal/audio"
)

const testUploadMaxSize = 1 << 20

func newSpeechHandler(t *testing.T, providerHandler http.HandlerFunc) *SpeechHandler {
	t.Helper()
	srv := httptest.NewServer(providerHandler)
	t.Cleanup(srv.Close)

	transcriber := audio.NewTranscriber("test-key", audio.WithTranscriberBaseURL(srv.URL))
	synthesizer := audio.NewSynthesizer("test-key", audio.WithSynthesizerBaseURL(srv.URL))
	return NewSpeechHandler(transcriber, synthesizer, testUploadMaxSize)
}

func audioUpload(t *testing.T, field string, data []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, "recording.webm")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/speech-to-text", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestSpeechToText(t *testing.T) {
	h := newSpeechHandler(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"text": "Xin chào"})
	})

	rec := httptest.NewRecorder()
	h.SpeechToText(rec, audioUpload(t, "audio", []byte("fake-webm-bytes")))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]string
	decodeBody(t, rec, &resp)
	if resp["text"] != "Xin chào" {
		t.Fatalf("unexpected transcription %q", resp["text"])
	}
}

func TestSpeechToTextMissingFile(t *testing.T) {
	h := newSpeechHandler(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("provider should not be called")
	})

	rec := httptest.NewRecorder()
	h.SpeechToText(rec, audioUpload(t, "recording", []byte("fake")))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "Audio file is required" {
		t.Fatalf("unexpected error message %q", msg)
	}
}

func TestSpeechToTextEmptyAudio(t *testing.T) {
	h := newSpeechHandler(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("provider should not be called")
	})

	rec := httptest.NewRecorder()
	h.SpeechToText(rec, audioUpload(t, "audio", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "Empty audio buffer received" {
		t.Fatalf("unexpected error message %q", msg)
	}
}

func TestSpeechToTextNoSpeech(t *testing.T) {
	h := newSpeechHandler(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"text": ""})
	})

	rec := httptest.NewRecorder()
	h.SpeechToText(rec, audioUpload(t, "audio", []byte("silence")))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "No speech detected in audio" {
		t.Fatalf("unexpected error message %q", msg)
	}
}

func TestSpeechToTextProviderFailureForwardsDetails(t *testing.T) {
	h := newSpeechHandler(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "Invalid file format."},
		})
	})

	rec := httptest.NewRecorder()
	h.SpeechToText(rec, audioUpload(t, "audio", []byte("not-audio")))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var resp map[string]string
	decodeBody(t, rec, &resp)
	if resp["error"] != "An error occurred during speech recognition" {
		t.Fatalf("unexpected error %q", resp["error"])
	}
	if resp["details"] != "Invalid file format." {
		t.Fatalf("expected provider details forwarded, got %q", resp["details"])
	}
}

func TestTextToSpeech(t *testing.T) {
	mp3 := []byte("ID3-fake-mp3-bytes")
	h := newSpeechHandler(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad provider request: %v", err)
		}
		if req["input"] != "Fill in the blank with the correct word." {
			t.Fatalf("expected prepared text, got %q", req["input"])
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write(mp3)
	})

	body := `{"text":"Fill in the ______ with the correct word."}`
	req := httptest.NewRequest(http.MethodPost, "/api/text-to-speech", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.TextToSpeech(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "audio/mpeg" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if !bytes.Equal(rec.Body.Bytes(), mp3) {
		t.Fatal("audio bytes were not passed through")
	}
}

func TestTextToSpeechMissingText(t *testing.T) {
	h := newSpeechHandler(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("provider should not be called")
	})

	req := httptest.NewRequest(http.MethodPost, "/api/text-to-speech", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.TextToSpeech(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "Text is required" {
		t.Fatalf("unexpected error message %q", msg)
	}
}

func TestTextToSpeechProviderStatusPassthrough(t *testing.T) {
	h := newSpeechHandler(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/text-to-speech",
		strings.NewReader(`{"text":"Hello"}`))
	rec := httptest.NewRecorder()
	h.TextToSpeech(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected provider status 429, got %d", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "Failed to generate speech" {
		t.Fatalf("unexpected error message %q", msg)
	}
}
