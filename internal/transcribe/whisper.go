package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"time"

	"github.com/mplazax/meeting-syntesis/internal/ingest"
)

// WhisperConfig configures the speech-to-text HTTP collaborator. Endpoint is
// any OpenAI-compatible /audio/transcriptions URL (hosted API or a local
// whisper server). APIKey may be empty for unauthenticated local servers.
type WhisperConfig struct {
	Endpoint string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

// WhisperClient transcribes audio by POSTing it as multipart form data to an
// OpenAI-compatible transcription endpoint.
type WhisperClient struct {
	cfg   WhisperConfig
	store ingest.Store
	hc    *http.Client
}

func NewWhisperClient(cfg WhisperConfig, store ingest.Store) *WhisperClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Minute
	}
	return &WhisperClient{cfg: cfg, store: store, hc: &http.Client{Timeout: cfg.Timeout}}
}

type whisperResponse struct {
	Text string `json:"text"`
}

func (w *WhisperClient) Transcribe(ctx context.Context, ref string) (string, error) {
	if w.cfg.Endpoint == "" {
		return "", fmt.Errorf("whisper endpoint not configured")
	}

	f, err := w.store.Open(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("open audio %s: %w", ref, err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("model", w.cfg.Model); err != nil {
		return "", err
	}
	part, err := mw.CreateFormFile("file", filepath.Base(ref))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("read audio %s: %w", ref, err)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.Endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if w.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+w.cfg.APIKey)
	}

	resp, err := w.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("transcription endpoint returned %d: %s", resp.StatusCode, string(b))
	}

	var wr whisperResponse
	if err := json.NewDecoder(resp.Body).Decode(&wr); err != nil {
		return "", fmt.Errorf("decode transcription response: %w", err)
	}
	return wr.Text, nil
}
