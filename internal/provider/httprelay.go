package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/example/scriptvoice/internal/pcm"
)

// HTTPRelayProvider is the emotion-capable reference backend from
// it accepts emotion directly (via SSML or a structured
// field) and dispatches to a remote HTTP synthesis endpoint. Grounded on
// hubenschmidt-asr-llm-tts's gateway net/http dispatch idiom (its
// services/gateway/internal/pipeline package), since that repo's actual
// SDK dependency (openai/openai-go) has no text-to-speech surface.
type HTTPRelayProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	name    string
}

// NewHTTPRelayProvider builds a relay pointed at baseURL with a plain
// http.Client that has no timeout of its own; any deadline comes from the
// request context, so context cancellation and deadlines both work.
// Initialize installs such a client when Client is nil.
func NewHTTPRelayProvider(name, baseURL, apiKey string) *HTTPRelayProvider {
	return &HTTPRelayProvider{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{},
		name:    name,
	}
}

func (p *HTTPRelayProvider) Name() string {
	if p.name == "" {
		return "http-relay"
	}
	return p.name
}

func (p *HTTPRelayProvider) Initialize(_ context.Context) error {
	if p.BaseURL == "" {
		return fmt.Errorf("http relay provider %q: base URL is required", p.Name())
	}
	if p.Client == nil {
		p.Client = &http.Client{}
	}
	return nil
}

func (p *HTTPRelayProvider) ListVoices(ctx context.Context) ([]VoiceDescriptor, error) {
	var voices []VoiceDescriptor
	if err := p.getJSON(ctx, "/voices", &voices); err != nil {
		return nil, &SynthesisFailedError{Provider: p.Name(), Kind: FailureNetwork, Cause: err}
	}
	return voices, nil
}

func (p *HTTPRelayProvider) SupportsEmotions() bool     { return true }
func (p *HTTPRelayProvider) SupportsVoiceCloning() bool { return false }

type relaySynthesisBody struct {
	Text       string  `json:"text"`
	SSML       string  `json:"ssml,omitempty"`
	VoiceID    string  `json:"voice_id"`
	Emotion    string  `json:"emotion,omitempty"`
	Intensity  float64 `json:"intensity,omitempty"`
	Rate       float64 `json:"rate"`
	Pitch      float64 `json:"pitch"`
	Volume     float64 `json:"volume"`
	FormatHint string  `json:"format_hint,omitempty"`
}

// Synthesize posts req to POST {BaseURL}/synthesize and expects a WAV
// response body, which is decoded and canonicalized into the mixer's
// PCM format.
func (p *HTTPRelayProvider) Synthesize(ctx context.Context, req SynthesisRequest) (pcm.Buffer, error) {
	body := relaySynthesisBody{
		Text:       req.Text,
		SSML:       req.SSML,
		VoiceID:    req.VoiceID,
		Rate:       req.Rate,
		Pitch:      req.Pitch,
		Volume:     req.Volume,
		FormatHint: req.FormatHint,
	}
	if req.Emotion != nil {
		body.Emotion = string(req.Emotion.Kind)
		body.Intensity = req.Emotion.Intensity
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return pcm.Buffer{}, fmt.Errorf("http relay: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/synthesize", bytes.NewReader(payload))
	if err != nil {
		return pcm.Buffer{}, fmt.Errorf("http relay: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.APIKey)
	}

	resp, err := p.Client.Do(httpReq)
	if err != nil {
		kind := FailureNetwork
		if ctx.Err() != nil {
			kind = FailureTimeout
		}
		return pcm.Buffer{}, &SynthesisFailedError{Provider: p.Name(), Kind: kind, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return pcm.Buffer{}, &SynthesisFailedError{
			Provider: p.Name(),
			Kind:     FailureBackend,
			Cause:    fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return pcm.Buffer{}, &SynthesisFailedError{Provider: p.Name(), Kind: FailureNetwork, Cause: err}
	}

	out, err := pcm.DecodeWAV(buf.Bytes())
	if err != nil {
		return pcm.Buffer{}, &SynthesisFailedError{Provider: p.Name(), Kind: FailureInvalidResponse, Cause: err}
	}

	return out, nil
}

func (p *HTTPRelayProvider) getJSON(ctx context.Context, path string, out any) error {
	reqCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodGet, p.BaseURL+path, nil)
	if err != nil {
		return err
	}
	if p.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.APIKey)
	}

	resp, err := p.Client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
