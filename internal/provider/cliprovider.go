package provider

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/example/scriptvoice/internal/pcm"
)

// CLIProvider wraps an external synthesis executable as a subprocess:
// text in on stdin, WAV bytes out on stdout.
type CLIProvider struct {
	ExecutablePath string
	ConfigPath     string
	ExtraArgs      []string
	name           string
}

// NewCLIProvider constructs a subprocess-backed provider. execPath
// defaults to "pocket-tts" if empty.
func NewCLIProvider(name, execPath, configPath string, extraArgs ...string) *CLIProvider {
	if execPath == "" {
		execPath = "pocket-tts"
	}
	return &CLIProvider{ExecutablePath: execPath, ConfigPath: configPath, ExtraArgs: extraArgs, name: name}
}

func (p *CLIProvider) Name() string {
	if p.name == "" {
		return "cli"
	}
	return p.name
}

func (p *CLIProvider) Initialize(ctx context.Context) error {
	// Verify the executable resolves; a missing binary should exclude
	// this provider at registry construction time rather than fail
	// every synthesis call.
	_, err := exec.LookPath(p.ExecutablePath)
	if err != nil {
		return fmt.Errorf("cli provider %q: executable %q not found: %w", p.Name(), p.ExecutablePath, err)
	}
	return nil
}

func (p *CLIProvider) ListVoices(_ context.Context) ([]VoiceDescriptor, error) {
	return nil, nil
}

func (p *CLIProvider) SupportsEmotions() bool     { return false }
func (p *CLIProvider) SupportsVoiceCloning() bool { return true }

func (p *CLIProvider) Synthesize(ctx context.Context, req SynthesisRequest) (pcm.Buffer, error) {
	if req.Emotion != nil {
		req = CollapseEmotion(req, *req.Emotion)
	}

	args := []string{"generate", "--text", "-", "--output-path", "-"}
	if req.VoiceID != "" {
		args = append(args, "--voice", req.VoiceID)
	}
	if p.ConfigPath != "" {
		args = append(args, "--config", p.ConfigPath)
	}
	args = append(args, p.ExtraArgs...)

	cmd := exec.CommandContext(ctx, p.ExecutablePath, args...)
	cmd.Stdin = strings.NewReader(req.Text)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return pcm.Buffer{}, &SynthesisFailedError{Provider: p.Name(), Kind: FailureBackend, Cause: err}
	}

	buf, err := pcm.DecodeWAV(out.Bytes())
	if err != nil {
		return pcm.Buffer{}, &SynthesisFailedError{Provider: p.Name(), Kind: FailureInvalidResponse, Cause: err}
	}

	return buf, nil
}
