package server

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/scriptvoice/internal/pipeline"
	"github.com/example/scriptvoice/internal/renderplan"
)

// RenderEngine renders a validated RenderPlan into per-character tracks
// and an optional mixed master.
type RenderEngine interface {
	Render(ctx context.Context, plan *renderplan.RenderPlan) (pipeline.Result, error)
}

// WithRenderEngine enables POST /render. If never set, /render responds
// 501 Not Implemented, matching the streaming endpoint's convention for
// an unconfigured collaborator.
func WithRenderEngine(e RenderEngine) Option {
	return func(o *options) { o.renderEngine = e }
}

// handleRender accepts a RenderPlan as a JSON body and responds with a
// ZIP archive containing one WAV file per character track plus, when the
// engine produced one, a master.wav mix.
func (h *handler) handleRender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if h.opts.renderEngine == nil {
		writeError(w, http.StatusNotImplemented, "render engine not configured")
		return
	}

	if r.Body == nil {
		writeError(w, http.StatusBadRequest, "request body is required")
		return
	}

	var plan renderplan.RenderPlan
	if err := json.NewDecoder(r.Body).Decode(&plan); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	if err := plan.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid render plan: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.opts.requestTimeout)
	defer cancel()

	start := time.Now()
	result, err := h.opts.renderEngine.Render(ctx, &plan)
	durationMS := time.Since(start).Milliseconds()

	if err != nil {
		h.log.ErrorContext(r.Context(), "render failed",
			slog.Int("line_count", len(plan.Lines)),
			slog.Int64("duration_ms", durationMS),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, err.Error())

		return
	}

	archive, err := encodeRenderArchive(result)
	if err != nil {
		h.log.ErrorContext(r.Context(), "render archive encoding failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, err.Error())

		return
	}

	h.log.InfoContext(r.Context(), "render complete",
		slog.Int("line_count", len(plan.Lines)),
		slog.Int("track_count", len(result.Tracks)),
		slog.Int64("duration_ms", durationMS),
		slog.Int("total_ms", result.Statistics.TotalMs),
	)

	w.Header().Set("Content-Type", "application/zip")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}

// encodeRenderArchive packs the render result's per-character tracks and
// optional master into a ZIP, one WAV entry per track named after its
// character ID, plus "master.wav" when a mixed master was produced.
func encodeRenderArchive(result pipeline.Result) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, track := range result.Tracks {
		wav, err := pipeline.EncodeTrackWAV(track)
		if err != nil {
			return nil, fmt.Errorf("encode track %q: %w", track.CharacterID, err)
		}

		if err := writeZipEntry(zw, track.CharacterID+".wav", wav); err != nil {
			return nil, err
		}
	}

	if result.Master != nil {
		wav, err := pipeline.EncodeMasterWAV(*result.Master)
		if err != nil {
			return nil, fmt.Errorf("encode master: %w", err)
		}

		if err := writeZipEntry(zw, "master.wav", wav); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip writer: %w", err)
	}

	return buf.Bytes(), nil
}

func writeZipEntry(zw *zip.Writer, name string, data []byte) error {
	entry, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create zip entry %q: %w", name, err)
	}
	if _, err := entry.Write(data); err != nil {
		return fmt.Errorf("write zip entry %q: %w", name, err)
	}
	return nil
}
