package server

import (
	"context"

	"github.com/example/scriptvoice/internal/pipeline"
	"github.com/example/scriptvoice/internal/renderplan"
	"github.com/example/scriptvoice/internal/voiceengine"
)

// renderEngineAdapter satisfies RenderEngine by delegating to
// pipeline.Render with a fixed voiceengine.Engine and mixer options,
// keeping internal/server's dependency on internal/pipeline confined to
// this one file.
type renderEngineAdapter struct {
	engine *voiceengine.Engine
	opts   pipeline.Options
}

func (a *renderEngineAdapter) Render(ctx context.Context, plan *renderplan.RenderPlan) (pipeline.Result, error) {
	return pipeline.Render(ctx, plan, a.engine, a.opts)
}
