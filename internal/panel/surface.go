package panel

import (
	"context"

	"editorjump/internal/view"
)

// Surface is a live configuration view. Render replaces everything shown;
// Post delivers a message the view reacts to without a re-render.
type Surface interface {
	Render(m view.Model)
	Post(msg Outbound)
	// Dispose closes the view. It must not call back into Sink.Detach.
	Dispose()
}

// Sink is what a surface uses to talk to its controller.
type Sink interface {
	Handle(ctx context.Context, a Action)
	// Detach tells the controller the user closed s.
	Detach(s Surface)
}

// SurfaceFactory creates a new surface wired to sink.
type SurfaceFactory func(ctx context.Context, sink Sink) (Surface, error)
