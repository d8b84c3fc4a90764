package fbxtools

import (
	"context"
	"fmt"

	"github.com/aretw0/fbxtools/pkg/domain"
	"github.com/aretw0/fbxtools/pkg/fbx"
	"github.com/aretw0/fbxtools/pkg/scene"
	"github.com/google/uuid"
)

// Inspect lists the nodes of the document at path with their meshes,
// materials and parents.
func (e *Engine) Inspect(ctx context.Context, path string) (*scene.Inspection, error) {
	doc, format, err := e.open(ctx, uuid.NewString(), path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnreadable, err)
	}
	s, err := scene.New(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrUnreadable, path, err)
	}
	out := s.Inspect()
	out.Path = path
	out.Format = format.String()
	return out, nil
}

// Convert re-encodes the document at in and writes it to out in format.
// in and out may be the same path.
func (e *Engine) Convert(ctx context.Context, in, out string, format fbx.Format) error {
	opID := uuid.NewString()
	doc, from, err := e.open(ctx, opID, in)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUnreadable, err)
	}
	if err := e.save(ctx, opID, out, doc, format); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrWriteFailed, err)
	}
	e.logger.Info("document converted", "in", in, "out", out, "from", from, "to", format)
	e.bridge.Logf("Converted %s (%s) to %s (%s)", in, from, out, format)
	return nil
}
