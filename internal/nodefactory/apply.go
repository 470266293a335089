package nodefactory

import (
	"context"
	"log/slog"

	"github.com/figgen/figgen-cli/internal/scene"
)

// applyOrDefault runs a scene setter. When the value is rejected the node
// keeps the value it had and a warning is logged.
func (f *Factory) applyOrDefault(ctx context.Context, node *scene.Node, property string, set func() error) bool {
	if err := set(); err != nil {
		f.logger.WarnContext(ctx, "keeping default value",
			slog.String("node_type", string(node.Type)),
			slog.String("node_id", node.ID),
			slog.String("property", property),
			slog.String("error", err.Error()),
		)
		return false
	}
	return true
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}
