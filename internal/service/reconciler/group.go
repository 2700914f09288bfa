package reconciler

import (
	"context"
	"fmt"

	"github.com/oshokin/speaker-autogroup/internal/logger"
)

// groupAll resolves names[0] and sends it one join per remaining name, in order.
// It stops at the first failed join and returns the joins issued so far.
func (r *Reconciler) groupAll(ctx context.Context, names []string) ([]Join, error) {
	if len(names) == 0 {
		return nil, nil
	}

	first := names[0]
	logger.InfoKV(ctx, "Grouping speakers without a group", "speakers", names)

	handle, err := r.find(ctx, first, r.timeouts.GroupLookup)
	if err != nil {
		return nil, err
	}

	joins := make([]Join, 0, len(names)-1)

	for _, name := range names[1:] {
		if err := handle.Join(ctx, name); err != nil {
			return joins, fmt.Errorf("%w: %q to %q: %w", ErrJoin, first, name, err)
		}

		joins = append(joins, Join{Speaker: first, Target: name, AdHoc: true})
		logger.InfoKV(ctx, "Joined ad-hoc group", "speaker", first, "target", name)
	}

	return joins, nil
}
