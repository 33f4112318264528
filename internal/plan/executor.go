package plan

import (
	"errors"
	"fmt"
	"os"

	"github.com/custodia-labs/archivist-cli/internal/core/domain"
	"github.com/custodia-labs/archivist-cli/internal/logger"
)

// Execute applies the plan to the filesystem. Steps are independent, so a
// failed move is logged and the remaining steps still run; the joined errors
// come back to the caller.
func (p *Plan) Execute() error {
	var errs []error
	for _, step := range p.Steps {
		if err := apply(step); err != nil {
			logger.Error("plan step failed: %v", err)
			errs = append(errs, err)
			continue
		}
		logger.Debug("applied %s -> %s", step.Op, step.Dest)
	}
	return errors.Join(errs...)
}

func apply(step Step) error {
	switch step.Op {
	case OpMkdir:
		if err := os.MkdirAll(step.Dest, 0o755); err != nil {
			return fmt.Errorf("%w: mkdir %s: %v", domain.ErrFilesystem, step.Dest, err)
		}
		return nil
	case OpMove:
		// os.Rename replaces an existing target. A move must never do
		// that: the destination holding a file means the plan is stale.
		if _, err := os.Stat(step.Dest); err == nil {
			return fmt.Errorf("%w: move %s: destination %s already exists",
				domain.ErrFilesystem, step.Source, step.Dest)
		}
		if err := os.Rename(step.Source, step.Dest); err != nil {
			return fmt.Errorf("%w: move %s: %v", domain.ErrFilesystem, step.Source, err)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown plan op %q", domain.ErrInvalidInput, step.Op)
	}
}
