package gradesync

import (
	"context"

	"github.com/agentstation/gradesync/internal/sheets"
	"github.com/agentstation/gradesync/pkg/errors"
	"github.com/agentstation/gradesync/pkg/logging"
	"github.com/agentstation/gradesync/pkg/reconcile"
)

// ReconcileFiles implements Gradesync. The output format follows the extension
// of outPath, so a CSV primary can be written back as a workbook and vice versa.
func (c *client) ReconcileFiles(ctx context.Context, primaryPath, secondaryPath, outPath string) (*reconcile.Result, error) {
	if outPath != "" {
		if _, err := sheets.FormatFromPath(outPath); err != nil {
			return nil, err
		}
	}

	primary, err := sheets.ReadFile(primaryPath)
	if err != nil {
		return nil, errors.WrapResource("read", "primary gradebook", primaryPath, err)
	}
	secondary, err := sheets.ReadFile(secondaryPath)
	if err != nil {
		return nil, errors.WrapResource("read", "secondary gradebook", secondaryPath, err)
	}

	result, err := c.Reconcile(ctx, primary, secondary)
	if err != nil {
		return nil, err
	}

	if outPath == "" || c.config.dryRun {
		return result, nil
	}

	if err := sheets.WriteFile(outPath, result.Output); err != nil {
		return nil, errors.WrapResource("write", "reconciled gradebook", outPath, err)
	}

	if c.config.logger != nil {
		ctx = logging.WithLogger(ctx, c.config.logger)
	}
	ctx = logging.WithStage(logging.WithFile(ctx, outPath), "write")
	logging.FromContext(ctx).Info().
		Int("rows", len(result.Output.Rows)).
		Msg("Wrote reconciled gradebook")

	return result, nil
}
