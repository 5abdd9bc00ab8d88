package maintenance

import (
	"log/slog"

	"github.com/albapepper/cardgraph/internal/cache"
	"github.com/albapepper/cardgraph/internal/pipeline"
)

// RegenerateAndPurge returns a Regenerate task that reruns the pipeline and
// drops cached documents so the API serves the new files immediately.
// opts is re-used as is; only the input file is re-read. The purge runs after
// every rename, so a request that read an old file beforehand has its load
// discarded by the cache instead of stored.
func RegenerateAndPurge(opts pipeline.Options, c *cache.Cache, logger *slog.Logger) func() error {
	return func() error {
		result, err := pipeline.Regenerate(opts, logger)
		if err != nil {
			return err
		}
		c.Purge()
		logger.Info("Cache purged after regenerate", "summary", result.Summary())
		return nil
	}
}
