// controllers/deps.go - shared gateway dependencies for all handlers
package controllers

import (
	"fund-admin-gateway/backend"
	"fund-admin-gateway/middleware"
	"fund-admin-gateway/services"
	"fund-admin-gateway/utils"

	"github.com/gin-gonic/gin"
)

var (
	apiClient    *backend.Client
	statusLookup *utils.StatusLookup
	aggregator   *services.Aggregator
	enricher     *services.Enricher
	exporter     *services.ExportBuilder
)

// Init wires the handler package to one backend client. Reads (aggregation,
// details, exports) go out with the gateway's service token so their caches
// can be shared; writes are re-issued with the caller's own token so the
// backend records the real actor.
func Init(client *backend.Client, pageSize, maxRows int) {
	apiClient = client
	statusLookup = utils.NewStatusLookup(client.StatusFetcher())
	aggregator = services.NewAggregator(client, statusLookup, pageSize, maxRows)
	enricher = services.NewEnricher(client, services.NewDetailCache())
	exporter = services.NewExportBuilder(enricher, statusLookup, client)
}

// callerClient returns a backend client that forwards the caller's bearer
// token upstream.
func callerClient(c *gin.Context) *backend.Client {
	return apiClient.WithToken(middleware.CallerToken(c))
}

// invalidateSubmission drops cached state touched by a write so the next read
// refetches it from the backend.
func invalidateSubmission(submissionID int) {
	enricher.Cache().Delete(submissionID)
	aggregator.Invalidate()
}
