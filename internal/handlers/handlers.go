package handlers

import (
	"log/slog"

	"chem_inventory/internal/blob"
	"chem_inventory/internal/cache"
	"chem_inventory/internal/database"
	"chem_inventory/internal/observability"
	"chem_inventory/internal/registry"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Handler bundles the shared dependencies injected into every handler
// package. Constructed once in main; never global.
type Handler struct {
	Queries  *database.Queries
	Cache    cache.Cache
	Logger   *slog.Logger
	DB       *pgxpool.Pool
	Blob     blob.Store
	Registry *registry.Client
	Workflow *observability.WorkflowMetrics
}

func NewHandler(
	q *database.Queries,
	c cache.Cache,
	l *slog.Logger,
	db *pgxpool.Pool,
	b blob.Store,
	r *registry.Client,
	wf *observability.WorkflowMetrics,
) *Handler {
	return &Handler{
		Queries:  q,
		Cache:    c,
		Logger:   l,
		DB:       db,
		Blob:     b,
		Registry: r,
		Workflow: wf,
	}
}
