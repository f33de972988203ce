// Package routes binds HTTP endpoints to their handlers.
package routes

import (
	"net/http"

	"chem_inventory/internal/handlers"
	"chem_inventory/internal/handlers/cabinets"
	"chem_inventory/internal/handlers/chemicals"
	"chem_inventory/internal/handlers/locations"
	"chem_inventory/internal/handlers/reports"
	"chem_inventory/internal/observability"
	"chem_inventory/internal/router"
)

// Deps carries the extras routes need beyond the shared handler bundle
type Deps struct {
	Auth   router.MiddlewaresType
	Health *observability.HealthConfig
}

// SetupRoutes registers every application endpoint on the router.
// Mutating endpoints carry the bearer-auth middleware; health and
// metrics are raw paths outside the versioned API prefix.
func SetupRoutes(r router.Router, h *handlers.Handler, deps Deps) {
	locationsHandler := locations.NewLocationsHandler(h)
	cabinetsHandler := cabinets.NewCabinetsHandler(h)
	chemicalsHandler := chemicals.NewChemicalsHandler(h)
	reportsHandler := reports.NewReportsHandler(h)

	r.RegisterGroup(&router.RouteGroup{
		Prefix:   "locations",
		Category: "locations",
		Routes: []*router.Route{
			{Method: http.MethodGet, Path: "", HandlerFunc: locationsHandler.GetLocations},
		},
	})

	r.RegisterGroup(&router.RouteGroup{
		Prefix:      "cabinets",
		Category:    "cabinets",
		Middlewares: []router.MiddlewaresType{deps.Auth},
		Routes: []*router.Route{
			{Method: http.MethodPost, Path: "", HandlerFunc: cabinetsHandler.RegisterCabinet},
			{Method: http.MethodDelete, Path: "", HandlerFunc: cabinetsHandler.DeleteCabinet},
		},
	})

	r.RegisterGroup(&router.RouteGroup{
		Prefix:      "chemicals",
		Category:    "chemicals",
		Middlewares: []router.MiddlewaresType{deps.Auth},
		Routes: []*router.Route{
			{Method: http.MethodPost, Path: "", HandlerFunc: chemicalsHandler.RegisterChemical},
		},
	})

	r.Register(&router.Route{
		Method:      http.MethodGet,
		Path:        "inventory/export",
		HandlerFunc: reportsHandler.ExportInventory,
		Middlewares: []router.MiddlewaresType{deps.Auth},
		Category:    "reports",
	})

	r.Register(&router.Route{
		Method:      http.MethodGet,
		Path:        "health",
		HandlerFunc: observability.HealthHandler(deps.Health),
		Category:    "system",
		RawPath:     true,
	})

	r.Register(&router.Route{
		Method:      http.MethodGet,
		Path:        "metrics",
		HandlerFunc: observability.Handler().ServeHTTP,
		Category:    "system",
		RawPath:     true,
	})
}
