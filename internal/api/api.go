// Package api serves the launch pipeline behind API Gateway.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/launchsync/launchsync/pkg/launch"
	"github.com/launchsync/launchsync/pkg/stats"
	"github.com/launchsync/launchsync/pkg/storage"
	"github.com/launchsync/launchsync/pkg/syncer"
)

// Routes served by Handle
const (
	RouteSync           = "/sync"
	RouteLaunches       = "/launches"
	RouteStatistics     = "/statistics"
	RouteSuccessRate    = "/success-rate"
	RouteLaunchesByYear = "/launches-by-year"
	RouteCountByRocket  = "/count-by-rocket"
)

// Syncer is an abstraction for a sync run
type Syncer interface {
	Sync(ctx context.Context) (syncer.Result, error)
}

// Handler serves the launch routes
type Handler struct {
	syncer Syncer
	db     storage.Scanner
	log    *slog.Logger
}

// NewHandler returns a new Handler. s may be nil for read-only deployments,
// in which case the sync route is not served.
func NewHandler(s Syncer, db storage.Scanner, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{syncer: s, db: db, log: log}
}

// Handle routes a request by its API Gateway resource
func (h *Handler) Handle(ctx context.Context, request *events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {

	route := request.Resource
	if route == "" {
		route = request.Path
	}
	if len(route) > 1 {
		route = strings.TrimSuffix(route, "/")
	}

	sorted := strings.EqualFold(request.QueryStringParameters["sort"], "asc")

	switch route {
	case RouteSync:
		if h.syncer != nil {
			return h.Sync(ctx)
		}
	case RouteLaunches:
		return h.List(ctx)
	case RouteStatistics:
		return h.Statistics(ctx)
	case RouteSuccessRate:
		return h.SuccessRate(ctx)
	case RouteLaunchesByYear:
		return h.LaunchesByYear(ctx, sorted)
	case RouteCountByRocket:
		return h.CountByRocket(ctx, sorted)
	}

	return respondError(http.StatusNotFound, "unknown resource: "+route), nil
}

// Sync runs a sync and reports how many launches were saved
func (h *Handler) Sync(ctx context.Context) (events.APIGatewayProxyResponse, error) {

	if h.syncer == nil {
		return respondError(http.StatusNotFound, "sync is not served here"), nil
	}

	res, err := h.syncer.Sync(ctx)
	if err != nil {
		return respondError(statusFor(err), err.Error()), nil
	}
	return respond(http.StatusOK, res), nil
}

// List returns every stored launch
func (h *Handler) List(ctx context.Context) (events.APIGatewayProxyResponse, error) {

	items, err := h.readAll(ctx, "launches")
	if err != nil {
		return respondError(http.StatusInternalServerError, "could not get launches: "+err.Error()), nil
	}
	return respond(http.StatusOK, struct {
		Launches []launch.Item `json:"launches"`
	}{Launches: items}), nil
}

// Statistics returns launch totals by status
func (h *Handler) Statistics(ctx context.Context) (events.APIGatewayProxyResponse, error) {

	items, err := h.readAll(ctx, "statistics")
	if err != nil {
		return respondError(http.StatusInternalServerError, "could not get statistics: "+err.Error()), nil
	}
	return respond(http.StatusOK, stats.Count(items)), nil
}

// SuccessRate returns the status breakdown and success percentage
func (h *Handler) SuccessRate(ctx context.Context) (events.APIGatewayProxyResponse, error) {

	items, err := h.readAll(ctx, "success rate")
	if err != nil {
		return respondError(http.StatusInternalServerError, "could not get success rate: "+err.Error()), nil
	}
	return respond(http.StatusOK, stats.Rate(items)), nil
}

// LaunchesByYear returns launch counts per year
func (h *Handler) LaunchesByYear(ctx context.Context, sorted bool) (events.APIGatewayProxyResponse, error) {

	items, err := h.readAll(ctx, "launches by year")
	if err != nil {
		return respondError(http.StatusInternalServerError, "could not get launches by year: "+err.Error()), nil
	}
	s := stats.ByYear(items)
	if sorted {
		s = stats.Sorted(s)
	}
	return respond(http.StatusOK, s), nil
}

// CountByRocket returns launch counts per rocket
func (h *Handler) CountByRocket(ctx context.Context, sorted bool) (events.APIGatewayProxyResponse, error) {

	items, err := h.readAll(ctx, "count by rocket")
	if err != nil {
		return respondError(http.StatusInternalServerError, "could not get count by rocket: "+err.Error()), nil
	}
	s := stats.ByRocket(items)
	if sorted {
		s = stats.Sorted(s)
	}
	return respond(http.StatusOK, s), nil
}

func (h *Handler) readAll(ctx context.Context, view string) ([]launch.Item, error) {

	items, err := storage.ReadAll(ctx, h.db)
	if err != nil {
		h.log.Error("could not scan launches", "view", view, "error", err)
		return nil, err
	}
	h.log.Debug("scanned launches", "view", view, "count", len(items))
	return items, nil
}
