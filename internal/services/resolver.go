package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/ghiemer/qr-redirector/internal/models"
	"github.com/ghiemer/qr-redirector/internal/repository"

	"github.com/redis/go-redis/v9"
)

type OutcomeKind int

const (
	OutcomeNotFound OutcomeKind = iota
	OutcomeRedirect
	OutcomeInternalError
)

// Outcome is the resolver's decision for one inbound alias. URL is only set
// for OutcomeRedirect.
type Outcome struct {
	Kind OutcomeKind
	URL  string
}

const (
	routeCacheKeyPrefix = "route:"
	routeCacheTTL       = 10 * time.Minute
)

// Resolver turns an alias into a redirect target and dispatches tracking and
// audit logging after the outcome is decided.
type Resolver struct {
	store  repository.Store
	rdb    *redis.Client
	worker *TrackWorker
	logger *slog.Logger
}

func NewResolver(store repository.Store, rdb *redis.Client, worker *TrackWorker, logger *slog.Logger) *Resolver {
	return &Resolver{
		store:  store,
		rdb:    rdb,
		worker: worker,
		logger: logger,
	}
}

// Resolve looks up an active route, builds the outbound URL and hands the
// visit to the tracking worker. Tracking never changes the outcome; the
// caller can answer the client immediately.
func (r *Resolver) Resolve(ctx context.Context, alias, ip, userAgent, referer string) Outcome {
	route, err := r.lookupRoute(ctx, alias)
	if errors.Is(err, models.ErrRouteNotFound) {
		r.logger.Info("Route not found", "alias", alias)
		return Outcome{Kind: OutcomeNotFound}
	}
	if err != nil {
		r.logger.Error("Route resolution failed", "alias", alias, "error", err)
		return Outcome{Kind: OutcomeInternalError}
	}

	target := BuildTargetURL(route)

	r.worker.Enqueue(Visit{
		Alias:     alias,
		Target:    target,
		IP:        ip,
		UserAgent: userAgent,
		Referer:   referer,
		Time:      time.Now(),
	})

	return Outcome{Kind: OutcomeRedirect, URL: target}
}

// lookupRoute checks the Redis cache first when one is configured. Cache
// errors count as misses; only active routes are cached.
func (r *Resolver) lookupRoute(ctx context.Context, alias string) (*models.Route, error) {
	if r.rdb != nil {
		val, err := r.rdb.Get(ctx, routeCacheKeyPrefix+alias).Result()
		if err == nil {
			var route models.Route
			if err := json.Unmarshal([]byte(val), &route); err == nil && route.Active {
				return &route, nil
			}
		}
	}

	route, err := r.store.GetActiveRouteByAlias(alias)
	if err != nil {
		return nil, err
	}

	if r.rdb != nil {
		if data, err := json.Marshal(route); err == nil {
			r.rdb.Set(ctx, routeCacheKeyPrefix+alias, data, routeCacheTTL)
		}
	}

	return route, nil
}

// BuildTargetURL merges the route's UTM parameters into the target URL. UTM
// values from the route override parameters already present. An unparsable
// target is returned verbatim, an empty one degrades to "#".
func BuildTargetURL(route *models.Route) string {
	if route.Target == "" {
		return "#"
	}

	// url.Parse accepts almost anything, including scheme-less strings; only
	// absolute URLs are safe to rewrite.
	u, err := url.Parse(route.Target)
	if err != nil || !u.IsAbs() {
		return route.Target
	}

	q := u.Query()
	if route.UTMSource != "" {
		q.Set("utm_source", route.UTMSource)
	}
	if route.UTMMedium != "" {
		q.Set("utm_medium", route.UTMMedium)
	}
	if route.UTMCampaign != "" {
		q.Set("utm_campaign", route.UTMCampaign)
	}
	u.RawQuery = q.Encode()

	return u.String()
}
