package sqlc

import (
	"context"
	"time"

	"github.com/sqlc-dev/pqtype"
)

// Upper bound for every analytics query; counters must never
// stall the game loop.
const QuerierCtxTimeout = time.Second * 10

// DbManager groups the per-table manager facades. Analytics is
// the only table so far.
type DbManager struct {
	Analytics *AnalyticsManager
}

func NewDbManager(queries Querier) DbManager {
	return DbManager{
		Analytics: NewAnalyticsManager(queries),
	}
}

type AnalyticsManager struct {
	queries Querier
}

func NewAnalyticsManager(queries Querier) *AnalyticsManager {
	return &AnalyticsManager{queries: queries}
}

func (a *AnalyticsManager) IncrementGamesCreatedCount(ctx context.Context, serverIpNet pqtype.Inet) error {
	return a.queries.AnalyticsIncrementGamesCreatedCount(ctx, serverIpNet)
}

func (a *AnalyticsManager) IncrementAutoPlacementsCount(ctx context.Context, serverIpNet pqtype.Inet) error {
	return a.queries.AnalyticsIncrementAutoPlacementsCount(ctx, serverIpNet)
}

func (a *AnalyticsManager) IncrementRematchCalledCount(ctx context.Context, serverIpNet pqtype.Inet) error {
	return a.queries.AnalyticsIncrementRematchCalledCount(ctx, serverIpNet)
}

func (a *AnalyticsManager) GetGamesCreatedCount(ctx context.Context, serverIpNet pqtype.Inet) (int64, error) {
	return a.queries.GetGamesCreatedCount(ctx, serverIpNet)
}

func (a *AnalyticsManager) GetAutoPlacementsCount(ctx context.Context, serverIpNet pqtype.Inet) (int64, error) {
	return a.queries.GetAutoPlacementsCount(ctx, serverIpNet)
}

func (a *AnalyticsManager) GetRematchCalledCount(ctx context.Context, serverIpNet pqtype.Inet) (int64, error) {
	return a.queries.GetRematchCalledCount(ctx, serverIpNet)
}
