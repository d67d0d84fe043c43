package client

import (
	"context"
	"time"

	"entsogo/internal/models"
)

// Pair builds an ordered from/to border dimension for the transmission
// operations. Pair("FR", "DE_LU") is the flow from France into
// Germany/Luxembourg; the reverse direction is a separate pair.
func Pair(from, to string) models.Dimension {
	return models.Dimension{Area: from, To: to}
}

func areaDims(areas []string) []models.Dimension {
	dims := make([]models.Dimension, len(areas))
	for i, a := range areas {
		dims[i] = models.Dimension{Area: a}
	}
	return dims
}

// ActualLoad returns realised total load for one or more areas.
func (c *Client) ActualLoad(ctx context.Context, start, end time.Time, areas ...string) (*models.Table, error) {
	return c.Fetch(ctx, models.Query{
		Family: models.FamilyActualLoad, Start: start, End: end, Dimensions: areaDims(areas),
	})
}

// LoadForecast returns day-ahead total load forecasts for one or more areas.
func (c *Client) LoadForecast(ctx context.Context, start, end time.Time, areas ...string) (*models.Table, error) {
	return c.Fetch(ctx, models.Query{
		Family: models.FamilyLoadForecast, Start: start, End: end, Dimensions: areaDims(areas),
	})
}

// DayAheadPrices returns day-ahead wholesale prices for one or more
// bidding zones.
func (c *Client) DayAheadPrices(ctx context.Context, start, end time.Time, areas ...string) (*models.Table, error) {
	return c.Fetch(ctx, models.Query{
		Family: models.FamilyDayAheadPrices, Start: start, End: end, Dimensions: areaDims(areas),
	})
}

// ActualGeneration returns realised generation per production type.
// psrType optionally narrows to one fuel, by code ("B16") or name
// ("Solar"); empty means all types.
func (c *Client) ActualGeneration(ctx context.Context, start, end time.Time, psrType string, areas ...string) (*models.Table, error) {
	return c.Fetch(ctx, models.Query{
		Family: models.FamilyActualGeneration, Start: start, End: end,
		Dimensions: areaDims(areas), PSRType: psrType,
	})
}

// GenerationForecast returns day-ahead aggregated generation forecasts.
func (c *Client) GenerationForecast(ctx context.Context, start, end time.Time, psrType string, areas ...string) (*models.Table, error) {
	return c.Fetch(ctx, models.Query{
		Family: models.FamilyGenerationForecast, Start: start, End: end,
		Dimensions: areaDims(areas), PSRType: psrType,
	})
}

// InstalledCapacity returns installed generation capacity per production
// type, reported per year.
func (c *Client) InstalledCapacity(ctx context.Context, start, end time.Time, psrType string, areas ...string) (*models.Table, error) {
	return c.Fetch(ctx, models.Query{
		Family: models.FamilyInstalledCapacity, Start: start, End: end,
		Dimensions: areaDims(areas), PSRType: psrType,
	})
}

// GenerationPerUnit returns realised output of individual generation
// units, identified by their EIC and display name.
func (c *Client) GenerationPerUnit(ctx context.Context, start, end time.Time, psrType string, areas ...string) (*models.Table, error) {
	return c.Fetch(ctx, models.Query{
		Family: models.FamilyGenerationPerUnit, Start: start, End: end,
		Dimensions: areaDims(areas), PSRType: psrType,
	})
}

// CrossborderFlows returns realised physical flows for one or more
// ordered border pairs. Each direction is its own pair.
func (c *Client) CrossborderFlows(ctx context.Context, start, end time.Time, pairs ...models.Dimension) (*models.Table, error) {
	return c.Fetch(ctx, models.Query{
		Family: models.FamilyCrossborderFlows, Start: start, End: end, Dimensions: pairs,
	})
}

// ScheduledExchanges returns total scheduled commercial exchanges for
// one or more ordered border pairs.
func (c *Client) ScheduledExchanges(ctx context.Context, start, end time.Time, pairs ...models.Dimension) (*models.Table, error) {
	return c.Fetch(ctx, models.Query{
		Family: models.FamilyScheduledExchanges, Start: start, End: end, Dimensions: pairs,
	})
}

// NetTransferCapacity returns forecasted day-ahead transfer capacity for
// one or more ordered border pairs.
func (c *Client) NetTransferCapacity(ctx context.Context, start, end time.Time, pairs ...models.Dimension) (*models.Table, error) {
	return c.Fetch(ctx, models.Query{
		Family: models.FamilyTransferCapacity, Start: start, End: end, Dimensions: pairs,
	})
}

// ImbalancePrices returns imbalance settlement prices for one or more
// control areas. Settlement direction arrives as the observation
// category ("Excess balance" / "Insufficient balance").
func (c *Client) ImbalancePrices(ctx context.Context, start, end time.Time, areas ...string) (*models.Table, error) {
	return c.Fetch(ctx, models.Query{
		Family: models.FamilyImbalancePrices, Start: start, End: end, Dimensions: areaDims(areas),
	})
}

// ImbalanceVolumes returns total imbalance volumes for one or more
// control areas.
func (c *Client) ImbalanceVolumes(ctx context.Context, start, end time.Time, areas ...string) (*models.Table, error) {
	return c.Fetch(ctx, models.Query{
		Family: models.FamilyImbalanceVolumes, Start: start, End: end, Dimensions: areaDims(areas),
	})
}
