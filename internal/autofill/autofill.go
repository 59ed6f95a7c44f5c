// Package autofill seeds the EUA price input through an ordered cascade:
// the authenticated quote source, then the public spot-price scrape, then a
// fixed default. Each tier's failure silently transitions to the next; the
// cascade itself never fails.
package autofill

import (
	"context"

	"github.com/fueltrust/ship-estimator/internal/metrics"
	"github.com/fueltrust/ship-estimator/internal/quotes"
	"github.com/fueltrust/ship-estimator/pkg/constants"
	"go.uber.org/zap"
)

// Source labels where the seeded price came from. The label is surfaced for
// display only; it has no effect on computation. The default tier carries no
// label.
type Source string

const (
	SourceForwardQuote Source = "forward-quote"
	SourceSpotScrape   Source = "spot-scrape"
	SourceDefault      Source = ""
)

// Result reports the cascade outcome: the chosen source, the price written to
// the session, and the selected quote record when the forward-quote tier won.
type Result struct {
	Source Source
	Price  float64
	Record *quotes.Record
}

// Seed resolves an EUA price and assigns it to the session's eua_price input.
// The client and scraper may be nil, which skips their tiers.
func Seed(ctx context.Context, logger *zap.Logger, session *metrics.Session, client *quotes.Client, scraper *quotes.SpotScraper) Result {
	if logger == nil {
		logger = zap.NewNop()
	}

	if result, ok := seedFromQuotes(ctx, logger, session, client); ok {
		return result
	}
	if result, ok := seedFromSpot(ctx, logger, session, scraper); ok {
		return result
	}

	// Terminal tier: only fill the default when the price is still absent.
	out, err := session.Resolve(metrics.EuaPrice)
	if err == nil && !out.Available {
		_ = session.Assign(metrics.EuaPrice, constants.DefaultEUAPrice)
		logger.Info("seeded default EUA price",
			zap.String("op", "autofill.Seed"),
			zap.Float64("price", constants.DefaultEUAPrice),
		)
		return Result{Source: SourceDefault, Price: constants.DefaultEUAPrice}
	}
	return Result{Source: SourceDefault, Price: out.Or(constants.DefaultEUAPrice)}
}

func seedFromQuotes(ctx context.Context, logger *zap.Logger, session *metrics.Session, client *quotes.Client) (Result, bool) {
	if client == nil || !client.HasToken() {
		return Result{}, false
	}

	records, err := client.Fetch(ctx)
	if err != nil {
		logger.Warn("quote source unavailable, falling back to spot scrape",
			zap.String("op", "autofill.seedFromQuotes"),
			zap.Error(err),
		)
		return Result{}, false
	}

	record, ok := quotes.Select(records)
	if !ok {
		logger.Warn("no matching instrument in quote list",
			zap.String("op", "autofill.seedFromQuotes"),
			zap.Int("records", len(records)),
		)
		return Result{}, false
	}

	price, ok := record.Price.Float()
	if !ok {
		logger.Warn("selected instrument has non-numeric price",
			zap.String("op", "autofill.seedFromQuotes"),
			zap.String("product", record.ProductName),
			zap.String("price", record.Price.String()),
		)
		return Result{}, false
	}

	_ = session.Assign(metrics.EuaPrice, price)
	logger.Info("seeded EUA price from quote source",
		zap.String("op", "autofill.seedFromQuotes"),
		zap.String("product", record.ProductName),
		zap.Float64("price", price),
	)
	return Result{Source: SourceForwardQuote, Price: price, Record: &record}, true
}

func seedFromSpot(ctx context.Context, logger *zap.Logger, session *metrics.Session, scraper *quotes.SpotScraper) (Result, bool) {
	if scraper == nil {
		return Result{}, false
	}

	price, err := scraper.Fetch(ctx)
	if err != nil {
		logger.Warn("spot source unavailable, falling back to default price",
			zap.String("op", "autofill.seedFromSpot"),
			zap.Error(err),
		)
		return Result{}, false
	}

	_ = session.Assign(metrics.EuaPrice, price)
	logger.Info("seeded EUA price from spot scrape",
		zap.String("op", "autofill.seedFromSpot"),
		zap.Float64("price", price),
	)
	return Result{Source: SourceSpotScrape, Price: price}, true
}
