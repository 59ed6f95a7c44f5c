package quotes

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fueltrust/ship-estimator/internal/config"
	"go.uber.org/zap"
)

// ScrapeError wraps any failure of the secondary spot-price scrape: network,
// missing row, or number format. Callers recover by falling to the default
// price tier.
type ScrapeError struct {
	Reason string
	Err    error
}

func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("spot scrape failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("spot scrape failed: %s", e.Reason)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// SpotScraper extracts a spot price from a public HTML page: the table cell
// exactly matching the configured row label, adjoining cell parsed as a
// decimal with comma-as-decimal-separator normalization.
type SpotScraper struct {
	httpClient *http.Client
	url        string
	rowLabel   string
	logger     *zap.Logger
}

// NewSpotScraper builds a scraper from the spot source configuration. If
// logger is nil, a no-op logger is used.
func NewSpotScraper(source config.SpotSource, logger *zap.Logger) *SpotScraper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SpotScraper{
		httpClient: &http.Client{Timeout: time.Duration(source.TimeoutSeconds) * time.Second},
		url:        source.URL,
		rowLabel:   source.RowLabel,
		logger:     logger,
	}
}

// Fetch retrieves and parses the spot price. Every failure is returned as a
// *ScrapeError.
func (s *SpotScraper) Fetch(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return 0, &ScrapeError{Reason: "building request", Err: err}
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, &ScrapeError{Reason: "request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, &ScrapeError{Reason: fmt.Sprintf("status %d", resp.StatusCode)}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return 0, &ScrapeError{Reason: "parsing page", Err: err}
	}

	var price float64
	var parseErr error
	found := false
	doc.Find("td").EachWithBreak(func(_ int, cell *goquery.Selection) bool {
		if strings.TrimSpace(cell.Text()) != s.rowLabel {
			return true
		}
		found = true
		raw := strings.TrimSpace(cell.Next().Text())
		price, parseErr = strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
		return false
	})

	if !found {
		return 0, &ScrapeError{Reason: fmt.Sprintf("row label %q not found", s.rowLabel)}
	}
	if parseErr != nil {
		return 0, &ScrapeError{Reason: "parsing price cell", Err: parseErr}
	}

	s.logger.Debug("scraped spot price",
		zap.String("op", "quotes.SpotScraper.Fetch"),
		zap.Float64("price", price),
	)
	return price, nil
}
