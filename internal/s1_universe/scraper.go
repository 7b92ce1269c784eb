package s1_universe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/pulse/backend/internal/contracts"
	"github.com/wonny/pulse/backend/pkg/httputil"
	"github.com/wonny/pulse/backend/pkg/logger"
)

// 티커 형태가 아닌 셀(회사명, 섹터 등) 걸러내기
var tickerRe = regexp.MustCompile(`^[A-Z][A-Z0-9&\-]*(\.NS|\.BO)?$`)

// Scraper pulls universe constituents from configured index reference
// pages. Used by the weekly refresh job, never on the request path.
// ⭐ SSOT: 구성종목 스크래핑은 이 구조체에서만
type Scraper struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	pages      map[string]string // universe name -> page URL
}

// NewScraper creates a constituents scraper over the universe -> URL map.
func NewScraper(httpClient *httputil.Client, log *logger.Logger, pages map[string]string) *Scraper {
	return &Scraper{
		httpClient: httpClient,
		logger:     log,
		pages:      pages,
	}
}

// Universes returns the names that have a configured constituents page.
func (s *Scraper) Universes() []string {
	names := make([]string, 0, len(s.pages))
	for name := range s.pages {
		names = append(names, name)
	}
	return names
}

// FetchConstituents downloads the universe's reference page and extracts
// the symbol column of its constituents table, normalized and deduplicated.
func (s *Scraper) FetchConstituents(ctx context.Context, universe string) ([]string, error) {
	url, ok := s.pages[universe]
	if !ok {
		return nil, fmt.Errorf("universe %s: %w", universe, contracts.ErrRefreshNotConfigured)
	}

	resp, err := s.httpClient.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	symbols, err := parseConstituents(string(body))
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"universe": universe,
		"url":      url,
		"symbols":  len(symbols),
	}).Info("Fetched constituents")

	return symbols, nil
}

// parseConstituents extracts tickers from the first table carrying a
// "Symbol" header column.
func parseConstituents(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse constituents page: %w", err)
	}

	var raw []string

	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		// 헤더 행에서 Symbol 컬럼 위치 찾기
		symbolCol := -1
		table.Find("tr").First().Find("th").Each(func(i int, th *goquery.Selection) {
			if strings.EqualFold(strings.TrimSpace(th.Text()), "Symbol") {
				symbolCol = i
			}
		})
		if symbolCol < 0 {
			return true
		}

		table.Find("tr").Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() <= symbolCol {
				return
			}

			text := strings.TrimSpace(cells.Eq(symbolCol).Text())
			text = strings.TrimSpace(strings.TrimPrefix(text, "NSE:"))
			if !tickerRe.MatchString(text) {
				return
			}
			raw = append(raw, text)
		})

		// Stop at the first table that yielded symbols
		return len(raw) == 0
	})

	symbols := NormalizeAll(raw)
	if len(symbols) == 0 {
		return nil, fmt.Errorf("no constituents table found")
	}

	return symbols, nil
}
