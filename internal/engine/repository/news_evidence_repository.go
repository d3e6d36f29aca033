package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang-stock-insight/internal/engine/config"
	"golang-stock-insight/internal/engine/dto"
	"golang-stock-insight/pkg/logger"
	"golang-stock-insight/pkg/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/mauidude/go-readability"
	"github.com/mmcdole/gofeed"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const defaultNewsBaseURL = "https://news.google.com"

// newsEvidenceRepository fetches candidate headlines from a Google News RSS
// feed. Per-item failures are dropped so a single bad article can never fail
// the whole fetch.
type newsEvidenceRepository struct {
	cfg       *config.Config
	logger    *logger.Logger
	client    *http.Client
	limiter   *rate.Limiter
	feedCache *cache.Cache
}

// NewNewsEvidenceRepository creates a new RSS-backed evidence repository.
func NewNewsEvidenceRepository(cfg *config.Config, log *logger.Logger) EvidenceRepository {
	perMinute := cfg.News.MaxRequestPerMinute
	if perMinute <= 0 {
		perMinute = 30
	}
	return &newsEvidenceRepository{
		cfg:       cfg,
		logger:    log,
		client:    &http.Client{},
		limiter:   rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
		feedCache: cache.New(time.Minute, 5*time.Minute),
	}
}

// Fetch retrieves, filters by age, and orders the candidate headlines for a
// ticker. The context deadline bounds the whole call.
func (r *newsEvidenceRepository) Fetch(ctx context.Context, ticker string, window time.Duration) ([]dto.EvidenceItem, error) {
	if cached, ok := r.feedCache.Get(feedCacheKey(ticker, window)); ok {
		return cached.([]dto.EvidenceItem), nil
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait interrupted: %w", err)
	}

	baseURL := r.cfg.News.BaseURL
	if baseURL == "" {
		baseURL = defaultNewsBaseURL
	}
	feedURL := fmt.Sprintf("%s/rss/search?q=%s+stock&hl=en-US&gl=US&ceid=US:en", baseURL, url.QueryEscape(ticker))

	fp := gofeed.NewParser()
	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("evidence fetch aborted: %w", ctx.Err())
		}
		// A broken source yields an empty set, not an error.
		r.logger.Error("Failed to parse news feed", logger.ErrorField(err), logger.StringField("ticker", ticker))
		return []dto.EvidenceItem{}, nil
	}

	sort.Slice(feed.Items, func(i, j int) bool {
		if feed.Items[i].PublishedParsed == nil || feed.Items[j].PublishedParsed == nil {
			return false
		}
		return feed.Items[i].PublishedParsed.After(*feed.Items[j].PublishedParsed)
	})

	maxItems := r.cfg.News.MaxItems
	if maxItems <= 0 {
		maxItems = 20
	}
	cutoff := time.Now().Add(-window)

	items := make([]dto.EvidenceItem, 0, maxItems)
	for _, item := range feed.Items {
		if !utils.ShouldContinue(ctx, r.logger) {
			break
		}
		if len(items) >= maxItems {
			break
		}
		if item.PublishedParsed != nil && window > 0 && item.PublishedParsed.Before(cutoff) {
			continue
		}

		headline, publisher := splitHeadlinePublisher(item.Title)
		if publisher == "" {
			publisher = hostnameOf(item.Link)
		}
		if r.cfg.News.ResolveArticles {
			if resolved := r.resolvePublisher(ctx, item.Link); resolved != "" {
				publisher = resolved
			}
		}

		items = append(items, dto.EvidenceItem{
			Headline:    utils.SafeText(utils.CleanToValidUTF8(headline)),
			URL:         item.Link,
			Publisher:   publisher,
			PublishedAt: item.PublishedParsed,
		})
	}

	r.feedCache.SetDefault(feedCacheKey(ticker, window), items)
	return items, nil
}

// resolvePublisher fetches the article page and reads og:site_name. Any
// failure falls back to the feed-derived publisher.
func (r *newsEvidenceRepository) resolvePublisher(ctx context.Context, link string) string {
	if cached, ok := r.feedCache.Get("publisher:" + link); ok {
		return cached.(string)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", link, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := r.client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	publisher, _ := doc.Find(`meta[property="og:site_name"]`).Attr("content")
	publisher = strings.TrimSpace(publisher)
	if publisher == "" {
		// Fall back to the "Headline - Publisher" convention in the page
		// title, after readability has stripped the boilerplate.
		if rd, err := readability.NewDocument(string(body)); err == nil {
			if titleDoc, err := goquery.NewDocumentFromReader(strings.NewReader(rd.Content())); err == nil {
				_, publisher = splitHeadlinePublisher(strings.TrimSpace(titleDoc.Find("h1").First().Text()))
			}
		}
		if publisher == "" {
			publisher = strings.TrimSpace(doc.Find("title").Text())
			_, publisher = splitHeadlinePublisher(publisher)
		}
	}

	r.feedCache.SetDefault("publisher:"+link, publisher)
	return publisher
}

// splitHeadlinePublisher splits the Google News "Headline - Publisher"
// title format.
func splitHeadlinePublisher(title string) (headline, publisher string) {
	idx := strings.LastIndex(title, " - ")
	if idx <= 0 {
		return strings.TrimSpace(title), ""
	}
	return strings.TrimSpace(title[:idx]), strings.TrimSpace(title[idx+3:])
}

func hostnameOf(link string) string {
	parsed, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}

func feedCacheKey(ticker string, window time.Duration) string {
	return fmt.Sprintf("feed:%s:%d", strings.ToUpper(ticker), int64(window.Seconds()))
}
