package collect

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "codeberg.org/readeck/go-readability/v2"
)

const (
	defaultFetchTimeout = 12 * time.Second
	maxBodyBytes        = 2 * 1024 * 1024
	fetchUserAgent      = "newsbrief/1.0"

	// Feed descriptions rarely exceed a paragraph; keep fetched fallbacks
	// in the same ballpark so clustering input stays balanced.
	maxDescriptionRunes = 600
)

// fetchDescription retrieves the article page and extracts readable text
// to stand in for a missing feed description. Failures are logged at debug
// level and produce an empty string, an item without a description is
// still valid.
func (c *Collector) fetchDescription(ctx context.Context, pageURL string) string {
	timeout := c.options.FetchTimeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}

	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, pageURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", fetchUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("url", pageURL).Msg("full-text fetch failed")
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Debug().Int("status", resp.StatusCode).Str("url", pageURL).Msg("full-text fetch rejected")
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return ""
	}

	parsed, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}

	article, err := readability.FromReader(bytes.NewReader(body), parsed)
	if err != nil {
		c.logger.Debug().Err(err).Str("url", pageURL).Msg("readability parse failed")
		return ""
	}

	var rendered bytes.Buffer
	if err := article.RenderText(&rendered); err != nil {
		return ""
	}

	text := collapseWhitespace(rendered.String())
	if text == "" {
		text = collapseWhitespace(article.Excerpt())
	}
	if text == "" {
		return ""
	}

	runes := []rune(text)
	if len(runes) > maxDescriptionRunes {
		clipped := string(runes[:maxDescriptionRunes])
		if idx := strings.LastIndex(clipped, ". "); idx > maxDescriptionRunes/2 {
			clipped = clipped[:idx+1]
		}
		text = strings.TrimSpace(clipped)
	}
	return text
}

func collapseWhitespace(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}
