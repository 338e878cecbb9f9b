package search

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const maxArticleLength = 8000

// ArticleExtractor fetches a result page and pulls its readable text, used
// to enrich search snippets before the research synthesis step.
type ArticleExtractor struct {
	httpClient HTTPClient
}

// NewArticleExtractor creates an extractor. A nil httpClient gets a default
// with a short timeout since pages are fetched best-effort.
func NewArticleExtractor(httpClient HTTPClient) *ArticleExtractor {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &ArticleExtractor{httpClient: httpClient}
}

// Fetch downloads and extracts text from the given URL.
func (e *ArticleExtractor) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch article: status code %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	content := extractContent(doc)

	// limit article length for API calls
	if len(content) > maxArticleLength {
		content = content[:maxArticleLength] + "..."
	}

	return content, nil
}

// extractContent pulls the main text content from the HTML document.
func extractContent(doc *goquery.Document) string {
	var articleText strings.Builder

	// first try to find article content in common containers
	article := doc.Find("article, .article, .post, .content, main")
	if article.Length() > 0 {
		article.Find("p").Each(func(_ int, s *goquery.Selection) {
			articleText.WriteString(s.Text())
			articleText.WriteString("\n\n")
		})
	} else {
		// fallback to all paragraphs
		doc.Find("p").Each(func(_ int, s *goquery.Selection) {
			// skip very short paragraphs which are likely not article content
			if len(s.Text()) > 50 {
				articleText.WriteString(s.Text())
				articleText.WriteString("\n\n")
			}
		})
	}

	return strings.TrimSpace(articleText.String())
}
