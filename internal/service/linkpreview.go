package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxPreviewBytes = 1 << 20

// LinkPreviewService reads the page title of a task link.
type LinkPreviewService struct {
	httpClient *http.Client
}

func NewLinkPreviewService(client *http.Client) *LinkPreviewService {
	if client == nil {
		client = &http.Client{}
	}
	return &LinkPreviewService{httpClient: client}
}

func (s *LinkPreviewService) Title(ctx context.Context, link string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; taskfaucet/1.0)")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch page: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPreviewBytes))
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}

	// Open Graph title first, then <title>
	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if title := strings.TrimSpace(og); title != "" {
			return title, nil
		}
	}
	return strings.TrimSpace(doc.Find("title").First().Text()), nil
}
