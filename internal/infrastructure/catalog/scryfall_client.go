package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/RodolfoDevApp/cardshop-inventory-go/internal/domain"
)

const (
	// CollectionChunk is the most identifiers the collection endpoint takes per request.
	CollectionChunk = 75

	userAgent           = "cardshop-inventory/1.0"
	maxResponseBodySize = 16 << 20
)

type ScryfallClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewScryfallClient(baseURL string, timeout time.Duration, logger *zap.Logger) *ScryfallClient {
	return &ScryfallClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger: logger,
	}
}

type scryfallCard struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Set             string            `json:"set"`
	SetName         string            `json:"set_name"`
	CollectorNumber string            `json:"collector_number"`
	Lang            string            `json:"lang"`
	Rarity          string            `json:"rarity"`
	TypeLine        string            `json:"type_line"`
	Foil            bool              `json:"foil"`
	Nonfoil         bool              `json:"nonfoil"`
	Prices          domain.CardPrices `json:"prices"`
	ImageURIs       *imageURIs        `json:"image_uris"`
	CardFaces       []struct {
		ImageURIs *imageURIs `json:"image_uris"`
	} `json:"card_faces"`
}

type imageURIs struct {
	Normal string `json:"normal"`
}

func (c scryfallCard) record() domain.CardRecord {
	rec := domain.CardRecord{
		ID:              c.ID,
		Name:            c.Name,
		Set:             c.Set,
		SetName:         c.SetName,
		CollectorNumber: c.CollectorNumber,
		Lang:            c.Lang,
		Rarity:          c.Rarity,
		TypeLine:        c.TypeLine,
		Foil:            c.Foil,
		Nonfoil:         c.Nonfoil,
		Prices:          c.Prices,
	}
	switch {
	case c.ImageURIs != nil && c.ImageURIs.Normal != "":
		rec.ImageURL = c.ImageURIs.Normal
	case len(c.CardFaces) > 0 && c.CardFaces[0].ImageURIs != nil:
		rec.ImageURL = c.CardFaces[0].ImageURIs.Normal
	}
	return rec
}

type listResponse struct {
	Data     []scryfallCard    `json:"data"`
	NotFound []json.RawMessage `json:"not_found"`
}

// Search runs a full-text catalog search. No match is an empty result, not an error.
func (c *ScryfallClient) Search(ctx context.Context, query string) ([]domain.CardRecord, error) {
	endpoint := c.baseURL + "/cards/search?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, domain.Upstream("catalog search failed", err)
	}

	var list listResponse
	status, err := c.do(req, &list)
	if status == http.StatusNotFound {
		return []domain.CardRecord{}, nil
	}
	if err != nil {
		return nil, domain.Upstream("catalog search failed", err)
	}
	return records(list.Data), nil
}

// Collection resolves identifiers in chunks of CollectionChunk, keeping input order.
func (c *ScryfallClient) Collection(ctx context.Context, identifiers []domain.CardIdentifier) ([]domain.CardRecord, error) {
	out := make([]domain.CardRecord, 0, len(identifiers))
	for start := 0; start < len(identifiers); start += CollectionChunk {
		end := min(start+CollectionChunk, len(identifiers))

		body, err := json.Marshal(map[string]any{"identifiers": identifiers[start:end]})
		if err != nil {
			return nil, domain.Upstream("catalog collection failed", err)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/cards/collection", bytes.NewReader(body))
		if err != nil {
			return nil, domain.Upstream("catalog collection failed", err)
		}
		req.Header.Set("Content-Type", "application/json")

		var list listResponse
		if _, err := c.do(req, &list); err != nil {
			return nil, domain.Upstream("catalog collection failed", err)
		}
		if len(list.NotFound) > 0 {
			c.logger.Info("catalog collection had unresolved identifiers",
				zap.Int("notFound", len(list.NotFound)))
		}
		out = append(out, records(list.Data)...)
	}
	return out, nil
}

// do sends req and decodes a 2xx body into dst. It returns the status code
// whenever a response arrived.
func (c *ScryfallClient) do(req *http.Request, dst any) (int, error) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("catalog request",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(body, 256))
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, nil
}

func records(cards []scryfallCard) []domain.CardRecord {
	out := make([]domain.CardRecord, len(cards))
	for i, c := range cards {
		out[i] = c.record()
	}
	return out
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
