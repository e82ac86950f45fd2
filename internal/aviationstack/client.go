// Package aviationstack pages through the Aviationstack airlines endpoint and
// exports the result as the callsign reference CSV.
package aviationstack

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"msfs_hangar/internal/models"
)

// PageSize is the number of airlines requested per call
const PageSize = 100

// Client calls the Aviationstack REST API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a client. httpClient may be nil.
func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

type airlinesPage struct {
	Data []struct {
		AirlineName string `json:"airline_name"`
		Callsign    string `json:"callsign"`
		ICAOCode    string `json:"icao_code"`
		IATACode    string `json:"iata_code"`
	} `json:"data"`
}

// StatusError is returned when the API answers with a non-200 status
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("aviationstack returned %d: %s", e.StatusCode, e.Body)
}

// FetchAirlines pages through /airlines until an empty page. Airlines without
// a callsign or a name are dropped. On a failed page the airlines fetched so
// far are returned together with the error.
func (c *Client) FetchAirlines(ctx context.Context) ([]models.Airline, error) {
	var airlines []models.Airline

	for offset := 0; ; offset += PageSize {
		slog.Info("Fetching airlines", "offset", offset, "limit", PageSize)

		page, err := c.fetchPage(ctx, offset)
		if err != nil {
			return airlines, err
		}
		if len(page.Data) == 0 {
			break
		}

		for _, a := range page.Data {
			airline := models.Airline{
				Callsign: strings.ToUpper(strings.TrimSpace(a.Callsign)),
				Name:     strings.TrimSpace(a.AirlineName),
				ICAO:     strings.ToUpper(strings.TrimSpace(a.ICAOCode)),
				IATA:     strings.ToUpper(strings.TrimSpace(a.IATACode)),
			}
			if airline.Callsign == "" || airline.Name == "" {
				continue
			}
			airlines = append(airlines, airline)
		}
	}

	return airlines, nil
}

func (c *Client) fetchPage(ctx context.Context, offset int) (*airlinesPage, error) {
	q := url.Values{}
	q.Set("access_key", c.apiKey)
	q.Set("limit", strconv.Itoa(PageSize))
	q.Set("offset", strconv.Itoa(offset))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/airlines?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch airlines: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var page airlinesPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode airlines page: %w", err)
	}
	return &page, nil
}
