package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/place"

// Google issues a follow-up page token before it becomes valid; the
// documented wait is ~2 seconds.
const pageTokenDelay = 2 * time.Second

const detailFields = "place_id,name,formatted_address,formatted_phone_number,rating,user_ratings_total,type"

type GoogleClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	pageDelay  time.Duration
}

func NewGoogleClient() *GoogleClient {
	return &GoogleClient{
		apiKey:     os.Getenv("GOOGLE_API_KEY"),
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		pageDelay:  pageTokenDelay,
	}
}

// --------------------------------------------------
// Single resolve: find place -> details
// --------------------------------------------------
func (g *GoogleClient) Resolve(ctx context.Context, name, city string) (*Details, error) {
	if g.apiKey == "" {
		return nil, errors.New("missing GOOGLE_API_KEY")
	}

	query := fmt.Sprintf("%s, %s", name, city)

	params := url.Values{}
	params.Set("input", query)
	params.Set("inputtype", "textquery")
	params.Set("fields", "place_id")
	params.Set("key", g.apiKey)

	var findResp struct {
		Status     string `json:"status"`
		Candidates []struct {
			PlaceID string `json:"place_id"`
		} `json:"candidates"`
	}
	if err := g.get(ctx, "/findplacefromtext/json", params, &findResp); err != nil {
		return nil, err
	}
	if findResp.Status != "OK" && findResp.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("places find error: %s", findResp.Status)
	}
	if len(findResp.Candidates) == 0 {
		return nil, nil
	}

	return g.details(ctx, findResp.Candidates[0].PlaceID, city)
}

// --------------------------------------------------
// City-wide search with page-token pagination
// --------------------------------------------------
func (g *GoogleClient) SearchByCity(ctx context.Context, city string) ([]*Details, error) {
	if g.apiKey == "" {
		return nil, errors.New("missing GOOGLE_API_KEY")
	}

	var all []*Details
	pageToken := ""

	for {
		params := url.Values{}
		params.Set("query", fmt.Sprintf("restaurants in %s", city))
		params.Set("key", g.apiKey)
		if pageToken != "" {
			params.Set("pagetoken", pageToken)
		}

		var searchResp struct {
			Status        string `json:"status"`
			NextPageToken string `json:"next_page_token"`
			Results       []struct {
				PlaceID string `json:"place_id"`
			} `json:"results"`
		}
		if err := g.get(ctx, "/textsearch/json", params, &searchResp); err != nil {
			return nil, err
		}
		if searchResp.Status != "OK" && searchResp.Status != "ZERO_RESULTS" {
			return nil, fmt.Errorf("places search error: %s", searchResp.Status)
		}

		for _, r := range searchResp.Results {
			d, err := g.details(ctx, r.PlaceID, city)
			if err != nil {
				return nil, err
			}
			if d != nil {
				all = append(all, d)
			}
		}

		if searchResp.NextPageToken == "" {
			return all, nil
		}
		pageToken = searchResp.NextPageToken

		// The next page token is not valid immediately.
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(g.pageDelay):
		}
	}
}

// --------------------------------------------------
// Keyword suggestions (first page only, no details)
// --------------------------------------------------
func (g *GoogleClient) SearchByKeyword(ctx context.Context, city, keyword string, limit int) ([]*Details, error) {
	if g.apiKey == "" {
		return nil, errors.New("missing GOOGLE_API_KEY")
	}

	params := url.Values{}
	params.Set("query", fmt.Sprintf("%s restaurants in %s", keyword, city))
	params.Set("key", g.apiKey)

	var searchResp struct {
		Status  string `json:"status"`
		Results []struct {
			PlaceID          string   `json:"place_id"`
			Name             string   `json:"name"`
			FormattedAddress string   `json:"formatted_address"`
			Rating           *float64 `json:"rating"`
			Types            []string `json:"types"`
		} `json:"results"`
	}
	if err := g.get(ctx, "/textsearch/json", params, &searchResp); err != nil {
		return nil, err
	}
	if searchResp.Status != "OK" && searchResp.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("places search error: %s", searchResp.Status)
	}

	var out []*Details
	for _, r := range searchResp.Results {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, &Details{
			PlaceID: r.PlaceID,
			Name:    r.Name,
			Address: r.FormattedAddress,
			City:    city,
			Cuisine: r.Types,
			Rating:  r.Rating,
		})
	}
	return out, nil
}

// --------------------------------------------------
// Details lookup
// --------------------------------------------------
func (g *GoogleClient) details(ctx context.Context, placeID, city string) (*Details, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", detailFields)
	params.Set("key", g.apiKey)

	var detailResp struct {
		Status string `json:"status"`
		Result *struct {
			PlaceID              string   `json:"place_id"`
			Name                 string   `json:"name"`
			FormattedAddress     string   `json:"formatted_address"`
			FormattedPhoneNumber *string  `json:"formatted_phone_number"`
			Rating               *float64 `json:"rating"`
			UserRatingsTotal     *int     `json:"user_ratings_total"`
			Types                []string `json:"types"`
		} `json:"result"`
	}
	if err := g.get(ctx, "/details/json", params, &detailResp); err != nil {
		return nil, err
	}
	if detailResp.Status != "OK" {
		return nil, fmt.Errorf("places details error: %s", detailResp.Status)
	}
	if detailResp.Result == nil {
		return nil, nil
	}

	r := detailResp.Result
	return &Details{
		PlaceID:          r.PlaceID,
		Name:             r.Name,
		Address:          r.FormattedAddress,
		City:             city,
		Cuisine:          r.Types,
		Rating:           r.Rating,
		UserRatingsTotal: r.UserRatingsTotal,
		PhoneNumber:      r.FormattedPhoneNumber,
	}, nil
}

func (g *GoogleClient) get(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		g.baseURL+path+"?"+params.Encode(),
		nil,
	)
	if err != nil {
		return err
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("places api status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
