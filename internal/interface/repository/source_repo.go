package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"booking-sync-service/internal/domain/entity"
	"booking-sync-service/internal/domain/repository"
	"booking-sync-service/internal/infrastructure/config"
	"booking-sync-service/pkg/logger"
)

const defaultBookingsPath = "/wp-json/driver/v1/bookings"

// Auth strategies. The cascade order is fixed: bearer, then X-API-Key, then
// the api_key query parameter. Basic auth is only appended as a last resort
// when explicitly configured.
const (
	authBearer = "bearer"
	authHeader = "header"
	authQuery  = "query"
	authBasic  = "basic"
	authNone   = "none"
)

// HTTPBookingSource pulls raw booking records from the legacy CMS REST API.
type HTTPBookingSource struct {
	baseURL     string
	customPath  string
	apiKey      string
	authMethod  string
	client      *http.Client
	tokenSource oauth2.TokenSource
	logger      logger.Logger
}

// NewHTTPBookingSource creates a booking source client from configuration.
// When OAuth client credentials are configured, bearer tokens are minted and
// refreshed through them instead of the static key.
func NewHTTPBookingSource(cfg *config.Config, log logger.Logger) repository.BookingSource {
	source := &HTTPBookingSource{
		baseURL:    strings.TrimRight(cfg.SourceBaseURL, "/"),
		customPath: cfg.SourceCustomPath,
		apiKey:     cfg.SourceAPIKey,
		authMethod: cfg.SourceAuthMethod,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: log,
	}

	if cfg.SourceOAuthTokenURL != "" {
		oauthConfig := &clientcredentials.Config{
			ClientID:     cfg.SourceOAuthClientID,
			ClientSecret: cfg.SourceOAuthClientSecret,
			TokenURL:     cfg.SourceOAuthTokenURL,
		}
		source.tokenSource = oauthConfig.TokenSource(context.Background())
	}

	return source
}

// Fetch retrieves one page of raw bookings, walking the auth cascade until a
// strategy is accepted. A transport failure aborts the cascade immediately;
// a 401 or 403 moves on to the next strategy.
func (s *HTTPBookingSource) Fetch(ctx context.Context, filter entity.SourceFilter) (*entity.SourcePage, error) {
	if s.baseURL == "" {
		return nil, fmt.Errorf("%w: source base url not configured", entity.ErrSourceUnreachable)
	}

	endpoint := s.endpoint(filter)
	attempts := make([]entity.SourceAttempt, 0, 3)

	for _, strategy := range s.strategies() {
		started := time.Now()
		records, status, err := s.attempt(ctx, endpoint, strategy)
		attempt := entity.SourceAttempt{
			Strategy: strategy,
			Status:   status,
			Duration: time.Since(started).Milliseconds(),
		}
		if err != nil {
			attempt.Error = err.Error()
		}
		attempts = append(attempts, attempt)

		switch {
		case err == nil && status >= 200 && status < 300:
			s.logger.Info("Fetched bookings from source", "count", len(records), "strategy", strategy)
			return &entity.SourcePage{Records: records, Attempts: attempts}, nil
		case status == http.StatusUnauthorized || status == http.StatusForbidden:
			s.logger.Warn("Source rejected auth strategy, trying next", "strategy", strategy, "status", status)
			continue
		case status != 0:
			// The source answered but not with an auth problem; retrying
			// with different credentials cannot help.
			return &entity.SourcePage{Attempts: attempts},
				fmt.Errorf("%w: source returned status %d", entity.ErrSourceUnreachable, status)
		default:
			s.logger.Error("Source request failed", "strategy", strategy, "error", err)
			return &entity.SourcePage{Attempts: attempts},
				fmt.Errorf("%w: %v", entity.ErrSourceUnreachable, err)
		}
	}

	return &entity.SourcePage{Attempts: attempts},
		fmt.Errorf("%w: all auth strategies rejected", entity.ErrSourceUnreachable)
}

func (s *HTTPBookingSource) endpoint(filter entity.SourceFilter) string {
	path := s.customPath
	if path == "" {
		path = defaultBookingsPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	query := url.Values{}
	if filter.Status != "" && filter.Status != "all" {
		query.Set("status", filter.Status)
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}
	if filter.Page > 0 {
		query.Set("page", strconv.Itoa(filter.Page))
	}

	endpoint := s.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}
	return endpoint
}

func (s *HTTPBookingSource) strategies() []string {
	if s.apiKey == "" && s.tokenSource == nil {
		return []string{authNone}
	}

	cascade := []string{authBearer, authHeader, authQuery}
	if s.authMethod == authBasic {
		cascade = append(cascade, authBasic)
	}
	return cascade
}

func (s *HTTPBookingSource) attempt(ctx context.Context, endpoint, strategy string) ([]entity.RawBooking, int, error) {
	requestURL := endpoint
	if strategy == authQuery {
		separator := "?"
		if strings.Contains(endpoint, "?") {
			separator = "&"
		}
		requestURL = endpoint + separator + "api_key=" + url.QueryEscape(s.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	switch strategy {
	case authBearer:
		token := s.apiKey
		if s.tokenSource != nil {
			minted, err := s.tokenSource.Token()
			if err != nil {
				return nil, 0, fmt.Errorf("minting bearer token: %w", err)
			}
			token = minted.AccessToken
		}
		req.Header.Set("Authorization", "Bearer "+token)
	case authHeader:
		req.Header.Set("X-API-Key", s.apiKey)
	case authBasic:
		req.SetBasicAuth("api", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	records, err := decodeBookings(body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return records, resp.StatusCode, nil
}

// decodeBookings accepts the three envelope shapes the source has shipped
// over the years: {"data": [...]}, a bare array, and {"bookings": [...]}.
func decodeBookings(body []byte) ([]entity.RawBooking, error) {
	var dataEnvelope struct {
		Data []entity.RawBooking `json:"data"`
	}
	if err := json.Unmarshal(body, &dataEnvelope); err == nil && dataEnvelope.Data != nil {
		return dataEnvelope.Data, nil
	}

	var bare []entity.RawBooking
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare, nil
	}

	var bookingsEnvelope struct {
		Bookings []entity.RawBooking `json:"bookings"`
	}
	if err := json.Unmarshal(body, &bookingsEnvelope); err == nil && bookingsEnvelope.Bookings != nil {
		return bookingsEnvelope.Bookings, nil
	}

	return nil, fmt.Errorf("unrecognized response shape")
}
