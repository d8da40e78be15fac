// Package milo reads the Milo partner API behind a circuit breaker.
package milo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	"github.com/lllypuk/passemploi/internal/domain/errs"
	milodomain "github.com/lllypuk/passemploi/internal/domain/milo"
)

const (
	// PageSize is the largest page the partner serves.
	PageSize = 150

	dateHeureLayout    = "2006-01-02 15:04:05"
	defaultHTTPTimeout = 10 * time.Second
	maxErrorBodySize   = 4096
	operateur          = "APPLICATION_CEJ"
)

// Config contains configuration for Client.
type Config struct {
	// BaseURL is the partner API root, without the /operateurs suffix.
	BaseURL string

	// APIKey is sent as X-Gravitee-Api-Key.
	APIKey string

	// Timeout bounds a single HTTP request.
	Timeout time.Duration

	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold uint32

	// MaxRequests is the number of requests allowed in half-open state.
	MaxRequests uint32

	// Interval clears the failure counts while closed. Zero never clears them.
	Interval time.Duration

	// OpenTimeout is how long the breaker stays open before trying again.
	OpenTimeout time.Duration

	// Location is the zone of the partner's naive timestamps. Defaults to Europe/Paris.
	Location *time.Location

	// HTTPClient is an optional custom HTTP client.
	HTTPClient *http.Client

	Logger *slog.Logger
}

// partnerError is a non-2xx answer, or an open breaker reported as 503.
type partnerError struct {
	statusCode int
	body       string
}

func (e *partnerError) Error() string {
	return fmt.Sprintf("milo: status %d: %s", e.statusCode, e.body)
}

// Client reads the partner API over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]sessionDTO]
	location   *time.Location
	logger     *slog.Logger
}

type listeSessionsDTO struct {
	Page     int          `json:"page"`
	Sessions []sessionDTO `json:"sessions"`
}

type sessionDTO struct {
	Session struct {
		ID                  int    `json:"id"`
		Nom                 string `json:"nom"`
		DateHeureDebut      string `json:"dateHeureDebut"`
		DateHeureFin        string `json:"dateHeureFin"`
		NbPlacesDisponibles *int   `json:"nbPlacesDisponibles"`
	} `json:"session"`
	Offre struct {
		ID   int    `json:"id"`
		Nom  string `json:"nom"`
		Type struct {
			Code string `json:"code"`
		} `json:"type"`
	} `json:"offre"`
}

// NewClient creates a partner client. Zero breaker settings fall back to 5 failures,
// 1 half-open request and 30 seconds open.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultHTTPTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	location := cfg.Location
	if location == nil {
		loc, err := time.LoadLocation("Europe/Paris")
		if err != nil {
			loc = time.UTC
		}
		location = loc
	}

	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	maxRequests := cfg.MaxRequests
	if maxRequests == 0 {
		maxRequests = 1
	}
	openTimeout := cfg.OpenTimeout
	if openTimeout <= 0 {
		openTimeout = 30 * time.Second
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		location:   location,
		logger:     logger,
	}

	c.breaker = gobreaker.NewCircuitBreaker[[]sessionDTO](gobreaker.Settings{
		Name:        "milo",
		MaxRequests: maxRequests,
		Interval:    cfg.Interval,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// A client error is the caller's fault, the partner is healthy.
		IsSuccessful: func(err error) bool {
			var erreur *partnerError
			if errors.As(err, &erreur) {
				return erreur.statusCode < http.StatusInternalServerError
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	return c
}

// State returns the breaker state, for health reporting.
func (c *Client) State() gobreaker.State {
	return c.breaker.State()
}

// GetSessionsStructure returns up to two pages of sessions of a structure.
// Partner errors and an open breaker (503) are ERREUR_HTTP failures; the error
// return carries transport and decoding failures only.
func (c *Client) GetSessionsStructure(
	ctx context.Context,
	idStructureMilo string,
) (appcore.Result[[]milodomain.Session], error) {
	path := "structures/" + url.PathEscape(idStructureMilo) + "/sessions"

	params := url.Values{}
	params.Set("taillePage", strconv.Itoa(PageSize))
	params.Set("rechercheInscrits", "true")

	dtos, err := c.get(ctx, path, params)
	var erreur *partnerError
	if errors.As(err, &erreur) {
		return appcore.Failure[[]milodomain.Session](errs.Upstream(erreur.body, erreur.statusCode)), nil
	}
	if err != nil {
		return appcore.Result[[]milodomain.Session]{}, err
	}

	if len(dtos) >= PageSize {
		params.Set("page", "2")
		page2, page2Err := c.get(ctx, path, params)
		if page2Err != nil {
			c.logger.WarnContext(ctx, "failed to get second page of milo sessions",
				slog.String("id_structure_milo", idStructureMilo),
				slog.String("error", page2Err.Error()),
			)
		} else {
			dtos = append(dtos, page2...)
		}
	}

	sessions := make([]milodomain.Session, 0, len(dtos))
	for _, dto := range dtos {
		session, mapErr := c.toSession(dto)
		if mapErr != nil {
			c.logger.WarnContext(ctx, "skipping malformed milo session",
				slog.Int("id_session", dto.Session.ID),
				slog.String("error", mapErr.Error()),
			)
			continue
		}
		sessions = append(sessions, session)
	}
	return appcore.Success(sessions), nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]sessionDTO, error) {
	dtos, err := c.breaker.Execute(func() ([]sessionDTO, error) {
		return c.doGet(ctx, path, params)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, &partnerError{
			statusCode: http.StatusServiceUnavailable,
			body:       "Service Milo indisponible",
		}
	}
	return dtos, err
}

func (c *Client) doGet(ctx context.Context, path string, params url.Values) ([]sessionDTO, error) {
	reqURL := c.baseURL + "/operateurs/" + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Gravitee-Api-Key", c.apiKey)
	req.Header.Set("operateur", operateur)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("milo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		c.logger.ErrorContext(ctx, "milo request failed",
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
		)
		return nil, &partnerError{statusCode: resp.StatusCode, body: string(body)}
	}

	var liste *listeSessionsDTO
	if decodeErr := json.NewDecoder(resp.Body).Decode(&liste); decodeErr != nil && !errors.Is(decodeErr, io.EOF) {
		return nil, fmt.Errorf("failed to decode milo response: %w", decodeErr)
	}
	if liste == nil {
		return nil, &partnerError{statusCode: http.StatusNotFound, body: "Ressource Milo introuvable"}
	}
	return liste.Sessions, nil
}

// toSession converts the partner's local timestamps to UTC. Visibility is not
// published by the partner and is left false.
func (c *Client) toSession(dto sessionDTO) (milodomain.Session, error) {
	debut, err := time.ParseInLocation(dateHeureLayout, dto.Session.DateHeureDebut, c.location)
	if err != nil {
		return milodomain.Session{}, fmt.Errorf("dateHeureDebut: %w", err)
	}
	fin, err := time.ParseInLocation(dateHeureLayout, dto.Session.DateHeureFin, c.location)
	if err != nil {
		return milodomain.Session{}, fmt.Errorf("dateHeureFin: %w", err)
	}

	return milodomain.Session{
		ID:                strconv.Itoa(dto.Session.ID),
		Nom:               dto.Session.Nom,
		NomOffre:          dto.Offre.Nom,
		Type:              dto.Offre.Type.Code,
		DateHeureDebut:    debut.UTC(),
		DateHeureFin:      fin.UTC(),
		NbPlacesRestantes: dto.Session.NbPlacesDisponibles,
	}, nil
}
