// Package catalog reads vehicle records from the remote catalog API.
package catalog

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/utafrali/RentalGo/internal/domain"
	apperrors "github.com/utafrali/RentalGo/pkg/errors"
	"github.com/utafrali/RentalGo/pkg/httpclient"
)

const (
	serviceName = "catalog"
	tracerName  = "github.com/utafrali/RentalGo/internal/catalog"
)

// Fetch outcomes recorded by catalog_fetch_total.
const (
	outcomeOK       = "ok"
	outcomeNetwork  = "network_failure"
	outcomeParse    = "parse_failure"
	outcomeNotFound = "not_found"
)

var fetchTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "catalog_fetch_total",
		Help: "Catalog API fetches by endpoint and outcome",
	},
	[]string{"endpoint", "outcome"},
)

// CircuitOpenFallback reports an open breaker as a network failure so callers
// see the same error class as for an unreachable API.
func CircuitOpenFallback(_ context.Context, err error) (*http.Response, error) {
	return nil, apperrors.NetworkFailure(serviceName, err)
}

// Client fetches the vehicle list and single vehicles. Each call makes exactly
// one attempt.
type Client struct {
	http    httpclient.Doer
	baseURL string
	logger  *slog.Logger
}

// NewClient creates a catalog client for baseURL, e.g.
// https://myfakeapi.com/api/cars.
func NewClient(doer httpclient.Doer, baseURL string, logger *slog.Logger) *Client {
	return &Client{
		http:    doer,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// ListVehicles fetches GET {base}/ and returns the records of its "cars" key.
func (c *Client) ListVehicles(ctx context.Context) (_ []domain.RawCatalogRecord, err error) {
	ctx, end := c.startSpan(ctx, "list", c.baseURL+"/")
	defer func() { end(err) }()

	var body domain.CatalogList
	if err := c.getJSON(ctx, c.baseURL+"/", &body); err != nil {
		return nil, err
	}
	if body.Cars == nil {
		return nil, apperrors.ParseFailure(serviceName, errors.New(`response has no "cars" list`))
	}
	return body.Cars, nil
}

// GetVehicle fetches GET {base}/{id} and returns its "Car" record. A 404 or a
// body without a car yields NotFound.
func (c *Client) GetVehicle(ctx context.Context, id int) (_ domain.RawCatalogRecord, err error) {
	url := c.baseURL + "/" + strconv.Itoa(id)
	ctx, end := c.startSpan(ctx, "get", url)
	defer func() { end(err) }()

	var body domain.CatalogItem
	if err := c.getJSON(ctx, url, &body); err != nil {
		return domain.RawCatalogRecord{}, err
	}
	if body.Car == nil {
		return domain.RawCatalogRecord{}, apperrors.NotFound("vehicle", strconv.Itoa(id))
	}
	return *body.Car, nil
}

func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	resp, err := c.http.Get(ctx, url)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return apperrors.NetworkFailure(serviceName, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		_ = resp.Body.Close()
		return apperrors.NotFound("vehicle", url)
	}
	return httpclient.DecodeJSON(resp, v, serviceName)
}

// startSpan opens a client span for one fetch. The returned function records
// the outcome on the span, the fetch counter and, for failures, the log.
func (c *Client) startSpan(ctx context.Context, endpoint, url string) (context.Context, func(error)) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "catalog."+endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", http.MethodGet),
			attribute.String("http.url", url),
		),
	)

	return ctx, func(err error) {
		outcome := classify(err)
		fetchTotal.WithLabelValues(endpoint, outcome).Inc()

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
			c.logger.WarnContext(ctx, "catalog fetch failed",
				slog.String("endpoint", endpoint),
				slog.String("url", url),
				slog.String("outcome", outcome),
				slog.String("error", err.Error()),
			)
		}
		span.End()
	}
}

func classify(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, apperrors.ErrNotFound):
		return outcomeNotFound
	case errors.Is(err, apperrors.ErrParse):
		return outcomeParse
	default:
		return outcomeNetwork
	}
}
