package exely

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"concierge/models"
	"concierge/utils"

	"go.uber.org/zap"
)

const (
	hotelInfoEndpoint    = "/ChannelDistributionApi/BookingForm/hotel_info"
	availabilityEndpoint = "/ChannelDistributionApi/BookingForm/hotel_availability"
	reservationEndpoint  = "/ChannelDistributionApi/BookingForm/hotel_reservation_2"
	cancellationEndpoint = "/ChannelDistributionApi/BookingForm/cancel_reservation_2"
)

// Client talks to the Exely Channel Distribution API. All methods take a
// context and return *APIError on any failure mode.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

// NewClient builds a provider client. The timeout bounds every request.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// queryPair is one flattened query parameter. The availability endpoint
// expects indexed keys like "criterions[0].hotels[0].code".
type queryPair struct {
	key   string
	value string
}

func flattenAvailabilityParams(req models.AvailabilityRequest) []queryPair {
	pairs := []queryPair{
		{"language", req.Language},
		{"currency", req.Currency},
		{"include_rates", strconv.FormatBool(req.IncludeRates)},
		{"include_transfers", strconv.FormatBool(req.IncludeTransfers)},
		{"include_all_placements", strconv.FormatBool(req.IncludeAllPlacements)},
		{"include_promo_restricted", strconv.FormatBool(req.IncludePromoRestricted)},
	}
	for i, crit := range req.Criterions {
		ref := crit.Ref
		if ref == "" {
			ref = "0"
		}
		pairs = append(pairs, queryPair{fmt.Sprintf("criterions[%d].ref", i), ref})
		for j, hotel := range crit.Hotels {
			pairs = append(pairs, queryPair{fmt.Sprintf("criterions[%d].hotels[%d].code", i, j), hotel.Code})
		}
		pairs = append(pairs, queryPair{fmt.Sprintf("criterions[%d].dates", i), crit.Dates})
		pairs = append(pairs, queryPair{fmt.Sprintf("criterions[%d].adults", i), strconv.Itoa(crit.Adults)})
		if crit.Children != "" {
			pairs = append(pairs, queryPair{fmt.Sprintf("criterions[%d].children", i), crit.Children})
		}
	}
	return pairs
}

func encodeQuery(pairs []queryPair) string {
	var sb strings.Builder
	for i, p := range pairs {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.value))
	}
	return sb.String()
}

// request performs one HTTP call and decodes the JSON body into out.
// Embedded application-level errors are left to the caller; wire-level
// failures come back as *APIError.
func (c *Client) request(ctx context.Context, method, endpoint, rawQuery string, body any, out any) error {
	logger := utils.GetLogger()

	fullURL := c.baseURL + endpoint
	if rawQuery != "" {
		fullURL += "?" + rawQuery
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &APIError{Message: fmt.Sprintf("marshal request body: %v", err)}
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return &APIError{Message: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("X-ApiKey", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/plain, */*")

	logger.Debug("Exely API request", zap.String("method", method), zap.String("url", fullURL))

	resp, err := c.httpc.Do(req)
	if err != nil {
		logger.Error("Exely API network failure", zap.String("url", fullURL), zap.Error(err))
		return newNetworkError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return newNetworkError(err)
	}

	logger.Debug("Exely API response", zap.String("url", fullURL), zap.Int("status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newStatusError(resp.StatusCode, string(respBody))
		// Error bodies often carry a structured errors array; surface the
		// first entry's code and message when they do.
		var errBody struct {
			Errors []models.ErrorDetail `json:"errors"`
		}
		if json.Unmarshal(respBody, &errBody) == nil && len(errBody.Errors) > 0 {
			apiErr.Code = errBody.Errors[0].ErrorCode
			apiErr.Message = errBody.Errors[0].Message
		}
		logger.Error("Exely API returned error status",
			zap.String("url", fullURL), zap.Int("status", resp.StatusCode), zap.String("message", apiErr.Message))
		return apiErr
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("response was not valid JSON: %v", err),
		}
	}
	return nil
}

// embeddedError converts an errors array from a 200 body into an *APIError.
func embeddedError(errs []models.ErrorDetail) error {
	if len(errs) == 0 {
		return nil
	}
	first := errs[0]
	return &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       first.ErrorCode,
		Message:    first.Message,
	}
}

// HotelInfo fetches the static metadata catalogue of one hotel.
func (c *Client) HotelInfo(ctx context.Context, hotelCode, language string) (*models.HotelInfoResponse, error) {
	query := encodeQuery([]queryPair{
		{"language", language},
		{"hotels[0].code", hotelCode},
	})

	var out models.HotelInfoResponse
	if err := c.request(ctx, http.MethodGet, hotelInfoEndpoint, query, nil, &out); err != nil {
		return nil, err
	}
	if err := embeddedError(out.Errors); err != nil {
		return nil, err
	}
	return &out, nil
}

// HotelAvailability searches bookable offers for the request criteria.
func (c *Client) HotelAvailability(ctx context.Context, req models.AvailabilityRequest) (*models.AvailabilityResponse, error) {
	if len(req.Criterions) == 0 {
		return nil, &APIError{Message: "availability request needs at least one criterion"}
	}
	query := encodeQuery(flattenAvailabilityParams(req))

	var out models.AvailabilityResponse
	if err := c.request(ctx, http.MethodGet, availabilityEndpoint, query, nil, &out); err != nil {
		return nil, err
	}
	if err := embeddedError(out.Errors); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateReservation submits a reservation request.
func (c *Client) CreateReservation(ctx context.Context, req *models.ReservationRequest) (*models.ReservationResponse, error) {
	var out models.ReservationResponse
	if err := c.request(ctx, http.MethodPost, reservationEndpoint, "", req, &out); err != nil {
		return nil, err
	}
	if err := embeddedError(out.Errors); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelReservation cancels an existing reservation.
func (c *Client) CancelReservation(ctx context.Context, req *models.CancelRequest) (*models.CancelResponse, error) {
	var out models.CancelResponse
	if err := c.request(ctx, http.MethodPost, cancellationEndpoint, "", req, &out); err != nil {
		return nil, err
	}
	if err := embeddedError(out.Errors); err != nil {
		return nil, err
	}
	return &out, nil
}
