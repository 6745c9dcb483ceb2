package booking

import (
	"context"

	"concierge/models"
)

// ProviderClient is the slice of the distribution API the booking service
// depends on. services/exely.Client satisfies it.
type ProviderClient interface {
	HotelInfo(ctx context.Context, hotelCode, language string) (*models.HotelInfoResponse, error)
	HotelAvailability(ctx context.Context, req models.AvailabilityRequest) (*models.AvailabilityResponse, error)
	CreateReservation(ctx context.Context, req *models.ReservationRequest) (*models.ReservationResponse, error)
	CancelReservation(ctx context.Context, req *models.CancelRequest) (*models.CancelResponse, error)
}

// SearchResult is the outcome of an availability search. When Options is
// empty, Message explains why in user-presentable terms.
type SearchResult struct {
	HotelName string
	Options   []models.DisplayedOption
	Message   string
}

// BookingService exposes the four tool operations the conversation engine
// dispatches to.
type BookingService interface {
	HotelPublicInfo(ctx context.Context, args models.HotelInfoArgs) (*models.HotelSummary, error)
	SearchOptions(ctx context.Context, args models.SearchOptionsArgs) (*SearchResult, error)
	CreateReservation(ctx context.Context, args models.CreateReservationArgs) (*models.ReservationResult, error)
	CancelReservation(ctx context.Context, args models.CancelReservationArgs) (*models.CancellationResult, error)
	Offer(optionID string) (models.RoomStay, bool)
}
