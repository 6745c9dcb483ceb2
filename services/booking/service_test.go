package booking

import (
	"context"
	"testing"
	"time"

	"concierge/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	hotelInfoFn    func(ctx context.Context, hotelCode, language string) (*models.HotelInfoResponse, error)
	availabilityFn func(ctx context.Context, req models.AvailabilityRequest) (*models.AvailabilityResponse, error)
	reserveFn      func(ctx context.Context, req *models.ReservationRequest) (*models.ReservationResponse, error)
	cancelFn       func(ctx context.Context, req *models.CancelRequest) (*models.CancelResponse, error)
}

func (f *fakeProvider) HotelInfo(ctx context.Context, hotelCode, language string) (*models.HotelInfoResponse, error) {
	return f.hotelInfoFn(ctx, hotelCode, language)
}

func (f *fakeProvider) HotelAvailability(ctx context.Context, req models.AvailabilityRequest) (*models.AvailabilityResponse, error) {
	return f.availabilityFn(ctx, req)
}

func (f *fakeProvider) CreateReservation(ctx context.Context, req *models.ReservationRequest) (*models.ReservationResponse, error) {
	return f.reserveFn(ctx, req)
}

func (f *fakeProvider) CancelReservation(ctx context.Context, req *models.CancelRequest) (*models.CancelResponse, error) {
	return f.cancelFn(ctx, req)
}

func testHotelDetail() *models.HotelDetail {
	return &models.HotelDetail{
		Code: "508",
		Name: "Sunrise Resort",
		RoomTypes: []models.HotelRoomType{
			{Code: "DBL", Name: "Double Room", Kind: "room", Images: []models.ImageDetail{{URL: "https://img.example.com/dbl.jpg"}}},
			{Code: "FAM", Name: "Family Suite", Kind: "room"},
		},
		RatePlans: []models.HotelRatePlan{
			{Code: "BAR", Name: "Best Available Rate"},
			{Code: "SUMMER24", Name: "Summer Promo"},
		},
		Policy: &models.HotelPolicy{CheckInTime: "15:00", CheckOutTime: "12:00"},
	}
}

func newTestService(provider *fakeProvider) *DefaultBookingService {
	svc := NewDefaultBookingService(provider, NewOfferStore(30*time.Minute), NewHotelInfoCache(time.Hour), Options{
		DefaultHotelCode: "508",
		DefaultLanguage:  "en-us",
		DefaultCurrency:  "USD",
		SuccessURL:       "https://pay.example.com/ok",
		DeclineURL:       "https://pay.example.com/fail",
		POSSourceURL:     "https://bot.example.com",
	})
	svc.Now = func() time.Time { return time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC) }
	return svc
}

func availabilityStay(rtCode, rpCode string, capacity int, price float64) models.RoomStay {
	placements := make([]models.PlacementPrice, capacity)
	guests := make([]models.GuestCount, capacity)
	for i := range capacity {
		placements[i] = models.PlacementPrice{Index: i + 1, Kind: "adult", Code: rtCode + "-P", Capacity: 1, Currency: "USD"}
		guests[i] = models.GuestCount{Placement: models.PlacementRef{Index: i + 1}, Count: 1, AgeQualifyingCode: "adult"}
	}
	return models.RoomStay{
		HotelRef:       models.HotelRef{Code: "508"},
		RoomTypes:      []models.RoomTypeAvailability{{Code: rtCode, Placements: placements}},
		RatePlans:      []models.RatePlanAvailability{{Code: rpCode, CancelPenaltyGroup: models.CancelPenaltyGroup{Description: "Free cancellation until arrival."}}},
		PlacementRates: []models.PlacementRate{{RoomTypeCode: rtCode, RatePlanCode: rpCode, Placement: models.RatePlacement{Index: 1, Kind: "adult", Code: rtCode + "-P"}}},
		Guests:         guests,
		StayDates:      models.DateRangeStay{StartDate: "2026-09-10 15:00:00", EndDate: "2026-09-12 12:00:00"},
		Total:          models.PriceInfo{PriceAfterTax: price, Currency: "USD"},
		Guarantees:     []models.GuaranteeInfo{{Code: "ga1", Type: "cash"}},
	}
}

func searchArgs() models.SearchOptionsArgs {
	return models.SearchOptionsArgs{
		CheckInDate:  "2026-09-10",
		CheckOutDate: "2026-09-12",
		NumAdults:    2,
	}
}

func TestSearchOptionsFiltersCapacityAndEnriches(t *testing.T) {
	provider := &fakeProvider{
		hotelInfoFn: func(ctx context.Context, hotelCode, language string) (*models.HotelInfoResponse, error) {
			return &models.HotelInfoResponse{Hotels: []models.HotelDetail{*testHotelDetail()}}, nil
		},
		availabilityFn: func(ctx context.Context, req models.AvailabilityRequest) (*models.AvailabilityResponse, error) {
			require.Len(t, req.Criterions, 1)
			assert.Equal(t, "2026-09-10;2026-09-12", req.Criterions[0].Dates)
			assert.Equal(t, 2, req.Criterions[0].Adults)
			return &models.AvailabilityResponse{RoomStays: []models.RoomStay{
				availabilityStay("SGL", "BAR", 1, 80), // too small for two adults
				availabilityStay("DBL", "BAR", 2, 150),
			}}, nil
		},
	}
	svc := newTestService(provider)

	result, err := svc.SearchOptions(context.Background(), searchArgs())
	require.NoError(t, err)
	assert.Equal(t, "Sunrise Resort", result.HotelName)
	require.Len(t, result.Options, 1, "single-guest offer must be filtered out")

	opt := result.Options[0]
	assert.Equal(t, 1, opt.Ordinal)
	assert.Equal(t, "Double Room", opt.RoomTypeName)
	assert.Equal(t, "Best Available Rate", opt.RatePlanName)
	assert.Equal(t, 150.0, opt.PriceAfterTax)
	assert.Equal(t, "2 adults", opt.GuestsSummary)
	assert.Equal(t, []string{"ga1"}, opt.GuaranteeCodes)
	assert.Equal(t, []string{"https://img.example.com/dbl.jpg"}, opt.ImageURLs)

	// The offer behind the option id is retrievable for booking.
	offer, ok := svc.Offer(opt.OptionID)
	require.True(t, ok)
	assert.Equal(t, "DBL", offer.RoomTypes[0].Code)
}

func TestSearchOptionsPromocodeFilter(t *testing.T) {
	provider := &fakeProvider{
		hotelInfoFn: func(ctx context.Context, hotelCode, language string) (*models.HotelInfoResponse, error) {
			return &models.HotelInfoResponse{Hotels: []models.HotelDetail{*testHotelDetail()}}, nil
		},
		availabilityFn: func(ctx context.Context, req models.AvailabilityRequest) (*models.AvailabilityResponse, error) {
			return &models.AvailabilityResponse{RoomStays: []models.RoomStay{
				availabilityStay("DBL", "BAR", 2, 150),
				availabilityStay("DBL", "SUMMER24", 2, 120),
			}}, nil
		},
	}
	svc := newTestService(provider)

	args := searchArgs()
	args.PromocodeOrRateName = "Summer Promo" // matches SUMMER24 by catalogue name
	result, err := svc.SearchOptions(context.Background(), args)
	require.NoError(t, err)
	require.Len(t, result.Options, 1)
	assert.Equal(t, "Summer Promo", result.Options[0].RatePlanName)
	assert.Equal(t, 120.0, result.Options[0].PriceAfterTax)
}

func TestSearchOptionsPromocodeNoMatch(t *testing.T) {
	provider := &fakeProvider{
		hotelInfoFn: func(ctx context.Context, hotelCode, language string) (*models.HotelInfoResponse, error) {
			return &models.HotelInfoResponse{Hotels: []models.HotelDetail{*testHotelDetail()}}, nil
		},
		availabilityFn: func(ctx context.Context, req models.AvailabilityRequest) (*models.AvailabilityResponse, error) {
			return &models.AvailabilityResponse{RoomStays: []models.RoomStay{availabilityStay("DBL", "BAR", 2, 150)}}, nil
		},
	}
	svc := newTestService(provider)

	args := searchArgs()
	args.PromocodeOrRateName = "NOSUCH"
	result, err := svc.SearchOptions(context.Background(), args)
	require.NoError(t, err)
	assert.Empty(t, result.Options)
	assert.Contains(t, result.Message, "NOSUCH")
}

func TestSearchOptionsNoAvailability(t *testing.T) {
	provider := &fakeProvider{
		hotelInfoFn: func(ctx context.Context, hotelCode, language string) (*models.HotelInfoResponse, error) {
			return &models.HotelInfoResponse{Hotels: []models.HotelDetail{*testHotelDetail()}}, nil
		},
		availabilityFn: func(ctx context.Context, req models.AvailabilityRequest) (*models.AvailabilityResponse, error) {
			return &models.AvailabilityResponse{}, nil
		},
	}
	svc := newTestService(provider)

	result, err := svc.SearchOptions(context.Background(), searchArgs())
	require.NoError(t, err)
	assert.Empty(t, result.Options)
	assert.Contains(t, result.Message, "No rooms available")
}

func TestSearchOptionsInvalidDates(t *testing.T) {
	svc := newTestService(&fakeProvider{})

	cases := []struct {
		name    string
		in, out string
	}{
		{"checkout before checkin", "2026-09-12", "2026-09-10"},
		{"same day", "2026-09-10", "2026-09-10"},
		{"past checkin", "2026-08-20", "2026-09-12"},
		{"garbage", "next week", "2026-09-12"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			args := searchArgs()
			args.CheckInDate = tc.in
			args.CheckOutDate = tc.out
			_, err := svc.SearchOptions(context.Background(), args)
			be, ok := AsBookingError(err)
			require.True(t, ok)
			assert.Equal(t, CodeInvalidSearchDates, be.Code)
			assert.True(t, IsUserInputError(err))
		})
	}
}

func TestSearchOptionsSurvivesHotelInfoFailure(t *testing.T) {
	provider := &fakeProvider{
		hotelInfoFn: func(ctx context.Context, hotelCode, language string) (*models.HotelInfoResponse, error) {
			return nil, NewBookingError(CodeMissingPlacementData, "hotel_info response contains no hotels")
		},
		availabilityFn: func(ctx context.Context, req models.AvailabilityRequest) (*models.AvailabilityResponse, error) {
			return &models.AvailabilityResponse{RoomStays: []models.RoomStay{availabilityStay("DBL", "BAR", 2, 150)}}, nil
		},
	}
	svc := newTestService(provider)

	result, err := svc.SearchOptions(context.Background(), searchArgs())
	require.NoError(t, err)
	require.Len(t, result.Options, 1)
	// Unenriched: codes stand in for names.
	assert.Equal(t, "DBL", result.Options[0].RoomTypeName)
	assert.Equal(t, "Hotel 508", result.HotelName)
}

func TestCreateReservationUnknownOption(t *testing.T) {
	svc := newTestService(&fakeProvider{})

	_, err := svc.CreateReservation(context.Background(), models.CreateReservationArgs{
		BookingOptionID: "00000000-0000-0000-0000-000000000000",
		GuaranteeCode:   "ga1",
	})
	be, ok := AsBookingError(err)
	require.True(t, ok)
	assert.Equal(t, CodeOptionNotFound, be.Code)
	assert.True(t, IsIntegrityError(err))
}

func TestCreateReservationSubmitsMappedPayload(t *testing.T) {
	var captured *models.ReservationRequest
	provider := &fakeProvider{
		reserveFn: func(ctx context.Context, req *models.ReservationRequest) (*models.ReservationResponse, error) {
			captured = req
			return &models.ReservationResponse{HotelReservations: []models.ReservationResponseItem{{
				Number:           "111-222",
				CancellationCode: "SECRET",
				Status:           "pending_payment",
				HotelRef:         models.HotelRef{Code: "508"},
				GuaranteeInfo: &models.ReservationGuaranteeStatus{
					Status:     "accepted",
					Guarantees: []models.GuaranteeInfo{{Code: "ga1", Type: "guarantee", PaymentURL: "https://pay.example.com/p/1"}},
				},
				OrderURL: "https://orders.example.com/111-222",
				Total:    models.PriceInfo{PriceAfterTax: 240, Currency: "USD"},
			}}}, nil
		},
	}
	svc := newTestService(provider)
	optionID := svc.Offers.Put(twoPlacementOffer())

	result, err := svc.CreateReservation(context.Background(), models.CreateReservationArgs{
		BookingOptionID: optionID,
		Guests:          threeGuests(),
		Customer:        testCustomer(),
		GuaranteeCode:   "ga1",
	})
	require.NoError(t, err)

	assert.Equal(t, "111-222", result.BookingNumber)
	assert.Equal(t, "pending_payment", result.Status)
	assert.Equal(t, "SECRET", result.CancellationCode)
	assert.Equal(t, "https://pay.example.com/p/1", result.PaymentURL)
	assert.Equal(t, "https://orders.example.com/111-222", result.OrderURL)

	require.NotNil(t, captured)
	assert.Equal(t, "USD", captured.Currency)
	assert.Equal(t, "ga1", captured.HotelReservations[0].Guarantee.Code)
	assert.Len(t, captured.HotelReservations[0].RoomStays[0].Guests, 3)
}

func TestCreateReservationRetryAfterFailure(t *testing.T) {
	calls := 0
	provider := &fakeProvider{
		reserveFn: func(ctx context.Context, req *models.ReservationRequest) (*models.ReservationResponse, error) {
			calls++
			if calls == 1 {
				return nil, NewBookingError(CodeSlotAssignmentInternal, "transient")
			}
			return &models.ReservationResponse{HotelReservations: []models.ReservationResponseItem{{
				Number: "111-333", CancellationCode: "S2", Status: "confirmed",
			}}}, nil
		},
	}
	svc := newTestService(provider)
	optionID := svc.Offers.Put(twoPlacementOffer())

	args := models.CreateReservationArgs{
		BookingOptionID: optionID,
		Guests:          threeGuests(),
		Customer:        testCustomer(),
		GuaranteeCode:   "ga1",
	}
	_, err := svc.CreateReservation(context.Background(), args)
	require.Error(t, err)

	// The offer was not consumed by the failed attempt.
	result, err := svc.CreateReservation(context.Background(), args)
	require.NoError(t, err)
	assert.Equal(t, "111-333", result.BookingNumber)
}

func TestCancelReservation(t *testing.T) {
	var captured *models.CancelRequest
	provider := &fakeProvider{
		cancelFn: func(ctx context.Context, req *models.CancelRequest) (*models.CancelResponse, error) {
			captured = req
			return &models.CancelResponse{HotelReservations: []models.CancelledReservation{{Number: "111-222", Status: "cancelled"}}}, nil
		},
	}
	svc := newTestService(provider)

	result, err := svc.CancelReservation(context.Background(), models.CancelReservationArgs{
		BookingNumber:    "111-222",
		CancellationCode: "SECRET",
	})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", result.Status)
	assert.Contains(t, result.Message, "cancelled successfully")

	require.NotNil(t, captured)
	assert.Equal(t, "SECRET", captured.HotelReservationRefs[0].Verification.CancellationCode)
	require.Len(t, captured.Reasons, 1)
	assert.Equal(t, "cancellation_travel", captured.Reasons[0].Code)
}

func TestHotelPublicInfoSummarizes(t *testing.T) {
	detail := testHotelDetail()
	detail.Description = "A quiet beachfront resort."
	detail.ContactInfo = &models.HotelContactInfo{
		Addresses: []models.HotelAddress{{AddressLine: []string{"1 Beach Rd"}, CityName: "Batumi", PostalCode: "6000", CountryCode: "GE"}},
		Phones:    []models.HotelPhone{{PhoneNumber: "+995 322 000000"}},
	}
	provider := &fakeProvider{
		hotelInfoFn: func(ctx context.Context, hotelCode, language string) (*models.HotelInfoResponse, error) {
			return &models.HotelInfoResponse{Hotels: []models.HotelDetail{*detail}}, nil
		},
	}
	svc := newTestService(provider)

	summary, err := svc.HotelPublicInfo(context.Background(), models.HotelInfoArgs{})
	require.NoError(t, err)
	assert.Equal(t, "508", summary.HotelCode, "default hotel code applies")
	assert.Equal(t, "Sunrise Resort", summary.Name)
	assert.Equal(t, "1 Beach Rd, Batumi, 6000, (GE)", summary.Address)
	assert.Equal(t, "+995 322 000000", summary.Phone)
	assert.Equal(t, "15:00", summary.CheckInTime)
	require.Len(t, summary.RoomTypesSummary, 2)
	assert.Equal(t, "Double Room", summary.RoomTypesSummary[0].Name)
}
