package booking

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"concierge/models"
	"concierge/utils"

	"go.uber.org/zap"
)

// Options are the environment-level defaults the booking service applies
// when tool arguments leave them out.
type Options struct {
	DefaultHotelCode  string
	DefaultLanguage   string
	DefaultCurrency   string
	SuccessURL        string
	DeclineURL        string
	POSSourceURL      string
	POSIntegrationKey string
	SubscribeEmail    bool
}

// DefaultBookingService implements BookingService against a provider client,
// an offer store and a hotel metadata cache.
type DefaultBookingService struct {
	Provider  ProviderClient
	Offers    *OfferStore
	HotelInfo *HotelInfoCache
	Opts      Options

	// Now is the clock used for search date validation; tests override it.
	Now func() time.Time
}

func NewDefaultBookingService(provider ProviderClient, offers *OfferStore, hotelInfo *HotelInfoCache, opts Options) *DefaultBookingService {
	return &DefaultBookingService{
		Provider:  provider,
		Offers:    offers,
		HotelInfo: hotelInfo,
		Opts:      opts,
		Now:       time.Now,
	}
}

func (s *DefaultBookingService) language(lang string) string {
	if lang != "" {
		return lang
	}
	return s.Opts.DefaultLanguage
}

// Offer exposes cached offers to the conversation engine for guarantee
// selection at option-pick time.
func (s *DefaultBookingService) Offer(optionID string) (models.RoomStay, bool) {
	return s.Offers.Get(optionID)
}

// hotelDetail loads hotel metadata through the cache.
func (s *DefaultBookingService) hotelDetail(ctx context.Context, hotelCode, lang string) (*models.HotelDetail, error) {
	return s.HotelInfo.GetOrFetch(ctx, hotelCode, lang, func(ctx context.Context) (*models.HotelDetail, error) {
		resp, err := s.Provider.HotelInfo(ctx, hotelCode, lang)
		if err != nil {
			return nil, err
		}
		if len(resp.Hotels) == 0 {
			return nil, NewBookingError(CodeMissingPlacementData, "hotel_info response contains no hotels")
		}
		return &resp.Hotels[0], nil
	})
}

// HotelPublicInfo returns the condensed hotel presentation used both for
// replies and as the interpreter's hotel context.
func (s *DefaultBookingService) HotelPublicInfo(ctx context.Context, args models.HotelInfoArgs) (*models.HotelSummary, error) {
	hotelCode := args.HotelCode
	if hotelCode == "" {
		hotelCode = s.Opts.DefaultHotelCode
	}
	lang := s.language(args.Language)

	detail, err := s.hotelDetail(ctx, hotelCode, lang)
	if err != nil {
		return nil, err
	}

	summary := &models.HotelSummary{
		HotelCode:   detail.Code,
		Name:        detail.Name,
		Description: detail.Description,
	}
	if detail.Logo != nil {
		summary.LogoURL = detail.Logo.URL
	}
	if detail.ContactInfo != nil {
		if len(detail.ContactInfo.Addresses) > 0 {
			addr := detail.ContactInfo.Addresses[0]
			parts := append([]string{}, addr.AddressLine...)
			if addr.CityName != "" {
				parts = append(parts, addr.CityName)
			}
			if addr.PostalCode != "" {
				parts = append(parts, addr.PostalCode)
			}
			if addr.CountryCode != "" {
				parts = append(parts, "("+addr.CountryCode+")")
			}
			summary.Address = strings.Join(parts, ", ")
		}
		if len(detail.ContactInfo.Phones) > 0 {
			summary.Phone = detail.ContactInfo.Phones[0].PhoneNumber
		}
	}
	if detail.Policy != nil {
		summary.CheckInTime = detail.Policy.CheckInTime
		summary.CheckOutTime = detail.Policy.CheckOutTime
	}
	for i, svc := range detail.Services {
		if i >= 7 {
			break
		}
		if svc.Name != "" {
			summary.ServicesSummary = append(summary.ServicesSummary, svc.Name)
		}
	}
	for i, rt := range detail.RoomTypes {
		if i >= 5 {
			break
		}
		if rt.Name != "" && rt.Code != "" {
			summary.RoomTypesSummary = append(summary.RoomTypesSummary, models.RoomTypeSummary{Code: rt.Code, Name: rt.Name})
		}
	}
	return summary, nil
}

func validateSearchDates(checkIn, checkOut string, now time.Time) error {
	in, err := time.Parse("2006-01-02", checkIn)
	if err != nil {
		return NewBookingError(CodeInvalidSearchDates, fmt.Sprintf("check-in date %q is not a valid YYYY-MM-DD date", checkIn))
	}
	out, err := time.Parse("2006-01-02", checkOut)
	if err != nil {
		return NewBookingError(CodeInvalidSearchDates, fmt.Sprintf("check-out date %q is not a valid YYYY-MM-DD date", checkOut))
	}
	if !out.After(in) {
		return NewBookingError(CodeInvalidSearchDates, "check-out date must be after check-in date")
	}
	todayMidnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if in.Before(todayMidnight) {
		return NewBookingError(CodeInvalidSearchDates, "check-in date cannot be in the past")
	}
	return nil
}

// SearchOptions runs an availability search, applies promocode and capacity
// filters, enriches the surviving offers with hotel metadata and caches each
// under a fresh option id.
func (s *DefaultBookingService) SearchOptions(ctx context.Context, args models.SearchOptionsArgs) (*SearchResult, error) {
	logger := utils.GetLogger()

	hotelCode := args.HotelCode
	if hotelCode == "" {
		hotelCode = s.Opts.DefaultHotelCode
	}
	lang := s.language(args.Language)
	currency := args.Currency
	if currency == "" {
		currency = s.Opts.DefaultCurrency
	}

	if err := validateSearchDates(args.CheckInDate, args.CheckOutDate, s.Now()); err != nil {
		return nil, err
	}

	// Hotel metadata enriches results but its absence must not block the
	// search itself.
	detail, err := s.hotelDetail(ctx, hotelCode, lang)
	if err != nil {
		logger.Warn("Hotel metadata unavailable, search results will be unenriched",
			zap.String("hotel", hotelCode), zap.Error(err))
		detail = nil
	}
	hotelName := "Hotel " + hotelCode
	roomImages := map[string][]string{}
	ratePlanNames := map[string]string{}
	if detail != nil {
		if detail.Name != "" {
			hotelName = detail.Name
		}
		for _, rt := range detail.RoomTypes {
			if rt.Code != "" && len(rt.Images) > 0 {
				urls := make([]string, 0, len(rt.Images))
				for _, img := range rt.Images {
					urls = append(urls, img.URL)
				}
				roomImages[rt.Code] = urls
			}
		}
		for _, rp := range detail.RatePlans {
			if rp.Code != "" {
				ratePlanNames[rp.Code] = rp.Name
			}
		}
	}

	childrenCSV := ""
	if len(args.ChildrenAges) > 0 {
		ages := make([]string, len(args.ChildrenAges))
		for i, a := range args.ChildrenAges {
			ages[i] = fmt.Sprintf("%d", a)
		}
		childrenCSV = strings.Join(ages, ",")
	}

	resp, err := s.Provider.HotelAvailability(ctx, models.AvailabilityRequest{
		Language:               lang,
		Currency:               currency,
		IncludeRates:           true,
		IncludeTransfers:       false,
		IncludeAllPlacements:   true,
		IncludePromoRestricted: true,
		Criterions: []models.AvailabilityCriterion{{
			Ref:      "0",
			Hotels:   []models.AvailabilityCriterionHotel{{Code: hotelCode}},
			Dates:    args.CheckInDate + ";" + args.CheckOutDate,
			Adults:   args.NumAdults,
			Children: childrenCSV,
		}},
	})
	if err != nil {
		return nil, err
	}

	stays := resp.RoomStays
	promoQuery := strings.ToLower(strings.TrimSpace(args.PromocodeOrRateName))
	if promoQuery != "" && len(stays) > 0 {
		stays = filterStaysByRatePlan(stays, promoQuery, detail)
		if len(stays) == 0 {
			return &SearchResult{
				HotelName: hotelName,
				Message: fmt.Sprintf("No options at %s match the promocode or rate %q for your dates.",
					hotelName, args.PromocodeOrRateName),
			}, nil
		}
	}
	if len(stays) == 0 {
		return &SearchResult{HotelName: hotelName, Message: noAvailabilityMessage(hotelName, hotelCode, resp.Warnings)}, nil
	}

	requestedGuests := args.NumAdults + len(args.ChildrenAges)
	var options []models.DisplayedOption
	for _, stay := range stays {
		if len(stay.RatePlans) == 0 || len(stay.RoomTypes) == 0 {
			continue
		}
		capacity := 0
		for _, gc := range stay.Guests {
			capacity += gc.Count
		}
		if capacity < requestedGuests {
			logger.Debug("Skipping offer below requested guest count",
				zap.String("room_type", stay.RoomTypes[0].Code),
				zap.Int("capacity", capacity), zap.Int("requested", requestedGuests))
			continue
		}

		optionID := s.Offers.Put(stay)

		rtCode := stay.RoomTypes[0].Code
		rtName := rtCode
		if detail != nil {
			if rt := detail.RoomTypeByCode(rtCode); rt != nil && rt.Name != "" {
				rtName = rt.Name
			}
		}
		rpCode := stay.RatePlans[0].Code
		rpName := rpCode
		if name := ratePlanNames[rpCode]; name != "" {
			rpName = name
		}

		policy := stay.RatePlans[0].CancelPenaltyGroup.Description
		if policy == "" {
			policy = "Cancellation policy not detailed."
		}

		guaranteeCodes := make([]string, 0, len(stay.Guarantees))
		for _, g := range stay.Guarantees {
			guaranteeCodes = append(guaranteeCodes, g.Code)
		}

		opt := models.DisplayedOption{
			OptionID:       optionID,
			Ordinal:        len(options) + 1,
			RoomTypeName:   rtName,
			RatePlanName:   rpName,
			PriceAfterTax:  stay.Total.PriceAfterTax,
			Currency:       stay.Total.Currency,
			GuestsSummary:  guestsSummary(stay.Guests),
			CancelPolicy:   policy,
			GuaranteeCodes: guaranteeCodes,
			ImageURLs:      roomImages[rtCode],
		}
		opt.SummaryText = fmt.Sprintf("%s: room %q at rate %q. Total: %.2f %s. %s. Policy: %s",
			hotelName, rtName, rpName, opt.PriceAfterTax, opt.Currency, opt.GuestsSummary, policy)
		options = append(options, opt)
	}

	if len(options) == 0 {
		msg := fmt.Sprintf("%s has rooms for those dates, but none fit the requested party of %d. Try different guest counts or dates.",
			hotelName, requestedGuests)
		if promoQuery != "" {
			msg = fmt.Sprintf("No rooms at %s fit your party under the promocode or rate %q.", hotelName, args.PromocodeOrRateName)
		}
		return &SearchResult{HotelName: hotelName, Message: msg}, nil
	}

	logger.Info("Availability search produced options",
		zap.String("hotel", hotelCode), zap.Int("options", len(options)), zap.Int("room_stays", len(resp.RoomStays)))
	return &SearchResult{HotelName: hotelName, Options: options}, nil
}

// filterStaysByRatePlan keeps only stays with a rate plan whose code or
// catalogue name equals the query, trimming each kept stay's rate plans and
// placement rates to the matching set.
func filterStaysByRatePlan(stays []models.RoomStay, queryLower string, detail *models.HotelDetail) []models.RoomStay {
	var kept []models.RoomStay
	for _, stay := range stays {
		var matching []models.RatePlanAvailability
		for _, rp := range stay.RatePlans {
			if strings.ToLower(rp.Code) == queryLower {
				matching = append(matching, rp)
				continue
			}
			if detail != nil {
				if cat := detail.RatePlanByCode(rp.Code); cat != nil && strings.ToLower(cat.Name) == queryLower {
					matching = append(matching, rp)
				}
			}
		}
		if len(matching) == 0 {
			continue
		}
		matchCodes := map[string]bool{}
		for _, rp := range matching {
			matchCodes[rp.Code] = true
		}
		var rates []models.PlacementRate
		for _, pr := range stay.PlacementRates {
			if matchCodes[pr.RatePlanCode] {
				rates = append(rates, pr)
			}
		}
		if len(rates) == 0 {
			continue
		}
		filtered := stay
		filtered.RatePlans = matching
		filtered.PlacementRates = rates
		kept = append(kept, filtered)
	}
	return kept
}

func noAvailabilityMessage(hotelName, hotelCode string, warnings []models.WarningDetail) string {
	for _, w := range warnings {
		if w.Message != "" && (strings.Contains(strings.ToLower(w.Message), "not found") || w.ErrorCode == "392") {
			return fmt.Sprintf("Search failed: %s (hotel %s)", w.Message, hotelCode)
		}
	}
	if len(warnings) > 0 {
		note := warnings[0].Message
		if note == "" {
			note = "API warning (code " + warnings[0].ErrorCode + ")"
		}
		return fmt.Sprintf("No rooms available at %s for those criteria. Note: %s", hotelName, note)
	}
	return fmt.Sprintf("No rooms available at %s for those criteria.", hotelName)
}

// guestsSummary renders an offer's guest groups as "2 adults, 1 child (age 7)".
func guestsSummary(groups []models.GuestCount) string {
	adults, children := 0, 0
	var ages []int
	for _, g := range groups {
		isChild := strings.Contains(strings.ToLower(g.AgeQualifyingCode), "child") ||
			(g.Age != nil && g.AgeQualifyingCode == "")
		if isChild {
			children += g.Count
			if g.Age != nil {
				for range g.Count {
					ages = append(ages, *g.Age)
				}
			}
		} else {
			adults += g.Count
		}
	}

	var parts []string
	if adults > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", adults, pluralize("adult", adults)))
	}
	if children > 0 {
		part := fmt.Sprintf("%d %s", children, pluralize("child", children))
		if len(ages) > 0 {
			distinct := map[int]struct{}{}
			var uniq []int
			for _, a := range ages {
				if _, seen := distinct[a]; !seen {
					distinct[a] = struct{}{}
					uniq = append(uniq, a)
				}
			}
			sort.Ints(uniq)
			ageStrs := make([]string, len(uniq))
			for i, a := range uniq {
				ageStrs[i] = fmt.Sprintf("%d", a)
			}
			label := "age"
			if len(uniq) > 1 {
				label = "ages"
			}
			part += fmt.Sprintf(" (%s %s)", label, strings.Join(ageStrs, ", "))
		}
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return "no guests"
	}
	return strings.Join(parts, ", ")
}

func pluralize(word string, n int) string {
	if n == 1 {
		return word
	}
	if word == "child" {
		return "children"
	}
	return word + "s"
}

// CreateReservation replays the cached offer into a reservation request and
// submits it.
func (s *DefaultBookingService) CreateReservation(ctx context.Context, args models.CreateReservationArgs) (*models.ReservationResult, error) {
	logger := utils.GetLogger()

	offer, ok := s.Offers.Get(args.BookingOptionID)
	if !ok {
		logger.Warn("Reservation attempted with unknown or expired option id", zap.String("option_id", args.BookingOptionID))
		return nil, NewBookingError(CodeOptionNotFound, "booking option is unknown or expired, a fresh search is needed")
	}
	if args.GuaranteeCode == "" {
		return nil, NewBookingError(CodeNoGuarantee, "no guarantee code is bound to this booking option")
	}

	req, err := BuildReservationRequest(offer, args.Guests, args.Customer, args.GuaranteeCode, MapperConfig{
		Language:          s.language(args.Language),
		SuccessURL:        s.Opts.SuccessURL,
		DeclineURL:        s.Opts.DeclineURL,
		POSSourceURL:      s.Opts.POSSourceURL,
		POSIntegrationKey: s.Opts.POSIntegrationKey,
		SubscribeEmail:    s.Opts.SubscribeEmail,
	})
	if err != nil {
		return nil, err
	}

	resp, err := s.Provider.CreateReservation(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(resp.HotelReservations) == 0 {
		return nil, NewBookingError(CodeSlotAssignmentInternal, "reservation response carries neither bookings nor errors")
	}

	created := resp.HotelReservations[0]
	result := &models.ReservationResult{
		BookingNumber:    created.Number,
		Status:           created.Status,
		CancellationCode: created.CancellationCode,
		OrderURL:         created.OrderURL,
	}
	if created.GuaranteeInfo != nil && len(created.GuaranteeInfo.Guarantees) > 0 {
		result.PaymentURL = created.GuaranteeInfo.Guarantees[0].PaymentURL
	}
	logger.Info("Reservation created",
		zap.String("number", created.Number), zap.String("status", created.Status),
		zap.Bool("has_payment_url", result.PaymentURL != ""))
	return result, nil
}

// CancelReservation cancels a booking using its number and cancellation code.
func (s *DefaultBookingService) CancelReservation(ctx context.Context, args models.CancelReservationArgs) (*models.CancellationResult, error) {
	logger := utils.GetLogger()

	reasonCode := args.ReasonCode
	if reasonCode == "" {
		reasonCode = "cancellation_travel"
	}

	resp, err := s.Provider.CancelReservation(ctx, &models.CancelRequest{
		HotelReservationRefs: []models.CancelReservationRef{{
			Number:       args.BookingNumber,
			Verification: models.CancelVerification{CancellationCode: args.CancellationCode},
		}},
		Reasons:  []models.CancelReason{{Code: reasonCode, Text: args.ReasonText}},
		Language: s.language(args.Language),
	})
	if err != nil {
		return nil, err
	}
	if len(resp.HotelReservations) == 0 {
		return &models.CancellationResult{
			BookingNumber: args.BookingNumber,
			Status:        "error_unexpected_response",
			Message:       "The cancellation attempt produced an unexpected provider response.",
		}, nil
	}

	status := resp.HotelReservations[0].Status
	result := &models.CancellationResult{BookingNumber: args.BookingNumber, Status: status}
	if strings.EqualFold(status, "cancelled") {
		result.Message = "The booking was cancelled successfully."
		logger.Info("Reservation cancelled", zap.String("number", args.BookingNumber))
	} else {
		result.Message = fmt.Sprintf("The booking is now in status %q after the cancellation attempt.", status)
		logger.Warn("Cancellation attempt left booking in unexpected status",
			zap.String("number", args.BookingNumber), zap.String("status", status))
	}
	return result, nil
}
