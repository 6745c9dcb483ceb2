package booking

import (
	"fmt"
	"sort"
	"strings"

	"concierge/models"
	"concierge/utils"

	"go.uber.org/zap"
)

// MapperConfig carries the request-independent pieces of a reservation
// payload: language/currency defaults, payment redirect URLs and the point
// of sale identifying this integration.
type MapperConfig struct {
	Language          string
	SuccessURL        string
	DeclineURL        string
	POSSourceURL      string
	POSIntegrationKey string
	SubscribeEmail    bool
}

// BuildReservationRequest deterministically reconstructs a provider
// reservation request from a cached availability offer and the guest and
// customer details collected through dialog.
//
// The availability and reservation schemas index guest placements
// independently, so the offer's placements are re-indexed into a fresh
// contiguous 1-based space and every guest-group and guest reference is
// rewritten through that mapping. Guests are bound to placement slots
// positionally: each placement index is repeated once per guest it holds,
// and the caller-supplied guest list fills those slots in order.
func BuildReservationRequest(offer models.RoomStay, guests []models.GuestDetail, customer models.CustomerDetail, guaranteeCode string, cfg MapperConfig) (*models.ReservationRequest, error) {
	logger := utils.GetLogger()

	// Step 1: the supplied guest list must exactly fill the offer.
	capacity := 0
	for _, gc := range offer.Guests {
		capacity += gc.Count
	}
	if len(guests) != capacity {
		return nil, NewBookingError(CodeGuestCountMismatch,
			fmt.Sprintf("offer expects %d guests but %d were provided", capacity, len(guests)))
	}

	if len(offer.RoomTypes) == 0 || len(offer.RoomTypes[0].Placements) == 0 {
		return nil, NewBookingError(CodeMissingPlacementData, "cached offer has no room types or placements")
	}
	if len(offer.Guests) == 0 {
		return nil, NewBookingError(CodeMissingPlacementData, "cached offer has no guest groups")
	}
	if len(offer.RatePlans) == 0 {
		return nil, NewBookingError(CodeMissingPlacementData, "cached offer has no rate plans")
	}

	// Step 2: re-index placements into a contiguous 1-based space.
	placements := offer.RoomTypes[0].Placements
	reservationPlacements := make([]models.ReservationPlacement, 0, len(placements))
	codeToIndex := make(map[string]int, len(placements))
	for i, pp := range placements {
		idx := i + 1
		reservationPlacements = append(reservationPlacements, models.ReservationPlacement{
			Index: idx,
			Kind:  pp.Kind,
			Code:  pp.Code,
		})
		codeToIndex[pp.Code] = idx
	}

	// Step 3: aggregate guest groups per new placement index.
	type countAgg struct {
		count   int
		ageCode string
		ages    []int
	}
	aggByIndex := make(map[int]*countAgg)
	for _, gc := range offer.Guests {
		var matched *models.PlacementPrice
		for i := range placements {
			if placements[i].Index == gc.Placement.Index {
				matched = &placements[i]
				break
			}
		}
		if matched == nil {
			return nil, NewBookingError(CodeMissingPlacementData,
				fmt.Sprintf("guest group references placement index %d absent from the offer's placements", gc.Placement.Index))
		}
		newIdx := codeToIndex[matched.Code]

		ageCode := gc.AgeQualifyingCode
		if ageCode == "" {
			if gc.Age != nil {
				ageCode = "child"
			} else {
				ageCode = "adult"
			}
		}

		agg, ok := aggByIndex[newIdx]
		if !ok {
			agg = &countAgg{ageCode: ageCode}
			aggByIndex[newIdx] = agg
		}
		agg.count += gc.Count
		if gc.Age != nil {
			for range gc.Count {
				agg.ages = append(agg.ages, *gc.Age)
			}
		}
		if agg.ageCode != ageCode && !strings.Contains(strings.ToLower(agg.ageCode), "child") {
			agg.ageCode = ageCode
		}
	}

	indices := make([]int, 0, len(aggByIndex))
	for idx := range aggByIndex {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	guestCounts := make([]models.ReservationGuestCount, 0, len(indices))
	for _, idx := range indices {
		agg := aggByIndex[idx]
		var age *int
		if strings.Contains(strings.ToLower(agg.ageCode), "child") && len(agg.ages) > 0 {
			distinct := map[int]struct{}{}
			for _, a := range agg.ages {
				distinct[a] = struct{}{}
			}
			if len(distinct) > 1 {
				logger.Warn("Multiple child ages under one placement, sending the first",
					zap.Int("placement_index", idx), zap.Ints("ages", agg.ages))
			}
			first := agg.ages[0]
			age = &first
		}
		guestCounts = append(guestCounts, models.ReservationGuestCount{
			Count:             agg.count,
			AgeQualifyingCode: agg.ageCode,
			PlacementIndex:    idx,
			Age:               age,
		})
	}

	// Step 4: expand placements into one slot per guest and bind the
	// supplied guests positionally.
	var slots []int
	for _, rp := range reservationPlacements {
		for _, gc := range guestCounts {
			if gc.PlacementIndex == rp.Index {
				for range gc.Count {
					slots = append(slots, rp.Index)
				}
			}
		}
	}
	if len(slots) != len(guests) {
		return nil, NewBookingError(CodeSlotAssignmentInternal,
			fmt.Sprintf("prepared %d guest slots but %d guests were provided", len(slots), len(guests)))
	}

	reservationGuests := make([]models.ReservationGuest, 0, len(guests))
	for i, g := range guests {
		reservationGuests = append(reservationGuests, models.ReservationGuest{
			Placement:   models.PlacementRef{Index: slots[i]},
			FirstName:   g.FirstName,
			LastName:    g.LastName,
			MiddleName:  g.MiddleName,
			Citizenship: g.Citizenship,
		})
	}

	// Step 5: assemble the payload around the offer's stay dates, room type,
	// rate plan and currency.
	roomStay := models.ReservationRoomStay{
		StayDates: offer.StayDates,
		RoomTypes: []models.ReservationRoomType{{
			Code:        offer.RoomTypes[0].Code,
			Placements:  reservationPlacements,
			Preferences: []map[string]any{},
		}},
		RatePlans:      []models.ReservationRatePlan{{Code: offer.RatePlans[0].Code}},
		GuestCountInfo: models.ReservationGuestCountInfo{GuestCounts: guestCounts},
		Guests:         reservationGuests,
	}

	item := models.HotelReservationItem{
		HotelRef:  models.HotelRef{Code: offer.HotelRef.Code},
		RoomStays: []models.ReservationRoomStay{roomStay},
		Guarantee: models.ReservationGuarantee{
			Code:       guaranteeCode,
			SuccessURL: cfg.SuccessURL,
			DeclineURL: cfg.DeclineURL,
		},
		Customer: models.ReservationCustomer{
			FirstName:      customer.FirstName,
			LastName:       customer.LastName,
			MiddleName:     customer.MiddleName,
			Comment:        customer.Comment,
			ConfirmSMS:     false,
			SubscribeEmail: cfg.SubscribeEmail,
			ContactInfo: models.ContactInfo{
				Phones: []models.ContactPhone{{PhoneNumber: customer.Phone}},
				Emails: []models.ContactEmail{{EmailAddress: customer.Email}},
			},
		},
	}

	req := &models.ReservationRequest{
		Language:          cfg.Language,
		HotelReservations: []models.HotelReservationItem{item},
		Currency:          offer.Total.Currency,
	}
	if cfg.POSSourceURL != "" {
		req.PointOfSale = &models.PointOfSale{
			SourceURL:      cfg.POSSourceURL,
			IntegrationKey: cfg.POSIntegrationKey,
		}
	}
	return req, nil
}
