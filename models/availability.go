package models

// HotelRef identifies a hotel on the distribution API.
type HotelRef struct {
	Code         string `json:"code"`
	Name         string `json:"name,omitempty"`
	StayUnitKind string `json:"stay_unit_kind,omitempty"`
}

// TaxItem is a single tax or fee included in a price.
type TaxItem struct {
	Amount float64 `json:"amount"`
	Code   string  `json:"code"`
}

// DiscountInfo carries pre-discount prices alongside the discount amount.
type DiscountInfo struct {
	BasicBeforeTax float64 `json:"basic_before_tax"`
	BasicAfterTax  float64 `json:"basic_after_tax"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency,omitempty"`
}

// PriceInfo is a price with taxes, as the provider returns it.
type PriceInfo struct {
	PriceBeforeTax float64       `json:"price_before_tax"`
	PriceAfterTax  float64       `json:"price_after_tax"`
	Currency       string        `json:"currency"`
	Taxes          []TaxItem     `json:"taxes,omitempty"`
	Discount       *DiscountInfo `json:"discount,omitempty"`
}

// GuaranteeInfo is one payment/guarantee method attached to an offer.
type GuaranteeInfo struct {
	Code                 string `json:"code"`
	PrimaryGuaranteeCode string `json:"primary_guarantee_code,omitempty"`
	Type                 string `json:"type"`
	PaymentSystemCode    string `json:"payment_system_code,omitempty"`
	Name                 string `json:"name,omitempty"`
	PaymentURL           string `json:"payment_url,omitempty"`
}

// DateRangeStay holds arrival/departure as "YYYY-MM-DD HH:MM:SS" strings,
// exactly as the provider serializes them.
type DateRangeStay struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// AvailabilityCriterionHotel names one hotel inside a search criterion.
type AvailabilityCriterionHotel struct {
	Code string `json:"code"`
}

// AvailabilityCriterion is one search criterion of a hotel_availability request.
// Dates is "YYYY-MM-DD;YYYY-MM-DD"; Children is a comma-separated age list.
type AvailabilityCriterion struct {
	Ref      string                       `json:"ref"`
	Hotels   []AvailabilityCriterionHotel `json:"hotels"`
	Dates    string                       `json:"dates"`
	Adults   int                          `json:"adults"`
	Children string                       `json:"children,omitempty"`
}

// AvailabilityRequest is the full hotel_availability query. It is sent as
// flattened indexed query parameters, not as a JSON body.
type AvailabilityRequest struct {
	Language               string
	Currency               string
	IncludeRates           bool
	IncludeTransfers       bool
	IncludeAllPlacements   bool
	IncludePromoRestricted bool
	Criterions             []AvailabilityCriterion
}

// PlacementPrice prices a single guest placement inside a room type.
type PlacementPrice struct {
	Index          int           `json:"index"`
	PriceBeforeTax float64       `json:"price_before_tax"`
	PriceAfterTax  float64       `json:"price_after_tax"`
	Kind           string        `json:"kind"`
	Code           string        `json:"code"`
	Capacity       int           `json:"capacity"`
	Currency       string        `json:"currency"`
	Taxes          []TaxItem     `json:"taxes,omitempty"`
	Discount       *DiscountInfo `json:"discount,omitempty"`
	AgeGroup       any           `json:"age_group,omitempty"`
}

// RoomTypeAvailability is one bookable room category within an offer.
type RoomTypeAvailability struct {
	Placements            []PlacementPrice `json:"placements"`
	Code                  string           `json:"code"`
	Quantity              *int             `json:"quantity,omitempty"`
	LimitedInventoryCount *int             `json:"limited_inventory_count,omitempty"`
	RoomTypeQuotaRPH      string           `json:"room_type_quota_rph,omitempty"`
}

// CancelPenalty describes one cancellation penalty rule.
type CancelPenalty struct {
	Code             string           `json:"code"`
	Description      string           `json:"description"`
	Deadline         map[string]any   `json:"deadline,omitempty"`
	TimeMatch        map[string]any   `json:"time_match,omitempty"`
	GuestsCountMatch map[string]any   `json:"guests_count_match,omitempty"`
	RoomsCountMatch  map[string]any   `json:"rooms_count_match,omitempty"`
	Periods          []map[string]any `json:"periods,omitempty"`
	Penalty          map[string]any   `json:"penalty,omitempty"`
}

// CancelPenaltyGroup groups cancellation penalties for a rate plan.
type CancelPenaltyGroup struct {
	Code             string          `json:"code"`
	Description      string          `json:"description"`
	FreeCancellation *bool           `json:"free_cancellation,omitempty"`
	ShowDescription  bool            `json:"show_description"`
	CancelPenalties  []CancelPenalty `json:"cancel_penalties,omitempty"`
}

// RatePlanAvailability is one rate plan attached to an offer.
type RatePlanAvailability struct {
	Code               string             `json:"code"`
	CancelPenaltyGroup CancelPenaltyGroup `json:"cancel_penalty_group"`
	Promo              bool               `json:"promo"`
}

// PlacementRef points at a placement by its index.
type PlacementRef struct {
	Index int `json:"index"`
}

// RatePlacement identifies the placement a daily rate applies to.
type RatePlacement struct {
	Index int    `json:"index"`
	Kind  string `json:"kind"`
	Code  string `json:"code"`
}

// DailyRate is the per-day price of one placement.
type DailyRate struct {
	Date          string    `json:"date"`
	PriceAfterTax float64   `json:"price_after_tax"`
	Currency      string    `json:"currency"`
	Taxes         []TaxItem `json:"taxes,omitempty"`
}

// PlacementRate binds a placement to its room type, rate plan and daily rates.
type PlacementRate struct {
	RoomTypeCode string        `json:"room_type_code"`
	RatePlanCode string        `json:"rate_plan_code"`
	Placement    RatePlacement `json:"placement"`
	Rates        []DailyRate   `json:"rates"`
}

// GuestCount is one guest group of an offer: how many guests of which kind
// occupy the placement it references.
type GuestCount struct {
	Placement         PlacementRef `json:"placement"`
	Count             int          `json:"count"`
	Age               *int         `json:"age,omitempty"`
	AgeQualifyingCode string       `json:"age_qualifying_code,omitempty"`
	Ref               string       `json:"ref,omitempty"`
}

// ServiceRef references a service by its placeholder number.
type ServiceRef struct {
	RPH               int    `json:"rph"`
	ApplicabilityType string `json:"applicability_type,omitempty"`
}

// RoomStay is one complete bookable offer as returned by hotel_availability.
// It is the unit cached by the offer store and later replayed by the
// reservation mapper.
type RoomStay struct {
	HotelRef       HotelRef               `json:"hotel_ref"`
	Guests         []GuestCount           `json:"guests"`
	RoomTypes      []RoomTypeAvailability `json:"room_types"`
	RatePlans      []RatePlanAvailability `json:"rate_plans"`
	PlacementRates []PlacementRate        `json:"placement_rates"`
	CriterionRef   string                 `json:"criterion_ref"`
	Total          PriceInfo              `json:"total"`
	Services       []ServiceRef           `json:"services,omitempty"`
	StayDates      DateRangeStay          `json:"stay_dates"`
	Guarantees     []GuaranteeInfo        `json:"guarantees"`
	Transfers      []map[string]any       `json:"transfers,omitempty"`
}

// AvailabilityResultMessage carries per-criterion no-availability notes.
type AvailabilityResultMessage struct {
	CriterionRef                  string `json:"criterion_ref,omitempty"`
	NoRoomTypeAvailabilityMessage string `json:"no_room_type_availability_message,omitempty"`
}

// ErrorDetail is an application-level error embedded in a provider response.
type ErrorDetail struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
	Lang      string `json:"lang,omitempty"`
	Info      string `json:"info,omitempty"`
	Location  string `json:"location,omitempty"`
}

// WarningDetail mirrors ErrorDetail for non-fatal notices.
type WarningDetail struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
	Lang      string `json:"lang,omitempty"`
	Info      string `json:"info,omitempty"`
	Location  string `json:"location,omitempty"`
}

// AvailabilityResponse is the hotel_availability response body.
type AvailabilityResponse struct {
	RoomStays          []RoomStay                  `json:"room_stays"`
	AvailabilityResult []AvailabilityResultMessage `json:"availability_result,omitempty"`
	Errors             []ErrorDetail               `json:"errors,omitempty"`
	Warnings           []WarningDetail             `json:"warnings,omitempty"`
}
