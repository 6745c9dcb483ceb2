package models

// ImageDetail is a single image URL.
type ImageDetail struct {
	URL string `json:"url"`
}

// RoomTypeSize is the physical size of a room.
type RoomTypeSize struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Amenity is one amenity of a room type.
type Amenity struct {
	CategoryCode string `json:"category_code,omitempty"`
	Kind         string `json:"kind"`
	Name         string `json:"name"`
}

// AgeGroupRef references an age group definition by code.
type AgeGroupRef struct {
	Code string `json:"code"`
}

// HotelRoomType is the static catalogue entry for a room category.
type HotelRoomType struct {
	Code                     string        `json:"code"`
	Name                     string        `json:"name"`
	Description              string        `json:"description,omitempty"`
	Size                     *RoomTypeSize `json:"size,omitempty"`
	Amenities                []Amenity     `json:"amenities,omitempty"`
	Images                   []ImageDetail `json:"images,omitempty"`
	Kind                     string        `json:"kind"`
	MaxAdultOccupancy        *int          `json:"max_adult_occupancy,omitempty"`
	MaxExtraBedOccupancy     *int          `json:"max_extra_bed_occupancy,omitempty"`
	MaxOccupancy             *int          `json:"max_occupancy,omitempty"`
	ChildExtraBedAgeGroups   []AgeGroupRef `json:"child_extra_bed_age_groups,omitempty"`
	ChildWithoutBedAgeGroups []AgeGroupRef `json:"child_without_bed_age_groups,omitempty"`
}

// HotelService is a bookable auxiliary service (meals, parking, ...).
type HotelService struct {
	Code              string        `json:"code"`
	Name              string        `json:"name"`
	Description       string        `json:"description,omitempty"`
	ChargeType        string        `json:"charge_type"`
	Kind              string        `json:"kind"`
	MealPlanType      string        `json:"meal_plan_type,omitempty"`
	Images            []ImageDetail `json:"images,omitempty"`
	ApplicabilityType string        `json:"applicability_type,omitempty"`
}

// HotelRatePlan is the static catalogue entry for a rate plan.
type HotelRatePlan struct {
	Code               string             `json:"code"`
	Name               string             `json:"name"`
	Description        string             `json:"description,omitempty"`
	ShortDescription   string             `json:"short_description,omitempty"`
	Currency           string             `json:"currency,omitempty"`
	Images             []ImageDetail      `json:"images,omitempty"`
	Nonrefundable      *bool              `json:"nonrefundable,omitempty"`
	CancelPenaltyGroup CancelPenaltyGroup `json:"cancel_penalty_group"`
	FullPrepayment     *bool              `json:"full_prepayment,omitempty"`
	Promo              *bool              `json:"promo,omitempty"`
}

// HotelPolicy holds check-in/check-out times.
type HotelPolicy struct {
	CheckInTime  string `json:"check_in_time,omitempty"`
	CheckOutTime string `json:"check_out_time,omitempty"`
}

// HotelAddress is one postal address of a hotel.
type HotelAddress struct {
	PostalCode  string   `json:"postal_code,omitempty"`
	CountryCode string   `json:"country_code,omitempty"`
	Region      string   `json:"region,omitempty"`
	CityName    string   `json:"city_name,omitempty"`
	AddressLine []string `json:"address_line,omitempty"`
	Remark      string   `json:"remark,omitempty"`
	Latitude    string   `json:"latitude,omitempty"`
	Longitude   string   `json:"longitude,omitempty"`
}

// HotelPhone is one contact phone of a hotel.
type HotelPhone struct {
	PhoneNumber string `json:"phone_number"`
	Remark      string `json:"remark,omitempty"`
}

// HotelEmail is one contact email of a hotel.
type HotelEmail struct {
	EmailAddress string `json:"email_address"`
}

// HotelContactInfo groups a hotel's contact channels.
type HotelContactInfo struct {
	Addresses []HotelAddress `json:"addresses,omitempty"`
	Phones    []HotelPhone   `json:"phones,omitempty"`
	Emails    []HotelEmail   `json:"emails,omitempty"`
}

// HotelGuarantee is one guarantee method the hotel accepts.
type HotelGuarantee struct {
	Code                 string `json:"code"`
	PrimaryGuaranteeCode string `json:"primary_guarantee_code,omitempty"`
	PaymentSystemCode    string `json:"payment_system_code,omitempty"`
	Type                 string `json:"type"`
	Name                 string `json:"name,omitempty"`
}

// AgeGroupDefinition defines a child age group.
type AgeGroupDefinition struct {
	Code   string `json:"code"`
	MinAge int    `json:"min_age"`
	MaxAge int    `json:"max_age"`
}

// HotelDetail is the static metadata of one hotel from hotel_info. The
// orchestration uses it to resolve room-type and rate-plan display names,
// images, policy times, and age groups.
type HotelDetail struct {
	Code         string               `json:"code"`
	Name         string               `json:"name"`
	Type         string               `json:"type,omitempty"`
	Description  string               `json:"description,omitempty"`
	Stars        *float64             `json:"stars,omitempty"`
	Currency     string               `json:"currency,omitempty"`
	StayUnitKind string               `json:"stay_unit_kind,omitempty"`
	MinGuestAge  *int                 `json:"min_guest_age,omitempty"`
	Logo         *ImageDetail         `json:"logo,omitempty"`
	Images       []ImageDetail        `json:"images,omitempty"`
	ContactInfo  *HotelContactInfo    `json:"contact_info,omitempty"`
	Policy       *HotelPolicy         `json:"policy,omitempty"`
	RoomTypes    []HotelRoomType      `json:"room_types,omitempty"`
	Services     []HotelService       `json:"services,omitempty"`
	RatePlans    []HotelRatePlan      `json:"rate_plans,omitempty"`
	Guarantees   []HotelGuarantee     `json:"guarantees,omitempty"`
	AgeGroups    []AgeGroupDefinition `json:"age_groups,omitempty"`
}

// RoomTypeByCode resolves a room type from the catalogue.
func (h *HotelDetail) RoomTypeByCode(code string) *HotelRoomType {
	for i := range h.RoomTypes {
		if h.RoomTypes[i].Code == code {
			return &h.RoomTypes[i]
		}
	}
	return nil
}

// RatePlanByCode resolves a rate plan from the catalogue.
func (h *HotelDetail) RatePlanByCode(code string) *HotelRatePlan {
	for i := range h.RatePlans {
		if h.RatePlans[i].Code == code {
			return &h.RatePlans[i]
		}
	}
	return nil
}

// HotelInfoResponse is the hotel_info response body.
type HotelInfoResponse struct {
	Hotels   []HotelDetail   `json:"hotels"`
	Errors   []ErrorDetail   `json:"errors,omitempty"`
	Warnings []WarningDetail `json:"warnings,omitempty"`
}
