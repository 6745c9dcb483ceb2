package models

// ReservationPlacement is a guest placement under the reservation index
// space. Indices here are assigned by the mapper and are contiguous from 1;
// they do not coincide with the availability placement indices.
type ReservationPlacement struct {
	Index int    `json:"index"`
	Kind  string `json:"kind"`
	Code  string `json:"code"`
}

// ReservationRoomType is one room category of a reservation request.
type ReservationRoomType struct {
	Code        string                 `json:"code"`
	Placements  []ReservationPlacement `json:"placements"`
	Preferences []map[string]any       `json:"preferences"`
}

// ReservationRatePlan references a rate plan by code.
type ReservationRatePlan struct {
	Code string `json:"code"`
}

// ReservationGuestCount aggregates guests of one kind on one placement index.
type ReservationGuestCount struct {
	Count             int    `json:"count"`
	AgeQualifyingCode string `json:"age_qualifying_code"`
	PlacementIndex    int    `json:"placement_index"`
	Age               *int   `json:"age,omitempty"`
}

// ReservationGuestCountInfo wraps the guest count list of a room stay.
type ReservationGuestCountInfo struct {
	GuestCounts []ReservationGuestCount `json:"guest_counts"`
	Adults      *int                    `json:"adults,omitempty"`
	Children    *int                    `json:"children,omitempty"`
}

// ReservationGuest is one named guest bound to a placement index.
type ReservationGuest struct {
	Placement   PlacementRef `json:"placement"`
	FirstName   string       `json:"first_name"`
	LastName    string       `json:"last_name"`
	MiddleName  string       `json:"middle_name,omitempty"`
	Citizenship string       `json:"citizenship,omitempty"`
	Sex         string       `json:"sex,omitempty"`
}

// ReservationService orders an auxiliary service by code.
type ReservationService struct {
	Code     string `json:"code"`
	Quantity *int   `json:"quantity,omitempty"`
}

// ReservationGuarantee selects a payment method and the redirect URLs the
// payment system sends the customer back to.
type ReservationGuarantee struct {
	Code       string `json:"code"`
	SuccessURL string `json:"success_url"`
	DeclineURL string `json:"decline_url"`
}

// ContactPhone and ContactEmail are the customer's contact channels.
type ContactPhone struct {
	PhoneNumber string `json:"phone_number"`
}

type ContactEmail struct {
	EmailAddress string `json:"email_address"`
}

// ContactInfo groups the customer's phones and emails.
type ContactInfo struct {
	Phones []ContactPhone `json:"phones"`
	Emails []ContactEmail `json:"emails"`
}

// ReservationCustomer is the person the booking is registered to.
type ReservationCustomer struct {
	FirstName      string      `json:"first_name"`
	LastName       string      `json:"last_name"`
	MiddleName     string      `json:"middle_name,omitempty"`
	Comment        string      `json:"comment,omitempty"`
	ConfirmSMS     bool        `json:"confirm_sms"`
	SubscribeEmail bool        `json:"subscribe_email"`
	ContactInfo    ContactInfo `json:"contact_info"`
}

// ReservationRoomStay is one room stay of a reservation request.
type ReservationRoomStay struct {
	StayDates      DateRangeStay             `json:"stay_dates"`
	RoomTypes      []ReservationRoomType     `json:"room_types"`
	RatePlans      []ReservationRatePlan     `json:"rate_plans"`
	GuestCountInfo ReservationGuestCountInfo `json:"guest_count_info"`
	Guests         []ReservationGuest        `json:"guests"`
	Services       []ReservationService      `json:"services,omitempty"`
}

// PointOfSale identifies the integration placing the reservation.
type PointOfSale struct {
	SourceURL      string `json:"source_url"`
	IntegrationKey string `json:"integration_key,omitempty"`
}

// HotelReservationItem is one hotel reservation of a request.
type HotelReservationItem struct {
	HotelRef  HotelRef              `json:"hotel_ref"`
	RoomStays []ReservationRoomStay `json:"room_stays"`
	Guarantee ReservationGuarantee  `json:"guarantee"`
	Customer  ReservationCustomer   `json:"customer"`
}

// ReservationRequest is the hotel_reservation_2 request body.
type ReservationRequest struct {
	Language          string                 `json:"language"`
	HotelReservations []HotelReservationItem `json:"hotel_reservations"`
	Currency          string                 `json:"currency"`
	PointOfSale       *PointOfSale           `json:"point_of_sale,omitempty"`
}

// ReservationGuaranteeStatus summarizes payment state of a created booking.
type ReservationGuaranteeStatus struct {
	Guarantees []GuaranteeInfo `json:"guarantees,omitempty"`
	Status     string          `json:"status"`
}

// ReservationResponseItem is one created booking in a reservation response.
// Only the fields the orchestration consumes are modelled; the provider
// returns a considerably larger echo of the request.
type ReservationResponseItem struct {
	Number           string                      `json:"number"`
	CancellationCode string                      `json:"cancellation_code"`
	Status           string                      `json:"status"`
	HotelRef         HotelRef                    `json:"hotel_ref"`
	GuaranteeInfo    *ReservationGuaranteeStatus `json:"guarantee_info,omitempty"`
	OrderURL         string                      `json:"order_url,omitempty"`
	Total            PriceInfo                   `json:"total"`
	CreateDate       string                      `json:"create_date,omitempty"`
}

// ReservationResponse is the hotel_reservation_2 response body.
type ReservationResponse struct {
	HotelReservations []ReservationResponseItem `json:"hotel_reservations,omitempty"`
	Errors            []ErrorDetail             `json:"errors,omitempty"`
	Warnings          []WarningDetail           `json:"warnings,omitempty"`
}

// CancelReason explains a cancellation. Code is a provider-defined reason
// code such as "cancellation_travel".
type CancelReason struct {
	Code string `json:"code"`
	Text string `json:"text,omitempty"`
}

// CancelVerification proves ownership of the booking being cancelled.
type CancelVerification struct {
	CancellationCode string `json:"cancellation_code"`
}

// CancelReservationRef names one booking to cancel.
type CancelReservationRef struct {
	Number       string             `json:"number"`
	Verification CancelVerification `json:"verification"`
}

// CancelRequest is the cancel_reservation_2 request body.
type CancelRequest struct {
	HotelReservationRefs []CancelReservationRef `json:"hotel_reservation_refs"`
	Reasons              []CancelReason         `json:"reasons,omitempty"`
	Language             string                 `json:"language"`
}

// CancelledReservation is one cancelled booking in the response.
type CancelledReservation struct {
	Number string `json:"number"`
	Status string `json:"status"`
}

// CancelResponse is the cancel_reservation_2 response body.
type CancelResponse struct {
	HotelReservations []CancelledReservation `json:"hotel_reservations,omitempty"`
	Errors            []ErrorDetail          `json:"errors,omitempty"`
	Warnings          []WarningDetail        `json:"warnings,omitempty"`
}
