package models

import "encoding/json"

// Tool names the interpreter may emit.
const (
	ToolGetHotelPublicInfo = "get_hotel_public_info"
	ToolSearchOptions      = "search_booking_options"
	ToolCreateReservation  = "create_reservation"
	ToolCancelReservation  = "cancel_reservation"
)

// Directive is the interpreter's verdict for one user utterance: a tool
// invocation with arguments, a clarification question, or both at once, in
// which case the clarification is asked and the tool name only biases the
// session's parking state. Arguments stay raw until the dispatcher validates
// them against the tool's parameter struct.
type Directive struct {
	ToolName            string          `json:"tool_name,omitempty"`
	Arguments           json.RawMessage `json:"arguments,omitempty"`
	ClarificationNeeded string          `json:"clarification_needed,omitempty"`
}

// HotelInfoArgs are the arguments of get_hotel_public_info.
type HotelInfoArgs struct {
	HotelCode string `json:"hotel_code"`
	Language  string `json:"language,omitempty"`
}

// SearchOptionsArgs are the arguments of search_booking_options.
type SearchOptionsArgs struct {
	HotelCode           string `json:"hotel_code,omitempty"`
	CheckInDate         string `json:"check_in_date"`
	CheckOutDate        string `json:"check_out_date"`
	NumAdults           int    `json:"num_adults"`
	ChildrenAges        []int  `json:"children_ages,omitempty"`
	Language            string `json:"language,omitempty"`
	Currency            string `json:"currency,omitempty"`
	PromocodeOrRateName string `json:"promocode_or_rate_name,omitempty"`
}

// GuestDetail is one staying guest as supplied through dialog.
type GuestDetail struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	MiddleName  string `json:"middle_name,omitempty"`
	Citizenship string `json:"citizenship,omitempty"`
	IsChild     bool   `json:"is_child,omitempty"`
	Age         *int   `json:"age,omitempty"`
}

// CreateReservationArgs are the arguments of create_reservation. The option
// and guarantee identifiers are always overwritten from session state before
// dispatch; values produced by the interpreter are never trusted.
type CreateReservationArgs struct {
	BookingOptionID string         `json:"booking_option_id"`
	Guests          []GuestDetail  `json:"guests"`
	Customer        CustomerDetail `json:"customer"`
	GuaranteeCode   string         `json:"guarantee_code"`
	Language        string         `json:"language,omitempty"`
}

// CancelReservationArgs are the arguments of cancel_reservation.
type CancelReservationArgs struct {
	BookingNumber    string `json:"booking_number"`
	CancellationCode string `json:"cancellation_code"`
	Language         string `json:"language,omitempty"`
	ReasonCode       string `json:"reason_code,omitempty"`
	ReasonText       string `json:"reason_text,omitempty"`
}

// ReservationResult is the outcome of a create_reservation dispatch.
type ReservationResult struct {
	BookingNumber    string `json:"booking_number"`
	Status           string `json:"status"`
	CancellationCode string `json:"cancellation_code"`
	PaymentURL       string `json:"payment_url,omitempty"`
	OrderURL         string `json:"order_url,omitempty"`
	ErrorMessage     string `json:"error_message,omitempty"`
}

// CancellationResult is the outcome of a cancel_reservation dispatch.
type CancellationResult struct {
	BookingNumber string `json:"booking_number"`
	Status        string `json:"status"`
	Message       string `json:"message"`
}

// ChatRequest is the payload coming into POST /api/chat.
type ChatRequest struct {
	UserID string `json:"user_id"`
	Text   string `json:"text"`
}

// Button is one inline action offered alongside a reply. Exactly one of
// Data (callback payload) or URL is set.
type Button struct {
	Label string `json:"label"`
	Data  string `json:"data,omitempty"`
	URL   string `json:"url,omitempty"`
}

// PhotoAlbum is a group of image URLs with an optional caption.
type PhotoAlbum struct {
	Caption string   `json:"caption,omitempty"`
	URLs    []string `json:"urls"`
}

// Outbound is one transport-agnostic reply message. Transports render it as
// a chat JSON payload or as Telegram messages with inline keyboards.
type Outbound struct {
	Text    string       `json:"text"`
	Buttons []Button     `json:"buttons,omitempty"`
	Albums  []PhotoAlbum `json:"albums,omitempty"`
}

// ChatResponse is the reply of POST /api/chat: the rendered outbound
// messages plus the resulting session action for clients that track state.
type ChatResponse struct {
	Messages []Outbound `json:"messages"`
	Action   Action     `json:"action"`
}
