package models

// Action is the conversational resting point a session is parked at between
// turns. It biases interpretation of the next user message.
type Action string

const (
	ActionIdle                  Action = "idle"
	ActionAwaitingClarification Action = "awaiting_clarification"
	ActionAwaitingOptionChoice  Action = "awaiting_option_choice"
	ActionAwaitingBookingData   Action = "awaiting_booking_details"
)

// DialogTurn is one utterance of the bounded dialog history. Role is "user",
// "assistant" or "assistant_clarification".
type DialogTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SearchContext accumulates the slots of an availability search across turns.
type SearchContext struct {
	HotelCode    string `json:"hotel_code,omitempty"`
	CheckInDate  string `json:"check_in_date,omitempty"`
	CheckOutDate string `json:"check_out_date,omitempty"`
	Adults       int    `json:"adults,omitempty"`
	ChildrenAges []int  `json:"children_ages,omitempty"`
	Promocode    string `json:"promocode,omitempty"`
}

// CustomerDetail is the booking customer as collected from dialog.
type CustomerDetail struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	MiddleName string `json:"middle_name,omitempty"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Comment    string `json:"comment,omitempty"`
}

// HotelSummary is the condensed hotel metadata kept on a session for the
// interpreter's context. It survives search resets.
type HotelSummary struct {
	HotelCode        string            `json:"hotel_code"`
	Name             string            `json:"name,omitempty"`
	Description      string            `json:"description,omitempty"`
	LogoURL          string            `json:"logo_url,omitempty"`
	Address          string            `json:"address,omitempty"`
	Phone            string            `json:"phone,omitempty"`
	CheckInTime      string            `json:"check_in_time,omitempty"`
	CheckOutTime     string            `json:"check_out_time,omitempty"`
	ServicesSummary  []string          `json:"services_summary,omitempty"`
	RoomTypesSummary []RoomTypeSummary `json:"room_types_summary,omitempty"`
}

// RoomTypeSummary is a name/code pair for the interpreter's hotel context.
type RoomTypeSummary struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// DisplayedOption is the presentation record of one search result shown to
// the user. Session-scoped working data for the option-choice state; the
// authoritative offer lives in the offer cache under OptionID.
type DisplayedOption struct {
	OptionID       string   `json:"option_id"`
	Ordinal        int      `json:"ordinal"`
	SummaryText    string   `json:"summary_text"`
	RoomTypeName   string   `json:"room_type_name,omitempty"`
	RatePlanName   string   `json:"rate_plan_name,omitempty"`
	PriceAfterTax  float64  `json:"price_after_tax"`
	Currency       string   `json:"currency"`
	GuestsSummary  string   `json:"guests_summary,omitempty"`
	CancelPolicy   string   `json:"cancel_policy,omitempty"`
	GuaranteeCodes []string `json:"guarantee_codes,omitempty"`
	ImageURLs      []string `json:"image_urls,omitempty"`
}

// Session is the per-user conversational state. All fields are process
// memory; nothing is persisted.
type Session struct {
	UserID                string            `json:"user_id"`
	Action                Action            `json:"action"`
	DialogHistory         []DialogTurn      `json:"dialog_history"`
	HotelContext          *HotelSummary     `json:"hotel_context,omitempty"`
	SearchContext         *SearchContext    `json:"search_context,omitempty"`
	DisplayedOptions      []DisplayedOption `json:"displayed_options,omitempty"`
	SelectedOptionID      string            `json:"selected_option_id,omitempty"`
	SelectedGuaranteeCode string            `json:"selected_guarantee_code,omitempty"`
	CustomerContext       *CustomerDetail   `json:"customer_context,omitempty"`
}

// AppendTurn records a dialog turn, evicting the oldest once the history
// exceeds maxLen.
func (s *Session) AppendTurn(role, content string, maxLen int) {
	s.DialogHistory = append(s.DialogHistory, DialogTurn{Role: role, Content: content})
	if maxLen > 0 && len(s.DialogHistory) > maxLen {
		s.DialogHistory = s.DialogHistory[len(s.DialogHistory)-maxLen:]
	}
}

// ResetSearch drops the active search, displayed options and selection.
// The hotel context is kept unless keepHotel is false.
func (s *Session) ResetSearch(keepHotel bool) {
	s.SearchContext = nil
	s.DisplayedOptions = nil
	s.SelectedOptionID = ""
	s.SelectedGuaranteeCode = ""
	if !keepHotel {
		s.HotelContext = nil
	}
	s.Action = ActionIdle
}

// OptionByOrdinal finds a displayed option by its 1-based list position.
func (s *Session) OptionByOrdinal(n int) *DisplayedOption {
	for i := range s.DisplayedOptions {
		if s.DisplayedOptions[i].Ordinal == n {
			return &s.DisplayedOptions[i]
		}
	}
	return nil
}

// OptionByID finds a displayed option by its opaque identifier.
func (s *Session) OptionByID(id string) *DisplayedOption {
	for i := range s.DisplayedOptions {
		if s.DisplayedOptions[i].OptionID == id {
			return &s.DisplayedOptions[i]
		}
	}
	return nil
}
