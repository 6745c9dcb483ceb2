package intelligence

import (
	"fmt"
	"strings"
	"time"

	"concierge/models"
)

const toolCatalogue = `Available tools:

Tool Name: 'get_hotel_public_info'
Description: Get general public information about a hotel (name, description, address, phone, services, room types). Call this first when the user asks general questions about the hotel or at the start of a conversation.
Fields:
  - 'hotel_code' (string, REQUIRED)
  - 'language' (string, optional)

Tool Name: 'search_booking_options'
Description: Search for available rooms. Requires check-in/out dates and number of adults; hotel code defaults to the current hotel. Children ages and a promocode or rate name are optional.
Fields:
  - 'hotel_code' (string, optional)
  - 'check_in_date' (string YYYY-MM-DD, REQUIRED)
  - 'check_out_date' (string YYYY-MM-DD, REQUIRED)
  - 'num_adults' (integer, REQUIRED)
  - 'children_ages' (array of integer, optional)
  - 'promocode_or_rate_name' (string, optional)

Tool Name: 'create_reservation'
Description: Create a reservation for the booking option the user already selected. Needs full guest and customer details. Never supply 'booking_option_id' or 'guarantee_code' yourself; the system injects them.
Fields:
  - 'guests' (array of {first_name, last_name, optional middle_name, optional citizenship, optional is_child, optional age}, REQUIRED)
  - 'customer' ({first_name, last_name, email, phone, optional comment}, REQUIRED)

Tool Name: 'cancel_reservation'
Description: Cancel an existing reservation. Requires the booking number and the cancellation code.
Fields:
  - 'booking_number' (string, REQUIRED)
  - 'cancellation_code' (string, REQUIRED)`

const responseContract = `Your response MUST be a single valid JSON object and nothing else:
{
  "tool_name": "tool_to_call_or_null",
  "arguments": { },
  "clarification_needed": "One clear question to the user if information is missing for the chosen tool, otherwise null. Never output placeholders or instructions to yourself."
}`

const workflowRules = `Workflow:
1. If hotel context is not yet retrieved and the conversation is starting, call get_hotel_public_info first.
2. For a room search, check_in_date, check_out_date and num_adults are mandatory. Take values from the latest message first, then the dialog history, then the current search parameters. If any are missing, set tool_name to null and ask for all missing ones in a single question.
3. When the bot is awaiting an option choice, the user's reply is their selection. Respond with tool_name null and ask for the guest names and the booker's full name, email and phone. The system tracks the selected option itself.
4. Call create_reservation only when every guest has a first and last name and the customer has first name, last name, email and phone. If anything is missing, ask only for the specific missing pieces.
5. If the user wants to cancel and provides both booking number and cancellation code, call cancel_reservation; otherwise ask for them.

General rules:
- Relative dates ("tomorrow", "for two nights") must be resolved to YYYY-MM-DD using the current date.
- Ask for one logical set of information at a time.
- Your JSON must be perfect, with no surrounding text.`

// BuildSystemPrompt renders the interpreter's system context for one turn:
// date anchors, the bounded dialog history, the session's accumulated slots
// and the tool catalogue.
func BuildSystemPrompt(sess *models.Session, defaultHotelCode, defaultLanguage string, now time.Time) string {
	var b strings.Builder

	b.WriteString("You are an expert hotel booking assistant. Understand the user's request, pick the correct tool, extract all parameters, and if anything is missing for the chosen tool ask a single clear clarification question.\n\n")
	fmt.Fprintf(&b, "Current date: %s. Current time: %s. Current year: %d.\n", now.Format("2006-01-02"), now.Format("15:04:05"), now.Year())
	fmt.Fprintf(&b, "Default hotel code: %s. Reply language: %s.\n\n", defaultHotelCode, defaultLanguage)

	if len(sess.DialogHistory) > 0 {
		b.WriteString("Previous conversation turns (most recent last):\n")
		for _, turn := range sess.DialogHistory {
			fmt.Fprintf(&b, "  - %s: %s\n", turn.Role, turn.Content)
		}
	} else {
		b.WriteString("No previous conversation turns.\n")
	}
	b.WriteString("\n")

	b.WriteString(contextSection(sess, defaultHotelCode))
	b.WriteString("\n\n")
	b.WriteString(toolCatalogue)
	b.WriteString("\n\n")
	b.WriteString(responseContract)
	b.WriteString("\n\n")
	b.WriteString(workflowRules)

	return b.String()
}

func contextSection(sess *models.Session, defaultHotelCode string) string {
	parts := []string{"System context (use it to avoid redundant questions):"}

	if sess.HotelContext != nil && sess.HotelContext.Name != "" {
		hotel := []string{fmt.Sprintf("  Current hotel (code %s):", sess.HotelContext.HotelCode)}
		hotel = append(hotel, "    Name: "+sess.HotelContext.Name)
		if desc := sess.HotelContext.Description; desc != "" {
			if len(desc) > 150 {
				desc = desc[:150] + "..."
			}
			hotel = append(hotel, "    Description (summary): "+desc)
		}
		if len(sess.HotelContext.ServicesSummary) > 0 {
			hotel = append(hotel, "    Key services: "+strings.Join(sess.HotelContext.ServicesSummary, ", "))
		}
		parts = append(parts, strings.Join(hotel, "\n"))
	} else {
		parts = append(parts, fmt.Sprintf("  Current hotel: information not yet retrieved. Default hotel_code: %s.", defaultHotelCode))
	}

	if sc := sess.SearchContext; sc != nil {
		var slots []string
		if sc.CheckInDate != "" {
			slots = append(slots, "check_in_date: "+sc.CheckInDate)
		}
		if sc.CheckOutDate != "" {
			slots = append(slots, "check_out_date: "+sc.CheckOutDate)
		}
		if sc.Adults > 0 {
			slots = append(slots, fmt.Sprintf("num_adults: %d", sc.Adults))
		}
		if len(sc.ChildrenAges) > 0 {
			slots = append(slots, fmt.Sprintf("children_ages: %v", sc.ChildrenAges))
		}
		if len(slots) > 0 {
			parts = append(parts, "  Current search parameters (use if the user implies the same criteria): "+strings.Join(slots, ", ")+".")
		}
	} else {
		parts = append(parts, "  Current search parameters: not set.")
	}

	if sess.SelectedOptionID != "" {
		parts = append(parts, "  A booking option has already been selected by the user.")
	}
	if c := sess.CustomerContext; c != nil {
		parts = append(parts, fmt.Sprintf("  Previously provided customer info: %s %s, email %s, phone %s.",
			c.FirstName, c.LastName, c.Email, c.Phone))
	}

	action := string(sess.Action)
	if action == "" {
		action = string(models.ActionIdle)
	}
	parts = append(parts, "  Current bot action (what the bot is waiting for): "+action+".")

	return strings.Join(parts, "\n")
}
