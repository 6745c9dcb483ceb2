package intelligence

import (
	"encoding/json"
	"fmt"
	"strings"

	"concierge/models"
	"concierge/utils"

	"go.uber.org/zap"
)

// Resolved is a directive after validation against the session: either one
// typed tool invocation, or a clarification to relay to the user. Tool stays
// set alongside Clarification when the interpreter named a tool but its
// arguments were incomplete, so the engine can bias the next state.
type Resolved struct {
	Tool          string
	HotelInfo     *models.HotelInfoArgs
	Search        *models.SearchOptionsArgs
	Reserve       *models.CreateReservationArgs
	Cancel        *models.CancelReservationArgs
	Clarification string
}

const genericClarification = "Could you rephrase your request? I did not quite catch the details."

// Resolve enforces the trust rules on a raw directive. It never fails: every
// invalid shape degrades to a clarification, so the engine always has
// something to do with a turn.
func Resolve(d *models.Directive, sess *models.Session) *Resolved {
	logger := utils.GetLogger()

	if d == nil || (d.ToolName == "" && d.ClarificationNeeded == "") {
		logger.Warn("Directive named neither a tool nor a clarification, substituting fallback")
		return &Resolved{Clarification: genericClarification}
	}
	if d.ToolName == "" {
		return &Resolved{Clarification: d.ClarificationNeeded}
	}
	// A clarification alongside a tool means the interpreter still needs
	// input before that tool can run.
	if d.ClarificationNeeded != "" {
		return &Resolved{Tool: d.ToolName, Clarification: d.ClarificationNeeded}
	}

	switch d.ToolName {
	case models.ToolGetHotelPublicInfo:
		return resolveHotelInfo(d)
	case models.ToolSearchOptions:
		return resolveSearch(d)
	case models.ToolCreateReservation:
		return resolveReserve(d, sess)
	case models.ToolCancelReservation:
		return resolveCancel(d)
	default:
		logger.Warn("Directive named an unsupported tool", zap.String("tool", d.ToolName))
		return &Resolved{Clarification: fmt.Sprintf("I understood you want %q, but I cannot do that yet. I can show hotel info, search rooms, book and cancel reservations.", d.ToolName)}
	}
}

func resolveHotelInfo(d *models.Directive) *Resolved {
	var args models.HotelInfoArgs
	if clar := decodeArgs(d, &args); clar != "" {
		return &Resolved{Tool: d.ToolName, Clarification: clar}
	}
	return &Resolved{Tool: d.ToolName, HotelInfo: &args}
}

func resolveSearch(d *models.Directive) *Resolved {
	var args models.SearchOptionsArgs
	if clar := decodeArgs(d, &args); clar != "" {
		return &Resolved{Tool: d.ToolName, Clarification: clar}
	}

	var missing []string
	if args.CheckInDate == "" {
		missing = append(missing, "check-in date")
	}
	if args.CheckOutDate == "" {
		missing = append(missing, "check-out date")
	}
	if args.NumAdults <= 0 {
		missing = append(missing, "number of adults")
	}
	if len(missing) > 0 {
		return &Resolved{
			Tool:          d.ToolName,
			Clarification: "To search for rooms I still need: " + strings.Join(missing, ", ") + ".",
		}
	}
	return &Resolved{Tool: d.ToolName, Search: &args}
}

func resolveReserve(d *models.Directive, sess *models.Session) *Resolved {
	logger := utils.GetLogger()

	var args models.CreateReservationArgs
	if clar := decodeArgs(d, &args); clar != "" {
		return &Resolved{Tool: d.ToolName, Clarification: clar}
	}

	// The interpreter is never trusted to originate the option or guarantee
	// identifiers; whatever it sent is discarded.
	if args.BookingOptionID != "" && args.BookingOptionID != sess.SelectedOptionID {
		logger.Warn("Interpreter supplied a booking_option_id, overwriting from session",
			zap.String("supplied", args.BookingOptionID))
	}
	if args.GuaranteeCode != "" && args.GuaranteeCode != sess.SelectedGuaranteeCode {
		logger.Warn("Interpreter supplied a guarantee_code, overwriting from session",
			zap.String("supplied", args.GuaranteeCode))
	}
	args.BookingOptionID = sess.SelectedOptionID
	args.GuaranteeCode = sess.SelectedGuaranteeCode

	if args.BookingOptionID == "" || args.GuaranteeCode == "" {
		return &Resolved{
			Tool:          d.ToolName,
			Clarification: "Please pick one of the search results first, then I can take the booking details.",
		}
	}

	var missing []string
	if len(args.Guests) == 0 {
		missing = append(missing, "the guest names")
	}
	for i, g := range args.Guests {
		if g.FirstName == "" || g.LastName == "" {
			missing = append(missing, fmt.Sprintf("first and last name for guest %d", i+1))
		}
	}
	c := args.Customer
	if c.FirstName == "" || c.LastName == "" {
		missing = append(missing, "the booker's full name")
	}
	if c.Email == "" {
		missing = append(missing, "the booker's email")
	}
	if c.Phone == "" {
		missing = append(missing, "the booker's phone number")
	}
	if len(missing) > 0 {
		return &Resolved{
			Tool:          d.ToolName,
			Clarification: "To complete the booking I still need: " + strings.Join(missing, "; ") + ".",
		}
	}
	return &Resolved{Tool: d.ToolName, Reserve: &args}
}

func resolveCancel(d *models.Directive) *Resolved {
	var args models.CancelReservationArgs
	if clar := decodeArgs(d, &args); clar != "" {
		return &Resolved{Tool: d.ToolName, Clarification: clar}
	}

	var missing []string
	if args.BookingNumber == "" {
		missing = append(missing, "the booking number")
	}
	if args.CancellationCode == "" {
		missing = append(missing, "the cancellation code")
	}
	if len(missing) > 0 {
		return &Resolved{
			Tool:          d.ToolName,
			Clarification: "To cancel a booking I need " + strings.Join(missing, " and ") + ".",
		}
	}
	return &Resolved{Tool: d.ToolName, Cancel: &args}
}

// decodeArgs unmarshals the directive's raw arguments into the tool's
// parameter struct. A structural failure is reported as a clarification text
// naming the offending field where the decoder can tell.
func decodeArgs(d *models.Directive, out any) string {
	logger := utils.GetLogger()

	if len(d.Arguments) == 0 {
		logger.Warn("Directive named a tool without arguments", zap.String("tool", d.ToolName))
		return "It seems I did not get all the details for that. Could you restate your request?"
	}
	if err := json.Unmarshal(d.Arguments, out); err != nil {
		logger.Error("Directive arguments failed validation",
			zap.String("tool", d.ToolName), zap.Error(err))
		if typeErr, ok := err.(*json.UnmarshalTypeError); ok && typeErr.Field != "" {
			return fmt.Sprintf("I could not make sense of the %q value. Could you restate it?", typeErr.Field)
		}
		return "Some of the details did not come through correctly. Could you restate your request?"
	}
	return ""
}
