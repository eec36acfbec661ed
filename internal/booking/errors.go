package booking

import "fmt"

// Guard violation codes. These are field-scoped, recoverable states the client
// renders next to the offending input; they never escape the wizard as plain
// errors.
const (
	CodeSelectDate      = "SELECT_DATE"
	CodeInvalidDate     = "INVALID_DATE"
	CodePastDate        = "PAST_DATE"
	CodeLeadTimeDay     = "LEAD_TIME_DAY"
	CodeLeadTimeNight   = "LEAD_TIME_NIGHT"
	CodeAddressRequired = "ADDRESS_REQUIRED"
	CodeFlightRequired  = "FLIGHT_REQUIRED"
	CodeDetailsRequired = "DETAILS_REQUIRED"
	CodeNoVehicleFits   = "NO_VEHICLE_FITS"
	CodeVehicleRequired = "VEHICLE_REQUIRED"
	CodeVehicleTooSmall = "VEHICLE_TOO_SMALL"
	CodeInvalidEmail    = "INVALID_EMAIL"
	CodeInvalidPhone    = "INVALID_PHONE"
	CodeInvoiceCorpOnly = "INVOICE_CORPORATE_ONLY"
)

// Fields a guard violation can attach to.
const (
	FieldAddress = "address"
	FieldFlight  = "flight_number"
	FieldTime    = "time"
	FieldDetails = "details"
	FieldVehicle = "vehicle"
	FieldContact = "contact"
	FieldPayment = "payment_method"
)

// FieldError is a guard violation scoped to one input field.
type FieldError struct {
	Field string `json:"field"`
	Code  string `json:"code"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Code)
}

func fieldErr(field, code string) *FieldError {
	return &FieldError{Field: field, Code: code}
}
