package model

const (
	DocumentPassport       = "Passport"
	DocumentDriversLicense = "Driver's License"
	DocumentNationalID     = "National ID"
	DocumentVisa           = "Visa"
	DocumentOther          = "Other"
)

// BookingRequest is the traveller form. Adults and Children arrive as free
// text and are parsed leniently.
type BookingRequest struct {
	PackageID          string `json:"package_id" validate:"required"`
	IsLocal            bool   `json:"is_local"`
	FirstName          string `json:"first_name" validate:"required,min=1,max=100"`
	MiddleName         string `json:"middle_name" validate:"omitempty,max=100"`
	LastName           string `json:"last_name" validate:"required,min=1,max=100"`
	Age                string `json:"age" validate:"omitempty,numeric"`
	DateOfBirth        string `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	BirthPlace         string `json:"birth_place" validate:"omitempty,max=200"`
	Gender             string `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	Phone              string `json:"phone" validate:"required,min=5,max=32"`
	Email              string `json:"email" validate:"omitempty,email"`
	DocumentType       string `json:"document_type" validate:"required,document_type"`
	Passport           string `json:"passport" validate:"omitempty,max=64"`
	PassportExpiration string `json:"passport_expiration" validate:"omitempty,datetime=2006-01-02"`
	Nationality        string `json:"nationality" validate:"required,max=100"`
	Adults             string `json:"adults"`
	Children           string `json:"children"`
	Address            string `json:"address" validate:"omitempty,max=300"`
}

// BookingPayload is the body sent to the booking email function.
type BookingPayload struct {
	FirstName    string  `json:"firstName"`
	MiddleName   *string `json:"middleName"`
	LastName     string  `json:"lastName"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone"`
	Adults       int     `json:"adults"`
	Children     int     `json:"children"`
	DocumentType string  `json:"documentType"`
	Passport     *string `json:"passport"`
	Nationality  string  `json:"nationality"`
	Address      *string `json:"address"`
}

type BookingConfirmation struct {
	BookingID string         `json:"bookingId"`
	User      string         `json:"user"`
	Result    map[string]any `json:"result,omitempty"`
}

func DocumentTypes() []string {
	return []string{DocumentPassport, DocumentDriversLicense, DocumentNationalID, DocumentVisa, DocumentOther}
}
