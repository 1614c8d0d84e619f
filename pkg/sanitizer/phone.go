package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is assumed for numbers written without a country code.
const DefaultRegion = "PH"

func NormalizePhone(phone string) string {
	return NormalizePhoneIn(phone, DefaultRegion)
}

// NormalizePhoneIn formats phone as E.164, reading national numbers in region.
func NormalizePhoneIn(phone, region string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	parsed, err := phonenumbers.Parse(phone, region)
	if err != nil {
		return phone
	}
	return phonenumbers.Format(parsed, phonenumbers.E164)
}
