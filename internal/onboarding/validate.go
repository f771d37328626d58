package onboarding

import (
	"net/mail"
	"strconv"
	"strings"
	"time"
)

// Per-step payload validation. Each Validate returns a map of field name
// to message, nil when the payload is acceptable. Handlers surface these
// maps verbatim so the UI can render field-level errors.

const required = "this field is required"

// Validate checks the personal-details payload.
func (d PersonalDetails) Validate() map[string]string {
	fields := make(map[string]string)
	if strings.TrimSpace(d.FirstName) == "" {
		fields["firstName"] = required
	}
	if strings.TrimSpace(d.LastName) == "" {
		fields["lastName"] = required
	}
	switch email := strings.TrimSpace(d.Email); {
	case email == "":
		fields["email"] = required
	default:
		if _, err := mail.ParseAddress(email); err != nil {
			fields["email"] = "must be a valid email address"
		}
	}
	if strings.TrimSpace(d.Phone) == "" {
		fields["phone"] = required
	}
	if strings.TrimSpace(d.Country) == "" {
		fields["country"] = required
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// Validate checks the payment payload.
func (p PaymentDetails) Validate() map[string]string {
	fields := make(map[string]string)
	if p.Provider == "" {
		fields["provider"] = required
	} else if !p.Provider.IsValid() {
		fields["provider"] = "must be one of: paypal, tilopay"
	}
	if strings.TrimSpace(p.Reference) == "" {
		fields["reference"] = required
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// Validate checks the schedule-call payload.
func (c CallDetails) Validate() map[string]string {
	fields := make(map[string]string)
	if c.ScheduledAt.IsZero() {
		fields["scheduledAt"] = required
	}
	switch tz := strings.TrimSpace(c.Timezone); {
	case tz == "":
		fields["timezone"] = required
	default:
		if _, err := time.LoadLocation(tz); err != nil {
			fields["timezone"] = "must be an IANA timezone name"
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// ValidateDocuments checks the documents payload: at least one document,
// each with a type and an object key. Errors are keyed documents[i].field
// so the UI can attach them to the matching upload row.
func ValidateDocuments(docs []Document) map[string]string {
	if len(docs) == 0 {
		return map[string]string{"documents": "at least one document is required"}
	}
	fields := make(map[string]string)
	for i, doc := range docs {
		if strings.TrimSpace(doc.Type) == "" {
			fields[docField(i, "type")] = required
		}
		if strings.TrimSpace(doc.ObjectKey) == "" {
			fields[docField(i, "objectKey")] = required
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func docField(i int, name string) string {
	return "documents[" + strconv.Itoa(i) + "]." + name
}
