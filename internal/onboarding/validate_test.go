package onboarding

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validPersonalDetails() PersonalDetails {
	return PersonalDetails{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "+49 160 1234567",
		Country:   "UK",
	}
}

func TestPersonalDetailsValidate(t *testing.T) {
	assert.Nil(t, validPersonalDetails().Validate())

	tests := []struct {
		name   string
		mutate func(*PersonalDetails)
		field  string
	}{
		{"missing email", func(d *PersonalDetails) { d.Email = "" }, "email"},
		{"malformed email", func(d *PersonalDetails) { d.Email = "not-an-email" }, "email"},
		{"missing first name", func(d *PersonalDetails) { d.FirstName = "  " }, "firstName"},
		{"missing last name", func(d *PersonalDetails) { d.LastName = "" }, "lastName"},
		{"missing phone", func(d *PersonalDetails) { d.Phone = "" }, "phone"},
		{"missing country", func(d *PersonalDetails) { d.Country = "" }, "country"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			details := validPersonalDetails()
			tc.mutate(&details)
			fields := details.Validate()
			assert.Contains(t, fields, tc.field)
			assert.Len(t, fields, 1)
		})
	}
}

func TestPaymentDetailsValidate(t *testing.T) {
	assert.Nil(t, PaymentDetails{Provider: ProviderPayPal, Reference: "sub_123"}.Validate())
	assert.Nil(t, PaymentDetails{Provider: ProviderTilopay, Reference: "ord_456"}.Validate())

	fields := PaymentDetails{}.Validate()
	assert.Contains(t, fields, "provider")
	assert.Contains(t, fields, "reference")

	fields = PaymentDetails{Provider: "stripe", Reference: "x"}.Validate()
	assert.Equal(t, map[string]string{"provider": "must be one of: paypal, tilopay"}, fields)
}

func TestCallDetailsValidate(t *testing.T) {
	ok := CallDetails{ScheduledAt: time.Now().Add(48 * time.Hour), Timezone: "Europe/Berlin"}
	assert.Nil(t, ok.Validate())

	fields := CallDetails{}.Validate()
	assert.Contains(t, fields, "scheduledAt")
	assert.Contains(t, fields, "timezone")

	bad := CallDetails{ScheduledAt: time.Now(), Timezone: "Mars/Olympus"}
	assert.Equal(t, map[string]string{"timezone": "must be an IANA timezone name"}, bad.Validate())
}

func TestValidateDocuments(t *testing.T) {
	assert.Equal(t,
		map[string]string{"documents": "at least one document is required"},
		ValidateDocuments(nil))

	docs := []Document{
		{Type: "passport", ObjectKey: "docs/a.pdf"},
		{Type: "", ObjectKey: ""},
	}
	fields := ValidateDocuments(docs)
	assert.Contains(t, fields, "documents[1].type")
	assert.Contains(t, fields, "documents[1].objectKey")
	assert.NotContains(t, fields, "documents[0].type")

	docs[1] = Document{Type: "diploma", ObjectKey: "docs/b.pdf"}
	assert.Nil(t, ValidateDocuments(docs))
}
