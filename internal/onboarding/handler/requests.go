package handler

import (
	"time"

	"relomate/internal/onboarding"
)

type setRelocationTypeRequest struct {
	RelocationType string `json:"relocationType"`
}

type personalDetailsRequest struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Country    string `json:"country"`
	Profession string `json:"profession"`
}

func (r personalDetailsRequest) toModel() onboarding.PersonalDetails {
	return onboarding.PersonalDetails{
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Email:      r.Email,
		Phone:      r.Phone,
		Country:    r.Country,
		Profession: r.Profession,
	}
}

type visaAnswerRequest struct {
	Question int    `json:"question"`
	Answer   string `json:"answer"`
}

type paymentRequest struct {
	Provider  string `json:"provider"`
	Reference string `json:"reference"`
	Plan      string `json:"plan"`
}

func (r paymentRequest) toModel() onboarding.PaymentDetails {
	return onboarding.PaymentDetails{
		Provider:  onboarding.PaymentProvider(r.Provider),
		Reference: r.Reference,
		Plan:      r.Plan,
	}
}

type callRequest struct {
	ScheduledAt time.Time `json:"scheduledAt"`
	Timezone    string    `json:"timezone"`
	Notes       string    `json:"notes"`
}

func (r callRequest) toModel() onboarding.CallDetails {
	return onboarding.CallDetails{
		ScheduledAt: r.ScheduledAt,
		Timezone:    r.Timezone,
		Notes:       r.Notes,
	}
}

type documentRequest struct {
	Type      string `json:"type"`
	ObjectKey string `json:"objectKey"`
	SizeBytes int64  `json:"sizeBytes"`
}

type documentsRequest struct {
	Documents []documentRequest `json:"documents"`
}

func (r documentsRequest) toModel() []onboarding.Document {
	docs := make([]onboarding.Document, 0, len(r.Documents))
	for _, d := range r.Documents {
		docs = append(docs, onboarding.Document{
			Type:      d.Type,
			ObjectKey: d.ObjectKey,
			SizeBytes: d.SizeBytes,
		})
	}
	return docs
}
