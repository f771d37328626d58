// Package eligibility implements the visa eligibility rule engine: pure,
// deterministic evaluation of the nine-question answer set into a verdict
// and a separate weighted score.
//
// The engine performs no I/O. Callers (the onboarding service) are
// responsible for persisting the verdict; it is stored once and never
// recomputed.
package eligibility

import (
	id "relomate/pkg/domain"
)

// AnswerSet is the fully-populated nine-question questionnaire.
// Evaluate and Score require every field to hold a valid enum value;
// use Validate to enforce that precondition at the boundary.
type AnswerSet struct {
	StayLongerThan90Days id.StayDuration      `json:"stayLongerThan90Days"`
	Citizenship          id.Citizenship       `json:"citizenship"`
	EnglishLevel         id.EnglishLevel      `json:"englishLevel"`
	JobOffer             id.JobOffer          `json:"jobOffer"`
	Education            id.Education         `json:"education"`
	SpecialRegulation    id.SpecialRegulation `json:"specialRegulation"`
	EducationCountry     id.EducationCountry  `json:"educationCountry"`
	DegreeRecognized     id.DegreeRecognized  `json:"degreeRecognized"`
	WorkExperience       id.WorkExperience    `json:"workExperience"`
}

// Validate checks that every question has a valid answer. Returns a map of
// field name to message for each missing or unknown value; nil when the
// set is complete.
func (a AnswerSet) Validate() map[string]string {
	fields := make(map[string]string)
	check := func(field string, ok bool) {
		if !ok {
			fields[field] = "a valid answer is required"
		}
	}
	check("stayLongerThan90Days", a.StayLongerThan90Days.IsValid())
	check("citizenship", a.Citizenship.IsValid())
	check("englishLevel", a.EnglishLevel.IsValid())
	check("jobOffer", a.JobOffer.IsValid())
	check("education", a.Education.IsValid())
	check("specialRegulation", a.SpecialRegulation.IsValid())
	check("educationCountry", a.EducationCountry.IsValid())
	check("degreeRecognized", a.DegreeRecognized.IsValid())
	check("workExperience", a.WorkExperience.IsValid())
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// Answer records the given question's answer on the set. Returns false
// when the value is not a member of the question's option list.
func (a *AnswerSet) Answer(q id.VisaQuestion, value string) bool {
	switch q {
	case id.QuestionStayDuration:
		v := id.StayDuration(value)
		if !v.IsValid() {
			return false
		}
		a.StayLongerThan90Days = v
	case id.QuestionCitizenship:
		v := id.Citizenship(value)
		if !v.IsValid() {
			return false
		}
		a.Citizenship = v
	case id.QuestionEnglishLevel:
		v := id.EnglishLevel(value)
		if !v.IsValid() {
			return false
		}
		a.EnglishLevel = v
	case id.QuestionJobOffer:
		v := id.JobOffer(value)
		if !v.IsValid() {
			return false
		}
		a.JobOffer = v
	case id.QuestionEducation:
		v := id.Education(value)
		if !v.IsValid() {
			return false
		}
		a.Education = v
	case id.QuestionSpecialRegulation:
		v := id.SpecialRegulation(value)
		if !v.IsValid() {
			return false
		}
		a.SpecialRegulation = v
	case id.QuestionEducationCountry:
		v := id.EducationCountry(value)
		if !v.IsValid() {
			return false
		}
		a.EducationCountry = v
	case id.QuestionDegreeRecognized:
		v := id.DegreeRecognized(value)
		if !v.IsValid() {
			return false
		}
		a.DegreeRecognized = v
	case id.QuestionWorkExperience:
		v := id.WorkExperience(value)
		if !v.IsValid() {
			return false
		}
		a.WorkExperience = v
	default:
		return false
	}
	return true
}

// Verdict is the outcome of evaluating a complete answer set.
// Eligible is the binary gate result; Reasons lists one message per
// failed gating rule in rule order, empty when eligible. Recommendation
// depends only on the final boolean, never on which rules failed.
type Verdict struct {
	Eligible       bool     `json:"eligible"`
	Reasons        []string `json:"reasons"`
	Recommendation string   `json:"recommendation"`
}

// Canned recommendation messages. These are the only two values
// Recommendation ever takes.
const (
	RecommendationEligible = "Based on your answers you appear to qualify for the EU Blue Card. " +
		"Book your consultation call and we will walk you through the application."
	RecommendationIneligible = "Based on your answers you do not currently meet the EU Blue Card requirements. " +
		"Our consultants can review your situation and map out a path to eligibility."
)
