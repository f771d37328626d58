package domain

import dErrors "relomate/pkg/domain-errors"

// Enumerations for the nine visa questionnaire answers. Each question has
// a fixed option list; parsing enforces the allowlist at the HTTP
// boundary so the eligibility engine only ever sees known values.

// StayDuration answers "will you stay longer than 90 days".
type StayDuration string

const (
	StayYes StayDuration = "yes"
	StayNo  StayDuration = "no"
)

// Citizenship answers the citizenship question.
type Citizenship string

const (
	CitizenshipNonEU      Citizenship = "non-eu"
	CitizenshipEUCountry  Citizenship = "eu-country"
	CitizenshipVisaExempt Citizenship = "visa-exempt"
)

// EnglishLevel answers the professional English question.
type EnglishLevel string

const (
	EnglishFluent   EnglishLevel = "fluent"
	EnglishBasic    EnglishLevel = "basic"
	EnglishLearning EnglishLevel = "learning"
	EnglishNone     EnglishLevel = "not-speak"
)

// JobOffer answers the employment situation question.
type JobOffer string

const (
	JobOfferHave             JobOffer = "have-job"
	JobOfferGetting          JobOffer = "getting-job"
	JobOfferSearchInGermany  JobOffer = "search-in-germany"
	JobOfferNothingMentioned JobOffer = "nothing-mentioned"
)

// Education answers the qualification question.
type Education string

const (
	EducationUniversityDegree   Education = "university-degree"
	EducationVocationalTraining Education = "vocational-training"
	EducationTertiary           Education = "tertiary-education"
	EducationITExperience2y     Education = "it-experience-2years"
	EducationITExperience3y     Education = "it-experience-3years"
	EducationNone               Education = "none"
)

// SpecialRegulation answers the special regulation question.
type SpecialRegulation string

const (
	RegulationInternalTransfer   SpecialRegulation = "internal-transfer"
	RegulationPlacementAgreement SpecialRegulation = "placement-agreement"
	RegulationNone               SpecialRegulation = "none"
)

// EducationCountry answers where the qualification was obtained.
type EducationCountry string

const (
	EducationInGermany      EducationCountry = "germany"
	EducationOutsideGermany EducationCountry = "outside-germany"
)

// DegreeRecognized answers whether a foreign degree is recognized in Germany.
type DegreeRecognized string

const (
	DegreeRecognizedYes DegreeRecognized = "yes"
	DegreeRecognizedNo  DegreeRecognized = "no"
)

// WorkExperience answers the years-of-experience question.
type WorkExperience string

const (
	Experience0To2  WorkExperience = "0-2"
	Experience3Plus WorkExperience = "3plus"
)

var (
	validStayDurations = map[StayDuration]bool{
		StayYes: true, StayNo: true,
	}
	validCitizenships = map[Citizenship]bool{
		CitizenshipNonEU: true, CitizenshipEUCountry: true, CitizenshipVisaExempt: true,
	}
	validEnglishLevels = map[EnglishLevel]bool{
		EnglishFluent: true, EnglishBasic: true, EnglishLearning: true, EnglishNone: true,
	}
	validJobOffers = map[JobOffer]bool{
		JobOfferHave: true, JobOfferGetting: true, JobOfferSearchInGermany: true, JobOfferNothingMentioned: true,
	}
	validEducations = map[Education]bool{
		EducationUniversityDegree: true, EducationVocationalTraining: true, EducationTertiary: true,
		EducationITExperience2y: true, EducationITExperience3y: true, EducationNone: true,
	}
	validSpecialRegulations = map[SpecialRegulation]bool{
		RegulationInternalTransfer: true, RegulationPlacementAgreement: true, RegulationNone: true,
	}
	validEducationCountries = map[EducationCountry]bool{
		EducationInGermany: true, EducationOutsideGermany: true,
	}
	validDegreeRecognized = map[DegreeRecognized]bool{
		DegreeRecognizedYes: true, DegreeRecognizedNo: true,
	}
	validWorkExperience = map[WorkExperience]bool{
		Experience0To2: true, Experience3Plus: true,
	}
)

func (v StayDuration) IsValid() bool      { return validStayDurations[v] }
func (v Citizenship) IsValid() bool       { return validCitizenships[v] }
func (v EnglishLevel) IsValid() bool      { return validEnglishLevels[v] }
func (v JobOffer) IsValid() bool          { return validJobOffers[v] }
func (v Education) IsValid() bool         { return validEducations[v] }
func (v SpecialRegulation) IsValid() bool { return validSpecialRegulations[v] }
func (v EducationCountry) IsValid() bool  { return validEducationCountries[v] }
func (v DegreeRecognized) IsValid() bool  { return validDegreeRecognized[v] }
func (v WorkExperience) IsValid() bool    { return validWorkExperience[v] }

// VisaQuestion identifies one of the nine questionnaire items, in the
// order the wizard presents them. The index doubles as the sub-step
// cursor inside the visa check step.
type VisaQuestion int

const (
	QuestionStayDuration VisaQuestion = iota
	QuestionCitizenship
	QuestionEnglishLevel
	QuestionJobOffer
	QuestionEducation
	QuestionSpecialRegulation
	QuestionEducationCountry
	QuestionDegreeRecognized
	QuestionWorkExperience

	// VisaQuestionCount is the total number of questionnaire items.
	VisaQuestionCount = int(QuestionWorkExperience) + 1
)

// Field returns the answer-set field name for the question, matching the
// keys used in validation errors and stored payloads.
func (q VisaQuestion) Field() string {
	switch q {
	case QuestionStayDuration:
		return "stayLongerThan90Days"
	case QuestionCitizenship:
		return "citizenship"
	case QuestionEnglishLevel:
		return "englishLevel"
	case QuestionJobOffer:
		return "jobOffer"
	case QuestionEducation:
		return "education"
	case QuestionSpecialRegulation:
		return "specialRegulation"
	case QuestionEducationCountry:
		return "educationCountry"
	case QuestionDegreeRecognized:
		return "degreeRecognized"
	case QuestionWorkExperience:
		return "workExperience"
	}
	return ""
}

// ParseVisaQuestion validates a question index from external input.
func ParseVisaQuestion(i int) (VisaQuestion, error) {
	if i < 0 || i >= VisaQuestionCount {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "question index out of range")
	}
	return VisaQuestion(i), nil
}
