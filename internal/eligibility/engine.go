package eligibility

import (
	"math"

	id "relomate/pkg/domain"
	dErrors "relomate/pkg/domain-errors"
)

// gatingRule is one binary eligibility check. Rules are independent: every
// rule is evaluated on every call so the verdict carries one reason per
// failed rule, never just the first.
type gatingRule struct {
	name   string
	fails  func(AnswerSet) bool
	reason string
}

// gatingRules in presentation order. Citizenship visa-exempt, special
// regulation, and work experience never gate; they only shape the score.
var gatingRules = []gatingRule{
	{
		name:   "stay_duration",
		fails:  func(a AnswerSet) bool { return a.StayLongerThan90Days != id.StayYes },
		reason: "You must intend to stay in Germany for longer than 90 days.",
	},
	{
		name:  "citizenship",
		fails: func(a AnswerSet) bool { return a.Citizenship == id.CitizenshipEUCountry },
		// Kept as a hard failure to match the questionnaire's historical
		// behavior, even though "EU citizen" really means the visa is not
		// needed rather than refused.
		reason: "EU citizens do not need a work visa for Germany.",
	},
	{
		name: "english_level",
		fails: func(a AnswerSet) bool {
			return a.EnglishLevel == id.EnglishNone || a.EnglishLevel == id.EnglishLearning
		},
		reason: "Professional working English is required for the roles we place.",
	},
	{
		name: "job_offer",
		fails: func(a AnswerSet) bool {
			return a.JobOffer == id.JobOfferNothingMentioned || a.JobOffer == id.JobOfferSearchInGermany
		},
		reason: "You need a binding job offer before the visa application can be filed.",
	},
	{
		name:   "education",
		fails:  func(a AnswerSet) bool { return a.Education == id.EducationNone },
		reason: "A qualifying degree, vocational training, or documented IT experience is required.",
	},
	{
		name: "degree_recognition",
		// Only meaningful when a qualification exists at all; with
		// education "none" the education rule already carries the failure.
		fails: func(a AnswerSet) bool {
			return a.Education != id.EducationNone &&
				a.EducationCountry == id.EducationOutsideGermany &&
				a.DegreeRecognized == id.DegreeRecognizedNo
		},
		reason: "A qualification obtained outside Germany must be recognized before applying.",
	},
}

// incompleteErr reports a contract violation: the engine was invoked before
// the wizard finished collecting answers. Field details are kept for logs.
func incompleteErr(fields map[string]string) error {
	return &dErrors.Error{
		Code:    dErrors.CodeInvariantViolation,
		Message: "answer set is incomplete",
		Fields:  fields,
	}
}

// Evaluate applies all gating rules to a complete answer set.
//
// Errors: CodeInvariantViolation when the answer set is incomplete. The
// wizard collects all nine answers before evaluation, so an incomplete set
// here is a programming error, not user input to be tolerated.
func Evaluate(answers AnswerSet) (Verdict, error) {
	if fields := answers.Validate(); fields != nil {
		return Verdict{}, incompleteErr(fields)
	}
	return evaluate(answers), nil
}

func evaluate(answers AnswerSet) Verdict {
	verdict := Verdict{Eligible: true, Reasons: []string{}}
	for _, rule := range gatingRules {
		if rule.fails(answers) {
			verdict.Eligible = false
			verdict.Reasons = append(verdict.Reasons, rule.reason)
		}
	}
	if verdict.Eligible {
		verdict.Recommendation = RecommendationEligible
	} else {
		verdict.Recommendation = RecommendationIneligible
	}
	return verdict
}

// Per-answer score credits. Each of the nine questions is an equal-weight
// bucket worth 100/9 points; the credit scales the bucket. The score is
// deliberately independent of the binary gate: basic English earns 70% of
// its bucket even though it fails the gating rule.
var (
	stayCredit = map[id.StayDuration]float64{
		id.StayYes: 1, id.StayNo: 0,
	}
	citizenshipCredit = map[id.Citizenship]float64{
		id.CitizenshipNonEU: 1, id.CitizenshipVisaExempt: 1, id.CitizenshipEUCountry: 0,
	}
	englishCredit = map[id.EnglishLevel]float64{
		id.EnglishFluent: 1, id.EnglishBasic: 0.7, id.EnglishLearning: 0, id.EnglishNone: 0,
	}
	jobOfferCredit = map[id.JobOffer]float64{
		id.JobOfferHave: 1, id.JobOfferGetting: 0.7, id.JobOfferSearchInGermany: 0.2, id.JobOfferNothingMentioned: 0,
	}
	educationCredit = map[id.Education]float64{
		id.EducationUniversityDegree:   1,
		id.EducationVocationalTraining: 0.9,
		id.EducationTertiary:           0.8,
		id.EducationITExperience3y:     0.8,
		id.EducationITExperience2y:     0.6,
		id.EducationNone:               0,
	}
	// A special regulation is an alternative route, not a requirement:
	// answering "none" costs nothing.
	regulationCredit = map[id.SpecialRegulation]float64{
		id.RegulationInternalTransfer: 1, id.RegulationPlacementAgreement: 1, id.RegulationNone: 1,
	}
	educationCountryCredit = map[id.EducationCountry]float64{
		id.EducationInGermany: 1, id.EducationOutsideGermany: 0.5,
	}
	degreeRecognizedCredit = map[id.DegreeRecognized]float64{
		id.DegreeRecognizedYes: 1, id.DegreeRecognizedNo: 0,
	}
	experienceCredit = map[id.WorkExperience]float64{
		id.Experience3Plus: 1, id.Experience0To2: 0.4,
	}
)

// Score computes the weighted confidence score in [0, 100] for a complete
// answer set. The score may diverge from the verdict: a single failed
// gating rule zeroes at most its own bucket.
//
// Errors: CodeInvariantViolation when the answer set is incomplete.
func Score(answers AnswerSet) (int, error) {
	if fields := answers.Validate(); fields != nil {
		return 0, incompleteErr(fields)
	}

	credits := stayCredit[answers.StayLongerThan90Days] +
		citizenshipCredit[answers.Citizenship] +
		englishCredit[answers.EnglishLevel] +
		jobOfferCredit[answers.JobOffer] +
		educationCredit[answers.Education] +
		regulationCredit[answers.SpecialRegulation] +
		educationCountryCredit[answers.EducationCountry] +
		degreeRecognizedCredit[answers.DegreeRecognized] +
		experienceCredit[answers.WorkExperience]

	score := int(math.Round(credits * 100 / float64(id.VisaQuestionCount)))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, nil
}
