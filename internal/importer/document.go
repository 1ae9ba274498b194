package importer

import "killtest/internal/model"

// Document is the structured idea write-up accepted by bulk import.
// Every field is optional; mapping skips anything absent.
type Document struct {
	Meta *struct {
		SchemaVersion   string `json:"schema_version,omitempty" yaml:"schema_version,omitempty"`
		Language        string `json:"language,omitempty" yaml:"language,omitempty"`
		CreatedWith     string `json:"created_with,omitempty" yaml:"created_with,omitempty"`
		ConfidenceLevel string `json:"confidence_level,omitempty" yaml:"confidence_level,omitempty"`
	} `json:"meta,omitempty" yaml:"meta,omitempty"`

	IdeaDefinition *IdeaDefinition `json:"idea_definition,omitempty" yaml:"idea_definition,omitempty"`
	Customer       *Customer       `json:"customer,omitempty" yaml:"customer,omitempty"`
	CoreWorkflow   *CoreWorkflow   `json:"core_workflow,omitempty" yaml:"core_workflow,omitempty"`
	ValueAndMoney  *ValueAndMoney  `json:"value_and_money,omitempty" yaml:"value_and_money,omitempty"`
	Platform       *Platform       `json:"platform_and_dependencies,omitempty" yaml:"platform_and_dependencies,omitempty"`
	Defensibility  *Defensibility  `json:"defensibility_analysis,omitempty" yaml:"defensibility_analysis,omitempty"`
	Data           *DataLearning   `json:"data_and_learning,omitempty" yaml:"data_and_learning,omitempty"`
	Risks          *Risks          `json:"risks_and_failure,omitempty" yaml:"risks_and_failure,omitempty"`
	Scoring        *Scoring        `json:"scoring,omitempty" yaml:"scoring,omitempty"`
	Assumptions    *Assumptions    `json:"assumptions,omitempty" yaml:"assumptions,omitempty"`
	SelfReflection *SelfReflection `json:"self_reflection,omitempty" yaml:"self_reflection,omitempty"`
	InitialVerdict *InitialVerdict `json:"initial_verdict,omitempty" yaml:"initial_verdict,omitempty"`
}

type IdeaDefinition struct {
	OneLiner         string `json:"one_liner,omitempty" yaml:"one_liner,omitempty"`
	ProblemStatement string `json:"problem_statement,omitempty" yaml:"problem_statement,omitempty"`
	WhyNow           string `json:"why_now,omitempty" yaml:"why_now,omitempty"`
	WhoFeelsPainMost string `json:"who_feels_pain_most,omitempty" yaml:"who_feels_pain_most,omitempty"`
}

type Role struct {
	Role        string `json:"role,omitempty" yaml:"role,omitempty"`
	Industry    string `json:"industry,omitempty" yaml:"industry,omitempty"`
	CompanySize string `json:"company_size,omitempty" yaml:"company_size,omitempty"`
}

type Customer struct {
	PrimaryPayer     *Role `json:"primary_payer,omitempty" yaml:"primary_payer,omitempty"`
	PrimaryUser      *Role `json:"primary_user,omitempty" yaml:"primary_user,omitempty"`
	ExistingBehavior *struct {
		CurrentSolution string `json:"current_solution,omitempty" yaml:"current_solution,omitempty"`
		WhyItSucks      string `json:"why_it_sucks,omitempty" yaml:"why_it_sucks,omitempty"`
	} `json:"existing_behavior,omitempty" yaml:"existing_behavior,omitempty"`
}

type CoreWorkflow struct {
	Event       string `json:"event,omitempty" yaml:"event,omitempty"`
	Decision    string `json:"decision,omitempty" yaml:"decision,omitempty"`
	Action      string `json:"action,omitempty" yaml:"action,omitempty"`
	Frequency   string `json:"frequency,omitempty" yaml:"frequency,omitempty"`
	Criticality string `json:"criticality,omitempty" yaml:"criticality,omitempty"`
}

type ValueAndMoney struct {
	ValueProposition          string `json:"value_proposition,omitempty" yaml:"value_proposition,omitempty"`
	ValueType                 string `json:"value_type,omitempty" yaml:"value_type,omitempty"`
	MonetizationModel         string `json:"monetization_model,omitempty" yaml:"monetization_model,omitempty"`
	PricingAnchor             string `json:"pricing_anchor,omitempty" yaml:"pricing_anchor,omitempty"`
	EstimatedWillingnessToPay string `json:"estimated_willingness_to_pay,omitempty" yaml:"estimated_willingness_to_pay,omitempty"`
}

type Platform struct {
	CorePlatforms      []string `json:"core_platforms,omitempty" yaml:"core_platforms,omitempty"`
	DependencySeverity *struct {
		Low    []string `json:"low,omitempty" yaml:"low,omitempty"`
		Medium []string `json:"medium,omitempty" yaml:"medium,omitempty"`
		High   []string `json:"high,omitempty" yaml:"high,omitempty"`
	} `json:"dependency_severity,omitempty" yaml:"dependency_severity,omitempty"`
	SinglePointOfFailure string `json:"single_point_of_failure,omitempty" yaml:"single_point_of_failure,omitempty"`
}

type Defensibility struct {
	WhyHardToCopy       string `json:"why_this_is_hard_to_copy,omitempty" yaml:"why_this_is_hard_to_copy,omitempty"`
	FalseMoat           string `json:"what_looks_like_a_moat_but_isnt,omitempty" yaml:"what_looks_like_a_moat_but_isnt,omitempty"`
	TimeBasedAdvantages string `json:"time_based_advantages,omitempty" yaml:"time_based_advantages,omitempty"`
}

type DataLearning struct {
	DataCollected    []string `json:"data_collected,omitempty" yaml:"data_collected,omitempty"`
	DataType         string   `json:"data_type,omitempty" yaml:"data_type,omitempty"`
	DataOwner        string   `json:"data_owner,omitempty" yaml:"data_owner,omitempty"`
	LearningLoops    string   `json:"learning_loops,omitempty" yaml:"learning_loops,omitempty"`
	DoesDataCompound string   `json:"does_data_compound,omitempty" yaml:"does_data_compound,omitempty"`
}

type Risks struct {
	PrimaryFailureMode         string   `json:"primary_failure_mode,omitempty" yaml:"primary_failure_mode,omitempty"`
	SecondaryFailureModes      []string `json:"secondary_failure_modes,omitempty" yaml:"secondary_failure_modes,omitempty"`
	PlatformRiskDescription    string   `json:"platform_risk_description,omitempty" yaml:"platform_risk_description,omitempty"`
	CompetitiveRiskDescription string   `json:"competitive_risk_description,omitempty" yaml:"competitive_risk_description,omitempty"`
	FounderRiskDescription     string   `json:"founder_risk_description,omitempty" yaml:"founder_risk_description,omitempty"`
}

// Scoring values accept numbers or numeric strings ("8"); anything that
// does not read as a number is left unanswered
type Scoring struct {
	CopycatRisk       *model.AnswerValue `json:"copycat_risk,omitempty" yaml:"copycat_risk,omitempty"`
	PlatformRisk      *model.AnswerValue `json:"platform_risk,omitempty" yaml:"platform_risk,omitempty"`
	LockInStrength    *model.AnswerValue `json:"lock_in_strength,omitempty" yaml:"lock_in_strength,omitempty"`
	PricingPower      *model.AnswerValue `json:"pricing_power,omitempty" yaml:"pricing_power,omitempty"`
	OverallConfidence *model.AnswerValue `json:"overall_confidence,omitempty" yaml:"overall_confidence,omitempty"`
}

type Assumptions struct {
	MostCritical []string `json:"most_critical_assumptions,omitempty" yaml:"most_critical_assumptions,omitempty"`
	LeastCertain []string `json:"least_certain_assumptions,omitempty" yaml:"least_certain_assumptions,omitempty"`
	NotYetTested []string `json:"assumptions_not_yet_tested,omitempty" yaml:"assumptions_not_yet_tested,omitempty"`
}

type SelfReflection struct {
	EmotionalAttachmentLevel *float64 `json:"emotional_attachment_level,omitempty" yaml:"emotional_attachment_level,omitempty"`
	WouldIFund               string   `json:"would_i_fund_this_if_not_my_idea,omitempty" yaml:"would_i_fund_this_if_not_my_idea,omitempty"`
	BiggestBlindSpot         string   `json:"biggest_blind_spot,omitempty" yaml:"biggest_blind_spot,omitempty"`
}

type InitialVerdict struct {
	FounderVerdict        string `json:"founder_verdict,omitempty" yaml:"founder_verdict,omitempty"`
	Reasoning             string `json:"reasoning,omitempty" yaml:"reasoning,omitempty"`
	WhatWouldChangeMyMind string `json:"what_would_change_my_mind,omitempty" yaml:"what_would_change_my_mind,omitempty"`
}
