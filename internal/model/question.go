package model

// QuestionType defines how a question is answered
type QuestionType string

const (
	QuestionTypeTextarea QuestionType = "textarea" // Free text
	QuestionTypeRadio    QuestionType = "radio"    // Single choice from Options
	QuestionTypeScale    QuestionType = "scale"    // Number between ScaleMin and ScaleMax
)

// HelperContent is the explanatory panel shown next to a question
type HelperContent struct {
	Title   string `json:"title" yaml:"title"`
	Content string `json:"content" yaml:"content"`
}

// Question is an immutable entry of the questionnaire schema
type Question struct {
	ID       string                     `json:"id" yaml:"id"`
	Type     QuestionType               `json:"type" yaml:"type"`
	Required bool                       `json:"required" yaml:"required"`
	Options  []string                   `json:"options,omitempty" yaml:"options,omitempty"`   // radio only
	ScaleMin int                        `json:"scaleMin,omitempty" yaml:"scaleMin,omitempty"` // scale only
	ScaleMax int                        `json:"scaleMax,omitempty" yaml:"scaleMax,omitempty"` // scale only
	Helper   map[Language]HelperContent `json:"helper,omitempty" yaml:"helper,omitempty"`
}

// Section is an ordered group of questions
type Section struct {
	ID        string     `json:"id" yaml:"id"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Question IDs the engine and the importer read directly
const (
	QIdeaDefinition        = "ideaDefinition"
	QTargetCustomer        = "targetCustomer"
	QCoreWorkflow          = "coreWorkflow"
	QMonetization          = "monetization"
	QPlatformDependencies  = "platformDependencies"
	QDisappearanceTest     = "disappearanceTest"
	QInevitabilityTest     = "inevitabilityTest"
	QCopycatVelocity       = "copycatVelocity"
	QAICommoditization     = "aiCommoditization"
	QPlatformHostageRisk   = "platformHostageRisk"
	QDataMoatReality       = "dataMoatReality"
	QDataCompounding       = "dataCompounding"
	QWorkflowLockIn        = "workflowLockIn"
	QPricingPower          = "pricingPower"
	QBudgetOwner           = "budgetOwner"
	QSoloFounderRisk       = "soloFounderRisk"
	QScalingStress         = "scalingStress"
	QLikelyFailureMode     = "likelyFailureMode"
	QCopycatRiskScore      = "copycatRiskScore"
	QPlatformRiskScore     = "platformRiskScore"
	QLockInStrengthScore   = "lockInStrengthScore"
	QPricingPowerScore     = "pricingPowerScore"
	QBiggestUnresolvedRisk = "biggestUnresolvedRisk"

	// QFinalVerdict is only set by bulk import; it is not part of the schema
	QFinalVerdict = "finalVerdict"
)

// Choice values the verdict engine and importer rely on
const (
	VelocityUnder30     = "under30"
	Velocity30to60      = "30to60"
	Velocity60to90      = "60to90"
	VelocityOver6Months = "over6months"

	CompoundingYesStrongly = "yesStrongly"
	CompoundingSomewhat    = "somewhat"
	CompoundingNo          = "no"

	PricingYes   = "yes"
	PricingMaybe = "maybe"
	PricingNo    = "no"
)
