// Package importer turns a structured idea document into a flat answer set
// so that it can skip the questionnaire and go straight to analysis.
package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"killtest/internal/model"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// Format is the serialization of an import document
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var (
	ErrInvalidFormat = errors.New("invalid document format")
	ErrMissingFields = errors.New("missing required fields")
)

var messages = map[error]map[model.Language]string{
	ErrInvalidFormat: {
		model.LangEnglish: "Invalid JSON format. Please check your syntax.",
		model.LangSpanish: "Formato JSON invalido. Revisa la sintaxis.",
	},
	ErrMissingFields: {
		model.LangEnglish: "Missing required fields. Please include at least idea_definition and scoring.",
		model.LangSpanish: "Faltan campos requeridos. Incluye al menos idea_definition y scoring.",
	},
}

// ValidationError is the only failure users see from bulk import
type ValidationError struct {
	Kind  error
	Cause error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%v: %v", e.Kind, e.Cause)
	}
	return e.Kind.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

// Message returns the localized text shown to the user
func (e *ValidationError) Message(lang model.Language) string {
	return messages[e.Kind][lang.OrDefault()]
}

// DetectFormat guesses the format from the first non-space byte
func DetectFormat(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return FormatJSON
	}
	return FormatYAML
}

// Parse decodes and validates a document. A document must carry at least a
// one-liner or a scoring block.
func Parse(data []byte, format Format) (*Document, error) {
	var doc Document
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	default:
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, &ValidationError{Kind: ErrInvalidFormat, Cause: err}
	}
	if err := Validate(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate applies the minimal-content rule to a decoded document
func Validate(doc *Document) error {
	hasIdea := doc.IdeaDefinition != nil && doc.IdeaDefinition.OneLiner != ""
	if !hasIdea && doc.Scoring == nil {
		return &ValidationError{Kind: ErrMissingFields}
	}
	return nil
}

// ToAnswers maps a document onto questionnaire answers. The mapping is
// lossy; free text about copy difficulty is bucketed by keyword.
func ToAnswers(doc *Document) model.AnswerSet {
	a := model.AnswerSet{}
	setText := func(id, s string) {
		if s != "" {
			a.Set(id, model.Text(s))
		}
	}
	setScore := func(id string, v *model.AnswerValue) {
		if v == nil {
			return
		}
		if f, ok := v.Float(); ok && f != 0 {
			a.Set(id, model.Number(f))
		}
	}

	if d := doc.IdeaDefinition; d != nil {
		setText(model.QIdeaDefinition, d.OneLiner)
		setText(model.QDisappearanceTest, d.ProblemStatement)
		setText(model.QInevitabilityTest, d.WhyNow)
	}

	if c := doc.Customer; c != nil && (c.PrimaryPayer != nil || c.PrimaryUser != nil) {
		a.Set(model.QTargetCustomer, model.Text(joinLines(
			describeRole("Payer", c.PrimaryPayer),
			describeRole("User", c.PrimaryUser),
		)))
	}
	if c := doc.Customer; c != nil && c.PrimaryPayer != nil && c.PrimaryPayer.Role != "" {
		owner := c.PrimaryPayer.Role
		if c.PrimaryPayer.CompanySize != "" {
			owner += " at " + c.PrimaryPayer.CompanySize + " company"
		}
		a.Set(model.QBudgetOwner, model.Text(owner))
	}

	if wf := doc.CoreWorkflow; wf != nil {
		a.Set(model.QCoreWorkflow, model.Text(joinLines(
			labelled("Event", wf.Event),
			labelled("Decision", wf.Decision),
			labelled("Action", wf.Action),
		)))
	}

	if v := doc.ValueAndMoney; v != nil {
		setText(model.QMonetization, v.MonetizationModel)
		if v.PricingAnchor != "" {
			a.Set(model.QPricingPower, model.Text(pricingFromAnchor(v.PricingAnchor)))
		}
	}

	if p := doc.Platform; p != nil {
		if p.CorePlatforms != nil {
			a.Set(model.QPlatformDependencies, model.Text(strings.Join(p.CorePlatforms, ", ")))
		}
		setText(model.QPlatformHostageRisk, p.SinglePointOfFailure)
	}

	if d := doc.Defensibility; d != nil {
		if d.WhyHardToCopy != "" {
			a.Set(model.QCopycatVelocity, model.Text(velocityFromText(d.WhyHardToCopy)))
		}
		setText(model.QAICommoditization, d.FalseMoat)
	}

	if d := doc.Data; d != nil {
		if d.DataCollected != nil {
			a.Set(model.QDataMoatReality, model.Text(strings.Join(d.DataCollected, ", ")))
		}
		if d.DoesDataCompound != "" {
			a.Set(model.QDataCompounding, model.Text(compoundingFromText(d.DoesDataCompound)))
		}
	}

	if r := doc.Risks; r != nil {
		setText(model.QSoloFounderRisk, r.FounderRiskDescription)
		if r.SecondaryFailureModes != nil {
			a.Set(model.QScalingStress, model.Text(strings.Join(r.SecondaryFailureModes, ", ")))
		}
		setText(model.QLikelyFailureMode, r.PrimaryFailureMode)
	}

	if s := doc.Scoring; s != nil {
		setScore(model.QWorkflowLockIn, s.LockInStrength)
		setScore(model.QCopycatRiskScore, s.CopycatRisk)
		setScore(model.QPlatformRiskScore, s.PlatformRisk)
		setScore(model.QLockInStrengthScore, s.LockInStrength)
		setScore(model.QPricingPowerScore, s.PricingPower)
	}

	if v := doc.InitialVerdict; v != nil {
		switch fv := strings.ToLower(v.FounderVerdict); fv {
		case "kill", "pivot", "build", "bet":
			a.Set(model.QFinalVerdict, model.Text(fv))
		}
	}

	blindSpot := ""
	if doc.SelfReflection != nil {
		blindSpot = doc.SelfReflection.BiggestBlindSpot
	}
	if blindSpot == "" && doc.InitialVerdict != nil {
		blindSpot = doc.InitialVerdict.WhatWouldChangeMyMind
	}
	setText(model.QBiggestUnresolvedRisk, blindSpot)

	return a
}

// velocityFromText buckets a free-text moat description into a copycat speed
func velocityFromText(s string) string {
	t := fold(s)
	switch {
	case containsAny(t, "proprietary", "years", "regulatory"):
		return model.VelocityOver6Months
	case containsAny(t, "domain", "expertise"):
		return model.Velocity60to90
	case containsAny(t, "iteration", "learning"):
		return model.Velocity30to60
	default:
		return model.VelocityUnder30
	}
}

func compoundingFromText(s string) string {
	switch fold(s) {
	case "yes":
		return model.CompoundingYesStrongly
	case "somewhat":
		return model.CompoundingSomewhat
	default:
		return model.CompoundingNo
	}
}

func pricingFromAnchor(s string) string {
	switch fold(s) {
	case "outcome", "contract":
		return model.PricingYes
	case "subscription":
		return model.PricingMaybe
	default:
		return model.PricingNo
	}
}

// fold normalizes width and composition before lower-casing so that
// full-width or decomposed input still matches the keyword lists
func fold(s string) string {
	return strings.ToLower(norm.NFKC.String(s))
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func describeRole(label string, r *Role) string {
	if r == nil || r.Role == "" {
		return ""
	}
	out := label + ": " + r.Role
	if r.Industry != "" {
		out += " (" + r.Industry + ")"
	}
	return out
}

func labelled(label, v string) string {
	if v == "" {
		return ""
	}
	return label + ": " + v
}

func joinLines(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n")
}
