package importer

import (
	"gopkg.in/yaml.v3"
)

// TemplateFilename is the suggested download name for the blank template
const TemplateFilename = "kill-test-template.json"

const templateJSON = `{
  "meta": {
    "schema_version": "1.1",
    "language": "en",
    "created_with": "human+ai",
    "confidence_level": "medium"
  },
  "idea_definition": {
    "one_liner": "",
    "problem_statement": "",
    "why_now": "",
    "who_feels_pain_most": ""
  },
  "customer": {
    "primary_payer": {
      "role": "",
      "industry": "",
      "company_size": ""
    },
    "primary_user": {
      "role": "",
      "industry": ""
    },
    "existing_behavior": {
      "current_solution": "",
      "why_it_sucks": ""
    }
  },
  "core_workflow": {
    "event": "",
    "decision": "",
    "action": "",
    "frequency": "weekly",
    "criticality": "medium"
  },
  "value_and_money": {
    "value_proposition": "",
    "value_type": "convenience",
    "monetization_model": "",
    "pricing_anchor": "subscription",
    "estimated_willingness_to_pay": ""
  },
  "platform_and_dependencies": {
    "core_platforms": [],
    "dependency_severity": {
      "low": [],
      "medium": [],
      "high": []
    },
    "single_point_of_failure": ""
  },
  "defensibility_analysis": {
    "why_this_is_hard_to_copy": "",
    "what_looks_like_a_moat_but_isnt": "",
    "time_based_advantages": ""
  },
  "data_and_learning": {
    "data_collected": [],
    "data_type": "behavioral",
    "data_owner": "you",
    "learning_loops": "",
    "does_data_compound": "somewhat"
  },
  "risks_and_failure": {
    "primary_failure_mode": "",
    "secondary_failure_modes": [],
    "platform_risk_description": "",
    "competitive_risk_description": "",
    "founder_risk_description": ""
  },
  "scoring": {
    "copycat_risk": 5,
    "platform_risk": 5,
    "lock_in_strength": 5,
    "pricing_power": 5,
    "overall_confidence": 5
  },
  "assumptions": {
    "most_critical_assumptions": [],
    "least_certain_assumptions": [],
    "assumptions_not_yet_tested": []
  },
  "self_reflection": {
    "emotional_attachment_level": 5,
    "would_i_fund_this_if_not_my_idea": "unsure",
    "biggest_blind_spot": ""
  },
  "initial_verdict": {
    "founder_verdict": "BUILD",
    "reasoning": "",
    "what_would_change_my_mind": ""
  }
}`

// Template returns the blank document in the requested format, keeping key order
func Template(format Format) ([]byte, error) {
	if format != FormatYAML {
		return []byte(templateJSON), nil
	}
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(templateJSON), &root); err != nil {
		return nil, err
	}
	blockStyle(&root)
	return yaml.Marshal(&root)
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
