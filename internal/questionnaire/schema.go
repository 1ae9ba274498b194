// Package questionnaire holds the fixed question schema and the cursor rules
// used to walk it.
package questionnaire

import (
	_ "embed"
	"fmt"
	"sync"

	"killtest/internal/model"

	"gopkg.in/yaml.v3"
)

//go:embed schema.yaml
var schemaYAML []byte

var (
	loadOnce  sync.Once
	sections  []model.Section
	positions []Position
	byID      map[string]Position
)

// Position locates a question within the flattened sequence
type Position struct {
	Section  model.Section  `json:"-"`
	Question model.Question `json:"question"`
	Index    int            `json:"index"`
}

// SectionID returns the id of the section containing the question
func (p Position) SectionID() string {
	return p.Section.ID
}

func load() {
	loadOnce.Do(func() {
		parsed, err := parse(schemaYAML)
		if err != nil {
			panic(fmt.Sprintf("questionnaire: embedded schema: %v", err))
		}
		sections = parsed
		byID = make(map[string]Position)
		for _, sec := range sections {
			for _, q := range sec.Questions {
				p := Position{Section: sec, Question: q, Index: len(positions)}
				positions = append(positions, p)
				byID[q.ID] = p
			}
		}
	})
}

func parse(data []byte) ([]model.Section, error) {
	var doc struct {
		Sections []model.Section `yaml:"sections"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for _, sec := range doc.Sections {
		if len(sec.Questions) == 0 {
			return nil, fmt.Errorf("section %q has no questions", sec.ID)
		}
		for _, q := range sec.Questions {
			if seen[q.ID] {
				return nil, fmt.Errorf("duplicate question id %q", q.ID)
			}
			seen[q.ID] = true
			switch q.Type {
			case model.QuestionTypeTextarea:
			case model.QuestionTypeRadio:
				if len(q.Options) == 0 {
					return nil, fmt.Errorf("radio question %q has no options", q.ID)
				}
			case model.QuestionTypeScale:
				if q.ScaleMin >= q.ScaleMax {
					return nil, fmt.Errorf("scale question %q has bounds %d..%d", q.ID, q.ScaleMin, q.ScaleMax)
				}
			default:
				return nil, fmt.Errorf("question %q has unknown type %q", q.ID, q.Type)
			}
		}
	}
	return doc.Sections, nil
}

// Sections returns the schema in declaration order
func Sections() []model.Section {
	load()
	return sections
}

// Total returns the number of questions across all sections
func Total() int {
	load()
	return len(positions)
}

// At returns the question at a zero-based index
func At(index int) (Position, bool) {
	load()
	if index < 0 || index >= len(positions) {
		return Position{}, false
	}
	return positions[index], true
}

// All returns every question with its section and index
func All() []Position {
	load()
	out := make([]Position, len(positions))
	copy(out, positions)
	return out
}

// Lookup finds a question by id
func Lookup(id string) (model.Question, bool) {
	load()
	p, ok := byID[id]
	return p.Question, ok
}
