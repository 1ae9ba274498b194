package handler

import (
	"net/http"

	"killtest/internal/model"
	"killtest/internal/questionnaire"

	"github.com/gorilla/mux"
)

// QuestionHandler serves the questionnaire schema
type QuestionHandler struct{}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler() *QuestionHandler {
	return &QuestionHandler{}
}

// QuestionView is a question with its helper resolved to one language
type QuestionView struct {
	ID       string               `json:"id"`
	Section  string               `json:"section"`
	Index    int                  `json:"index"`
	Type     model.QuestionType   `json:"type"`
	Required bool                 `json:"required"`
	Options  []string             `json:"options,omitempty"`
	ScaleMin int                  `json:"scaleMin,omitempty"`
	ScaleMax int                  `json:"scaleMax,omitempty"`
	Helper   *model.HelperContent `json:"helper,omitempty"`
}

// SectionView groups question views
type SectionView struct {
	ID        string         `json:"id"`
	Questions []QuestionView `json:"questions"`
}

func questionView(p questionnaire.Position, lang model.Language) QuestionView {
	q := p.Question
	v := QuestionView{
		ID:       q.ID,
		Section:  p.SectionID(),
		Index:    p.Index,
		Type:     q.Type,
		Required: q.Required,
		Options:  q.Options,
		ScaleMin: q.ScaleMin,
		ScaleMax: q.ScaleMax,
	}
	if h, ok := questionnaire.Helper(q, lang); ok {
		v.Helper = &h
	}
	return v
}

// List handles GET /v1/questions
func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	lang := requestLanguage(r, model.LangEnglish)

	var out []SectionView
	for _, p := range questionnaire.All() {
		if len(out) == 0 || out[len(out)-1].ID != p.SectionID() {
			out = append(out, SectionView{ID: p.SectionID()})
		}
		last := &out[len(out)-1]
		last.Questions = append(last.Questions, questionView(p, lang))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"language": lang,
		"total":    questionnaire.Total(),
		"sections": out,
	})
}

// Get handles GET /v1/questions/{questionId}
func (h *QuestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	lang := requestLanguage(r, model.LangEnglish)
	id := mux.Vars(r)["questionId"]

	for _, p := range questionnaire.All() {
		if p.Question.ID == id {
			writeJSON(w, http.StatusOK, questionView(p, lang))
			return
		}
	}
	writeError(w, http.StatusNotFound, "question not found")
}
