package questionnaire

import "killtest/internal/model"

// Next moves the cursor forward, staying on the last question at the end
func Next(index int) int {
	if index < Total()-1 {
		return index + 1
	}
	return index
}

// Prev moves the cursor back, staying on the first question at the start
func Prev(index int) int {
	if index > 0 {
		return index - 1
	}
	return index
}

// IsLast reports whether index is the final question
func IsLast(index int) bool {
	return index == Total()-1
}

// CanProceed reports whether the question at index may be left.
// Optional questions always pass; required ones need a non-blank string or any number.
func CanProceed(index int, answers model.AnswerSet) bool {
	p, ok := At(index)
	if !ok {
		return false
	}
	return Satisfied(p.Question, answers)
}

// Satisfied applies the requiredness rule to a single question
func Satisfied(q model.Question, answers model.AnswerSet) bool {
	if !q.Required {
		return true
	}
	v, ok := answers.Get(q.ID)
	if !ok {
		return false
	}
	return !v.IsBlank()
}

// Helper returns the helper panel for a question in the given language
func Helper(q model.Question, lang model.Language) (model.HelperContent, bool) {
	h, ok := q.Helper[lang.OrDefault()]
	return h, ok
}
