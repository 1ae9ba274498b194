package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"gopkg.in/yaml.v3"
)

// AnswerValue is a single answer: either free text or a number.
// The zero value is an empty text answer.
type AnswerValue struct {
	text  string
	num   float64
	isNum bool
}

// Text wraps a string answer
func Text(s string) AnswerValue {
	return AnswerValue{text: s}
}

// Number wraps a numeric answer
func Number(n float64) AnswerValue {
	return AnswerValue{num: n, isNum: true}
}

// IsNumber reports whether the answer was given as a number
func (v AnswerValue) IsNumber() bool {
	return v.isNum
}

// IsBlank reports whether a text answer is empty after trimming. Numbers are never blank.
func (v AnswerValue) IsBlank() bool {
	return !v.isNum && strings.TrimSpace(v.text) == ""
}

// String returns the text, or the decimal form of a number
func (v AnswerValue) String() string {
	if v.isNum {
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return v.text
}

// Float returns the numeric value of the answer. Numeric strings such as "8"
// are accepted; blank, non-numeric and NaN values report false.
func (v AnswerValue) Float() (float64, bool) {
	if v.isNum {
		if math.IsNaN(v.num) {
			return 0, false
		}
		return v.num, true
	}
	s := strings.TrimSpace(v.text)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	if v.isNum {
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(v.num)
	}
	return json.Marshal(v.text)
}

func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case nil:
		*v = AnswerValue{}
	case string:
		*v = Text(t)
	case float64:
		*v = Number(t)
	case bool:
		*v = Text(strconv.FormatBool(t))
	default:
		return fmt.Errorf("answer must be a string or a number, got %T", raw)
	}
	return nil
}

func (v *AnswerValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("answer must be a scalar, got line %d", node.Line)
	}
	switch node.ShortTag() {
	case "!!null":
		*v = AnswerValue{}
	case "!!int", "!!float":
		f, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return fmt.Errorf("answer %q: %w", node.Value, err)
		}
		*v = Number(f)
	default:
		*v = Text(node.Value)
	}
	return nil
}

func (v AnswerValue) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if v.isNum {
		return bson.MarshalValue(v.num)
	}
	return bson.MarshalValue(v.text)
}

func (v *AnswerValue) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.String:
		*v = Text(raw.StringValue())
	case bsontype.Double:
		*v = Number(raw.Double())
	case bsontype.Int32:
		*v = Number(float64(raw.Int32()))
	case bsontype.Int64:
		*v = Number(float64(raw.Int64()))
	case bsontype.Null, bsontype.Undefined:
		*v = AnswerValue{}
	default:
		return fmt.Errorf("unsupported bson type %s for answer", t)
	}
	return nil
}

// AnswerSet maps question IDs to answers. Missing keys are unanswered.
type AnswerSet map[string]AnswerValue

// Get returns the answer for a question and whether one is stored
func (a AnswerSet) Get(id string) (AnswerValue, bool) {
	v, ok := a[id]
	return v, ok
}

// Set stores or overwrites an answer
func (a AnswerSet) Set(id string, v AnswerValue) {
	a[id] = v
}

// Text returns the answer as text, or "" when unanswered
func (a AnswerSet) Text(id string) string {
	if v, ok := a[id]; ok {
		return v.String()
	}
	return ""
}

// Clone returns a shallow copy; AnswerValue is immutable so this is a full copy
func (a AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
