package evaluation

import (
	"encoding/json"
	"fmt"
)

// Kind selects the rubric used for a submission.
type Kind string

const (
	KindWriting  Kind = "writing"
	KindSpeaking Kind = "speaking"
)

// Valid reports whether k is a supported evaluation kind.
func (k Kind) Valid() bool {
	return k == KindWriting || k == KindSpeaking
}

// Request is the body accepted by the evaluation endpoint.
type Request struct {
	Type    Kind   `json:"type"`
	Content string `json:"content"`
	Prompt  string `json:"prompt"`
	Level   string `json:"level"`
}

// Validate checks that every field is present and the kind is supported.
// Fields are checked in the order type, content, prompt, level.
func (r Request) Validate() error {
	for _, f := range []struct {
		name  string
		value string
	}{
		{"type", string(r.Type)},
		{"content", r.Content},
		{"prompt", r.Prompt},
		{"level", r.Level},
	} {
		if f.value == "" {
			return &ValidationError{Field: f.name, Message: "missing required field: " + f.name}
		}
	}
	if !r.Type.Valid() {
		return &ValidationError{Field: "type", Message: MsgInvalidEvalType}
	}
	return nil
}

// Response is the success body of the evaluation endpoint.
type Response struct {
	Evaluation json.RawMessage `json:"evaluation"`
}

// WritingEvaluation is the rubric returned for writing submissions.
type WritingEvaluation struct {
	Score   float64 `json:"score"`
	Grammar struct {
		Assessment string   `json:"assessment"`
		Errors     []string `json:"errors"`
		Examples   []string `json:"examples"`
	} `json:"grammar"`
	Vocabulary VocabularyAssessment `json:"vocabulary"`
	Structure  struct {
		Assessment   string   `json:"assessment"`
		Strengths    []string `json:"strengths"`
		Improvements []string `json:"improvements"`
	} `json:"structure"`
	Content struct {
		Assessment string `json:"assessment"`
		Relevance  string `json:"relevance"`
	} `json:"content"`
	Overall struct {
		Strengths    []string `json:"strengths"`
		Improvements []string `json:"improvements"`
		NextSteps    []string `json:"nextSteps"`
	} `json:"overall"`
	Feedback string `json:"feedback"`
}

// SpeakingEvaluation is the rubric returned for speaking submissions.
type SpeakingEvaluation struct {
	Score         float64 `json:"score"`
	Pronunciation struct {
		Assessment  string   `json:"assessment"`
		Strengths   []string `json:"strengths"`
		Issues      []string `json:"issues"`
		Suggestions []string `json:"suggestions"`
	} `json:"pronunciation"`
	Fluency struct {
		Assessment  string   `json:"assessment"`
		Pace        string   `json:"pace"`
		Hesitations string   `json:"hesitations"`
		Suggestions []string `json:"suggestions"`
	} `json:"fluency"`
	Grammar struct {
		Assessment  string   `json:"assessment"`
		Errors      []string `json:"errors"`
		Suggestions []string `json:"suggestions"`
	} `json:"grammar"`
	Vocabulary VocabularyAssessment `json:"vocabulary"`
	Content    struct {
		Assessment string `json:"assessment"`
		Relevance  string `json:"relevance"`
		Ideas      string `json:"ideas"`
	} `json:"content"`
	Overall struct {
		Strengths           []string `json:"strengths"`
		Improvements        []string `json:"improvements"`
		PracticeSuggestions []string `json:"practiceSuggestions"`
	} `json:"overall"`
	Feedback string `json:"feedback"`
}

// VocabularyAssessment is shared by both rubrics.
type VocabularyAssessment struct {
	Assessment  string   `json:"assessment"`
	Strengths   []string `json:"strengths"`
	Suggestions []string `json:"suggestions"`
}

// DecodeWriting decodes a writing rubric. Missing nested fields are left
// empty.
func DecodeWriting(raw json.RawMessage) (*WritingEvaluation, error) {
	var e WritingEvaluation
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("decode writing evaluation: %w", err)
	}
	return &e, nil
}

// DecodeSpeaking decodes a speaking rubric. Missing nested fields are left
// empty.
func DecodeSpeaking(raw json.RawMessage) (*SpeakingEvaluation, error) {
	var e SpeakingEvaluation
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("decode speaking evaluation: %w", err)
	}
	return &e, nil
}
