// Package tutor explains a student's repeated mistakes. A model provider is
// used when one is configured; otherwise, or when the provider fails, an
// explanation is assembled from the problem's own hints and steps.
package tutor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/mutabayinat/internal/llm"
	"github.com/abhisek/mutabayinat/internal/problem"
)

// Service produces explanations.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates a Service. provider may be nil for offline-only use.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

type explanationOutput struct {
	Summary       string   `json:"summary"`
	Steps         []string `json:"steps"`
	Encouragement string   `json:"encouragement"`
}

// Explain returns an explanation for in. The returned error is the
// provider failure, if any; the explanation is still usable in that case
// and comes from the offline source.
func (s *Service) Explain(ctx context.Context, in Input) (*Explanation, error) {
	if in.Problem == nil {
		return nil, fmt.Errorf("explain: no problem")
	}
	d := Diagnose(in.Problem.Answer, in.WrongAnswers)

	if s.provider == nil {
		return offline(in, d), nil
	}

	ex, err := s.generate(ctx, in, d)
	if err != nil {
		return offline(in, d), fmt.Errorf("tutor explanation: %w", err)
	}
	return ex, nil
}

func (s *Service) generate(ctx context.Context, in Input, d Diagnosis) (*Explanation, error) {
	req := llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildUserMessage(in, d, s.cfg.MaxWrongAnswers)}},
		Schema:      ExplanationSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}
	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	var out explanationOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse explanation: %w", err)
	}
	return &Explanation{
		Summary:       out.Summary,
		Steps:         out.Steps,
		Encouragement: out.Encouragement,
		Diagnosis:     d,
		Source:        SourceModel,
	}, nil
}

var summaries = map[Category]problem.Text{
	CategorySignFlip: {
		EN: "Your inequality points the wrong way. Check whether you multiplied or divided by a negative number.",
		AR: "اتجاه المتباينة معكوس. تحقق هل ضربت أو قسمت على عدد سالب.",
	},
	CategoryStrictness: {
		EN: "You are very close. Check whether the boundary value itself is included.",
		AR: "أنت قريب جداً. تحقق هل القيمة الحدية نفسها مشمولة أم لا.",
	},
	CategoryBoundary: {
		EN: "The sign is right but the number is not. Redo the arithmetic one step at a time.",
		AR: "الإشارة صحيحة لكن العدد غير صحيح. أعد الحساب خطوة بخطوة.",
	},
	CategoryNotSolved: {
		EN: "Your answer should be an inequality such as x > 3, not just a number.",
		AR: "يجب أن تكون إجابتك متباينة مثل س > ٣، وليست عدداً فقط.",
	},
	CategoryUnclassified: {
		EN: "Let's go through this problem together step by step.",
		AR: "لنحل هذه المسألة معاً خطوة بخطوة.",
	},
}

var encouragement = problem.Text{
	EN: "Mistakes are how we learn. Try the explanation stage, then come back!",
	AR: "الأخطاء جزء من التعلم. جرّب مرحلة الشرح ثم عد إلى هنا!",
}

// offline builds an explanation from the problem's own content.
func offline(in Input, d Diagnosis) *Explanation {
	p := in.Problem
	var steps []string
	for _, st := range p.Steps {
		if t := st.Instruction.In(in.Lang); t != "" {
			steps = append(steps, t)
		}
	}
	if len(steps) == 0 {
		for i := range p.Hints {
			steps = append(steps, p.Hint(i, in.Lang))
		}
	}
	return &Explanation{
		Summary:       summaries[d.Category].In(in.Lang),
		Steps:         steps,
		Encouragement: encouragement.In(in.Lang),
		Diagnosis:     d,
		Source:        SourceOffline,
	}
}
