package tutor

import (
	"fmt"
	"strings"

	"github.com/abhisek/mutabayinat/internal/problem"
)

const systemPrompt = `You are a patient math tutor for students in grades 7 to 9 who are learning to solve linear inequalities. A student has answered the same problem wrongly several times. Explain their mistake kindly and briefly. Never just state the final answer in the summary.`

func buildUserMessage(in Input, d Diagnosis, maxWrong int) string {
	var b strings.Builder
	p := in.Problem

	fmt.Fprintf(&b, "Problem: %s\n", p.Question.In(problem.LangEN))
	if in.Lang == problem.LangAR && p.Question.AR != "" {
		fmt.Fprintf(&b, "Problem (Arabic): %s\n", p.Question.AR)
	}
	fmt.Fprintf(&b, "Correct answer: %s\n", p.Answer)
	fmt.Fprintf(&b, "Stage: %s\n", in.Kind)
	fmt.Fprintf(&b, "Hints already shown: %d\n", in.HintsUsed)

	wrong := in.WrongAnswers
	if len(wrong) > maxWrong {
		wrong = wrong[len(wrong)-maxWrong:]
	}
	b.WriteString("\nStudent's wrong answers (oldest first):\n")
	if len(wrong) == 0 {
		b.WriteString("None recorded\n")
	}
	for _, w := range wrong {
		fmt.Fprintf(&b, "- %s\n", w)
	}

	if d.Category != CategoryUnclassified {
		fmt.Fprintf(&b, "\nLikely mistake: %s\n", d.Category)
	}

	b.WriteString(`
Instructions:
1. In the summary, say what the student most likely did wrong, in one or two sentences.
2. In steps, show how to solve the problem one operation per step. Remind the student that multiplying or dividing by a negative number flips the inequality sign when that applies.
3. Keep every sentence short and friendly.
`)
	if in.Lang == problem.LangAR {
		b.WriteString("4. Write every field in Modern Standard Arabic. Use the letter س for the variable and Arabic-Indic digits.\n")
	} else {
		b.WriteString("4. Write every field in English. Use x for the variable.\n")
	}
	return b.String()
}
