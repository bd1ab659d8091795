package curriculum

import "github.com/abhisek/mutabayinat/internal/problem"

var (
	step2Prompt = problem.Text{
		EN: "Now simplify to the final answer.",
		AR: "الآن بسّط للحصول على الإجابة النهائية.",
	}

	defaultExamples = map[string][]problem.WorkedExample{
		"s1": {
			{
				Title:          problem.Text{EN: "Example 1: x + 4 > 9", AR: "مثال ١: س + ٤ > ٩"},
				Body:           problem.Text{EN: "Subtract 4 from both sides. The sign stays the same.", AR: "اطرح ٤ من الطرفين. تبقى إشارة المتباينة كما هي."},
				Step1Prompt:    problem.Text{EN: "Write the inequality after subtracting 4 from both sides.", AR: "اكتب المتباينة بعد طرح ٤ من الطرفين."},
				Step1Answers:   []string{"x>9-4", "x+4-4>9-4"},
				Step2Prompt:    step2Prompt,
				PracticeAnswer: "x>5",
			},
			{
				Title:          problem.Text{EN: "Example 2: x - 3 ≤ 7", AR: "مثال ٢: س - ٣ ≤ ٧"},
				Body:           problem.Text{EN: "Add 3 to both sides.", AR: "أضف ٣ إلى الطرفين."},
				Step1Prompt:    problem.Text{EN: "Write the inequality after adding 3 to both sides.", AR: "اكتب المتباينة بعد إضافة ٣ إلى الطرفين."},
				Step1Answers:   []string{"x≤7+3", "x-3+3≤7+3"},
				Step2Prompt:    step2Prompt,
				PracticeAnswer: "x≤10",
			},
		},
		"s2": {
			{
				Title:          problem.Text{EN: "Example 1: 3x < 12", AR: "مثال ١: ٣س < ١٢"},
				Body:           problem.Text{EN: "Divide both sides by 3. Dividing by a positive number keeps the sign.", AR: "اقسم الطرفين على ٣. القسمة على عدد موجب لا تغيّر الإشارة."},
				Step1Prompt:    problem.Text{EN: "Write the inequality after dividing both sides by 3.", AR: "اكتب المتباينة بعد قسمة الطرفين على ٣."},
				Step1Answers:   []string{"x<12/3", "3x/3<12/3"},
				Step2Prompt:    step2Prompt,
				PracticeAnswer: "x<4",
			},
			{
				Title:          problem.Text{EN: "Example 2: -2x ≥ 8", AR: "مثال ٢: -٢س ≥ ٨"},
				Body:           problem.Text{EN: "Divide both sides by -2. Dividing by a negative number flips the sign.", AR: "اقسم الطرفين على -٢. القسمة على عدد سالب تقلب الإشارة."},
				Step1Prompt:    problem.Text{EN: "Write the inequality after dividing both sides by -2.", AR: "اكتب المتباينة بعد قسمة الطرفين على -٢."},
				Step1Answers:   []string{"x≤8/-2", "x≤8/(-2)", "-2x/-2≤8/-2"},
				Step2Prompt:    step2Prompt,
				PracticeAnswer: "x≤-4",
			},
		},
		"s3": {
			{
				Title:          problem.Text{EN: "Example 1: 2x + 3 > 11", AR: "مثال ١: ٢س + ٣ > ١١"},
				Body:           problem.Text{EN: "Undo the addition first, then the multiplication.", AR: "تخلّص من الجمع أولاً ثم من الضرب."},
				Step1Prompt:    problem.Text{EN: "Subtract 3 from both sides.", AR: "اطرح ٣ من الطرفين."},
				Step1Answers:   []string{"2x>11-3", "2x>8"},
				Step2Prompt:    step2Prompt,
				PracticeAnswer: "x>4",
			},
			{
				Title:          problem.Text{EN: "Example 2: 5 - x ≤ 2", AR: "مثال ٢: ٥ - س ≤ ٢"},
				Body:           problem.Text{EN: "Subtract 5, then divide by -1 and flip the sign.", AR: "اطرح ٥ ثم اقسم على -١ واقلب الإشارة."},
				Step1Prompt:    problem.Text{EN: "Subtract 5 from both sides.", AR: "اطرح ٥ من الطرفين."},
				Step1Answers:   []string{"-x≤2-5", "-x≤-3"},
				Step2Prompt:    step2Prompt,
				PracticeAnswer: "x≥3",
			},
		},
	}
)

// DefaultExamples returns the built-in worked examples for a section's
// Explanation stage. Used when the backend sends none.
func DefaultExamples(sectionID string) []problem.WorkedExample {
	ex := defaultExamples[sectionID]
	out := make([]problem.WorkedExample, len(ex))
	copy(out, ex)
	return out
}
