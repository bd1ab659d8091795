package evaluate

import (
	"fmt"

	"github.com/abhisek/mutabayinat/internal/problem"
)

// MsgKey names a feedback message.
type MsgKey int

const (
	MsgEnterFinal MsgKey = iota
	MsgEnterStep
	MsgCorrect
	MsgCorrectScored
	MsgTryAgain
	MsgTryAgainHint
	MsgWrongScored
	MsgWrongScoredHint
	MsgRedirect
	MsgShowWork
	MsgStepCorrect
	MsgAllStepsDone
	MsgStepWrong
	MsgPracticeDone
	MsgExampleStepDone
	MsgExampleDone
	MsgExplanationDone
	MsgNoExamples
	MsgSaveFailed
	MsgSaved
	MsgLoadFailed
	MsgLocked
	MsgNoMoreHints
	MsgBusy
)

var messages = map[MsgKey]problem.Text{
	MsgEnterFinal: {
		EN: "Please enter your final answer.",
		AR: "من فضلك أدخل إجابتك النهائية.",
	},
	MsgEnterStep: {
		EN: "Please enter your answer for this step.",
		AR: "من فضلك أدخل إجابتك لهذه الخطوة.",
	},
	MsgCorrect: {
		EN: "Correct! Well done.",
		AR: "إجابة صحيحة! أحسنت.",
	},
	MsgCorrectScored: {
		EN: "Correct! Score: %d. Hints used: %d.",
		AR: "إجابة صحيحة! الدرجة: %d. التلميحات المستخدمة: %d.",
	},
	MsgTryAgain: {
		EN: "Not quite. Try again.",
		AR: "ليست صحيحة تماماً. حاول مرة أخرى.",
	},
	MsgTryAgainHint: {
		EN: "Not quite. Try again. Hint: %s",
		AR: "ليست صحيحة تماماً. حاول مرة أخرى. تلميح: %s",
	},
	MsgWrongScored: {
		EN: "Not quite. Score: %d. Hints used: %d.",
		AR: "ليست صحيحة تماماً. الدرجة: %d. التلميحات المستخدمة: %d.",
	},
	MsgWrongScoredHint: {
		EN: "Not quite. Score: %d. Hints used: %d. Hint: %s",
		AR: "ليست صحيحة تماماً. الدرجة: %d. التلميحات المستخدمة: %d. تلميح: %s",
	},
	MsgRedirect: {
		EN: "Let's go back to the explanation for this concept before trying again.",
		AR: "لنعد إلى شرح هذا المفهوم قبل المحاولة مرة أخرى.",
	},
	MsgShowWork: {
		EN: "You entered a final answer instead of showing your work. Complete this step first.",
		AR: "لقد أدخلت الإجابة النهائية بدلاً من إظهار خطوات الحل. أكمل هذه الخطوة أولاً.",
	},
	MsgStepCorrect: {
		EN: "Good! On to the next step.",
		AR: "جيد! انتقل إلى الخطوة التالية.",
	},
	MsgAllStepsDone: {
		EN: "All steps done. Now enter the final answer.",
		AR: "أكملت جميع الخطوات. أدخل الآن الإجابة النهائية.",
	},
	MsgStepWrong: {
		EN: "Not quite. %s",
		AR: "ليست صحيحة تماماً. %s",
	},
	MsgPracticeDone: {
		EN: "Excellent! You solved every step.",
		AR: "ممتاز! لقد حللت جميع الخطوات.",
	},
	MsgExampleStepDone: {
		EN: "Right! Now simplify to the final answer.",
		AR: "صحيح! الآن بسّط للحصول على الإجابة النهائية.",
	},
	MsgExampleDone: {
		EN: "Great! On to the next example.",
		AR: "رائع! انتقل إلى المثال التالي.",
	},
	MsgExplanationDone: {
		EN: "You finished all the examples!",
		AR: "لقد أنهيت جميع الأمثلة!",
	},
	MsgNoExamples: {
		EN: "This lesson has no worked examples yet. Ask your teacher to add some.",
		AR: "لا توجد أمثلة محلولة لهذا الدرس بعد. اطلب من معلمك إضافتها.",
	},
	MsgSaveFailed: {
		EN: "Your answer is correct, but it could not be recorded yet. Press r to retry.",
		AR: "إجابتك صحيحة، لكن لم يتم حفظها بعد. اضغط r لإعادة المحاولة.",
	},
	MsgSaved: {
		EN: "Saved.",
		AR: "تم الحفظ.",
	},
	MsgLoadFailed: {
		EN: "Could not load this problem. Please try again later.",
		AR: "تعذر تحميل هذه المسألة. حاول مرة أخرى لاحقاً.",
	},
	MsgLocked: {
		EN: "This problem is locked. Complete: %s",
		AR: "هذه المسألة مقفلة. أكمل أولاً: %s",
	},
	MsgNoMoreHints: {
		EN: "No more hints for this problem.",
		AR: "لا توجد تلميحات أخرى لهذه المسألة.",
	},
	MsgBusy: {
		EN: "Checking your answer...",
		AR: "جارٍ التحقق من إجابتك...",
	},
}

// Message formats the message for key in lang.
func Message(lang problem.Lang, key MsgKey, args ...any) string {
	tmpl := messages[key].In(lang)
	if len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}
