package tutor

import (
	"regexp"
	"strconv"

	"github.com/abhisek/mutabayinat/internal/answer"
)

// inequality is a normalized answer of the form x<op><bound>.
type inequality struct {
	op    rune
	bound float64
}

var (
	varFirst = regexp.MustCompile(`^x([<>≤≥=])(-?\d+(?:\.\d+)?)$`)
	varLast  = regexp.MustCompile(`^(-?\d+(?:\.\d+)?)([<>≤≥=])x$`)
)

// mirrored is the operator read from the other side: 5>x is x<5.
var mirrored = map[rune]rune{'<': '>', '>': '<', '≤': '≥', '≥': '≤', '=': '='}

func parseInequality(raw string) (inequality, bool) {
	s := answer.Normalize(raw)
	if m := varFirst.FindStringSubmatch(s); m != nil {
		b, err := strconv.ParseFloat(m[2], 64)
		return inequality{op: []rune(m[1])[0], bound: b}, err == nil
	}
	if m := varLast.FindStringSubmatch(s); m != nil {
		b, err := strconv.ParseFloat(m[1], 64)
		return inequality{op: mirrored[[]rune(m[2])[0]], bound: b}, err == nil
	}
	return inequality{}, false
}

func (q inequality) less() bool   { return q.op == '<' || q.op == '≤' }
func (q inequality) strict() bool { return q.op == '<' || q.op == '>' }

// classifyInput is what each rule sees.
type classifyInput struct {
	expected, got inequality
	gotOK         bool
	raw           string
}

// classifier is a rule that recognizes one kind of mistake. It returns an
// empty Category when the rule does not apply.
type classifier interface {
	Name() string
	Classify(in *classifyInput) (Category, float64)
}

type notSolvedClassifier struct{}

func (notSolvedClassifier) Name() string { return "not-solved" }

func (notSolvedClassifier) Classify(in *classifyInput) (Category, float64) {
	if !in.gotOK && !answer.ContainsComparison(answer.Normalize(in.raw)) {
		return CategoryNotSolved, 0.7
	}
	return "", 0
}

type signFlipClassifier struct{}

func (signFlipClassifier) Name() string { return "sign-flip" }

func (signFlipClassifier) Classify(in *classifyInput) (Category, float64) {
	e, g := in.expected, in.got
	if !in.gotOK || e.op == '=' || g.op == '=' {
		return "", 0
	}
	if e.less() != g.less() && (e.bound == g.bound || e.bound == -g.bound) {
		return CategorySignFlip, 0.9
	}
	return "", 0
}

type strictnessClassifier struct{}

func (strictnessClassifier) Name() string { return "strictness" }

func (strictnessClassifier) Classify(in *classifyInput) (Category, float64) {
	e, g := in.expected, in.got
	if in.gotOK && e.op != '=' && g.op != '=' && e.less() == g.less() && e.strict() != g.strict() && e.bound == g.bound {
		return CategoryStrictness, 0.9
	}
	return "", 0
}

type boundaryClassifier struct{}

func (boundaryClassifier) Name() string { return "boundary" }

func (boundaryClassifier) Classify(in *classifyInput) (Category, float64) {
	if in.gotOK && in.expected.op == in.got.op && in.expected.bound != in.got.bound {
		return CategoryBoundary, 0.6
	}
	return "", 0
}

// classifiers are the rules in priority order.
var classifiers = []classifier{
	notSolvedClassifier{},
	signFlipClassifier{},
	strictnessClassifier{},
	boundaryClassifier{},
}

// Diagnose classifies the most recent wrong answer against the canonical
// answer. Answers that are not simple inequalities are unclassified.
func Diagnose(canonical string, wrong []string) Diagnosis {
	if len(wrong) == 0 {
		return Diagnosis{Category: CategoryUnclassified}
	}
	in := &classifyInput{raw: wrong[len(wrong)-1]}
	var ok bool
	if in.expected, ok = parseInequality(canonical); !ok {
		return Diagnosis{Category: CategoryUnclassified}
	}
	in.got, in.gotOK = parseInequality(in.raw)

	for _, c := range classifiers {
		if cat, conf := c.Classify(in); cat != "" {
			return Diagnosis{Category: cat, Confidence: conf, Classifier: c.Name()}
		}
	}
	return Diagnosis{Category: CategoryUnclassified}
}
