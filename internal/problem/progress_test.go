package problem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressMerge_CompletionIsSticky(t *testing.T) {
	cached := Progress{"s1": {"s1_practice1": {Completed: true, Score: 100, Attempts: 2}}}
	fresh := Progress{"s1": {"s1_practice1": {Completed: false, Score: 90, Attempts: 1}}}

	merged := cached.Merge(fresh)

	r := merged["s1"]["s1_practice1"]
	assert.True(t, r.Completed)
	assert.Equal(t, 2, r.Attempts)
	assert.Equal(t, 90, r.Score)
}

func TestProgressMerge_AddsNewSections(t *testing.T) {
	cached := Progress{}
	fresh := Progress{"s2": {"s2_prep": {Completed: true, Attempts: 1}}}

	merged := cached.Merge(fresh)

	assert.True(t, merged.Completed("s2", "s2_prep"))
	assert.Empty(t, cached, "merge must not mutate the receiver")
}

func TestProgressSection_EmptyCountsAsMissing(t *testing.T) {
	p := Progress{"s1": {}}
	_, ok := p.Section("s1")
	assert.False(t, ok)
}

func TestTextIn_FallsBack(t *testing.T) {
	txt := Text{EN: "Solve"}
	assert.Equal(t, "Solve", txt.In(LangAR))
	assert.Equal(t, "Solve", txt.In(LangEN))
}

func TestAnswersIn_FallsBack(t *testing.T) {
	a := Answers{EN: []string{"x<5"}}
	assert.Equal(t, []string{"x<5"}, a.In(LangAR))
	a.AR = []string{"س<٥"}
	assert.Equal(t, []string{"س<٥"}, a.In(LangAR))
}

func TestParseLang(t *testing.T) {
	assert.Equal(t, LangAR, ParseLang(" AR "))
	assert.Equal(t, LangEN, ParseLang("fr"))
	assert.Equal(t, LangEN, LangAR.Other())
}
