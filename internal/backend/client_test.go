package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mutabayinat/internal/problem"
)

const sampleProblem = `{
	"id": "s1_practice1",
	"section_id": "s1",
	"type": "practice",
	"question": {"en": "Solve x + 6 ≤ 11", "ar": "حل س + ٦ ≤ ١١"},
	"answer": "x≤5",
	"weight": 20,
	"final_answer_required": false,
	"hints": [{"en": "Subtract 6.", "ar": "اطرح ٦."}],
	"step_solutions": [
		{"instruction": {"en": "Subtract 6 from both sides."}, "answers": {"en": ["11-6"], "ar": ["١١-٦"]}, "step_type": "intermediate"},
		{"instruction": {"en": "Write the answer."}, "answers": {"en": ["x≤5"]}, "step_type": "final_answer"}
	]
}`

func TestProblem_DecodesValidPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/problems/s1_practice1", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleProblem))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL + "/"})
	p, err := c.Problem(context.Background(), "s1_practice1")
	require.NoError(t, err)

	assert.Equal(t, "s1", p.SectionID)
	assert.Equal(t, "x≤5", p.Answer)
	require.Len(t, p.Steps, 2)
	assert.Equal(t, []string{"١١-٦"}, p.Steps[0].Answers.AR)
	assert.True(t, p.Steps[1].IsFinal())
	assert.Equal(t, "اطرح ٦.", p.Hint(0, problem.LangAR))
}

func TestProblem_RejectsMalformedPayload(t *testing.T) {
	cases := map[string]string{
		"missing id":     `{"answer": "x>1"}`,
		"bad step type":  `{"id": "p", "step_solutions": [{"step_type": "bonus"}]}`,
		"weight range":   `{"id": "p", "weight": 250}`,
		"answers shape":  `{"id": "p", "step_solutions": [{"answers": {"en": "x>1"}}]}`,
		"example answer": `{"id": "p", "examples": [{"step1_answers": [], "practice_answer": "x>1"}]}`,
		"not json":       `<html>`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			_, err := New(Config{BaseURL: srv.URL}).Problem(context.Background(), "p")
			var te *TransportError
			assert.ErrorAs(t, err, &te)
		})
	}
}

func TestStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"no such problem"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := New(Config{BaseURL: srv.URL}).Problem(context.Background(), "nope")
	require.Error(t, err)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Contains(t, se.Body, "no such problem")
	assert.True(t, IsNotFound(err))
}

func TestTransportError_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err := New(Config{BaseURL: addr, Timeout: time.Second}).Progress(context.Background(), "layla")
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.NotNil(t, errors.Unwrap(err))
	assert.False(t, IsNotFound(err))
}

func TestProgress_EmptyEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/students/layla/progress", r.URL.Path)
		_, _ = w.Write([]byte(`{"total_points": 0, "badges": []}`))
	}))
	defer srv.Close()

	sp, err := New(Config{BaseURL: srv.URL}).Progress(context.Background(), "layla")
	require.NoError(t, err)
	assert.NotNil(t, sp.Progress)
	_, ok := sp.Progress.Section("s1")
	assert.False(t, ok)
}

func TestSubmitAttempt_SendsStudentInput(t *testing.T) {
	var got problem.Attempt
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/students/layla/attempt", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"attempts": 3, "score": 70}`))
	}))
	defer srv.Close()

	res, err := New(Config{BaseURL: srv.URL}).SubmitAttempt(context.Background(), "layla", problem.Attempt{
		ProblemID: "s1_assessment",
		Answer:    "س ≥ ٣",
		HintsUsed: 2,
		Score:     70,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, 70, res.Score)
	assert.Equal(t, "س ≥ ٣", got.Answer)
	assert.Equal(t, 2, got.HintsUsed)
}

func TestLoginAndSectionProblems(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/student-login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode(problem.Student{
			Username:    body["username"],
			ClassName:   body["class_name"],
			DisplayName: "Layla",
		})
	})
	mux.HandleFunc("/api/problems/section/s2", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"s2_prep","section_id":"s2"},{"id":"s2_explanation","section_id":"s2"}]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})

	st, err := c.Login(context.Background(), "layla", "7B")
	require.NoError(t, err)
	assert.Equal(t, problem.Student{Username: "layla", ClassName: "7B", DisplayName: "Layla"}, *st)

	list, err := c.SectionProblems(context.Background(), "s2")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "s2_explanation", list[1].ID)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("MUTABAYINAT_API_URL", "https://tutor.example.org/")
	t.Setenv("MUTABAYINAT_API_TIMEOUT", "3s")

	cfg := ConfigFromEnv()
	assert.Equal(t, "https://tutor.example.org", cfg.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Timeout)

	t.Setenv("MUTABAYINAT_API_TIMEOUT", "soon")
	assert.Equal(t, DefaultConfig().Timeout, ConfigFromEnv().Timeout)
}
