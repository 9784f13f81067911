package analysis

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"todoai/domain/models"
	"todoai/domain/ports"
	"todoai/domain/taskgraph"
)

var fixedNow = time.Date(2030, 3, 10, 9, 0, 0, 0, time.UTC)

type fakeProvider struct {
	name  string
	reply string
	err   error
	delay time.Duration
	calls atomic.Int32
	seen  string
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls.Add(1)
	f.seen = prompt
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.reply, f.err
}

// stubbornProvider ไม่สนใจ ctx เลย
type stubbornProvider struct{ release chan struct{} }

func (s *stubbornProvider) Name() string { return "stubborn" }

func (s *stubbornProvider) Generate(ctx context.Context, prompt string) (string, error) {
	<-s.release
	return `{"risks":[],"suggestions":["late"]}`, nil
}

type panickyProvider struct{}

func (panickyProvider) Name() string { return "panicky" }

func (panickyProvider) Generate(ctx context.Context, prompt string) (string, error) {
	panic("boom")
}

func sampleTasks() []*models.Task {
	deadline := fixedNow.Add(2 * time.Hour)
	a := &models.Task{ID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), Title: "Prepare slides", Deadline: &deadline, Priority: models.PriorityHigh}
	b := &models.Task{ID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), Title: "Give talk", Dependencies: []string{a.ID.String()}, Priority: models.PriorityMedium}
	return []*models.Task{a, b}
}

func newTestOrchestrator(providers ...ports.ModelProvider) *Orchestrator {
	return NewOrchestrator(providers, Options{
		Timeout: 200 * time.Millisecond,
		Now:     func() time.Time { return fixedNow },
	})
}

func TestAnalyzeFirstProviderSucceeds(t *testing.T) {
	first := &fakeProvider{name: "gemini:gemini-2.5-flash", reply: `{"risks":[{"taskId":"00000000-0000-0000-0000-000000000001","taskTitle":"whatever","message":"tight deadline"}],"suggestions":["Start with the slides"]}`}
	second := &fakeProvider{name: "gemini:gemini-2.0-flash", reply: `{"risks":[],"suggestions":["unused"]}`}

	result := newTestOrchestrator(first, second).Analyze(context.Background(), sampleTasks())

	if result.Provider != first.name {
		t.Errorf("provider = %q, want %q", result.Provider, first.name)
	}
	if second.calls.Load() != 0 {
		t.Error("second provider must not be called after a success")
	}
	if len(result.Risks) != 1 || result.Risks[0].TaskTitle != "Prepare slides" {
		t.Errorf("risks = %+v", result.Risks)
	}
	if !result.GeneratedAt.Equal(fixedNow) {
		t.Errorf("generatedAt = %v", result.GeneratedAt)
	}
}

func TestAnalyzeCascadesPastFailures(t *testing.T) {
	transport := &fakeProvider{name: "down", err: errors.New("connection refused")}
	noJSON := &fakeProvider{name: "chatty", reply: "I cannot help with that."}
	malformed := &fakeProvider{name: "broken", reply: `{"risks": "none", "suggestions": []}`}
	missingField := &fakeProvider{name: "partial", reply: `{"risks":[{"taskTitle":"x","message":"m"}],"suggestions":[]}`}
	slow := &fakeProvider{name: "slow", delay: time.Second, reply: `{"risks":[],"suggestions":["slow"]}`}
	good := &fakeProvider{name: "good", reply: `{"risks":[],"suggestions":["All good"]}`}

	result := newTestOrchestrator(transport, noJSON, malformed, missingField, slow, good).Analyze(context.Background(), sampleTasks())

	if result.Provider != "good" {
		t.Fatalf("provider = %q, want good", result.Provider)
	}
	for _, p := range []*fakeProvider{transport, noJSON, malformed, missingField, slow, good} {
		if p.calls.Load() != 1 {
			t.Errorf("%s called %d times, want 1", p.name, p.calls.Load())
		}
	}
	if len(result.Suggestions) != 1 || result.Suggestions[0] != "All good" {
		t.Errorf("suggestions = %v", result.Suggestions)
	}
}

func TestAnalyzeAllProvidersFailReturnsFallback(t *testing.T) {
	a := &fakeProvider{name: "a", err: errors.New("quota exceeded")}
	b := &fakeProvider{name: "b", reply: "not json at all"}

	result := newTestOrchestrator(a, b).Analyze(context.Background(), sampleTasks())

	if !result.IsFallback() {
		t.Fatalf("provider = %q, want fallback", result.Provider)
	}
	if result.Risks == nil || len(result.Risks) != 0 {
		t.Errorf("fallback risks = %#v, want empty non-nil", result.Risks)
	}
	if len(result.Suggestions) != 1 || result.Suggestions[0] != DefaultFallbackSuggestion {
		t.Errorf("fallback suggestions = %v", result.Suggestions)
	}
}

func TestAnalyzeNoProvidersReturnsFallback(t *testing.T) {
	result := newTestOrchestrator().Analyze(context.Background(), nil)
	if !result.IsFallback() {
		t.Errorf("empty cascade should fall back, got %q", result.Provider)
	}
}

func TestAnalyzeCustomFallbackMessage(t *testing.T) {
	o := NewOrchestrator(nil, Options{FallbackMessage: "try later"})
	result := o.Analyze(context.Background(), sampleTasks())
	if result.Suggestions[0] != "try later" {
		t.Errorf("suggestion = %q", result.Suggestions[0])
	}
}

func TestAnalyzeTimeoutWithProviderIgnoringContext(t *testing.T) {
	stubborn := &stubbornProvider{release: make(chan struct{})}
	defer close(stubborn.release)
	good := &fakeProvider{name: "good", reply: `{"risks":[],"suggestions":["ok"]}`}

	o := NewOrchestrator([]ports.ModelProvider{stubborn, good}, Options{Timeout: 50 * time.Millisecond, Now: func() time.Time { return fixedNow }})

	start := time.Now()
	result := o.Analyze(context.Background(), sampleTasks())
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("cascade took %v, timeout not enforced", elapsed)
	}
	if result.Provider != "good" {
		t.Errorf("provider = %q, want good", result.Provider)
	}
}

func TestAnalyzeRecoversProviderPanic(t *testing.T) {
	good := &fakeProvider{name: "good", reply: `{"risks":[],"suggestions":["ok"]}`}
	result := newTestOrchestrator(panickyProvider{}, good).Analyze(context.Background(), sampleTasks())
	if result.Provider != "good" {
		t.Errorf("provider = %q, want good", result.Provider)
	}
}

func TestAnalyzeCancelledContextStopsCascade(t *testing.T) {
	p := &fakeProvider{name: "never", reply: `{"risks":[],"suggestions":["x"]}`}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := newTestOrchestrator(p).Analyze(ctx, sampleTasks())
	if !result.IsFallback() {
		t.Errorf("cancelled analysis should fall back, got %q", result.Provider)
	}
	if p.calls.Load() != 0 {
		t.Error("provider should not be called with a cancelled context")
	}
}

func TestPromptCarriesEnrichedSnapshot(t *testing.T) {
	p := &fakeProvider{name: "capture", reply: `{"risks":[],"suggestions":["ok"]}`}
	newTestOrchestrator(p).Analyze(context.Background(), sampleTasks())

	for _, want := range []string{
		"2030-03-10T09:00:00Z",
		`"hoursRemaining": 2`,
		"Prepare slides",
		"00000000-0000-0000-0000-000000000001",
		`"risks"`,
		`"suggestions"`,
		"JSON only",
	} {
		if !strings.Contains(p.seen, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestEnrich(t *testing.T) {
	overdue := fixedNow.Add(-90 * time.Minute)
	soon := fixedNow.Add(200 * time.Minute)
	dur := 4.0
	a := &models.Task{ID: uuid.New(), Title: "late", Deadline: &overdue}
	b := &models.Task{ID: uuid.New(), Title: "soon", Deadline: &soon, DurationHours: &dur}
	c := &models.Task{ID: uuid.New(), Title: "open"}
	a.Dependencies = []string{b.ID.String()}
	b.Dependencies = []string{a.ID.String()}

	got := Enrich(taskgraph.New([]*models.Task{a, b, c}), fixedNow)
	if len(got) != 3 {
		t.Fatalf("len = %d", len(got))
	}

	if got[0].HoursRemaining == nil || *got[0].HoursRemaining != -1.5 || !got[0].IsOverdue {
		t.Errorf("overdue task = %+v", got[0])
	}
	if got[1].HoursRemaining == nil || *got[1].HoursRemaining != 3.3 || got[1].IsOverdue {
		t.Errorf("upcoming task = %+v", got[1])
	}
	if got[2].HoursRemaining != nil || got[2].IsOverdue || got[2].Deadline != "" {
		t.Errorf("task without deadline = %+v", got[2])
	}
	if got[2].Dependencies == nil {
		t.Error("dependencies should serialize as an empty list")
	}
	if !got[0].InDependencyCycle || !got[1].InDependencyCycle || got[2].InDependencyCycle {
		t.Errorf("cycle flags = %v %v %v", got[0].InDependencyCycle, got[1].InDependencyCycle, got[2].InDependencyCycle)
	}
}

func TestExtractPayload(t *testing.T) {
	bare := `{"risks":[],"suggestions":["a"]}`

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"bare", bare, bare, false},
		{"prose around", "Here you go:\n" + bare + "\nThanks!", bare, false},
		{"markdown fence", "```json\n" + bare + "\n```", bare, false},
		{"nested braces", `x {"a":{"b":1}} y`, `{"a":{"b":1}}`, false},
		{"no braces", "sorry", "", true},
		{"only opening", "{ incomplete", "", true},
		{"reversed", "} backwards {", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractPayload(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var pf *ParseFailure
				if !errors.As(err, &pf) {
					t.Errorf("error should be a *ParseFailure, got %T", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractionIgnoresSurroundingProse(t *testing.T) {
	bare := `{"risks":[{"taskId":"1","taskTitle":"A","message":"late"}],"suggestions":["do A"]}`

	fromBare, err := parseText(bare)
	if err != nil {
		t.Fatal(err)
	}
	fromProse, err := parseText("Here you go:\n" + bare + "\nThanks!")
	if err != nil {
		t.Fatal(err)
	}

	if len(fromBare.Risks) != len(fromProse.Risks) || fromBare.Risks[0] != fromProse.Risks[0] ||
		strings.Join(fromBare.Suggestions, "|") != strings.Join(fromProse.Suggestions, "|") {
		t.Errorf("prose-wrapped payload parsed differently: %+v vs %+v", fromBare, fromProse)
	}
}

func parseText(text string) (*models.AnalysisResult, error) {
	payload, err := ExtractPayload(text)
	if err != nil {
		return nil, err
	}
	return ParsePayload(payload)
}

func TestParsePayload(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		wantErr   bool
		wantRisks int
	}{
		{"valid", `{"risks":[{"taskId":"1","message":"late"}],"suggestions":["a","b"]}`, false, 1},
		{"numeric task id", `{"risks":[{"taskId":7,"message":"late"}],"suggestions":[]}`, false, 1},
		{"empty lists", `{"risks":[],"suggestions":[]}`, false, 0},
		{"extra fields ignored", `{"risks":[],"suggestions":["x"],"summary":"hi"}`, false, 0},
		{"missing risks", `{"suggestions":["a"]}`, true, 0},
		{"missing suggestions", `{"risks":[]}`, true, 0},
		{"risks not a list", `{"risks":{"taskId":"1"},"suggestions":[]}`, true, 0},
		{"suggestion not a string", `{"risks":[],"suggestions":[{"text":"a"}]}`, true, 0},
		{"risk without message", `{"risks":[{"taskId":"1","message":"  "}],"suggestions":[]}`, true, 0},
		{"risk without id", `{"risks":[{"message":"late"}],"suggestions":[]}`, true, 0},
		{"not json", `{risks: []}`, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParsePayload(tt.payload)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var pf *ParseFailure
				if !errors.As(err, &pf) {
					t.Errorf("error should be a *ParseFailure, got %T", err)
				}
				return
			}
			if len(result.Risks) != tt.wantRisks {
				t.Errorf("risks = %d, want %d", len(result.Risks), tt.wantRisks)
			}
			if result.Suggestions == nil {
				t.Error("suggestions should never be nil")
			}
		})
	}
}

func TestReconcileOverridesTitles(t *testing.T) {
	tasks := sampleTasks()
	result := &models.AnalysisResult{Risks: []models.RiskFinding{
		{TaskID: tasks[0].ID.String(), TaskTitle: "Prepair sildes (garbled)", Message: "m1"},
		{TaskID: tasks[1].ID.String(), TaskTitle: "", Message: "m2"},
		{TaskID: "made-up", TaskTitle: "Invented task", Message: "m3"},
	}}

	Reconcile(result, taskgraph.New(tasks))

	want := []string{"Prepare slides", "Give talk", UnknownTaskTitle}
	for i, w := range want {
		if result.Risks[i].TaskTitle != w {
			t.Errorf("risk[%d].taskTitle = %q, want %q", i, result.Risks[i].TaskTitle, w)
		}
	}
	if result.Risks[2].TaskID != "made-up" || result.Risks[2].Message != "m3" {
		t.Error("reconcile must keep id and message untouched")
	}
}
