package meeting

import "testing"

func TestStageTerminal(t *testing.T) {
	cases := map[Stage]bool{
		StagePending:    false,
		StageProcessing: false,
		StageCompleted:  true,
		StageFailed:     true,
	}
	for stage, want := range cases {
		if got := stage.Terminal(); got != want {
			t.Fatalf("Terminal(%s) = %v, want %v", stage, got, want)
		}
	}
}

func TestStageTransitions(t *testing.T) {
	allowed := []struct{ from, to Stage }{
		{StagePending, StageProcessing},
		{StagePending, StageFailed},
		{StageProcessing, StageCompleted},
		{StageProcessing, StageFailed},
	}
	for _, tr := range allowed {
		if !tr.from.CanTransition(tr.to) {
			t.Fatalf("expected %s -> %s to be allowed", tr.from, tr.to)
		}
	}

	denied := []struct{ from, to Stage }{
		{StagePending, StageCompleted},
		{StageProcessing, StagePending},
		{StageCompleted, StageProcessing},
		{StageCompleted, StageFailed},
		{StageFailed, StageProcessing},
		{StageFailed, StageCompleted},
	}
	for _, tr := range denied {
		if tr.from.CanTransition(tr.to) {
			t.Fatalf("expected %s -> %s to be denied", tr.from, tr.to)
		}
	}
}

func TestStatusConstructors(t *testing.T) {
	if s := StatusProcessing(); s.CurrentStage != StageProcessing || s.ErrorMessage != "" {
		t.Fatalf("unexpected processing status: %+v", s)
	}
	if s := StatusCompleted(); s.CurrentStage != StageCompleted || s.ErrorMessage != "" {
		t.Fatalf("unexpected completed status: %+v", s)
	}
	s := StatusFailed("engine unavailable")
	if s.CurrentStage != StageFailed || s.ErrorMessage != "engine unavailable" {
		t.Fatalf("unexpected failed status: %+v", s)
	}
}

func TestUpdateIsEmpty(t *testing.T) {
	if !(Update{}).IsEmpty() {
		t.Fatal("zero update should be empty")
	}
	title := "weekly sync"
	if (Update{Title: &title}).IsEmpty() {
		t.Fatal("update with title should not be empty")
	}
}
