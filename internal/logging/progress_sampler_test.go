package logging

import "testing"

func TestNewProgressSampler(t *testing.T) {
	tests := []struct {
		name       string
		bucketSize float64
		wantSize   float64
	}{
		{"default bucket size for zero", 0, 5},
		{"default bucket size for negative", -1, 5},
		{"custom bucket size", 10, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewProgressSampler(tt.bucketSize)
			if s.bucketSize != tt.wantSize {
				t.Errorf("bucketSize = %v, want %v", s.bucketSize, tt.wantSize)
			}
			if s.lastBucket != -1 {
				t.Errorf("lastBucket = %d, want -1", s.lastBucket)
			}
		})
	}
}

func TestProgressSampler_NilSampler(t *testing.T) {
	var s *ProgressSampler
	if !s.ShouldLog(50, "capture") {
		t.Error("ShouldLog on nil sampler should always return true")
	}
	s.Reset()
}

func TestProgressSampler_StageChange(t *testing.T) {
	s := NewProgressSampler(5)
	if !s.ShouldLog(0, "capture") {
		t.Error("first stage should log")
	}
	if s.ShouldLog(0, "capture") {
		t.Error("same stage and percent should not log again")
	}
	if !s.ShouldLog(0, "encode") {
		t.Error("different stage should log")
	}
	if s.lastStage != "encode" {
		t.Errorf("lastStage = %q, want encode", s.lastStage)
	}
}

func TestProgressSampler_Buckets(t *testing.T) {
	s := NewProgressSampler(25)
	want := []struct {
		percent float64
		emit    bool
	}{
		{1, true},
		{10, false},
		{24.9, false},
		{25, true},
		{49, false},
		{75, true},
		{150, true},
		{100, false},
	}
	for _, step := range want {
		if got := s.ShouldLog(step.percent, "encode"); got != step.emit {
			t.Fatalf("ShouldLog(%v) = %v, want %v", step.percent, got, step.emit)
		}
	}
}

func TestProgressSampler_UnknownPercent(t *testing.T) {
	s := NewProgressSampler(5)
	if !s.ShouldLog(-1, "capture") {
		t.Fatal("stage change should log with unknown percent")
	}
	if s.ShouldLog(-1, "capture") {
		t.Fatal("unknown percent in same stage should not log")
	}
	s.Reset()
	if !s.ShouldLog(-1, "capture") {
		t.Fatal("reset should allow the stage to log again")
	}
}
