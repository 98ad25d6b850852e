package engine

import (
	"context"
	"reflect"
	"testing"
)

func TestRunBatchMatchesSequentialRuns(t *testing.T) {
	opts := testOptions(100)
	results, err := RunBatch(context.Background(), opts, 4, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}

	for i, res := range results {
		if res.Index != i || res.Seed != 100+int64(i) {
			t.Errorf("result %d has index %d seed %d", i, res.Index, res.Seed)
		}
		r, err := Build(testOptions(res.Seed))
		if err != nil {
			t.Fatal(err)
		}
		want, err := r.Run(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(res.Snapshots, want) {
			t.Errorf("batch run %d differs from a standalone run with seed %d", i, res.Seed)
		}
	}

	summary := Summarize(results)
	if len(summary) != opts.Rounds {
		t.Fatalf("summary has %d rounds, want %d", len(summary), opts.Rounds)
	}
	for _, s := range summary {
		if s.MeanActive < 1 || s.MeanActive > float64(opts.Agents) {
			t.Errorf("round %d mean active %v out of range", s.Round, s.MeanActive)
		}
		if s.MeanSize < 1 {
			t.Errorf("round %d mean size %v below 1", s.Round, s.MeanSize)
		}
	}
}

func TestRunBatchRejectsBadInput(t *testing.T) {
	if _, err := RunBatch(context.Background(), testOptions(1), 0, 1); err == nil {
		t.Error("expected error for zero runs")
	}

	tests := []struct {
		name   string
		mutate func(o *Options)
	}{
		{"rounds beyond schedule", func(o *Options) { o.Rounds = 50 }},
		{"zero agents", func(o *Options) { o.Agents = 0 }},
		{"zero rounds", func(o *Options) { o.Rounds = 0 }},
		{"zero sweeps", func(o *Options) { o.World.Sweeps = 0 }},
		{"empty risk factors", func(o *Options) { o.Population.RiskFactors = nil }},
		{"inverted members", func(o *Options) { o.Population.MinMembers = 3; o.Population.MaxMembers = 2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions(1)
			tt.mutate(&opts)
			if err := opts.validate(); err == nil {
				t.Error("validate accepted bad options")
			}
			if _, err := RunBatch(context.Background(), opts, 2, 1); err == nil {
				t.Error("RunBatch accepted bad options")
			}
		})
	}
}

func TestRunBatchDefaultsSchedule(t *testing.T) {
	opts := testOptions(4)
	opts.Schedule = nil
	results, err := RunBatch(context.Background(), opts, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results[1].Snapshots) != opts.Rounds {
		t.Errorf("got %d snapshots, want %d", len(results[1].Snapshots), opts.Rounds)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if Summarize(nil) != nil {
		t.Error("expected nil summary for no results")
	}
}
