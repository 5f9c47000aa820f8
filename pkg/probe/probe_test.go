package probe

import (
	"context"
	"errors"
	"testing"
)

func TestRun(t *testing.T) {
	probes := []Probe{
		{
			Name: "Gemini API",
			Check: func(ctx context.Context) error {
				return nil
			},
			Critical: true,
		},
		{
			Name: "Asset Store",
			Check: func(ctx context.Context) error {
				return errors.New("cache unreachable")
			},
			Critical: false,
		},
	}

	results := Run(context.Background(), probes)

	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].Error != nil {
		t.Errorf("passing probe reported error: %v", results[0].Error)
	}
	if results[1].Error == nil {
		t.Error("failing probe reported no error")
	}
}

func TestAnalyzeResults(t *testing.T) {
	tests := []struct {
		name    string
		results []Result
		wantErr bool
	}{
		{
			name: "All Pass",
			results: []Result{
				{Probe: Probe{Name: "Gemini API", Critical: true}, Error: nil},
			},
			wantErr: false,
		},
		{
			name: "Critical Failure Blocks Startup",
			results: []Result{
				{Probe: Probe{Name: "Gemini API", Critical: true}, Error: errors.New("bad key")},
			},
			wantErr: true,
		},
		{
			name: "Non-Critical Failure Proceeds",
			results: []Result{
				{Probe: Probe{Name: "Asset Store", Critical: false}, Error: errors.New("cache unreachable")},
			},
			wantErr: false,
		},
		{
			name: "Mixed Failure",
			results: []Result{
				{Probe: Probe{Name: "Asset Store", Critical: false}, Error: errors.New("cache unreachable")},
				{Probe: Probe{Name: "Gemini API", Critical: true}, Error: errors.New("bad key")},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AnalyzeResults(tt.results)
			if (err != nil) != tt.wantErr {
				t.Errorf("AnalyzeResults() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
