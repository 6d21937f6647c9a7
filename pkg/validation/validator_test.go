package validation

import (
	"math"
	"strings"
	"testing"
)

type gridRequest struct {
	Thresholds  []int     `validate:"required,min=1,unique,dive,gte=0"`
	Resolutions []float64 `validate:"required,min=1,unique,dive,gt=0,finite"`
	Mode        string    `validate:"omitempty,oneof=fast exact"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name    string
		req     gridRequest
		wantErr string
	}{
		{
			name: "valid",
			req:  gridRequest{Thresholds: []int{1, 2}, Resolutions: []float64{0.5, 1}},
		},
		{
			name:    "missing thresholds",
			req:     gridRequest{Resolutions: []float64{1}},
			wantErr: "Thresholds: field is required",
		},
		{
			name:    "duplicate resolution",
			req:     gridRequest{Thresholds: []int{1}, Resolutions: []float64{1, 1}},
			wantErr: "Resolutions: values must be unique",
		},
		{
			name:    "negative threshold",
			req:     gridRequest{Thresholds: []int{-1}, Resolutions: []float64{1}},
			wantErr: "Thresholds[0]: must be at least 0",
		},
		{
			name:    "zero resolution",
			req:     gridRequest{Thresholds: []int{1}, Resolutions: []float64{1, 0}},
			wantErr: "Resolutions[1]: must be greater than 0",
		},
		{
			name:    "infinite resolution",
			req:     gridRequest{Thresholds: []int{1}, Resolutions: []float64{math.Inf(1)}},
			wantErr: "Resolutions[0]: must be a finite number",
		},
		{
			name:    "bad mode",
			req:     gridRequest{Thresholds: []int{1}, Resolutions: []float64{1}, Mode: "slow"},
			wantErr: "Mode: must be one of [fast exact]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(&tt.req)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Struct() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestStruct_Nil(t *testing.T) {
	if err := Struct(nil); err == nil {
		t.Error("Expected error for nil value")
	}
}
