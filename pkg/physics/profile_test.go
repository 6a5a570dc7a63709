package physics

import (
	"encoding/json"
	"testing"
)

func TestStockProfilesAreValid(t *testing.T) {
	profiles := map[string]Profile{
		"orange":        Orange,
		"crate":         Crate,
		"bucket_orange": BucketOrange,
		"capybara":      Capybara,
		"decoration":    Decoration,
		"wader":         Wader,
	}
	for name, p := range profiles {
		t.Run(name, func(t *testing.T) {
			if err := p.Validate(); err != nil {
				t.Errorf("Validate() = %v", err)
			}
		})
	}
}

func TestDampingMode_JSON(t *testing.T) {
	tests := []struct {
		input    string
		expected DampingMode
		wantErr  bool
	}{
		{`{"dampingMode":"additive"}`, AdditiveDamping, false},
		{`{"dampingMode":"decay"}`, VelocityDecay, false},
		{`{"dampingMode":"DECAY"}`, VelocityDecay, false},
		{`{}`, AdditiveDamping, false},
		{`{"dampingMode":"sticky"}`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var p Profile
			err := json.Unmarshal([]byte(tt.input), &p)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && p.DampingMode != tt.expected {
				t.Errorf("DampingMode = %v, expected %v", p.DampingMode, tt.expected)
			}
		})
	}
}

func TestDampingMode_MarshalUnknown(t *testing.T) {
	if _, err := json.Marshal(Profile{DampingMode: DampingMode(5)}); err == nil {
		t.Error("expected error marshalling an unknown damping mode")
	}
	data, err := json.Marshal(Crate)
	if err != nil {
		t.Fatal(err)
	}
	var back Profile
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back != Crate {
		t.Errorf("round trip = %+v, expected %+v", back, Crate)
	}
}

func TestDriftNoise_Range(t *testing.T) {
	n := NewDriftNoise(99)
	for i := 0; i < 5000; i++ {
		s := n.Sample(float64(i) * 0.071)
		if s.X < -0.5 || s.X > 0.5 || s.Z < -0.5 || s.Z > 0.5 {
			t.Fatalf("sample %v out of range", s)
		}
	}
}
