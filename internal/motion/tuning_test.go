package motion

import "testing"

func TestDefaultTuningValid(t *testing.T) {
	if err := DefaultTuning().Validate(); err != nil {
		t.Errorf("DefaultTuning().Validate() = %v", err)
	}
}

func TestTuningValidate(t *testing.T) {
	tests := []struct {
		name  string
		tweak func(*Tuning)
	}{
		{"negative threshold", func(tu *Tuning) { tu.RotationParallelThreshold = -1 }},
		{"zero chunk", func(tu *Tuning) { tu.ChunkSize = 0 }},
		{"chunk below inline", func(tu *Tuning) { tu.ChunkThreshold = 10 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tu := DefaultTuning()
			tc.tweak(&tu)
			if tu.Validate() == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in       string
		expected Mode
		ok       bool
	}{
		{"", Auto, true},
		{"auto", Auto, true},
		{"Serial", Serial, true},
		{" parallel ", Parallel, true},
		{"turbo", Auto, false},
	}
	for _, tc := range tests {
		m, err := ParseMode(tc.in)
		if (err == nil) != tc.ok || m != tc.expected {
			t.Errorf("ParseMode(%q) = %v, %v", tc.in, m, err)
		}
		if tc.ok && m.String() != map[Mode]string{Auto: "auto", Serial: "serial", Parallel: "parallel"}[m] {
			t.Errorf("String() = %q", m.String())
		}
	}
}
