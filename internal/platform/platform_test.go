package platform

import "testing"

func TestVersionSupported(t *testing.T) {
	tests := []struct {
		major, minor uint32
		want         bool
	}{
		{5, 1, false}, // XP
		{5, 2, false},
		{6, 0, true}, // Vista
		{6, 1, true},
		{10, 0, true},
	}
	for _, tt := range tests {
		if got := versionSupported(tt.major, tt.minor); got != tt.want {
			t.Errorf("versionSupported(%d, %d) = %v, want %v", tt.major, tt.minor, got, tt.want)
		}
	}
}

func TestCheckCurrentHost(t *testing.T) {
	if err := Check(); err != nil {
		t.Fatalf("Check() on test host: %v", err)
	}
}
