package layout

import (
	"strings"
	"testing"
)

func TestRenderHeaderShowsCaptureCount(t *testing.T) {
	h := RenderHeader("Galaxy Map", 3, 48, 100)
	for _, want := range []string{"MathGalaxy", "Galaxy Map", "3/48", "6%"} {
		if !strings.Contains(h, want) {
			t.Errorf("header missing %q", want)
		}
	}
}

func TestRenderHeaderZeroTotal(t *testing.T) {
	if h := RenderHeader("", 0, 0, 80); !strings.Contains(h, "0%") {
		t.Error("expected 0% with an empty catalog")
	}
}

func TestContentHeight(t *testing.T) {
	tests := []struct {
		total, want int
	}{
		{24, 18},
		{6, 0},
		{3, 0},
	}
	for _, tt := range tests {
		if got := ContentHeight(tt.total); got != tt.want {
			t.Errorf("ContentHeight(%d) = %d, want %d", tt.total, got, tt.want)
		}
	}
}

func TestIsTooSmall(t *testing.T) {
	if !IsTooSmall(79, 30) || !IsTooSmall(100, 23) {
		t.Error("expected below-minimum sizes to be too small")
	}
	if IsTooSmall(MinWidth, MinHeight) {
		t.Error("minimum size should fit")
	}
}
