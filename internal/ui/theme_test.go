package ui

import "testing"

func TestGetTheme(t *testing.T) {
	tests := []struct {
		name string
		want Theme
	}{
		{"dark", DarkTheme()},
		{"Light", LightTheme()},
		{" DARK ", DarkTheme()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetTheme(tt.name)
			if got.Heading.GetForeground() != tt.want.Heading.GetForeground() {
				t.Errorf("GetTheme(%q) heading color = %v, want %v", tt.name, got.Heading.GetForeground(), tt.want.Heading.GetForeground())
			}
		})
	}
}

func TestDetectTheme_Env(t *testing.T) {
	t.Setenv("DEVLAUNCH_THEME", "light")
	if got, want := DetectTheme().Heading.GetForeground(), LightTheme().Heading.GetForeground(); got != want {
		t.Errorf("DetectTheme() heading color = %v, want %v", got, want)
	}
}
