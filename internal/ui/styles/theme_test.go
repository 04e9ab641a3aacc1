package styles

import (
	"testing"

	"charm.land/lipgloss/v2"

	"github.com/raphi011/gitscan/internal/config"
)

func TestInit_DefaultTheme(t *testing.T) {
	if err := Init(config.ThemeConfig{}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	theme := Current()
	if theme.Primary != lipgloss.Color("62") {
		t.Errorf("expected default primary color 62, got %v", theme.Primary)
	}
	if theme.Warning != lipgloss.Color("214") {
		t.Errorf("expected default warning color 214, got %v", theme.Warning)
	}
}

func TestInit_PresetTheme(t *testing.T) {
	tests := []struct {
		name          string
		cfg           config.ThemeConfig
		expectedColor any // primary color to check
	}{
		{"dracula", config.ThemeConfig{Name: "dracula"}, lipgloss.Color("#bd93f9")},
		{"nord dark", config.ThemeConfig{Name: "nord"}, lipgloss.Color("#88c0d0")},
		{"nord light", config.ThemeConfig{Name: "nord", Mode: "light"}, lipgloss.Color("#5e81ac")},
		{"gruvbox", config.ThemeConfig{Name: "gruvbox", Mode: "dark"}, lipgloss.Color("#83a598")},
		{"catppuccin light", config.ThemeConfig{Name: "catppuccin", Mode: "light"}, lipgloss.Color("#1e66f5")},
		{"dark-only family in light mode", config.ThemeConfig{Name: "dracula", Mode: "light"}, lipgloss.Color("#bd93f9")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Init(tt.cfg); err != nil {
				t.Fatalf("Init(%+v) error = %v", tt.cfg, err)
			}
			if theme := Current(); theme.Primary != tt.expectedColor {
				t.Errorf("expected primary color %v for %+v, got %v", tt.expectedColor, tt.cfg, theme.Primary)
			}
		})
	}

	// Reset to default
	_ = Init(config.ThemeConfig{})
}

func TestInit_Unknown(t *testing.T) {
	if err := Init(config.ThemeConfig{Name: "solarized"}); err == nil {
		t.Error("Init(unknown theme) = nil error")
	}
	if err := Init(config.ThemeConfig{Mode: "auto"}); err == nil {
		t.Error("Init(unknown mode) = nil error")
	}
	if Current().Primary != DefaultTheme.Primary {
		t.Error("failed Init should leave the current theme alone")
	}
}

func TestThemeFamiliesMatchConfig(t *testing.T) {
	for _, name := range config.ValidThemeNames {
		if GetPreset(name) == nil {
			t.Errorf("config accepts theme %q but no preset exists", name)
		}
	}
	if len(themeFamilies) != len(config.ValidThemeNames) {
		t.Errorf("%d theme families, config lists %d names", len(themeFamilies), len(config.ValidThemeNames))
	}
}

func TestApplyTheme_UpdatesGlobalStyles(t *testing.T) {
	if err := Init(config.ThemeConfig{Name: "dracula"}); err != nil {
		t.Fatal(err)
	}

	if Primary != lipgloss.Color("#bd93f9") {
		t.Errorf("expected Primary to be updated to dracula color, got %v", Primary)
	}
	if BannerStyle.GetForeground() != lipgloss.Color("#bd93f9") {
		t.Errorf("expected BannerStyle foreground to be updated, got %v", BannerStyle.GetForeground())
	}

	_ = Init(config.ThemeConfig{})
}
