// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
)

func TestNewThemeInitializesStyles(t *testing.T) {
	th := NewTheme()
	if th == nil {
		t.Fatal("NewTheme returned nil")
	}

	// A zero lipgloss.Style renders its input unchanged; the configured
	// styles must at least survive a render round-trip.
	if got := th.InputPrompt.Render("> "); !strings.Contains(got, ">") {
		t.Errorf("InputPrompt.Render dropped content: %q", got)
	}
	if got := th.TooltipSelected.Render("row"); !strings.Contains(got, "row") {
		t.Errorf("TooltipSelected.Render dropped content: %q", got)
	}
}

func TestThemeSetSize(t *testing.T) {
	th := NewTheme()
	th.SetSize(120, 40)
	if th.Width != 120 || th.Height != 40 {
		t.Errorf("SetSize: got %dx%d, want 120x40", th.Width, th.Height)
	}
}

func TestStatusIndicatorsAreASCII(t *testing.T) {
	indicators := []string{
		StatusIndicators.Success,
		StatusIndicators.Error,
		StatusIndicators.Warning,
		StatusIndicators.Info,
		StatusIndicators.Recording,
		StatusIndicators.Draft,
	}
	for _, ind := range indicators {
		if ind == "" {
			t.Fatal("empty status indicator")
		}
		for _, r := range ind {
			if r > 127 {
				t.Errorf("indicator %q contains non-ASCII rune %q", ind, r)
			}
		}
	}
}

func TestRenderHelpersIncludeIndicator(t *testing.T) {
	if got := RenderError("boom"); !strings.Contains(got, StatusIndicators.Error) {
		t.Errorf("RenderError missing indicator: %q", got)
	}
	if got := RenderWarning("careful"); !strings.Contains(got, StatusIndicators.Warning) {
		t.Errorf("RenderWarning missing indicator: %q", got)
	}
	if got := RenderInfo("fyi"); !strings.Contains(got, StatusIndicators.Info) {
		t.Errorf("RenderInfo missing indicator: %q", got)
	}
}
