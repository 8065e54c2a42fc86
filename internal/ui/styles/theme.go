// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the courier TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header        lipgloss.Style
	HeaderTitle   lipgloss.Style
	HeaderBadge   lipgloss.Style
	HeaderEditing lipgloss.Style

	// ==========================================================================
	// OUTBOX STYLES
	// ==========================================================================

	OutgoingBubble lipgloss.Style
	OutgoingMeta   lipgloss.Style
	DraftBubble    lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputText        lipgloss.Style
	InputPlaceholder lipgloss.Style
	CharCount        lipgloss.Style
	CharCountWarning lipgloss.Style
	CharCountDanger  lipgloss.Style

	// ==========================================================================
	// TOOLTIP POPUP STYLES
	// ==========================================================================

	TooltipPopup    lipgloss.Style
	TooltipItem     lipgloss.Style
	TooltipSelected lipgloss.Style
	TooltipValue    lipgloss.Style
	TooltipDesc     lipgloss.Style
	TooltipHelp     lipgloss.Style

	// ==========================================================================
	// ATTACHMENT TRAY STYLES
	// ==========================================================================

	AttachmentTray  lipgloss.Style
	AttachmentItem  lipgloss.Style
	AttachmentBadge lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	StatusDraft  lipgloss.Style
	StatusSaved  lipgloss.Style
	Recording    lipgloss.Style
	SlowModeHint lipgloss.Style
	StarBalance  lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// DIALOG STYLES
	// ==========================================================================

	DialogBox     lipgloss.Style
	DialogTitle   lipgloss.Style
	DialogMessage lipgloss.Style
	DialogError   lipgloss.Style
	DialogButton  lipgloss.Style

	// ==========================================================================
	// NOTIFICATION STYLES
	// ==========================================================================

	Notification lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()
	hasTrueColor := colorProfile == termenv.TrueColor
	isDark := termenv.HasDarkBackground()

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: hasTrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// App container
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Blue).
		Background(SurfaceDim).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.HeaderBadge = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.HeaderEditing = lipgloss.NewStyle().
		Background(Amber).
		Foreground(TextInverse).
		Bold(true).
		Padding(0, 1)

	// Outbox
	t.OutgoingBubble = lipgloss.NewStyle().
		Foreground(OutgoingBubbleFg).
		Background(OutgoingBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(OutgoingBubbleBorder).
		Padding(0, 2).
		MarginLeft(4)

	t.OutgoingMeta = lipgloss.NewStyle().
		Foreground(TextMuted).
		MarginLeft(4)

	t.DraftBubble = lipgloss.NewStyle().
		Foreground(DraftBubbleFg).
		Background(DraftBubbleBg).
		Padding(0, 1)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderBottom(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Blue).
		Bold(true)

	t.InputText = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.CharCount = lipgloss.NewStyle().
		Foreground(TextMuted).
		Align(lipgloss.Right)

	t.CharCountWarning = lipgloss.NewStyle().
		Foreground(Amber).
		Align(lipgloss.Right)

	t.CharCountDanger = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true).
		Align(lipgloss.Right)

	// Tooltip popup
	t.TooltipPopup = lipgloss.NewStyle().
		Background(Surface).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.TooltipItem = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.TooltipSelected = lipgloss.NewStyle().
		Background(Blue).
		Foreground(TextInverse).
		Bold(true)

	t.TooltipValue = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)

	t.TooltipDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.TooltipHelp = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Attachment tray
	t.AttachmentTray = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(Teal).
		PaddingLeft(1)

	t.AttachmentItem = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.AttachmentBadge = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.StatusDraft = lipgloss.NewStyle().
		Foreground(Amber)

	t.StatusSaved = lipgloss.NewStyle().
		Foreground(Emerald)

	t.Recording = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.SlowModeHint = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.StarBalance = lipgloss.NewStyle().
		Foreground(Gold)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Blue).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Dialogs
	t.DialogBox = lipgloss.NewStyle().
		Background(Surface).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Amber).
		Padding(1, 2)

	t.DialogTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.DialogMessage = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.DialogError = lipgloss.NewStyle().
		Bold(true).
		Foreground(Rose)

	t.DialogButton = lipgloss.NewStyle().
		Background(Blue).
		Foreground(TextInverse).
		Bold(true).
		Padding(0, 2)

	// Notifications
	t.Notification = lipgloss.NewStyle().
		Background(SurfaceBright).
		Foreground(TextPrimary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(Amber).
		PaddingLeft(1)
}

// SetSize updates the theme dimensions after a terminal resize.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}
