// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package composerview provides the Bubble Tea front-end for the
// composition engine.
package composerview

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/courier-tui/internal/composer/autocomplete"
	"github.com/jeranaias/courier-tui/internal/model"
	"github.com/jeranaias/courier-tui/internal/textparse"
	"github.com/jeranaias/courier-tui/internal/ui/styles"
	"github.com/jeranaias/courier-tui/internal/util"
)

// View renders the composer view.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	width := m.width
	if width <= 0 {
		width = 80
	}

	sections := []string{
		m.renderHeader(width),
		m.viewport.View(),
	}

	if popup := m.renderTooltip(width); popup != "" {
		sections = append(sections, popup)
	}
	if tray := m.renderAttachmentTray(width); tray != "" {
		sections = append(sections, tray)
	}

	sections = append(sections,
		m.renderInput(width),
		m.renderCounterLine(width),
		m.renderStatusBar(width),
	)

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if overlay := m.renderOverlay(width); overlay != "" {
		height := m.height
		if height <= 0 {
			height = 24
		}
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, overlay)
	}

	return content
}

// =============================================================================
// HEADER
// =============================================================================

func (m Model) renderHeader(width int) string {
	sess := m.engine.Session()

	title := "no chat"
	var badges []string

	if sess != nil {
		if chat, ok := m.reader.Chat(sess.ChatID); ok {
			title = chat.Title
			if chat.SlowMode != nil {
				badges = append(badges, m.theme.HeaderBadge.Render(
					fmt.Sprintf("slow %ds", chat.SlowMode.Seconds)))
			}
			if chat.PaidMessageStars > 0 {
				badges = append(badges, m.theme.StarBalance.Render(
					fmt.Sprintf("%d*/msg", chat.PaidMessageStars)))
			}
		}
		if sess.ThreadID != "" {
			badges = append(badges, m.theme.HeaderBadge.Render("#"+sess.ThreadID))
		}
	}

	if m.engine.Editing().IsEditing() {
		badges = append(badges, m.theme.HeaderEditing.Render(" EDITING "))
	}

	line := m.theme.HeaderTitle.Render(title)
	if len(badges) > 0 {
		line += " " + strings.Join(badges, " ")
	}
	return m.theme.Header.Width(width).Render(line)
}

// =============================================================================
// OUTBOX
// =============================================================================

func (m Model) renderOutbox() string {
	if m.outbox == nil {
		return ""
	}
	reqs := m.outbox()
	if len(reqs) == 0 {
		return m.theme.HeaderBadge.Render("No messages sent yet.")
	}

	width := m.width
	if width <= 0 {
		width = 80
	}
	bubbleWidth := width - 10
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}

	var b strings.Builder
	for i, req := range reqs {
		if i > 0 {
			b.WriteString("\n")
		}
		text := req.Text.Text
		if text == "" && len(req.Attachments) > 0 {
			text = fmt.Sprintf("(%d attachments)", len(req.Attachments))
		}
		b.WriteString(m.theme.OutgoingBubble.Render(util.TruncateWidth(text, bubbleWidth)))
		if len(req.Attachments) > 0 && req.Text.Text != "" {
			b.WriteString("\n")
			b.WriteString(m.theme.OutgoingMeta.Render(
				fmt.Sprintf("+%d attachments", len(req.Attachments))))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// =============================================================================
// TOOLTIP POPUP
// =============================================================================

func (m Model) renderTooltip(width int) string {
	set, ok := m.engine.Autocomplete().Active()
	if !ok {
		return ""
	}

	popupWidth := width - 4
	if popupWidth > 60 {
		popupWidth = 60
	}
	if popupWidth < 20 {
		popupWidth = 20
	}

	var rows []string
	rows = append(rows, m.theme.TooltipDesc.Render(tooltipLabel(set.Kind)))

	if set.Kind == autocomplete.KindInlineBot && set.InlineHelp != "" {
		rows = append(rows, m.theme.TooltipHelp.Render(set.InlineHelp))
	}

	const maxVisible = 8
	start := 0
	if m.selected >= maxVisible {
		start = m.selected - maxVisible + 1
	}
	for i := start; i < len(set.Candidates) && i < start+maxVisible; i++ {
		cand := set.Candidates[i]
		row := cand.Display
		if row == "" {
			row = cand.Value
		}
		if cand.Description != "" {
			row += "  " + cand.Description
		}
		row = util.TruncateWidth(row, popupWidth-2)
		if i == m.selected {
			rows = append(rows, m.theme.TooltipSelected.Render(row))
		} else {
			rows = append(rows, m.theme.TooltipItem.Render(row))
		}
	}

	return m.theme.TooltipPopup.Width(popupWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func tooltipLabel(k autocomplete.Kind) string {
	switch k {
	case autocomplete.KindEmoji:
		return "Emoji"
	case autocomplete.KindCustomEmoji:
		return "Custom emoji"
	case autocomplete.KindSticker:
		return "Stickers"
	case autocomplete.KindMention:
		return "Members"
	case autocomplete.KindInlineBot:
		return "Inline bot"
	case autocomplete.KindCommand:
		return "Commands"
	default:
		return ""
	}
}

// =============================================================================
// ATTACHMENT TRAY
// =============================================================================

func (m Model) renderAttachmentTray(width int) string {
	sess := m.engine.Session()
	if sess == nil || len(sess.Attachments) == 0 {
		return ""
	}

	var items []string
	for _, att := range sess.Attachments {
		label := att.Filename
		if att.Voice != nil {
			label = fmt.Sprintf("%s (%ds)", att.Filename, att.Voice.Duration)
		}
		items = append(items, m.theme.AttachmentItem.Render(
			util.TruncateWidth(label, 30)))
	}

	badge := m.theme.AttachmentBadge.Render(
		fmt.Sprintf("%d staged", len(sess.Attachments)))
	if sess.ShouldForceAsFile {
		badge += " " + m.theme.HeaderBadge.Render("(as files)")
	}
	if sess.ShouldForceCompression {
		badge += " " + m.theme.HeaderBadge.Render("(compressed)")
	}

	line := badge + "  " + strings.Join(items, "  ")
	return m.theme.AttachmentTray.Render(util.TruncateWidth(line, width-2))
}

// =============================================================================
// INPUT AREA
// =============================================================================

func (m Model) renderInput(width int) string {
	if rec := m.engine.Recorder(); rec.IsActive() {
		elapsed := int(time.Since(m.recStart).Seconds())
		bar := levelBar(rec.Level())
		viewOnce := ""
		if rec.ViewOnce() {
			viewOnce = " [view once]"
		}
		line := m.theme.Recording.Render(
			fmt.Sprintf("%s %s %s%s  Esc to cancel, C-r to stage, C-t view once",
				styles.StatusIndicators.Recording, formatElapsed(elapsed), bar, viewOnce))
		return m.theme.InputContainer.Width(width - 2).Render(line)
	}

	return m.theme.InputContainer.Width(width - 2).Render(m.input.View())
}

// levelBar renders the live input volume as a ten-cell bar.
func levelBar(level float64) string {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	filled := int(level * 10)
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", 10-filled) + "]"
}

func formatElapsed(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// =============================================================================
// COUNTER, NOTICE AND STATUS BAR
// =============================================================================

func (m Model) renderCounterLine(width int) string {
	sess := m.engine.Session()
	if sess == nil {
		return ""
	}

	plain := textparse.PlainText(sess.HTML.Get())
	length := model.TextLength(plain)

	limit := m.cfg.Limits.MaxMessageLength
	if len(sess.Attachments) > 0 {
		limit = m.cfg.Limits.MaxCaptionLength
	}

	counter := fmt.Sprintf("%d/%d", length, limit)
	style := m.theme.CharCount
	switch {
	case length > limit:
		style = m.theme.CharCountDanger
	case limit > 0 && length*10 >= limit*9:
		style = m.theme.CharCountWarning
	}

	left := ""
	if m.notice != "" {
		left = m.theme.Notification.Render(m.notice)
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(counter) - 2
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + style.Render(counter)
}

func (m Model) renderStatusBar(width int) string {
	var parts []string

	sess := m.engine.Session()
	if sess != nil {
		if sess.IsTouched {
			parts = append(parts, m.theme.StatusDraft.Render(
				styles.StatusIndicators.Draft+" draft"))
		} else if _, ok := m.reader.Draft(sess.ChatID, sess.ThreadID); ok {
			parts = append(parts, m.theme.StatusSaved.Render(
				styles.StatusIndicators.Success+" saved"))
		}
	}

	if balance := m.reader.StarBalance(); balance > 0 {
		parts = append(parts, m.theme.StarBalance.Render(
			fmt.Sprintf("%s*", formatStars(balance))))
	}

	for _, b := range m.keyMap.ShortHelp() {
		h := b.Help()
		parts = append(parts,
			m.theme.ShortcutKey.Render(h.Key)+" "+m.theme.ShortcutDesc.Render(h.Desc))
	}

	return m.theme.StatusBar.Width(width).Render(strings.Join(parts, "  "))
}

// =============================================================================
// OVERLAYS
// =============================================================================

func (m Model) renderOverlay(width int) string {
	boxWidth := width - 20
	if boxWidth > 60 {
		boxWidth = 60
	}
	if boxWidth < 30 {
		boxWidth = 30
	}

	if m.deleteConfirm != nil {
		body := lipgloss.JoinVertical(lipgloss.Left,
			m.theme.DialogTitle.Render("Delete message?"),
			m.theme.DialogMessage.Render("The edited text is empty. Delete the message instead?"),
			"",
			m.theme.DialogButton.Render(" y ")+"  "+m.theme.DialogButton.Render(" n "),
		)
		return m.theme.DialogBox.Width(boxWidth).Render(body)
	}

	if m.dialog == nil {
		return ""
	}

	title := m.theme.DialogTitle
	if m.dialog.IsError {
		title = m.theme.DialogError
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		title.Render(dialogTitle(m.dialog.MessageKey)),
		m.theme.DialogMessage.Render(formatNotice(m.dialog.MessageKey, m.dialog.Params)),
		"",
		m.theme.DialogButton.Render(" OK "),
	)
	return m.theme.DialogBox.Width(boxWidth).Render(body)
}

// =============================================================================
// LOCALIZATION
// =============================================================================

// noticeText maps engine message keys to display templates. Placeholders
// are the engine's parameter names wrapped in braces.
var noticeText = map[string]string{
	"ErrorMessageTooLong":        "Message is {EXTRA_CHARS_COUNT} character{PLURAL_S} too long",
	"ErrorCaptionTooLong":        "Caption is {EXTRA_CHARS_COUNT} character{PLURAL_S} too long",
	"SlowModeHint":               "Slow mode: wait {TIME} ({SECONDS_REMAINING}s remaining)",
	"ConfirmPaidMessage":         "Sending {MESSAGES_COUNT} message(s) costs {STARS_COUNT} stars",
	"StarsTopupNeeded":           "You need {STARS_COUNT} stars to send this message",
	"ErrorFileTooLarge":          "File exceeds the upload limit ({LIMIT})",
	"ErrorTooManyAttachments":    "Too many attachments (max {MAX})",
	"ErrorEditSingleMedia":       "Only a single file can replace edited media",
	"ErrorEditAlbumMedia":        "Media in albums cannot be replaced",
	"ErrorEditIncompatibleMedia": "This file cannot replace the original media",
	"ErrorEditFailed":            "Could not save the edit",
	"ErrorSendFailed":            "Message could not be sent",
	"ErrorVoiceRecording":        "Voice recording failed",
}

func formatNotice(key string, params map[string]string) string {
	text, ok := noticeText[key]
	if !ok {
		if kind, found := strings.CutPrefix(key, "ErrorSendRestricted_"); found {
			return "Sending " + kind + " is not allowed in this chat"
		}
		text = key
	}
	for name, value := range params {
		text = strings.ReplaceAll(text, "{"+name+"}", value)
	}
	return text
}

func dialogTitle(key string) string {
	if strings.HasPrefix(key, "Error") {
		return "Error"
	}
	if strings.HasPrefix(key, "Confirm") {
		return "Confirm"
	}
	return "Notice"
}

func formatStars(n int64) string {
	return strconv.FormatInt(n, 10)
}
