package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/taskdeck/taskdeck/internal/models"
)

var (
	badgePending    = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	badgeInProgress = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
	badgeCompleted  = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess))

	badgeLow    = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess))
	badgeMedium = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
	badgeHigh   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning))
	badgeUrgent = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)).Bold(true)
	badgeOther  = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText))

	avatarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorPrimaryText)).
			Background(lipgloss.Color(ColorAccentMain)).
			Bold(true)
)

// StatusBadge renders a colored status label.
func StatusBadge(status string) string {
	switch status {
	case models.StatusPending:
		return badgePending.Render("○ pending")
	case models.StatusInProgress:
		return badgeInProgress.Render("◐ in-progress")
	case models.StatusCompleted:
		return badgeCompleted.Render("✓ completed")
	}
	return badgeOther.Render(status)
}

// PriorityBadge renders a colored priority label.
func PriorityBadge(priority string) string {
	normalized := models.NormalizePriority(priority)
	switch normalized {
	case models.PriorityLow:
		return badgeLow.Render("low")
	case models.PriorityMedium:
		return badgeMedium.Render("medium")
	case models.PriorityHigh:
		return badgeHigh.Render("high")
	case models.PriorityUrgent:
		return badgeUrgent.Render("URGENT")
	}
	if normalized == "" {
		normalized = "unknown"
	}
	return badgeOther.Render(normalized)
}

// AvatarInitials renders up to two initials from a display name, the terminal
// stand-in for the avatar circle.
func AvatarInitials(name string) string {
	initials := "?"
	parts := strings.Fields(name)
	switch {
	case len(parts) >= 2:
		initials = strings.ToUpper(parts[0][:1] + parts[1][:1])
	case len(parts) == 1:
		initials = strings.ToUpper(parts[0][:1])
	}
	return avatarStyle.Render(" " + initials + " ")
}

// RoleBadge renders the role next to the user name in the header.
func RoleBadge(role string) string {
	switch role {
	case models.RoleAdmin:
		return badgeUrgent.Render("admin")
	case models.RoleManager:
		return badgeHigh.Render("manager")
	}
	return badgePending.Render("user")
}
