package domain

import "time"

// Moderation actions recorded in the log.
const (
	ModerationBanUser      = "ban_user"
	ModerationUnbanUser    = "unban_user"
	ModerationApproveSkill = "approve_skill"
	ModerationRejectSkill  = "reject_skill"
)

// Moderation target types.
const (
	TargetUser  = "user"
	TargetSkill = "skill"
)

// ModerationEntry is one append-only audit record of an admin action.
type ModerationEntry struct {
	ID         string    `json:"id"`
	AdminID    string    `json:"admin_id"`
	Action     string    `json:"action"`
	TargetType string    `json:"target_type"`
	TargetID   string    `json:"target_id"`
	Reason     string    `json:"reason,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
