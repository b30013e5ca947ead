package domain

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// Skill descriptor kinds.
const (
	SkillKindCatalog  = "catalog"
	SkillKindFreeText = "free_text"
)

// MaxSkillLabelLength bounds free-text skill labels, in characters.
const MaxSkillLabelLength = 100

// Catalog skill moderation statuses.
const (
	SkillStatusPending  = "pending"
	SkillStatusApproved = "approved"
	SkillStatusRejected = "rejected"
)

// SkillRef identifies the skill on either side of a swap: a catalog entry by
// id, or a free-text label typed by the user.
type SkillRef struct {
	Kind    string `json:"kind"`
	SkillID string `json:"skill_id,omitempty"`
	Label   string `json:"label,omitempty"`
}

// CatalogSkill returns a descriptor for a catalog skill.
func CatalogSkill(id string) SkillRef {
	return SkillRef{Kind: SkillKindCatalog, SkillID: id}
}

// FreeTextSkill returns a descriptor for a free-text skill.
func FreeTextSkill(label string) SkillRef {
	return SkillRef{Kind: SkillKindFreeText, Label: label}
}

// IsCatalog reports whether the descriptor points at a catalog skill.
func (s SkillRef) IsCatalog() bool {
	return s.Kind == SkillKindCatalog
}

// Key is the identity used for duplicate detection. Free-text labels compare
// case-insensitively with runs of whitespace collapsed.
func (s SkillRef) Key() string {
	if s.IsCatalog() {
		return "catalog:" + s.SkillID
	}
	return "text:" + strings.ToLower(strings.Join(strings.Fields(s.Label), " "))
}

// Validate checks that exactly the fields of the descriptor's kind are set.
func (s SkillRef) Validate() error {
	switch s.Kind {
	case SkillKindCatalog:
		if s.SkillID == "" {
			return errors.New("catalog skill requires skill_id")
		}
		if s.Label != "" {
			return errors.New("catalog skill must not carry a label")
		}
	case SkillKindFreeText:
		if strings.TrimSpace(s.Label) == "" {
			return errors.New("free-text skill requires a label")
		}
		if utf8.RuneCountInString(s.Label) > MaxSkillLabelLength {
			return errors.New("skill label must be at most 100 characters")
		}
		if s.SkillID != "" {
			return errors.New("free-text skill must not carry skill_id")
		}
	default:
		return errors.New(`skill kind must be "catalog" or "free_text"`)
	}
	return nil
}
