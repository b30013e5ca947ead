package domain

import (
	"math"
	"time"
)

// Rating bounds, inclusive.
const (
	MinRating = 1
	MaxRating = 5
)

// Feedback is one participant's rating of the other after a completed swap.
type Feedback struct {
	ID                  string    `json:"id"`
	SwapRequestID       string    `json:"swap_request_id"`
	ReviewerID          string    `json:"reviewer_id"`
	RevieweeID          string    `json:"reviewee_id"`
	Rating              int       `json:"rating"`
	SkillRating         *int      `json:"skill_rating,omitempty"`
	CommunicationRating *int      `json:"communication_rating,omitempty"`
	Comment             string    `json:"comment,omitempty"`
	RecommendsUser      bool      `json:"recommends_user"`
	IsPublic            bool      `json:"is_public"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// RatingSummary aggregates the public feedback a user has received.
type RatingSummary struct {
	UserID               string  `json:"user_id"`
	Average              float64 `json:"average"`
	AverageSkill         float64 `json:"average_skill"`
	AverageCommunication float64 `json:"average_communication"`
	Count                int     `json:"count"`
	RecommendRate        float64 `json:"recommend_rate"`
}

// Summarize aggregates the public entries of feedback for userID. Averages
// are rounded to one decimal and the recommend rate to two; all are zero when
// nothing public exists. Sub-rating averages only count entries that carry
// the sub-rating.
func Summarize(userID string, feedback []Feedback) RatingSummary {
	summary := RatingSummary{UserID: userID}

	var (
		total, skillTotal, commTotal int
		skillCount, commCount        int
		recommends                   int
	)
	for _, f := range feedback {
		if !f.IsPublic {
			continue
		}
		summary.Count++
		total += f.Rating
		if f.SkillRating != nil {
			skillTotal += *f.SkillRating
			skillCount++
		}
		if f.CommunicationRating != nil {
			commTotal += *f.CommunicationRating
			commCount++
		}
		if f.RecommendsUser {
			recommends++
		}
	}

	summary.Average = mean(total, summary.Count, 1)
	summary.AverageSkill = mean(skillTotal, skillCount, 1)
	summary.AverageCommunication = mean(commTotal, commCount, 1)
	summary.RecommendRate = mean(recommends, summary.Count, 2)
	return summary
}

func mean(sum, n, decimals int) float64 {
	if n == 0 {
		return 0
	}
	scale := math.Pow10(decimals)
	return math.Round(float64(sum)/float64(n)*scale) / scale
}

// PublicOnlyFor reports whether viewerID is limited to the public feedback
// about ownerID. Owners see everything.
func PublicOnlyFor(ownerID, viewerID string) bool {
	return ownerID != viewerID
}
