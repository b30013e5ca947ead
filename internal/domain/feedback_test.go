package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestSummarize_NoFeedback(t *testing.T) {
	s := Summarize("bob", nil)
	assert.Equal(t, RatingSummary{UserID: "bob"}, s)
}

func TestSummarize_RoundsToOneDecimal(t *testing.T) {
	fb := []Feedback{
		{Rating: 5, IsPublic: true, RecommendsUser: true},
		{Rating: 5, IsPublic: true, RecommendsUser: true},
		{Rating: 1, IsPublic: true},
	}

	s := Summarize("bob", fb)
	assert.Equal(t, 3.7, s.Average)
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 0.67, s.RecommendRate)
}

func TestSummarize_IgnoresPrivateFeedback(t *testing.T) {
	fb := []Feedback{
		{Rating: 4, IsPublic: true},
		{Rating: 1, IsPublic: false, RecommendsUser: true},
	}

	s := Summarize("bob", fb)
	assert.Equal(t, 4.0, s.Average)
	assert.Equal(t, 1, s.Count)
	assert.Equal(t, 0.0, s.RecommendRate)
}

func TestSummarize_OnlyPrivateFeedback(t *testing.T) {
	s := Summarize("bob", []Feedback{{Rating: 2, IsPublic: false}})
	assert.Equal(t, 0, s.Count)
	assert.Equal(t, 0.0, s.Average)
}

func TestSummarize_SubRatingsExcludeMissing(t *testing.T) {
	fb := []Feedback{
		{Rating: 5, IsPublic: true, SkillRating: intPtr(4)},
		{Rating: 3, IsPublic: true, SkillRating: intPtr(5), CommunicationRating: intPtr(2)},
		{Rating: 4, IsPublic: true},
	}

	s := Summarize("bob", fb)
	assert.Equal(t, 4.0, s.Average)
	assert.Equal(t, 4.5, s.AverageSkill)
	assert.Equal(t, 2.0, s.AverageCommunication)
}

func TestPublicOnlyFor(t *testing.T) {
	assert.False(t, PublicOnlyFor("bob", "bob"))
	assert.True(t, PublicOnlyFor("bob", "carol"))
	assert.True(t, PublicOnlyFor("bob", ""))
}
