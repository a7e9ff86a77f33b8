package reviews

import (
	"math"

	"gorm.io/gorm"

	"medical-booking-server/internal/apperrors"
	"medical-booking-server/internal/models"
)

// ProfessionalStats aggregates a professional's verified reviews.
type ProfessionalStats struct {
	ProfessionalID     string             `json:"professionalId"`
	AverageRating      float64            `json:"averageRating"`
	TotalReviews       int64              `json:"totalReviews"`
	RatingDistribution map[string]float64 `json:"ratingDistribution"` // "1".."5" -> percentage
}

// ComputeProfessionalStats computes average rating, total count and the
// 1-5 star percentage distribution over verified reviews only. With no
// reviews everything reports zero.
func ComputeProfessionalStats(db *gorm.DB, professionalID string) (*ProfessionalStats, error) {
	var ratings []int
	err := db.Model(&models.Review{}).
		Where("professional_id = ? AND is_verified = ?", professionalID, true).
		Pluck("rating", &ratings).Error
	if err != nil {
		return nil, apperrors.Unexpected("failed to load reviews", err)
	}

	stats := &ProfessionalStats{
		ProfessionalID:     professionalID,
		TotalReviews:       int64(len(ratings)),
		RatingDistribution: map[string]float64{"1": 0, "2": 0, "3": 0, "4": 0, "5": 0},
	}
	if len(ratings) == 0 {
		return stats, nil
	}

	counts := make(map[int]int, 5)
	sum := 0
	for _, r := range ratings {
		counts[r]++
		sum += r
	}

	total := float64(len(ratings))
	stats.AverageRating = round1(float64(sum) / total)
	for star := 1; star <= 5; star++ {
		stats.RatingDistribution[starKey(star)] = round1(float64(counts[star]) / total * 100)
	}
	return stats, nil
}

func starKey(star int) string {
	return string(rune('0' + star))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
