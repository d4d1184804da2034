package leads

import "math"

// MaxIntelligenceScore cota superior del score.
const MaxIntelligenceScore = 13

// ScoreInputs conteos de la vista normalizada que alimentan el score.
type ScoreInputs struct {
	PhonesFound    int
	SocialAccounts int
	WebsitesFound  int
	TotalReviews   int
	AverageRating  float64
}

// IntelligenceScore señal heurística 0..13:
// min(3, teléfonos) + min(3, redes) + min(1, webs) + (1 si hay reseñas) + round(clamp(rating, 0, 5)).
// Nunca se persiste; se recalcula en cada lectura.
func IntelligenceScore(in ScoreInputs) int {
	score := clampInt(in.PhonesFound, 0, 3) +
		clampInt(in.SocialAccounts, 0, 3) +
		clampInt(in.WebsitesFound, 0, 1)
	if in.TotalReviews > 0 {
		score++
	}
	rating := in.AverageRating
	if math.IsNaN(rating) {
		rating = 0
	}
	rating = math.Max(0, math.Min(5, rating))
	return score + int(math.Round(rating))
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
