package attemptengine

import "math"

// ScoreSummary — детерминированный итог завершённой попытки
type ScoreSummary struct {
	Percentage int  `json:"percentage"`
	Passed     bool `json:"passed"`
	XPAwarded  int  `json:"xp_awarded"`
}

// Score вычисляет процент, зачёт по фиксированному порогу и опыт.
// Чистая функция без побочных эффектов; вызывающий гарантирует total > 0.
func (c *Config) Score(correctCount, totalCount int) ScoreSummary {
	percentage := int(math.Round(float64(correctCount) / float64(totalCount) * 100))

	return ScoreSummary{
		Percentage: percentage,
		Passed:     percentage >= c.PassThreshold,
		XPAwarded:  int(math.Round(float64(percentage) / 100 * float64(c.MaxQuizXP))),
	}
}
