package sentiment

import (
	"regexp"
	"strings"

	"github.com/jonreiter/govader"

	"github.com/spacesedan/stockdigest/internal/models"
)

var analyzer = govader.NewSentimentIntensityAnalyzer()

var (
	tagPattern = regexp.MustCompile(`<[^>]*>`)
	urlPattern = regexp.MustCompile(`https?://\S+|www\.\S+`)
)

// CleanText strips markup and bare URLs so only prose reaches the scorer.
func CleanText(input string) string {
	input = tagPattern.ReplaceAllString(input, " ")
	input = urlPattern.ReplaceAllString(input, "")
	return strings.Join(strings.Fields(input), " ")
}

// ScoreHeadline runs VADER over an article's title and summary and maps the
// compound score onto the digest's sentiment labels. Purely lexical — used
// for the tone badge next to each headline, never as a substitute for the
// model's per-holding analysis.
func ScoreHeadline(a models.Article) (float64, models.Sentiment) {
	text := CleanText(a.Title + ". " + a.Summary)
	if text == "" {
		return 0, models.SentimentNeutral
	}

	score := analyzer.PolarityScores(text).Compound

	switch {
	case score >= 0.20:
		return score, models.SentimentPositive
	case score <= -0.20:
		return score, models.SentimentNegative
	default:
		return score, models.SentimentNeutral
	}
}
