// Package essays produces rule-based feedback on college application essays.
package essays

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"sync"
	"time"

	"collegeequity-workers/internal/models"
)

// DefaultMinWords is the shortest essay the analyzer accepts.
const DefaultMinWords = 100

// Length window for a typical application essay.
const (
	MinIdealWords = 400
	MaxIdealWords = 650
)

// ErrPreconditionViolation is returned for essays below the minimum word count.
var ErrPreconditionViolation = errors.New("analysis precondition violation")

// Variant selects the rule set.
type Variant string

const (
	VariantStandard Variant = "standard"
	VariantExtended Variant = "extended"
)

// ScoreMode selects how OverallScore is produced.
type ScoreMode string

const (
	ScoreDerived ScoreMode = "derived"
	ScoreRandom  ScoreMode = "random"
)

// ParseVariant maps a config value onto a Variant; empty means standard.
func ParseVariant(s string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(s))) {
	case "", VariantStandard:
		return VariantStandard, nil
	case VariantExtended:
		return VariantExtended, nil
	default:
		return "", fmt.Errorf("unknown essay variant %q", s)
	}
}

// ParseScoreMode maps a config value onto a ScoreMode; empty means derived.
func ParseScoreMode(s string) (ScoreMode, error) {
	switch ScoreMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScoreDerived:
		return ScoreDerived, nil
	case ScoreRandom:
		return ScoreRandom, nil
	default:
		return "", fmt.Errorf("unknown essay score mode %q", s)
	}
}

// Feedback texts.
const (
	ImprovementLongSentences  = "Consider breaking up some longer sentences for better readability"
	ImprovementShortSentences = "Consider combining some shorter sentences for better flow"
	StrengthBalancedStructure = "Well-balanced sentence structure throughout"

	StructureComplex  = "Your essay has complex sentence structures. While this shows sophistication, ensure clarity isn't sacrificed."
	StructureDirect   = "Your writing style is clear and direct. Consider varying sentence length for more engaging prose."
	StructureBalanced = "Excellent sentence variety and structure that maintains reader engagement."

	StrengthPersonalVoice    = "Authentic personal narrative"
	ImprovementPersonalVoice = "Consider adding more personal reflection and voice"
	ContentStrongVoice       = "Strong personal voice comes through clearly. Your authentic perspective is evident."
	ContentWeakVoice         = "The essay could benefit from more personal insight and reflection."

	StrengthVocabulary    = "Rich emotional vocabulary that connects with readers"
	ImprovementVocabulary = "Include more emotional depth and personal growth elements"

	StrengthPersonalStory     = "Compelling personal story with clear growth"
	ImprovementPersonalStory  = "Share a specific moment where you grew or changed"
	StrengthSpecificDetail    = "Specific details and examples make your story concrete"
	ImprovementSpecificDetail = "Add concrete details, numbers, or examples"
	StrengthFutureGoals       = "Clear connection to future goals"
	ImprovementFutureGoals    = "Connect your experiences to your future goals"
	StrengthSensoryDetail     = "Vivid sensory details draw the reader in"
	ImprovementSensoryDetail  = "Use sensory details to bring key scenes to life"
	ImprovementTooShort       = "Essay may be too short - consider expanding on key points"
	ImprovementTooLong        = "Essay may be too long - consider condensing to focus on most impactful elements"
	StrengthAppropriateLength = "Appropriate length for college application essay"
	SuggestionChallenges      = "Great focus on challenges! Consider elaborating on what you learned from overcoming them."
	SuggestionCommunity       = "Your community involvement is valuable. Quantify your impact where possible."
	SuggestionFutureGoals     = "Consider connecting your experiences to your future goals and how college fits into your plans."
)

// GenericSuggestions are appended to every report, in this order.
var GenericSuggestions = []string{
	"Start with a compelling hook that draws readers in immediately",
	"Use specific examples and anecdotes rather than general statements",
	"Show your personality and what makes you unique",
	"End with a strong conclusion that ties back to your opening",
}

var (
	sentenceSplit    = regexp.MustCompile(`[.!?]+`)
	pronounPattern   = regexp.MustCompile(`(?i)\b(I|me|my|myself)\b`)
	growthVocabulary = regexp.MustCompile(`(?i)\b(passion|dream|believe|feel|think|learn|grow|challenge|overcome)\b`)
)

type toggleRule struct {
	pattern     *regexp.Regexp
	strength    string
	improvement string
}

var extendedRules = []toggleRule{
	{
		pattern:     regexp.MustCompile(`(?i)\b(I|my)\b[^.!?]{0,60}\b(learned|realized|discovered|grew|changed|overcame)\b`),
		strength:    StrengthPersonalStory,
		improvement: ImprovementPersonalStory,
	},
	{
		pattern:     regexp.MustCompile(`(?i)\b(\d+|for example|for instance|example)\b`),
		strength:    StrengthSpecificDetail,
		improvement: ImprovementSpecificDetail,
	},
	{
		pattern:     regexp.MustCompile(`(?i)\b(future|goals?|aspire|career|plan to|hope to)\b`),
		strength:    StrengthFutureGoals,
		improvement: ImprovementFutureGoals,
	},
	{
		pattern:     regexp.MustCompile(`(?i)\b(saw|heard|smelled|felt|tasted|touched|watched|listened)\b`),
		strength:    StrengthSensoryDetail,
		improvement: ImprovementSensoryDetail,
	},
}

type thresholds struct {
	long  float64
	short float64
}

// Options configures an Analyzer. Zero values select the defaults.
type Options struct {
	Variant        Variant
	ScoreMode      ScoreMode
	MinWords       int
	MaxSuggestions int
	// Latency is waited by AnalyzeContext before analysis.
	Latency time.Duration
	// Rand drives ScoreRandom; nil uses the global source.
	Rand *rand.Rand
}

// Analyzer scores essays. It is safe for concurrent use.
type Analyzer struct {
	opts       Options
	thresholds thresholds

	mu sync.Mutex // guards opts.Rand
}

// New returns an Analyzer for opts.
func New(opts Options) *Analyzer {
	if opts.Variant != VariantExtended {
		opts.Variant = VariantStandard
	}
	if opts.ScoreMode != ScoreRandom {
		opts.ScoreMode = ScoreDerived
	}
	if opts.MinWords <= 0 {
		opts.MinWords = DefaultMinWords
	}
	if opts.MaxSuggestions < 0 {
		opts.MaxSuggestions = 0
	}

	th := thresholds{long: 20, short: 10}
	if opts.Variant == VariantExtended {
		th = thresholds{long: 25, short: 12}
	}
	return &Analyzer{opts: opts, thresholds: th}
}

// Options returns the effective options.
func (a *Analyzer) Options() Options {
	return a.opts
}

// AnalyzeContext waits the configured latency, then analyzes text.
// It returns ctx.Err() if ctx is done first.
func (a *Analyzer) AnalyzeContext(ctx context.Context, text string) (*models.EssayFeedback, error) {
	if a.opts.Latency > 0 {
		timer := time.NewTimer(a.opts.Latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}
	return a.Analyze(text)
}

// Analyze builds the feedback report for text.
func (a *Analyzer) Analyze(text string) (*models.EssayFeedback, error) {
	wordCount := CountWords(text)
	if wordCount < a.opts.MinWords {
		return nil, fmt.Errorf("%w: %d words, minimum is %d", ErrPreconditionViolation, wordCount, a.opts.MinWords)
	}

	sentenceCount := CountSentences(text)
	if sentenceCount == 0 {
		sentenceCount = 1
	}
	avg := float64(wordCount) / float64(sentenceCount)

	fb := &models.EssayFeedback{
		Strengths:           []string{},
		Improvements:        []string{},
		SpecificSuggestions: []string{},
		WordCount:           wordCount,
		SentenceCount:       sentenceCount,
		AvgSentenceLength:   avg,
	}

	switch {
	case avg > a.thresholds.long:
		fb.Improvements = append(fb.Improvements, ImprovementLongSentences)
		fb.StructureAnalysis = StructureComplex
	case avg < a.thresholds.short:
		fb.Improvements = append(fb.Improvements, ImprovementShortSentences)
		fb.StructureAnalysis = StructureDirect
	default:
		fb.Strengths = append(fb.Strengths, StrengthBalancedStructure)
		fb.StructureAnalysis = StructureBalanced
	}

	pronouns := len(pronounPattern.FindAllStringIndex(text, -1))
	if float64(pronouns) > float64(wordCount)*0.05 {
		fb.Strengths = append(fb.Strengths, StrengthPersonalVoice)
		fb.ContentAnalysis = ContentStrongVoice
	} else {
		fb.Improvements = append(fb.Improvements, ImprovementPersonalVoice)
		fb.ContentAnalysis = ContentWeakVoice
	}

	if len(growthVocabulary.FindAllStringIndex(text, -1)) > 5 {
		fb.Strengths = append(fb.Strengths, StrengthVocabulary)
	} else {
		fb.Improvements = append(fb.Improvements, ImprovementVocabulary)
	}

	lower := strings.ToLower(text)
	mentionsFuture := strings.Contains(lower, "future") || strings.Contains(lower, "goal")

	if a.opts.Variant == VariantExtended {
		for _, rule := range extendedRules {
			if rule.pattern.MatchString(text) {
				fb.Strengths = append(fb.Strengths, rule.strength)
			} else {
				fb.Improvements = append(fb.Improvements, rule.improvement)
			}
		}
	} else if !mentionsFuture {
		fb.Improvements = append(fb.Improvements, ImprovementFutureGoals)
	}

	if strings.Contains(lower, "challenge") || strings.Contains(lower, "difficult") {
		fb.SpecificSuggestions = append(fb.SpecificSuggestions, SuggestionChallenges)
	}
	if strings.Contains(lower, "community") || strings.Contains(lower, "volunteer") {
		fb.SpecificSuggestions = append(fb.SpecificSuggestions, SuggestionCommunity)
	}
	if !mentionsFuture {
		fb.SpecificSuggestions = append(fb.SpecificSuggestions, SuggestionFutureGoals)
	}

	idealLength := false
	switch {
	case wordCount < MinIdealWords:
		fb.Improvements = append(fb.Improvements, ImprovementTooShort)
	case wordCount > MaxIdealWords:
		fb.Improvements = append(fb.Improvements, ImprovementTooLong)
	default:
		idealLength = true
		fb.Strengths = append(fb.Strengths, StrengthAppropriateLength)
	}

	fb.SpecificSuggestions = append(fb.SpecificSuggestions, GenericSuggestions...)
	if n := a.opts.MaxSuggestions; n > 0 && len(fb.SpecificSuggestions) > n {
		fb.SpecificSuggestions = fb.SpecificSuggestions[:n]
	}

	if a.opts.ScoreMode == ScoreRandom {
		fb.OverallScore = a.randomScore()
	} else {
		fb.OverallScore = DerivedScore(len(fb.Strengths), len(fb.Improvements), idealLength)
	}

	return fb, nil
}

func (a *Analyzer) randomScore() int {
	if a.opts.Rand == nil {
		return 75 + rand.IntN(21)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return 75 + a.opts.Rand.IntN(21)
}

// DerivedScore is 75 + 3 per strength - 2 per improvement + 5 for an ideal length, clamped to [0, 100].
func DerivedScore(strengths, improvements int, idealLength bool) int {
	score := 75 + 3*strengths - 2*improvements
	if idealLength {
		score += 5
	}
	return min(max(score, 0), 100)
}

// CountWords counts whitespace-delimited non-empty tokens.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// CountSentences counts segments between runs of '.', '!' and '?' that are non-empty after trimming.
func CountSentences(text string) int {
	n := 0
	for _, seg := range sentenceSplit.Split(text, -1) {
		if strings.TrimSpace(seg) != "" {
			n++
		}
	}
	return n
}
