package essays

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const (
	// 10 words.
	libraryLine = "The old library smelled of dust and quiet afternoon light."
	// 15 words.
	riverLine   = "Every morning we walked past the river and watched the boats drift slowly downstream together."
)

func repeat(n int, sentences ...string) string {
	parts := make([]string, 0, n*len(sentences))
	for i := 0; i < n; i++ {
		parts = append(parts, sentences...)
	}
	return strings.Join(parts, " ")
}

// 500 words, 40 sentences, no keyword triggers.
func balancedEssay() string {
	return repeat(20, libraryLine, riverLine)
}

func TestAnalyze_BalancedFiveHundredWords(t *testing.T) {
	fb, err := New(Options{}).Analyze(balancedEssay())
	require.NoError(t, err)

	assert.Equal(t, 500, fb.WordCount)
	assert.Equal(t, 40, fb.SentenceCount)
	assert.InDelta(t, 12.5, fb.AvgSentenceLength, 1e-9)

	assert.Equal(t, []string{StrengthBalancedStructure, StrengthAppropriateLength}, fb.Strengths)
	assert.Equal(t, StructureBalanced, fb.StructureAnalysis)

	// one improvement for the future-goals connection, plus the voice and vocabulary shortfalls
	assert.Equal(t, []string{ImprovementPersonalVoice, ImprovementVocabulary, ImprovementFutureGoals}, fb.Improvements)
	assert.Equal(t, ContentWeakVoice, fb.ContentAnalysis)

	wantSuggestions := append([]string{SuggestionFutureGoals}, GenericSuggestions...)
	if diff := cmp.Diff(wantSuggestions, fb.SpecificSuggestions); diff != "" {
		t.Errorf("suggestions mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, 75+3*2-2*3+5, fb.OverallScore)
}

func TestAnalyze_PersonalVoiceAndVocabulary(t *testing.T) {
	voice := "I believe my passion to learn and grow helps me think, feel and overcome every challenge I meet."
	essay := repeat(8, voice, libraryLine, "Our future goal is simple and clear for all of us here.")

	fb, err := New(Options{}).Analyze(essay)
	require.NoError(t, err)

	assert.Contains(t, fb.Strengths, StrengthPersonalVoice)
	assert.Contains(t, fb.Strengths, StrengthVocabulary)
	assert.Equal(t, ContentStrongVoice, fb.ContentAnalysis)
	assert.NotContains(t, fb.Improvements, ImprovementFutureGoals)
	assert.Contains(t, fb.SpecificSuggestions, SuggestionChallenges)
	assert.NotContains(t, fb.SpecificSuggestions, SuggestionFutureGoals)
	assert.Contains(t, fb.Improvements, ImprovementTooShort)
}

func TestAnalyze_StructureThresholds(t *testing.T) {
	// 24 words per sentence.
	long := "When the storm finally passed over the valley we walked along the flooded road and counted the fallen trees near the old stone mill."
	// 6 words per sentence.
	short := "The rain stopped before the dawn."

	tests := []struct {
		name      string
		variant   Variant
		text      string
		want      string
		structure string
	}{
		{"standard long", VariantStandard, repeat(6, long), ImprovementLongSentences, StructureComplex},
		{"extended tolerates 24 words", VariantExtended, repeat(6, long), StrengthBalancedStructure, StructureBalanced},
		{"standard short", VariantStandard, repeat(20, short), ImprovementShortSentences, StructureDirect},
		{"extended short", VariantExtended, repeat(20, short), ImprovementShortSentences, StructureDirect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb, err := New(Options{Variant: tt.variant}).Analyze(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.structure, fb.StructureAnalysis)
			if tt.want == StrengthBalancedStructure {
				assert.Equal(t, tt.want, fb.Strengths[0])
			} else {
				assert.Equal(t, tt.want, fb.Improvements[0])
			}
		})
	}
}

func TestAnalyze_ExtendedRules(t *testing.T) {
	rich := "When I moved schools my confidence grew and I learned to speak up. " +
		"For example, I tutored 12 students every week in the library. " +
		"I heard their questions and watched them improve. " +
		"In the future I hope to study education and build a career in teaching."

	fb, err := New(Options{Variant: VariantExtended}).Analyze(repeat(5, rich))
	require.NoError(t, err)
	for _, s := range []string{StrengthPersonalStory, StrengthSpecificDetail, StrengthFutureGoals, StrengthSensoryDetail} {
		assert.Contains(t, fb.Strengths, s)
	}

	fb, err = New(Options{Variant: VariantExtended}).Analyze(repeat(10, libraryLine))
	require.NoError(t, err)
	for _, s := range []string{ImprovementPersonalStory, ImprovementSpecificDetail, ImprovementFutureGoals} {
		assert.Contains(t, fb.Improvements, s)
	}
	// "smelled" is a sensory verb
	assert.Contains(t, fb.Strengths, StrengthSensoryDetail)
	assert.Equal(t, 1, countOf(fb.Improvements, ImprovementFutureGoals))
}

func countOf(list []string, s string) int {
	n := 0
	for _, v := range list {
		if v == s {
			n++
		}
	}
	return n
}

func TestAnalyze_LengthRule(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		improved string
	}{
		{"too short", repeat(10, libraryLine), ImprovementTooShort},
		{"too long", repeat(70, libraryLine), ImprovementTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb, err := New(Options{}).Analyze(tt.text)
			require.NoError(t, err)
			assert.Contains(t, fb.Improvements, tt.improved)
			assert.NotContains(t, fb.Strengths, StrengthAppropriateLength)
		})
	}
}

func TestAnalyze_RejectsShortEssays(t *testing.T) {
	text := strings.Repeat("word ", 99)

	fb, err := New(Options{}).Analyze(text)
	require.Error(t, err)
	assert.Nil(t, fb)
	assert.True(t, errors.Is(err, ErrPreconditionViolation))
	assert.Contains(t, err.Error(), "99 words")

	_, err = New(Options{MinWords: 50}).Analyze(text)
	assert.NoError(t, err)
}

func TestCountWords(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"one", 1},
		{"two  words", 2},
		{"\ttabs\tand\nnewlines\r\n", 3},
		{"punctuation, counts. as-one token!", 4},
		{" leading and trailing ", 3},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CountWords(tt.in))
		})
	}
}

func TestCountSentences(t *testing.T) {
	assert.Equal(t, 0, CountSentences(""))
	assert.Equal(t, 0, CountSentences("...!?"))
	assert.Equal(t, 1, CountSentences("no terminator"))
	assert.Equal(t, 3, CountSentences("One. Two!! Three?! "))
	assert.Equal(t, 2, CountSentences("Wait... what?"))
}

func TestAnalyze_WordCountMatchesTokens(t *testing.T) {
	inputs := []string{
		balancedEssay(),
		repeat(30, "Hello\tthere.\n\nGeneral   Kenobi!"),
		strings.Repeat("a ", 150) + "\n" + strings.Repeat("b\t", 10),
	}
	for _, in := range inputs {
		fb, err := New(Options{}).Analyze(in)
		require.NoError(t, err)
		assert.Equal(t, len(strings.Fields(in)), fb.WordCount)
	}
}

func TestAnalyze_NoSentenceTerminators(t *testing.T) {
	fb, err := New(Options{}).Analyze(strings.Repeat("word ", 120))
	require.NoError(t, err)
	assert.Equal(t, 1, fb.SentenceCount)
	assert.Equal(t, StructureComplex, fb.StructureAnalysis)
}

func TestAnalyze_MaxSuggestions(t *testing.T) {
	fb, err := New(Options{MaxSuggestions: 2}).Analyze(balancedEssay())
	require.NoError(t, err)

	want := []string{SuggestionFutureGoals, GenericSuggestions[0]}
	if diff := cmp.Diff(want, fb.SpecificSuggestions); diff != "" {
		t.Errorf("suggestions mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyze_RandomScore(t *testing.T) {
	a := New(Options{ScoreMode: ScoreRandom, Rand: rand.New(rand.NewPCG(7, 11))})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				fb, err := a.Analyze(balancedEssay())
				assert.NoError(t, err)
				assert.GreaterOrEqual(t, fb.OverallScore, 75)
				assert.LessOrEqual(t, fb.OverallScore, 95)
			}
		}()
	}
	wg.Wait()

	global := New(Options{ScoreMode: ScoreRandom})
	fb, err := global.Analyze(balancedEssay())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, fb.OverallScore, 75)
	assert.LessOrEqual(t, fb.OverallScore, 95)
}

func TestDerivedScore(t *testing.T) {
	tests := []struct {
		name         string
		strengths    int
		improvements int
		ideal        bool
		want         int
	}{
		{"baseline", 0, 0, false, 75},
		{"ideal length bonus", 1, 0, true, 83},
		{"clamped high", 20, 0, true, 100},
		{"clamped low", 0, 50, false, 0},
		{"mixed", 2, 4, false, 73},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DerivedScore(tt.strengths, tt.improvements, tt.ideal))
		})
	}
}

func TestAnalyzeContext_Latency(t *testing.T) {
	defer goleak.VerifyNone(t)

	a := New(Options{Latency: 10 * time.Millisecond})
	start := time.Now()
	fb, err := a.AnalyzeContext(context.Background(), balancedEssay())
	require.NoError(t, err)
	assert.NotNil(t, fb)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestAnalyzeContext_Cancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	a := New(Options{Latency: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := a.AnalyzeContext(ctx, balancedEssay())
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("AnalyzeContext did not return after cancellation")
	}

	_, err := New(Options{}).AnalyzeContext(ctx, balancedEssay())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseOptions(t *testing.T) {
	v, err := ParseVariant("EXTENDED")
	require.NoError(t, err)
	assert.Equal(t, VariantExtended, v)

	_, err = ParseVariant("fancy")
	assert.Error(t, err)

	m, err := ParseScoreMode("")
	require.NoError(t, err)
	assert.Equal(t, ScoreDerived, m)

	_, err = ParseScoreMode("weighted")
	assert.Error(t, err)
}
