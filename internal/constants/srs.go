package constants

const (
	// Flashcard scheduling:
	// - FlashcardInitialEase is the ease assigned to new cards.
	// - FlashcardMinEase and FlashcardMaxEase clamp the ease after every review.
	// - FlashcardHardFactor grows the interval on a "hard" answer, must stay below 1.5.
	// - FlashcardEasyBonus multiplies the ease-scaled interval on an "easy" answer.
	FlashcardInitialEase     = 2.5
	FlashcardMinEase         = 1.3
	FlashcardMaxEase         = 4.0
	FlashcardAgainPenalty    = 0.25
	FlashcardHardPenalty     = 0.15
	FlashcardEasyBonusEase   = 0.15
	FlashcardHardFactor      = 1.2
	FlashcardEasyBonus       = 2.5
	FlashcardInitialInterval = 1

	// Vocabulary scheduling
	VocabularyGrowthFactor    = 2.0
	VocabularyInitialInterval = 1
)

func init() {
	// Runtime validation of the scheduling constants
	if FlashcardMinEase > FlashcardInitialEase || FlashcardInitialEase > FlashcardMaxEase {
		panic("FlashcardInitialEase must lie between FlashcardMinEase and FlashcardMaxEase")
	}
	if FlashcardHardFactor >= 1.5 {
		panic("FlashcardHardFactor must be below 1.5")
	}
	if VocabularyGrowthFactor <= 1 {
		panic("VocabularyGrowthFactor must be greater than 1")
	}
}
