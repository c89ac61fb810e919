package cli

import (
	"fmt"

	"github.com/julianstephens/glowup/internal/srs"
)

type ReviewCmd struct {
	Due  ReviewDueCmd  `cmd:"" help:"List flashcards and words due today."`
	Card ReviewCardCmd `cmd:"" help:"Grade a flashcard review."`
	Word ReviewWordCmd `cmd:"" help:"Record a vocabulary review."`
}

type ReviewDueCmd struct{}

func (c *ReviewDueCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	cards := ctx.Store.DueFlashcards()
	words := ctx.Store.DueVocabulary()
	ctx.printf("%d flashcards, %d words due\n", len(cards), len(words))
	for _, card := range cards {
		ctx.printf("  card %s  %s (interval %dd)\n", card.ID, card.Question, card.Interval)
	}
	for _, w := range words {
		ctx.printf("  word %s  %s (%d reviews)\n", w.ID, w.Word, w.ReviewCount)
	}
	return nil
}

type ReviewCardCmd struct {
	ID      string `arg:"" help:"Flashcard ID."`
	Outcome string `arg:"" help:"again, hard, good or easy."`
}

func (c *ReviewCardCmd) Run(ctx *Context) error {
	outcome, err := srs.ParseOutcome(c.Outcome)
	if err != nil {
		return err
	}
	if err := ctx.Open(); err != nil {
		return err
	}
	ok, err := ctx.Store.ReviewFlashcard(c.ID, outcome)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("flashcard not found: %s", c.ID)
	}
	card, _ := ctx.Store.GetFlashcard(c.ID)
	ctx.printf("✓ Next review on %s (interval %dd, ease %.2f)\n", card.NextReview, card.Interval, card.Ease)
	return nil
}

type ReviewWordCmd struct {
	ID     string `arg:"" help:"Vocabulary word ID."`
	Result string `arg:"" help:"success or failure." enum:"success,failure"`
}

func (c *ReviewWordCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	if _, ok := ctx.Store.GetVocabularyWord(c.ID); !ok {
		return fmt.Errorf("vocabulary word not found: %s", c.ID)
	}
	ok, err := ctx.Store.MarkVocabularyReviewed(c.ID, c.Result == "success")
	if err != nil {
		return err
	}
	if !ok {
		ctx.printf("Already reviewed today.\n")
		return nil
	}
	w, _ := ctx.Store.GetVocabularyWord(c.ID)
	ctx.printf("✓ %s reviewed %d times, next after %s\n", w.Word, w.ReviewCount, w.NextReviewAt)
	return nil
}
