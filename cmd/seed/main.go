package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/chakravyuh/quiz-backend/internal/config"
	"github.com/chakravyuh/quiz-backend/internal/database"
	"github.com/chakravyuh/quiz-backend/internal/logger"
	"github.com/chakravyuh/quiz-backend/internal/model"
	"github.com/chakravyuh/quiz-backend/internal/repository"
)

const (
	realTeams = 16
	testTeams = 8
	sets      = 3
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	teamRepo := repository.NewTeamRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)

	fmt.Printf("=== Seeding %d teams (+%d test) and %d question sets ===\n", realTeams, testTeams, sets)

	existing, err := teamRepo.List(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list teams")
	}
	if len(existing) > 0 {
		fmt.Printf("Teams already exist (%d), skipping team seed\n", len(existing))
	} else {
		seedTeams(ctx, teamRepo)
	}

	setIDs, err := questionRepo.ListSetIDs(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list question sets")
	}
	if len(setIDs) > 0 {
		fmt.Printf("Question sets already exist (%d), skipping question seed\n", len(setIDs))
	} else {
		seedQuestions(ctx, questionRepo)
	}

	fmt.Println("Done")
}

func seedTeams(ctx context.Context, teamRepo *repository.TeamRepository) {
	for i := 1; i <= realTeams; i++ {
		team := &model.Team{
			TeamCode:    fmt.Sprintf("CHKV-%02d", i),
			TeamName:    fmt.Sprintf("Team %02d", i),
			AccessToken: newAccessToken(),
			IsTest:      false,
		}
		mustCreateTeam(ctx, teamRepo, team)
	}
	for i := 1; i <= testTeams; i++ {
		team := &model.Team{
			TeamCode:    fmt.Sprintf("TEST-%02d", i),
			TeamName:    fmt.Sprintf("Test Team %02d", i),
			AccessToken: newAccessToken(),
			IsTest:      true,
		}
		mustCreateTeam(ctx, teamRepo, team)
	}
	fmt.Printf("Created %d teams\n", realTeams+testTeams)
}

func mustCreateTeam(ctx context.Context, teamRepo *repository.TeamRepository, team *model.Team) {
	if err := teamRepo.Create(ctx, team); err != nil {
		fmt.Printf("Failed to create %s: %v\n", team.TeamCode, err)
		return
	}
	fmt.Printf("  %s  token=%s\n", team.TeamCode, team.AccessToken)
}

// seedQuestions creates placeholder sets: six single-choice questions and
// one free-text question per set. Real content is loaded by the organizers
// before the event; this seed only makes the flow runnable end to end.
func seedQuestions(ctx context.Context, questionRepo *repository.QuestionRepository) {
	created := 0
	for set := 1; set <= sets; set++ {
		for pos := 1; pos <= model.TotalPositions; pos++ {
			q := buildQuestion(set, pos)
			if err := q.Validate(); err != nil {
				fmt.Printf("Invalid seed question (set %d #%d): %v\n", set, pos, err)
				continue
			}
			if err := questionRepo.Create(ctx, q); err != nil {
				fmt.Printf("Failed to create question (set %d #%d): %v\n", set, pos, err)
				continue
			}
			created++
		}
	}
	fmt.Printf("Created %d questions in %d sets\n", created, sets)
}

func buildQuestion(set, pos int) *model.Question {
	// The last question of each set is free-text.
	if pos == model.TotalPositions {
		return &model.Question{
			QuestionText: fmt.Sprintf("Set %d, question %d: explain your reasoning in your own words.", set, pos),
			Kind:         model.QuestionKindFreeText,
			MaxPoints:    15,
			SetID:        set,
		}
	}
	return &model.Question{
		QuestionText: fmt.Sprintf("Set %d, question %d: pick the correct option.", set, pos),
		Kind:         model.QuestionKindSingleChoice,
		Options: []model.QuestionOption{
			{Label: "A", Text: "First option"},
			{Label: "B", Text: "Second option"},
			{Label: "C", Text: "Third option"},
			{Label: "D", Text: "Fourth option"},
		},
		CorrectLabel: string(rune('A' + (set+pos)%4)),
		MaxPoints:    10,
		SetID:        set,
	}
}

func newAccessToken() string {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}
