package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/config"
	"timed-quiz-service/internal/domain"
)

// NewPlayCmd runs a single game in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	var (
		difficulty string
		offline    bool
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a timed quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOptional(*configPath)
			if err != nil {
				return err
			}
			if offline {
				cfg.OpenTDB.Offline = true
			}
			raw := difficulty
			if raw == "" {
				raw = cfg.Quiz.DefaultDifficulty
			}
			if raw == "" {
				raw = string(domain.DifficultyEasy)
			}
			d, err := domain.ParseDifficulty(raw)
			if err != nil {
				return err
			}

			b, err := connectBackends(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer b.close()

			return runPlay(cmd.Context(), questionProvider(cfg, b), cfg.SessionSettings(), d, os.Stdin, os.Stdout)
		},
	}
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "easy, medium or hard")
	cmd.Flags().BoolVar(&offline, "offline", false, "use the built-in question bank")
	return cmd
}

func runPlay(ctx context.Context, provider app.QuestionProvider, settings app.Settings, difficulty domain.Difficulty, in io.Reader, out io.Writer) error {
	session := app.NewSession(uuid.NewString(), provider, settings)
	defer session.Close()

	updates, cancel := session.Subscribe()
	defer cancel()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	go session.Load(ctx, difficulty)

	var prev domain.Snapshot
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				lines = nil
				continue
			}
			handleInput(session, out, line)
		case snap, ok := <-updates:
			if !ok {
				return nil
			}
			done, err := render(out, prev, snap)
			if done || err != nil {
				return err
			}
			prev = snap
		}
	}
}

func handleInput(session *app.Session, out io.Writer, line string) {
	snap := session.Snapshot()
	if snap.State != domain.StateActive {
		return
	}
	input := strings.ToUpper(strings.TrimSpace(line))
	if input == "H" {
		if !session.ShowHint() {
			fmt.Fprintln(out, "Hint already used.")
		}
		return
	}
	if len(input) == 1 {
		idx := int(input[0] - 'A')
		if idx >= 0 && idx < len(snap.Answers) {
			session.SelectAnswer(snap.Answers[idx])
			return
		}
	}
	fmt.Fprintf(out, "Enter a letter A-%c, or h for a hint.\n", 'A'+rune(len(snap.Answers)-1))
}

// render prints what changed between two snapshots and reports whether the game ended.
func render(out io.Writer, prev, snap domain.Snapshot) (bool, error) {
	switch snap.State {
	case domain.StateLoading:
		if prev.State != domain.StateLoading {
			fmt.Fprintf(out, "Loading %s questions...\n", snap.Difficulty)
		}
	case domain.StateFailed:
		return true, fmt.Errorf("load questions: %s", snap.Error)
	case domain.StateActive:
		if prev.State != domain.StateActive || prev.Index != snap.Index {
			printQuestion(out, snap)
			return false, nil
		}
		if snap.HintShown && !prev.HintShown {
			fmt.Fprintf(out, "Hint: it is not %s\n", strings.Join(snap.Suppressed, " or "))
		}
		if left := wholeSeconds(snap.TimeRemaining); left <= 3 && left < wholeSeconds(prev.TimeRemaining) {
			fmt.Fprintf(out, "%ds left\n", left)
		}
	case domain.StateAnswered:
		if prev.State == domain.StateAnswered {
			return false, nil
		}
		switch {
		case !snap.HasSelection:
			fmt.Fprintf(out, "Time's up! The answer was %s\n\n", snap.CorrectAnswer)
		case snap.Selected == snap.CorrectAnswer:
			fmt.Fprintf(out, "Correct!\n\n")
		default:
			fmt.Fprintf(out, "Wrong. The answer was %s\n\n", snap.CorrectAnswer)
		}
	case domain.StateGameOver:
		fmt.Fprintf(out, "Final score: %d/%d (%d%%)\n", snap.Score, snap.Total, snap.Percentage)
		return true, nil
	}
	return false, nil
}

func printQuestion(out io.Writer, snap domain.Snapshot) {
	fmt.Fprintf(out, "Q%d/%d [%s]: %s\n", snap.Index+1, snap.Total, snap.Category, snap.Question)
	for i, answer := range snap.Answers {
		fmt.Fprintf(out, "  %c. %s\n", 'A'+rune(i), answer)
	}
	fmt.Fprintf(out, "(%ds to answer, h for a hint)\n", wholeSeconds(snap.TimeRemaining))
}

func wholeSeconds(seconds float64) int {
	return int(math.Ceil(seconds))
}
