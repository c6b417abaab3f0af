package domain

import (
	"reflect"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestResolveOutcome(t *testing.T) {
	tests := []struct {
		name        string
		state       MatchState
		wantWinner  int
		wantBonus   int
		wantBonusTo int
		wantScores  [2]int
	}{
		{
			name: "LastChanceFailureIgnoresScores",
			state: MatchState{
				Players: [2]PlayerStats{
					{Name: "A", Score: 10, Lives: 2},
					{Name: "B", Score: 300, Lives: 0},
				},
				LastChancePlayer: 1,
				Ended:            true,
				EndReason:        EndReasonLastChanceFailed,
			},
			wantWinner:  0,
			wantBonusTo: -1,
			wantScores:  [2]int{10, 300},
		},
		{
			name: "SuddenDeathOnlyOneCorrect",
			state: MatchState{
				Players: [2]PlayerStats{
					{Name: "A", Score: 40, SuddenDeathTime: intPtr(4)},
					{Name: "B", Score: 90, SuddenDeathTime: intPtr(NeverAnswered)},
				},
				LastChancePlayer: -1,
				EndReason:        EndReasonSuddenDeath,
			},
			wantWinner:  0,
			wantBonus:   SuddenDeathBonus,
			wantBonusTo: 0,
			wantScores:  [2]int{90, 90},
		},
		{
			name: "SuddenDeathFasterWins",
			state: MatchState{
				Players: [2]PlayerStats{
					{Name: "A", Score: 100, SuddenDeathTime: intPtr(6)},
					{Name: "B", Score: 60, SuddenDeathTime: intPtr(3)},
				},
				LastChancePlayer: -1,
				EndReason:        EndReasonSuddenDeath,
			},
			wantWinner:  1,
			wantBonus:   SuddenDeathBonus,
			wantBonusTo: 1,
			wantScores:  [2]int{100, 110},
		},
		{
			name: "SuddenDeathNeitherCorrectHigherScoreWins",
			state: MatchState{
				Players: [2]PlayerStats{
					{Name: "A", Score: 30, SuddenDeathTime: intPtr(NeverAnswered)},
					{Name: "B", Score: 45, SuddenDeathTime: intPtr(NeverAnswered)},
				},
				LastChancePlayer: -1,
				EndReason:        EndReasonSuddenDeath,
			},
			wantWinner:  1,
			wantBonusTo: -1,
			wantScores:  [2]int{30, 45},
		},
		{
			name: "SuddenDeathEqualTimesFallBackToScore",
			state: MatchState{
				Players: [2]PlayerStats{
					{Name: "A", Score: 80, SuddenDeathTime: intPtr(5)},
					{Name: "B", Score: 20, SuddenDeathTime: intPtr(5)},
				},
				LastChancePlayer: -1,
				EndReason:        EndReasonSuddenDeath,
			},
			wantWinner:  0,
			wantBonusTo: -1,
			wantScores:  [2]int{80, 20},
		},
		{
			name: "SuddenDeathCompleteTieIsDraw",
			state: MatchState{
				Players: [2]PlayerStats{
					{Name: "A", Score: 20, SuddenDeathTime: intPtr(NeverAnswered)},
					{Name: "B", Score: 20},
				},
				LastChancePlayer: -1,
				EndReason:        EndReasonSuddenDeath,
			},
			wantWinner:  -1,
			wantBonusTo: -1,
			wantScores:  [2]int{20, 20},
		},
		{
			name: "EliminationSurvivorWins",
			state: MatchState{
				Players: [2]PlayerStats{
					{Name: "A", Score: 10, Lives: 0},
					{Name: "B", Score: 5, Lives: 1},
				},
				LastChancePlayer: -1,
			},
			wantWinner:  1,
			wantBonusTo: -1,
			wantScores:  [2]int{10, 5},
		},
		{
			name: "EliminationAmbiguousHigherScore",
			state: MatchState{
				Players: [2]PlayerStats{
					{Name: "A", Score: 70, Lives: 2},
					{Name: "B", Score: 35, Lives: 2},
				},
				LastChancePlayer: -1,
			},
			wantWinner:  0,
			wantBonusTo: -1,
			wantScores:  [2]int{70, 35},
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			out := ResolveOutcome(&test.state)
			if out.Winner != test.wantWinner {
				t.Fatalf("winner = %d, want %d", out.Winner, test.wantWinner)
			}
			if out.BonusPlayer != test.wantBonusTo || out.Bonus != test.wantBonus {
				t.Fatalf("bonus = %d to %d, want %d to %d", out.Bonus, out.BonusPlayer, test.wantBonus, test.wantBonusTo)
			}
			for i, want := range test.wantScores {
				if out.Players[i].Score != want {
					t.Fatalf("player %d final score = %d, want %d", i, out.Players[i].Score, want)
				}
			}
		})
	}
}

func TestResolveOutcomeIsPure(t *testing.T) {
	state := MatchState{
		Players: [2]PlayerStats{
			{Name: "A", Score: 40, SuddenDeathTime: intPtr(4)},
			{Name: "B", Score: 90, SuddenDeathTime: intPtr(NeverAnswered)},
		},
		LastChancePlayer: -1,
		EndReason:        EndReasonSuddenDeath,
	}

	first := ResolveOutcome(&state)
	second := ResolveOutcome(&state)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("outcome differs between calls: %+v vs %+v", first, second)
	}
	if state.Players[0].Score != 40 {
		t.Fatalf("ResolveOutcome mutated the state: score = %d", state.Players[0].Score)
	}
}

func TestOutcomeResult(t *testing.T) {
	out := Outcome{
		Winner:      1,
		BonusPlayer: -1,
		Players: [2]PlayerStats{
			{ID: "a", Name: "A", Score: 10},
			{ID: "b", Name: "B", Score: 55, Lives: 2, CorrectAnswers: 4, QuestionsAnswered: 10},
		},
	}
	res := out.Result()
	if res.FinalScore != 55 || res.WinnerName != "B" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Stats == nil || res.Stats.CorrectAnswers != 4 || res.Stats.Lives != 2 {
		t.Fatalf("unexpected stats: %+v", res.Stats)
	}

	out.Winner = -1
	res = out.Result()
	if res.WinnerName != "" || res.Stats != nil || res.FinalScore != 55 {
		t.Fatalf("draw result = %+v, want best score without winner", res)
	}
}
