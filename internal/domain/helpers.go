package domain

import "fmt"

// OtherPlayer returns the opponent's index in a 1v1 battle.
func OtherPlayer(i int) int {
	return (i + 1) % 2
}

// FormatTime renders seconds as MM:SS.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Sound is a named sound effect the presentation layer knows how to play.
type Sound string

const (
	SoundCorrect   Sound = "correct"
	SoundWrong     Sound = "wrong"
	SoundAttack    Sound = "attack"
	SoundShield    Sound = "shield"
	SoundGameOver  Sound = "gameOver"
	SoundLevelUp   Sound = "levelUp"
	SoundClick     Sound = "click"
	SoundCountdown Sound = "countdown"
)
