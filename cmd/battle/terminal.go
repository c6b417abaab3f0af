package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"invasion/internal/app"
	"invasion/internal/domain"
	"invasion/internal/ports/ws"
)

// terminal prints battle events as plain lines and turns typed commands into input.
type terminal struct {
	mu   sync.Mutex
	out  io.Writer
	snap domain.Snapshot
}

func newTerminal(out io.Writer) *terminal {
	return &terminal{out: out}
}

// Present renders one event. Clock ticks are only shown for the last five seconds.
func (t *terminal) Present(e app.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap = e.Snapshot

	switch p := e.Payload.(type) {
	case app.TurnStartedPayload:
		t.printBoard(e.Snapshot)
		if q := e.Snapshot.Question; q != nil {
			fmt.Fprintf(t.out, "Q%d [%s] %s\n", p.QuestionIndex+1, q.Level, q.Prompt)
			for i, o := range q.Options {
				fmt.Fprintf(t.out, "  %d) %s\n", i+1, o)
			}
		}
	case app.ClockTickedPayload:
		if p.Remaining <= 5 {
			fmt.Fprintf(t.out, "  ... %s\n", domain.FormatTime(p.Remaining))
		}
	case app.AnswerRevealedPayload:
		switch {
		case p.TimedOut:
			fmt.Fprintf(t.out, "%s ran out of time.\n", e.Snapshot.Players[p.Player].Name)
		case p.Correct:
			fmt.Fprintf(t.out, "%s answered %s in %ds: correct!\n", e.Snapshot.Players[p.Player].Name, p.Selected, p.Seconds)
		default:
			fmt.Fprintf(t.out, "%s answered %s: wrong.\n", e.Snapshot.Players[p.Player].Name, p.Selected)
		}
	case app.CorrectAnswerShownPayload:
		fmt.Fprintf(t.out, "The correct answer was %s.\n", p.CorrectAnswer)
	case app.SummaryTickedPayload:
		if p.Remaining == p.Total {
			t.printBoard(e.Snapshot)
			fmt.Fprintf(t.out, "Type 'next' to continue (%ds).\n", p.Total)
		}
	case app.GameOverPayload:
		if p.Result.WinnerName == "" {
			fmt.Fprintf(t.out, "Game over: draw at %d points.\n", p.Result.FinalScore)
		} else {
			fmt.Fprintf(t.out, "Game over: %s wins with %d points.\n", p.Result.WinnerName, p.Result.FinalScore)
		}
	}

	if e.Status != nil {
		fmt.Fprintf(t.out, "> %s\n", e.Status.Text)
	}
	if e.Kind == app.EventSuddenDeathIntro {
		fmt.Fprintln(t.out, "Type 'go' to begin sudden death.")
	}
}

// Play implements ports.SoundPlayer. The terminal has no audio.
func (t *terminal) Play(domain.Sound) {}

func (t *terminal) printBoard(s domain.Snapshot) {
	fmt.Fprintf(t.out, "\n[%s] ", s.Phase)
	for i, p := range s.Players {
		if i > 0 {
			fmt.Fprint(t.out, " | ")
		}
		fmt.Fprintf(t.out, "%s: %d pts, %s", p.Name, p.Score, strings.Repeat("♥", p.Lives))
	}
	fmt.Fprintln(t.out)
}

// ReadInput maps typed lines to controller calls for the given seat: an option
// number answers, "pass" passes, "go" dismisses the sudden-death intro and
// "next" leaves the summary.
func (t *terminal) ReadInput(r io.Reader, ctrl ws.Controller, seat int) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.ToLower(strings.TrimSpace(sc.Text()))
		switch line {
		case "":
			continue
		case "go":
			ctrl.DismissIntro()
			continue
		case "next":
			ctrl.Proceed()
			continue
		case "pass":
			ctrl.Answer(seat, nil)
			continue
		}

		n, err := strconv.Atoi(line)
		answer, ok := t.option(n - 1)
		if err != nil || !ok {
			t.mu.Lock()
			fmt.Fprintf(t.out, "Unknown input %q.\n", line)
			t.mu.Unlock()
			continue
		}
		ctrl.Answer(seat, &answer)
	}
}

func (t *terminal) option(i int) (domain.Value, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	q := t.snap.Question
	if q == nil || i < 0 || i >= len(q.Options) {
		return domain.Value{}, false
	}
	return q.Options[i], true
}
