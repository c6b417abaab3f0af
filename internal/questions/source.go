// Package questions loads question banks from disk or over HTTP.
package questions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"invasion/internal/domain"
)

var ErrUnknownDifficulty = errors.New("unknown difficulty")

// rawQuestion is the on-disk shape. Ids and difficulty are assigned at load time.
type rawQuestion struct {
	Question      string         `json:"question"`
	Options       []domain.Value `json:"options"`
	CorrectAnswer domain.Value   `json:"correctAnswer"`
	Level         domain.Level   `json:"level"`
}

// Decode parses a bank, assigning ids "<difficulty>-<index>" and shuffling each
// question's options.
func Decode(data []byte, difficulty domain.Difficulty, rng *rand.Rand) ([]domain.Question, error) {
	var raw []rawQuestion
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s questions: %w", difficulty, err)
	}
	out := make([]domain.Question, 0, len(raw))
	for i, r := range raw {
		opts := append([]domain.Value(nil), r.Options...)
		rng.Shuffle(len(opts), func(a, b int) { opts[a], opts[b] = opts[b], opts[a] })
		out = append(out, domain.Question{
			ID:            fmt.Sprintf("%s-%d", difficulty, i),
			Prompt:        r.Question,
			Options:       opts,
			CorrectAnswer: r.CorrectAnswer,
			Difficulty:    difficulty,
			Level:         r.Level,
		})
	}
	return out, nil
}

// lockedRand guards a rand.Rand shared by concurrent loads.
type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newLockedRand(rng *rand.Rand) *lockedRand {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &lockedRand{rng: rng}
}

func (l *lockedRand) decode(data []byte, d domain.Difficulty) ([]domain.Question, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Decode(data, d, l.rng)
}

// FileSource reads "<dir>/<difficulty>.json".
type FileSource struct {
	dir string
	rng *lockedRand
}

// NewFileSource returns a source rooted at dir. A nil rng is seeded from the clock.
func NewFileSource(dir string, rng *rand.Rand) *FileSource {
	return &FileSource{dir: dir, rng: newLockedRand(rng)}
}

// Questions implements ports.QuestionSource.
func (s *FileSource) Questions(_ context.Context, difficulty domain.Difficulty) ([]domain.Question, error) {
	if !difficulty.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDifficulty, difficulty)
	}
	data, err := os.ReadFile(filepath.Join(s.dir, string(difficulty)+".json"))
	if err != nil {
		return nil, fmt.Errorf("read %s questions: %w", difficulty, err)
	}
	return s.rng.decode(data, difficulty)
}

// HTTPSource fetches "<baseURL>/<difficulty>.json".
type HTTPSource struct {
	baseURL string
	client  *http.Client
	rng     *lockedRand
}

// NewHTTPSource returns a source backed by client, or a client with a 10s timeout
// when nil.
func NewHTTPSource(baseURL string, client *http.Client, rng *rand.Rand) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		rng:     newLockedRand(rng),
	}
}

// Questions implements ports.QuestionSource.
func (s *HTTPSource) Questions(ctx context.Context, difficulty domain.Difficulty) ([]domain.Question, error) {
	if !difficulty.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDifficulty, difficulty)
	}
	url := fmt.Sprintf("%s/%s.json", s.baseURL, difficulty)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	return s.rng.decode(data, difficulty)
}
