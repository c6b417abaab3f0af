package nakama

import (
	"fmt"
	"time"

	"invasion/internal/config"
	"invasion/internal/domain"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

var marshalOptions = protojson.MarshalOptions{EmitUnpopulated: true}

func parsePayload(payload string) (*structpb.Struct, error) {
	s := &structpb.Struct{}
	if payload == "" {
		return s, nil
	}
	if err := protojson.Unmarshal([]byte(payload), s); err != nil {
		return nil, fmt.Errorf("invalid payload: %w", err)
	}
	return s, nil
}

func stringField(s *structpb.Struct, key string) string {
	return s.GetFields()[key].GetStringValue()
}

func entryToProto(e domain.LeaderboardEntry) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"playerName": e.PlayerName,
		"score":      e.Score,
		"difficulty": string(e.Difficulty),
		"date":       e.Date.UTC().Format(time.RFC3339),
		"rank":       string(e.Rank),
	})
}

func entryFromProto(s *structpb.Struct) (domain.LeaderboardEntry, error) {
	e := domain.LeaderboardEntry{
		PlayerName: stringField(s, "playerName"),
		Score:      int(s.GetFields()["score"].GetNumberValue()),
		Difficulty: domain.Difficulty(stringField(s, "difficulty")),
		Rank:       domain.Rank(stringField(s, "rank")),
	}
	if e.PlayerName == "" {
		return e, fmt.Errorf("playerName is required")
	}
	if raw := stringField(s, "date"); raw != "" {
		date, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return e, fmt.Errorf("invalid date %q: %w", raw, err)
		}
		e.Date = date.UTC()
	}
	return e, nil
}

func entriesToJSON(entries []domain.LeaderboardEntry) (string, error) {
	list := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(entries))}
	for _, e := range entries {
		s, err := entryToProto(e)
		if err != nil {
			return "", err
		}
		list.Values = append(list.Values, structpb.NewStructValue(s))
	}
	b, err := marshalOptions.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("failed to marshal leaderboard: %w", err)
	}
	return string(b), nil
}

func valueToProto(v domain.Value) *structpb.Value {
	if v.IsText() {
		return structpb.NewStringValue(v.String())
	}
	return structpb.NewNumberValue(v.Float())
}

// battlePoolToJSON encodes the pool together with the pacing clients must honor.
func battlePoolToJSON(questions []domain.Question, cfg config.GameConfig) (string, error) {
	list := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(questions))}
	for _, q := range questions {
		opts := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(q.Options))}
		for _, o := range q.Options {
			opts.Values = append(opts.Values, valueToProto(o))
		}
		list.Values = append(list.Values, structpb.NewStructValue(&structpb.Struct{
			Fields: map[string]*structpb.Value{
				"id":            structpb.NewStringValue(q.ID),
				"question":      structpb.NewStringValue(q.Prompt),
				"options":       structpb.NewListValue(opts),
				"correctAnswer": valueToProto(q.CorrectAnswer),
				"difficulty":    structpb.NewStringValue(string(q.Difficulty)),
				"level":         structpb.NewStringValue(string(q.Level)),
			},
		}))
	}
	out := &structpb.Struct{Fields: map[string]*structpb.Value{
		"questions":            structpb.NewListValue(list),
		"turnSeconds":          structpb.NewNumberValue(float64(cfg.TurnDurationSeconds)),
		"revealDelayMs":        structpb.NewNumberValue(float64(cfg.RevealDelayMs)),
		"correctAnswerDelayMs": structpb.NewNumberValue(float64(cfg.CorrectAnswerDelayMs)),
		"advanceDelayMs":       structpb.NewNumberValue(float64(cfg.AdvanceDelayMs)),
		"summarySeconds":       structpb.NewNumberValue(float64(cfg.SummarySeconds)),
	}}
	b, err := marshalOptions.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("failed to marshal questions: %w", err)
	}
	return string(b), nil
}
