package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

func (r *eventRepo) AppendQuiz(ctx context.Context, data QuizEventData) error {
	err := r.appendEvent(ctx, tableQuizEvents, data.SessionID,
		[]string{columnTopicID, "score", "passed", "captured"},
		[]any{data.TopicID, data.Score, data.Passed, data.Captured},
	)
	if err != nil {
		return fmt.Errorf("save quiz event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryQuizEvents(ctx context.Context, opts QueryOpts) ([]QuizEvent, error) {
	query, args := selectEvents(tableQuizEvents, opts, columnTopicID, "score", "passed", "captured")
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query quiz events: %w", err)
	}
	defer rows.Close()

	var events []QuizEvent
	for rows.Next() {
		var (
			e  QuizEvent
			ts int64
		)
		if err := rows.Scan(&e.ID, &e.Sequence, &ts, &e.SessionID,
			&e.TopicID, &e.Score, &e.Passed, &e.Captured); err != nil {
			return nil, fmt.Errorf("scan quiz event: %w", err)
		}
		e.Timestamp = time.UnixMilli(ts)
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepo) AppendDiscovery(ctx context.Context, data DiscoveryEventData) error {
	matched, err := encodeIDs(data.Matched)
	if err != nil {
		return fmt.Errorf("save discovery event: %w", err)
	}
	unlocked, err := encodeIDs(data.NewlyUnlocked)
	if err != nil {
		return fmt.Errorf("save discovery event: %w", err)
	}

	err = r.appendEvent(ctx, tableDiscovery, data.SessionID,
		[]string{"query", "matched", "newly_unlocked"},
		[]any{data.Query, matched, unlocked},
	)
	if err != nil {
		return fmt.Errorf("save discovery event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryDiscoveryEvents(ctx context.Context, opts QueryOpts) ([]DiscoveryEvent, error) {
	query, args := selectEvents(tableDiscovery, opts, "query", "matched", "newly_unlocked")
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query discovery events: %w", err)
	}
	defer rows.Close()

	var events []DiscoveryEvent
	for rows.Next() {
		var (
			e                 DiscoveryEvent
			ts                int64
			matched, unlocked string
		)
		if err := rows.Scan(&e.ID, &e.Sequence, &ts, &e.SessionID,
			&e.Query, &matched, &unlocked); err != nil {
			return nil, fmt.Errorf("scan discovery event: %w", err)
		}
		e.Timestamp = time.UnixMilli(ts)
		if e.Matched, err = decodeIDs(matched); err != nil {
			return nil, fmt.Errorf("decode matched ids for event %d: %w", e.ID, err)
		}
		if e.NewlyUnlocked, err = decodeIDs(unlocked); err != nil {
			return nil, fmt.Errorf("decode unlocked ids for event %d: %w", e.ID, err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func encodeIDs(ids []string) (string, error) {
	if len(ids) == 0 {
		return "", nil
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeIDs(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(s), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}
