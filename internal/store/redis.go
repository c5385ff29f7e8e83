package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/drewdunne/samwise/internal/issue"
	"github.com/redis/go-redis/v9"
)

// Redis stores each snapshot as a JSON document in one hash field, so a
// reader never observes a partially written issue.
type Redis struct {
	client    *redis.Client
	issuesKey string
	peopleKey string
}

// NewRedis creates a store using the given client. Keys are namespaced by prefix.
func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{
		client:    client,
		issuesKey: prefix + ":issues",
		peopleKey: prefix + ":people",
	}
}

// Connect parses the URL, connects and pings. A failure here is fatal for callers.
func Connect(ctx context.Context, url, prefix string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return NewRedis(client, prefix), nil
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}

// Ping checks the connection.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// FindByNumber returns the stored snapshot, or nil if absent.
func (r *Redis) FindByNumber(ctx context.Context, number int) (*issue.Snapshot, error) {
	data, err := r.client.HGet(ctx, r.issuesKey, strconv.Itoa(number)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading issue #%d: %w", number, err)
	}

	var s issue.Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding issue #%d: %w", number, err)
	}
	return &s, nil
}

// Upsert writes the snapshot.
func (r *Redis) Upsert(ctx context.Context, s issue.Snapshot) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding issue #%d: %w", s.Number, err)
	}

	if err := r.client.HSet(ctx, r.issuesKey, strconv.Itoa(s.Number), data).Err(); err != nil {
		return fmt.Errorf("writing issue #%d: %w", s.Number, err)
	}
	return nil
}

// ListAll returns every stored snapshot ordered by number.
func (r *Redis) ListAll(ctx context.Context) ([]issue.Snapshot, error) {
	docs, err := r.client.HGetAll(ctx, r.issuesKey).Result()
	if err != nil {
		return nil, fmt.Errorf("listing issues: %w", err)
	}

	snapshots := make([]issue.Snapshot, 0, len(docs))
	for field, data := range docs {
		var s issue.Snapshot
		if err := json.Unmarshal([]byte(data), &s); err != nil {
			return nil, fmt.Errorf("decoding issue %s: %w", field, err)
		}
		snapshots = append(snapshots, s)
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Number < snapshots[j].Number
	})
	return snapshots, nil
}

// ListPeople returns every digest recipient ordered by login.
func (r *Redis) ListPeople(ctx context.Context) ([]Person, error) {
	entries, err := r.client.HGetAll(ctx, r.peopleKey).Result()
	if err != nil {
		return nil, fmt.Errorf("listing people: %w", err)
	}

	people := make([]Person, 0, len(entries))
	for login, email := range entries {
		people = append(people, Person{Login: login, Email: email})
	}

	sort.Slice(people, func(i, j int) bool {
		return people[i].Login < people[j].Login
	})
	return people, nil
}

// AddPerson registers or updates a digest recipient.
func (r *Redis) AddPerson(ctx context.Context, p Person) error {
	if p.Login == "" || p.Email == "" {
		return fmt.Errorf("person requires login and email")
	}
	if err := r.client.HSet(ctx, r.peopleKey, p.Login, p.Email).Err(); err != nil {
		return fmt.Errorf("writing person %s: %w", p.Login, err)
	}
	return nil
}
