package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tutorhive/tutorplan-api/internal/models"
)

// ScheduleProposal holds one generated schedule awaiting a save decision.
type ScheduleProposal struct {
	ID          string                `json:"id"`
	Result      models.ScheduleResult `json:"result"`
	RequestedAt time.Time             `json:"requested_at"`
}

// ProposalStore keeps proposals alive for a bounded window. A miss after
// expiry is reported as not-found, never as an error.
type ProposalStore interface {
	Save(ctx context.Context, proposal *ScheduleProposal) error
	Get(ctx context.Context, id string) (*ScheduleProposal, bool, error)
	Delete(ctx context.Context, id string) error
}

type memoryProposalStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryProposalEntry
}

type memoryProposalEntry struct {
	proposal  *ScheduleProposal
	expiresAt time.Time
}

// NewMemoryProposalStore is the default store when Redis is not configured.
// Expired entries are purged lazily on every call.
func NewMemoryProposalStore(ttl time.Duration) ProposalStore {
	return &memoryProposalStore{
		ttl:     ttl,
		entries: make(map[string]memoryProposalEntry),
	}
}

func (s *memoryProposalStore) Save(_ context.Context, proposal *ScheduleProposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()
	s.entries[proposal.ID] = memoryProposalEntry{
		proposal:  proposal,
		expiresAt: time.Now().Add(s.ttl),
	}
	return nil
}

func (s *memoryProposalStore) Get(_ context.Context, id string) (*ScheduleProposal, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()
	entry, ok := s.entries[id]
	if !ok {
		return nil, false, nil
	}
	return entry.proposal, true, nil
}

func (s *memoryProposalStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

func (s *memoryProposalStore) purgeLocked() {
	now := time.Now()
	for id, entry := range s.entries {
		if entry.expiresAt.Before(now) {
			delete(s.entries, id)
		}
	}
}

const redisProposalPrefix = "tutorplan:proposal:"

type redisProposalStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisProposalStore keeps proposals in Redis so generate and save can be
// served by different instances.
func NewRedisProposalStore(client *redis.Client, ttl time.Duration) ProposalStore {
	return &redisProposalStore{client: client, ttl: ttl}
}

func (s *redisProposalStore) Save(ctx context.Context, proposal *ScheduleProposal) error {
	payload, err := json.Marshal(proposal)
	if err != nil {
		return err
	}
	return s.client.SetEx(ctx, redisProposalPrefix+proposal.ID, payload, s.ttl).Err()
}

func (s *redisProposalStore) Get(ctx context.Context, id string) (*ScheduleProposal, bool, error) {
	payload, err := s.client.Get(ctx, redisProposalPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var proposal ScheduleProposal
	if err := json.Unmarshal(payload, &proposal); err != nil {
		return nil, false, err
	}
	return &proposal, true, nil
}

func (s *redisProposalStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, redisProposalPrefix+id).Err()
}
