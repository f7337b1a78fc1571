package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"petnotes/model"
	"petnotes/utils"
)

// PetCache keeps pet snapshots in Redis so read-heavy progress checks stay
// off the database. Writers invalidate after every progress update, so a
// stale entry can live at most one TTL.
type PetCache struct {
	client    *redis.Client
	ttl       time.Duration
	cacheLock sync.RWMutex
}

// NewPetCache creates and initializes a new pet cache
func NewPetCache(redisURL string) (*PetCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return &PetCache{
		client: client,
		ttl:    utils.GetEnvAsDuration("PET_CACHE_TTL", 5*time.Minute),
	}, nil
}

// SetPet caches a pet snapshot under its id
func (pc *PetCache) SetPet(pet *model.Pet) error {
	if pet == nil {
		return fmt.Errorf("cannot cache nil pet")
	}

	pc.cacheLock.Lock()
	defer pc.cacheLock.Unlock()

	ctx := context.Background()
	key := fmt.Sprintf("pet:%s", pet.PetID)

	data, err := json.Marshal(pet)
	if err != nil {
		return fmt.Errorf("failed to marshal pet: %v", err)
	}

	if err := pc.client.Set(ctx, key, data, pc.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache pet: %v", err)
	}

	return nil
}

// GetPet retrieves a pet from cache. A miss returns nil without error.
func (pc *PetCache) GetPet(petID string) (*model.Pet, error) {
	if petID == "" {
		return nil, fmt.Errorf("petID cannot be empty")
	}

	pc.cacheLock.RLock()
	defer pc.cacheLock.RUnlock()

	ctx := context.Background()
	key := fmt.Sprintf("pet:%s", petID)

	data, err := pc.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		utils.PetCacheMisses.Inc()
		return nil, nil // Cache miss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pet from cache: %v", err)
	}

	var pet model.Pet
	if err := json.Unmarshal(data, &pet); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pet: %v", err)
	}

	utils.PetCacheHits.Inc()
	return &pet, nil
}

// InvalidatePet removes a pet from cache after a write
func (pc *PetCache) InvalidatePet(petID string) error {
	if petID == "" {
		return fmt.Errorf("petID cannot be empty")
	}

	pc.cacheLock.Lock()
	defer pc.cacheLock.Unlock()

	ctx := context.Background()
	key := fmt.Sprintf("pet:%s", petID)

	if err := pc.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete pet from cache: %v", err)
	}

	return nil
}

func (pc *PetCache) IsConnected() bool {
	if pc == nil || pc.client == nil {
		return false
	}
	ctx := context.Background()
	return pc.client.Ping(ctx).Err() == nil
}

// Close closes the Redis connection
func (pc *PetCache) Close() error {
	return pc.client.Close()
}
