package services

import (
	"testing"

	"github.com/google/uuid"

	"petnotes/model"
	"petnotes/utils"
)

func newTestPetCache(t *testing.T) *PetCache {
	t.Helper()

	url := utils.GetEnvAsString("REDIS_URL", "redis://localhost:6379/1")
	cache, err := NewPetCache(url)
	if err != nil {
		t.Skip("redis not reachable:", err)
	}
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestPetCacheRoundTrip(t *testing.T) {
	cache := newTestPetCache(t)

	pet := &model.Pet{
		PetID:   uuid.New().String(),
		UserID:  uuid.New().String(),
		PetName: "Scout",
		Level:   2,
		Points:  150,
	}

	if err := cache.SetPet(pet); err != nil {
		t.Fatal("set pet failed", err)
	}

	got, err := cache.GetPet(pet.PetID)
	if err != nil {
		t.Fatal("get pet failed", err)
	}
	if got == nil {
		t.Fatal("expected a cache hit")
	}
	if got.PetID != pet.PetID || got.Level != 2 || got.Points != 150 {
		t.Fatalf("got %+v, want the cached pet back", got)
	}
}

func TestPetCacheMissReturnsNil(t *testing.T) {
	cache := newTestPetCache(t)

	got, err := cache.GetPet(uuid.New().String())
	if err != nil {
		t.Fatal("get pet failed", err)
	}
	if got != nil {
		t.Fatalf("expected a miss, got %+v", got)
	}
}

func TestPetCacheInvalidate(t *testing.T) {
	cache := newTestPetCache(t)

	pet := &model.Pet{
		PetID:   uuid.New().String(),
		UserID:  uuid.New().String(),
		PetName: "Scout",
		Level:   1,
	}
	if err := cache.SetPet(pet); err != nil {
		t.Fatal("set pet failed", err)
	}
	if err := cache.InvalidatePet(pet.PetID); err != nil {
		t.Fatal("invalidate failed", err)
	}

	got, err := cache.GetPet(pet.PetID)
	if err != nil {
		t.Fatal("get pet failed", err)
	}
	if got != nil {
		t.Fatal("expected the entry to be gone after invalidation")
	}
}

func TestPetCacheRejectsBadInput(t *testing.T) {
	cache := newTestPetCache(t)

	if err := cache.SetPet(nil); err == nil {
		t.Error("expected an error caching a nil pet")
	}
	if _, err := cache.GetPet(""); err == nil {
		t.Error("expected an error reading an empty id")
	}
	if err := cache.InvalidatePet(""); err == nil {
		t.Error("expected an error invalidating an empty id")
	}
}
