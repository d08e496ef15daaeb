//go:build integration

package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

// Run with: AVATARSHUFFLE_MONGO_URI=mongodb://localhost:27017 go test -tags integration ./pkg/storage
func TestMongoStore(t *testing.T) {
	uri := os.Getenv("AVATARSHUFFLE_MONGO_URI")
	if uri == "" {
		t.Skip("AVATARSHUFFLE_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, err := NewMongoStore(ctx, uri, "avatarshuffle_test", "kv_"+uuid.NewString()[:8])
	if err != nil {
		t.Fatalf("NewMongoStore() error: %v", err)
	}
	t.Cleanup(func() {
		_ = s.coll.Drop(context.Background())
		_ = s.Close()
	})

	runStoreContract(t, s)

	if err := s.Set(ctx, "short", []byte("x"), time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, ok, _ := s.Get(ctx, "short"); ok {
		t.Error("expired entry should miss")
	}
}
