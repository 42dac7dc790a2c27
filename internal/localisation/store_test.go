package localisation

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// newTestStore returns a store backed by an in-memory Redis server.
func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisStore(rdb, time.Minute), mr
}

func TestRedisStore_PutAndRead(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "de", map[int]string{4: "Projekt", 5: "$1_Diskussion"}); err != nil {
		t.Fatalf("put: %v", err)
	}

	names, err := store.NamespaceNames(ctx, "de")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if names[4] != "Projekt" || names[5] != "$1_Diskussion" {
		t.Errorf("unexpected table %v", names)
	}
}

func TestRedisStore_UnknownLanguage(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.NamespaceNames(context.Background(), "xx")
	if !errors.Is(err, ErrUnknownLanguage) {
		t.Fatalf("expected ErrUnknownLanguage, got %v", err)
	}
}

func TestRedisStore_ServesFromCache(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "fr", map[int]string{6: "Fichier"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := store.NamespaceNames(ctx, "fr"); err != nil {
		t.Fatalf("first read: %v", err)
	}

	// Remove the hash behind the cache's back; the cached copy must still answer.
	mr.Del(tableKey("fr"))

	names, err := store.NamespaceNames(ctx, "fr")
	if err != nil {
		t.Fatalf("cached read: %v", err)
	}
	if names[6] != "Fichier" {
		t.Errorf("expected cached table, got %v", names)
	}
}

func TestRedisStore_ReturnsCopies(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "en", map[int]string{5: "$1_talk"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	first, _ := store.NamespaceNames(ctx, "en")
	first[5] = "mutated"

	second, _ := store.NamespaceNames(ctx, "en")
	if second[5] != "$1_talk" {
		t.Errorf("cached table was mutated through a returned map: %v", second)
	}
}

func TestRedisStore_PutInvalidatesCache(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	store.Put(ctx, "es", map[int]string{14: "Categoría"})
	store.NamespaceNames(ctx, "es")
	store.Put(ctx, "es", map[int]string{14: "Categoria"})

	names, err := store.NamespaceNames(ctx, "es")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if names[14] != "Categoria" {
		t.Errorf("expected refreshed table, got %v", names)
	}
}

func TestRedisStore_RedisDown(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()

	if _, err := store.NamespaceNames(context.Background(), "en"); err == nil {
		t.Fatal("expected error when redis is unreachable")
	}
}

func TestImport(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	data := []byte(`
en:
  4: Project
  5: $1_talk
de:
  5: $1_Diskussion
`)
	if err := Import(ctx, store, data); err != nil {
		t.Fatalf("import: %v", err)
	}

	en, err := store.NamespaceNames(ctx, "en")
	if err != nil {
		t.Fatalf("read en: %v", err)
	}
	if en[4] != "Project" {
		t.Errorf("unexpected en table %v", en)
	}
	de, err := store.NamespaceNames(ctx, "de")
	if err != nil {
		t.Fatalf("read de: %v", err)
	}
	if de[5] != "$1_Diskussion" {
		t.Errorf("unexpected de table %v", de)
	}
}

func TestImport_InvalidYAML(t *testing.T) {
	store, _ := newTestStore(t)
	if err := Import(context.Background(), store, []byte("en: [not, a, map]")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestImportFile_SampleTables(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, thisFile, _, _ := runtime.Caller(0)
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "localisation.yaml")
	if err := ImportFile(ctx, store, path); err != nil {
		t.Fatalf("import: %v", err)
	}

	de, err := store.NamespaceNames(ctx, "de")
	if err != nil {
		t.Fatalf("read de: %v", err)
	}
	if de[4] != "Projekt" || de[-1] != "Spezial" {
		t.Errorf("unexpected de table %v", de)
	}
}

func TestImportFile_Missing(t *testing.T) {
	store, _ := newTestStore(t)
	if err := ImportFile(context.Background(), store, filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected read error")
	}
}
