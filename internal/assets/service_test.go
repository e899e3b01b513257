package assets_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-kiosk/internal/assets"
)

var testTenant = uuid.MustParse("00000000-0000-0000-0000-00000000bb01")

type fakeBlobStore struct {
	mu      sync.Mutex
	deleted []string
	fail    map[string]error
}

func (f *fakeBlobStore) Delete(_ context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.fail[path]; ok {
		return err
	}
	f.deleted = append(f.deleted, path)
	return nil
}

func (f *fakeBlobStore) paths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]string(nil), f.deleted...)
	sort.Strings(out)
	return out
}

func newService(blobs *fakeBlobStore) (assets.Service, *assets.MemoryRepository) {
	repo := assets.NewMemoryRepository()
	svc := assets.NewService(repo, blobs,
		assets.WithClock(func() time.Time {
			return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		}),
	)
	return svc, repo
}

func register(t *testing.T, svc assets.Service, name string) *assets.Asset {
	t.Helper()
	record, err := svc.Register(context.Background(), assets.RegisterInput{
		TenantID: testTenant,
		Name:     name,
		Ext:      "png",
		Path:     "files/" + name + ".png",
		Mipmap: assets.Mipmap{
			X128: "files/" + name + "_x128.png",
			X32:  "files/" + name + "_x32.png",
		},
		Active: true,
	})
	if err != nil {
		t.Fatalf("Register %s: %v", name, err)
	}
	return record
}

func TestService_Register_NormalizesExt(t *testing.T) {
	svc, _ := newService(&fakeBlobStore{})
	record, err := svc.Register(context.Background(), assets.RegisterInput{
		TenantID: testTenant,
		Name:     "logo",
		Ext:      ".PNG ",
		Path:     "files/logo.png",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if record.Ext != "PNG" {
		t.Fatalf("expected trimmed ext, got %q", record.Ext)
	}
}

func TestService_Delete_RemovesRecordAndBlobs(t *testing.T) {
	ctx := context.Background()
	blobs := &fakeBlobStore{}
	svc, _ := newService(blobs)

	record := register(t, svc, "logo")

	if err := svc.Delete(ctx, testTenant, record.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	want := []string{
		"files/logo.png",
		"files/logo_x128.png",
		"files/logo_x32.png",
	}
	got := blobs.paths()
	if len(got) != len(want) {
		t.Fatalf("expected %d blob deletes, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected blob deletes %v, got %v", want, got)
		}
	}

	if _, err := svc.Get(ctx, testTenant, record.ID); err == nil {
		t.Fatal("expected record to be gone")
	}
}

func TestService_Delete_BlobFailureDoesNotResurrectRecord(t *testing.T) {
	ctx := context.Background()
	blobs := &fakeBlobStore{fail: map[string]error{
		"files/logo.png": errors.New("transient"),
	}}
	svc, _ := newService(blobs)

	record := register(t, svc, "logo")

	if err := svc.Delete(ctx, testTenant, record.ID); err != nil {
		t.Fatalf("Delete must tolerate blob failures, got %v", err)
	}
	var notFound *assets.NotFoundError
	if _, err := svc.Get(ctx, testTenant, record.ID); !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError after delete, got %v", err)
	}
}

func TestService_Delete_IsTenantScoped(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(&fakeBlobStore{})

	record := register(t, svc, "logo")

	other := uuid.MustParse("00000000-0000-0000-0000-00000000bb02")
	var notFound *assets.NotFoundError
	if err := svc.Delete(ctx, other, record.ID); !errors.As(err, &notFound) {
		t.Fatalf("cross-tenant delete must read as absent, got %v", err)
	}
	if _, err := svc.Get(ctx, testTenant, record.ID); err != nil {
		t.Fatalf("record must survive cross-tenant delete: %v", err)
	}
}

func TestService_DeleteBatch(t *testing.T) {
	ctx := context.Background()
	blobs := &fakeBlobStore{}
	svc, _ := newService(blobs)

	a := register(t, svc, "a")
	b := register(t, svc, "b")

	count, err := svc.DeleteBatch(ctx, testTenant, []uuid.UUID{a.ID, b.ID})
	if err != nil {
		t.Fatalf("DeleteBatch: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 deletions, got %d", count)
	}

	count, err = svc.DeleteBatch(ctx, testTenant, nil)
	if err != nil {
		t.Fatalf("DeleteBatch empty: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 deletions for empty batch, got %d", count)
	}
}

func TestService_DeleteBatch_SkipsMissingRecords(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(&fakeBlobStore{})

	a := register(t, svc, "a")
	missing := uuid.MustParse("00000000-0000-0000-0000-00000000bbff")

	// Stale ids linger in content maps; a sweep over them must still
	// remove everything that does exist.
	count, err := svc.DeleteBatch(ctx, testTenant, []uuid.UUID{a.ID, missing, missing})
	if err != nil {
		t.Fatalf("DeleteBatch: %v", err)
	}
	if count != 1 {
		t.Fatalf("missing records must not count as deletions, got %d", count)
	}

	var notFound *assets.NotFoundError
	if _, err := svc.Get(ctx, testTenant, a.ID); !errors.As(err, &notFound) {
		t.Fatalf("existing record must be deleted, got %v", err)
	}
}
