package backup

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/wrenfield/chorejar/internal/database"
	"github.com/wrenfield/chorejar/internal/model"
	"github.com/wrenfield/chorejar/internal/store"
)

// mockS3Client implements s3Client for testing.
type mockS3Client struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
	getErr  error
}

func newMockS3() *mockS3Client {
	return &mockS3Client{objects: make(map[string][]byte)}
}

func (m *mockS3Client) PutObject(_ context.Context, input *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.putErr != nil {
		return nil, m.putErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, _ := io.ReadAll(input.Body)
	m.objects[*input.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (m *mockS3Client) GetObject(_ context.Context, input *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[*input.Key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{
		Body: io.NopCloser(strings.NewReader(string(data))),
	}, nil
}

func enabledConfig(dbPath string) Config {
	return Config{
		S3:         S3Config{Bucket: "test", AccessKey: "key", SecretKey: "secret"},
		DBPath:     dbPath,
		Passphrase: "family-passphrase",
	}
}

func setupBackupTest(t *testing.T, mock *mockS3Client) *Manager {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.Open(dbPath)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	m := NewManager(enabledConfig(dbPath), db, store.NewBackupStore(db), slog.Default(), nil)
	m.client = mock
	return m
}

func TestManagerStateLifecycle(t *testing.T) {
	// Without S3 config -> disabled
	m := NewManager(Config{}, nil, nil, slog.Default(), nil)
	if m.Status().State != StateDisabled {
		t.Errorf("state = %q, want %q", m.Status().State, StateDisabled)
	}
	if m.Enabled() {
		t.Error("expected Enabled() = false without S3 config")
	}

	// Credentials without a passphrase stay disabled.
	m2 := NewManager(Config{
		S3: S3Config{Bucket: "test", AccessKey: "key", SecretKey: "secret"},
	}, nil, nil, slog.Default(), nil)
	if m2.Status().State != StateDisabled {
		t.Errorf("state = %q, want %q", m2.Status().State, StateDisabled)
	}

	// Full config -> idle
	m3 := NewManager(enabledConfig("x.db"), nil, nil, slog.Default(), nil)
	if m3.Status().State != StateIdle {
		t.Errorf("state = %q, want %q", m3.Status().State, StateIdle)
	}
}

func TestRunNowUploadsEncryptedSnapshot(t *testing.T) {
	mock := newMockS3()
	m := setupBackupTest(t, mock)

	id, err := m.RunNow(context.Background())
	if err != nil {
		t.Fatalf("run backup: %v", err)
	}

	record, err := m.backups.GetByID(id)
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if record.Status != model.BackupStatusCompleted {
		t.Errorf("status = %q, want completed", record.Status)
	}
	if record.SizeBytes <= 0 {
		t.Errorf("size = %d, want > 0", record.SizeBytes)
	}
	if record.CompletedAt == nil {
		t.Error("completed_at not set")
	}

	mock.mu.Lock()
	data, ok := mock.objects[record.S3Key]
	mock.mu.Unlock()
	if !ok {
		t.Fatalf("object %q not uploaded", record.S3Key)
	}
	// The upload must be the encrypted form, not raw SQLite.
	if strings.HasPrefix(string(data), "SQLite format 3") {
		t.Error("uploaded snapshot is not encrypted")
	}

	if m.Status().State != StateIdle {
		t.Errorf("state = %q, want idle after backup", m.Status().State)
	}
	if m.Status().LastBackup == nil {
		t.Error("last backup time not set")
	}
}

func TestRunNowUploadFailureMarksRecord(t *testing.T) {
	mock := newMockS3()
	mock.putErr = errors.New("connection refused")
	m := setupBackupTest(t, mock)

	id, err := m.RunNow(context.Background())
	if err == nil {
		t.Fatal("expected error when upload fails")
	}
	if id != 0 {
		t.Errorf("id = %d, want 0 on failure", id)
	}
	if m.Status().State != StateError {
		t.Errorf("state = %q, want error", m.Status().State)
	}

	backups, err := m.backups.List(10)
	if err != nil {
		t.Fatalf("list backups: %v", err)
	}
	if len(backups) != 1 {
		t.Fatalf("got %d records, want 1", len(backups))
	}
	if backups[0].Status != model.BackupStatusFailed {
		t.Errorf("status = %q, want failed", backups[0].Status)
	}
	if backups[0].ErrorMessage == "" {
		t.Error("expected error message on failed record")
	}
}

func TestManagerStatusCallback(t *testing.T) {
	var received []Status
	var mu sync.Mutex
	cb := func(s Status) {
		mu.Lock()
		received = append(received, s)
		mu.Unlock()
	}

	m := NewManager(enabledConfig("x.db"), nil, nil, slog.Default(), cb)

	m.setStatus(Status{State: StateRunning, InProgress: true})
	m.setStatus(Status{State: StateIdle})

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 2 {
		t.Fatalf("received %d callbacks, want 2", len(received))
	}
	if received[0].State != StateRunning {
		t.Errorf("first callback state = %q, want %q", received[0].State, StateRunning)
	}
	if received[1].State != StateIdle {
		t.Errorf("second callback state = %q, want %q", received[1].State, StateIdle)
	}
}

func TestManagerStopSafety(t *testing.T) {
	m := NewManager(enabledConfig("x.db"), nil, nil, slog.Default(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx)
	time.Sleep(50 * time.Millisecond)
	cancel()
	m.Stop()

	// Double stop should not panic
	m.Stop()
}

func TestManagerDisabledNoStart(t *testing.T) {
	m := NewManager(Config{}, nil, nil, slog.Default(), nil)

	ctx := context.Background()
	m.Start(ctx) // should be a no-op for disabled state

	// Stop should not block
	m.Stop()
}
