package workers

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"bot-companion-web/models"
	"bot-companion-web/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingUploader struct {
	keys   []string
	bodies [][]byte
	err    error
}

func (r *recordingUploader) Upload(_ context.Context, key string, body []byte, contentType string) error {
	if r.err != nil {
		return r.err
	}
	r.keys = append(r.keys, key)
	r.bodies = append(r.bodies, body)
	return nil
}

func newTestWorker(t *testing.T) (*CodeBackupWorker, *services.JSONFileStore, *recordingUploader) {
	t.Helper()
	store := services.NewJSONFileStore(filepath.Join(t.TempDir(), "codes.json"))
	up := &recordingUploader{}
	w := NewCodeBackupWorker(store, up, time.Minute)
	w.now = func() time.Time { return time.Unix(1735000000, 0) }
	return w, store, up
}

func TestBackupOnceSkipsEmptyStore(t *testing.T) {
	w, _, up := newTestWorker(t)

	_, err := w.BackupOnce(context.Background())
	assert.ErrorIs(t, err, ErrNothingToBackup)
	assert.Empty(t, up.keys)
}

func TestBackupOnceUploadsSnapshot(t *testing.T) {
	w, store, up := newTestWorker(t)
	_, err := store.Save("SOCK-BACK-UP01", 50)
	require.NoError(t, err)

	key, err := w.BackupOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "backups/codes-1735000000.json", key)
	require.Len(t, up.bodies, 1)

	var snapshot map[string]models.RewardRecord
	require.NoError(t, json.Unmarshal(up.bodies[0], &snapshot))
	assert.Equal(t, 50, snapshot["SOCK-BACK-UP01"].Score)
}

func TestBackupOnceSkipsUnchanged(t *testing.T) {
	w, store, up := newTestWorker(t)
	_, err := store.Save("SOCK-BACK-UP01", 50)
	require.NoError(t, err)

	_, err = w.BackupOnce(context.Background())
	require.NoError(t, err)
	_, err = w.BackupOnce(context.Background())
	assert.ErrorIs(t, err, ErrNothingToBackup)
	assert.Len(t, up.keys, 1)
}

func TestBackupOnceUploadFailureRetries(t *testing.T) {
	w, store, up := newTestWorker(t)
	_, err := store.Save("SOCK-BACK-UP01", 50)
	require.NoError(t, err)

	up.err = errors.New("network down")
	_, err = w.BackupOnce(context.Background())
	require.Error(t, err)

	up.err = nil
	_, err = w.BackupOnce(context.Background())
	require.NoError(t, err)
	assert.Len(t, up.keys, 1)
}
