package workers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bot-companion-web/services"
	"bot-companion-web/utils"

	log "github.com/sirupsen/logrus"
)

// ErrNothingToBackup is returned when the snapshot is empty or unchanged.
var ErrNothingToBackup = errors.New("nothing to back up")

// CodeBackupWorker periodically uploads a JSON snapshot of the code store.
type CodeBackupWorker struct {
	Store    services.CodeStore
	Uploader utils.ObjectUploader
	Interval time.Duration
	Prefix   string

	now          func() time.Time
	lastUploaded []byte
}

func NewCodeBackupWorker(store services.CodeStore, uploader utils.ObjectUploader, interval time.Duration) *CodeBackupWorker {
	return &CodeBackupWorker{
		Store:    store,
		Uploader: uploader,
		Interval: interval,
		Prefix:   "backups/",
		now:      time.Now,
	}
}

func (w *CodeBackupWorker) Start(ctx context.Context) {
	log.Printf("💾 Starting code backup worker (every %s)…", w.Interval)
	go w.run(ctx)
}

func (w *CodeBackupWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("⏹️ Code backup worker stopped")
			return
		case <-ticker.C:
			key, err := w.BackupOnce(ctx)
			switch {
			case errors.Is(err, ErrNothingToBackup):
				log.Debug("[BACKUP] ➡️ No changes since last snapshot")
			case err != nil:
				// retried on the next tick
				log.Printf("❌ [BACKUP] Snapshot failed: %v", err)
			default:
				log.Printf("✅ [BACKUP] Uploaded %s", key)
			}
		}
	}
}

// BackupOnce uploads the current store contents and returns the object key.
func (w *CodeBackupWorker) BackupOnce(ctx context.Context) (string, error) {
	result := w.Store.LoadAll()
	if result.Status == services.LoadCorrupt {
		return "", fmt.Errorf("code store unreadable: %w", result.Err)
	}
	if len(result.Records) == 0 {
		return "", ErrNothingToBackup
	}

	data, err := json.MarshalIndent(result.Records, "", "    ")
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	if bytes.Equal(data, w.lastUploaded) {
		return "", ErrNothingToBackup
	}

	key := fmt.Sprintf("%scodes-%d.json", w.Prefix, w.now().Unix())
	if err := w.Uploader.Upload(ctx, key, data, "application/json"); err != nil {
		return "", err
	}
	w.lastUploaded = data
	return key, nil
}
