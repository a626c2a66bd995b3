package syncer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sethvargo/go-retry"

	"github.com/viktorsm/audiokeep/internal/auth"
	"github.com/viktorsm/audiokeep/internal/common"
	"github.com/viktorsm/audiokeep/internal/config"
	"github.com/viktorsm/audiokeep/internal/filex"
	"github.com/viktorsm/audiokeep/internal/logging"
	"github.com/viktorsm/audiokeep/internal/models"
	"github.com/viktorsm/audiokeep/internal/remote"
	"github.com/viktorsm/audiokeep/internal/repositories/books"
	"github.com/viktorsm/audiokeep/internal/repositories/clips"
	"github.com/viktorsm/audiokeep/internal/repositories/manifest"
	"github.com/viktorsm/audiokeep/internal/repositories/meta"
	"github.com/viktorsm/audiokeep/internal/repositories/queue"
)

// rollbackAttempts bounds the compensating delete after a failed clip
// audio upload.
const rollbackAttempts = 3

// Deps collects the engine's collaborators. A struct because nine
// positional parameters is too many.
type Deps struct {
	Books    books.Repository
	Clips    clips.Repository
	Manifest manifest.Repository
	Meta     meta.Repository
	Queue    queue.Repository
	Store    remote.Store
	Auth     auth.Provider
	Clock    clockwork.Clock
	Logger   logging.Logger
}

// Engine coordinates one reconciliation pass at a time: drain the
// mutation queue, snapshot local/remote/manifest state, run the pure
// planner, execute the plan and update the manifest.
//
// At most one pass is in flight system-wide; the guard is a single
// compare-and-set flag taken synchronously, before any other work, so
// two racing calls can never both observe "not syncing".
type Engine struct {
	cfg      *config.Config
	books    books.Repository
	clips    clips.Repository
	manifest manifest.Repository
	meta     meta.Repository
	queue    queue.Repository
	store    remote.Store
	auth     auth.Provider
	clock    clockwork.Clock
	log      logging.Logger

	syncing atomic.Bool

	mu              sync.Mutex
	statusListeners []func(models.Status)
	dataListeners   []func(models.DataChange)
}

func NewEngine(cfg *config.Config, d Deps) *Engine {
	return &Engine{
		cfg:      cfg,
		books:    d.Books,
		clips:    d.Clips,
		manifest: d.Manifest,
		meta:     d.Meta,
		queue:    d.Queue,
		store:    d.Store,
		auth:     d.Auth,
		clock:    d.Clock,
		log:      d.Logger,
	}
}

// OnStatusChange registers a listener invoked on every status
// transition (pass start, pass end, retry-failed).
func (e *Engine) OnStatusChange(fn func(models.Status)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.statusListeners = append(e.statusListeners, fn)
}

// OnDataChange registers a listener invoked once per pass when remote
// input changed local data.
func (e *Engine) OnDataChange(fn func(models.DataChange)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dataListeners = append(e.dataListeners, fn)
}

// SyncNow is the interactive entry point: prompts for sign-in when
// needed and surfaces status on every transition. A call arriving while
// a pass is running returns common.ErrorSyncInProgress and does nothing.
func (e *Engine) SyncNow(ctx context.Context) error {
	if !e.syncing.CompareAndSwap(false, true) {
		e.log.Debug(ctx, "sync already running, ignoring request")
		return common.ErrorSyncInProgress
	}
	defer e.syncing.Store(false)

	e.emitStatus(ctx, true, "")

	if err := e.auth.Initialize(ctx); err != nil {
		err = fmt.Errorf("auth initialize: %w", err)
		e.emitStatus(ctx, false, err.Error())
		return err
	}
	if !e.auth.IsAuthenticated() {
		if err := e.auth.SignIn(ctx); err != nil {
			err = fmt.Errorf("sign in: %w", err)
			e.emitStatus(ctx, false, err.Error())
			return err
		}
	}

	if err := e.performSync(ctx); err != nil {
		e.emitStatus(ctx, false, err.Error())
		return err
	}

	e.emitStatus(ctx, false, "")
	return nil
}

// AutoSync is the silent entry point: it runs only when already
// authenticated and skips without any error status otherwise.
func (e *Engine) AutoSync(ctx context.Context) error {
	if !e.syncing.CompareAndSwap(false, true) {
		return nil
	}
	defer e.syncing.Store(false)

	if err := e.auth.Initialize(ctx); err != nil {
		e.log.Warn(ctx, "auto sync skipped", "error", err)
		return nil
	}
	if !e.auth.IsAuthenticated() {
		e.log.Debug(ctx, "auto sync skipped: not signed in")
		return nil
	}

	e.emitStatus(ctx, true, "")
	if err := e.performSync(ctx); err != nil {
		e.emitStatus(ctx, false, err.Error())
		return err
	}
	e.emitStatus(ctx, false, "")
	return nil
}

// RetryFailed resurrects dead queue items (up to the configured
// resurrection limit each) so the next pass picks them up again.
func (e *Engine) RetryFailed(ctx context.Context) (int, error) {
	n, err := e.queue.RetryFailed(ctx, e.cfg.ResurrectionLimit)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		e.emitStatus(ctx, e.syncing.Load(), "")
	}
	return n, nil
}

// LastSyncTime returns the unix-millis timestamp of the last completed
// pass, zero if none.
func (e *Engine) LastSyncTime(ctx context.Context) (int64, error) {
	raw, err := e.meta.Get(ctx, meta.KeyLastSyncTime)
	if err != nil {
		return 0, err
	}
	if len(raw) == 0 {
		return 0, nil
	}
	ts, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", meta.KeyLastSyncTime, err)
	}
	return ts, nil
}

// performSync is one full reconciliation pass. Per-entity failures are
// collected and the pass continues; only a failure to take the snapshot
// aborts it.
func (e *Engine) performSync(ctx context.Context) error {
	var errs []error

	// offline changes go out first so the snapshot reflects them
	e.drainQueue(ctx)

	state, err := e.gatherState(ctx, &errs)
	if err != nil {
		return err
	}

	plan := Plan(*state)
	e.log.Info(ctx, "sync plan computed",
		"bookUploads", len(plan.BookUploads), "bookDownloads", len(plan.BookDownloads), "bookMerges", len(plan.BookMerges),
		"clipUploads", len(plan.ClipUploads), "clipDownloads", len(plan.ClipDownloads), "clipMerges", len(plan.ClipMerges),
		"clipDeletes", len(plan.ClipDeletes))

	var changed models.DataChange

	// merges run before plain uploads: a merge produces a fresh local
	// entity whose upload happens inside the merge step, and running
	// them first means no stale pre-merge copy ever goes out
	for _, m := range plan.BookMerges {
		if err := e.applyBookMerge(ctx, m); err != nil {
			errs = append(errs, fmt.Errorf("merge book %s: %w", m.Local.ID, err))
			continue
		}
		changed.BooksChanged = append(changed.BooksChanged, m.Local.ID)
	}
	for _, m := range plan.ClipMerges {
		if err := e.applyClipMerge(ctx, m); err != nil {
			errs = append(errs, fmt.Errorf("merge clip %s: %w", m.Local.ID, err))
			continue
		}
		changed.ClipsChanged = append(changed.ClipsChanged, m.Local.ID)
	}

	for _, b := range plan.BookUploads {
		if err := e.uploadBook(ctx, b); err != nil {
			errs = append(errs, fmt.Errorf("upload book %s: %w", b.ID, err))
		}
	}
	for _, c := range plan.ClipUploads {
		if err := e.uploadClip(ctx, c, previousClipFiles(state, c.ID)); err != nil {
			errs = append(errs, fmt.Errorf("upload clip %s: %w", c.ID, err))
		}
	}

	for _, r := range plan.BookDownloads {
		if err := e.downloadBook(ctx, r); err != nil {
			errs = append(errs, fmt.Errorf("download book %s: %w", r.Backup.ID, err))
			continue
		}
		changed.BooksChanged = append(changed.BooksChanged, r.Backup.ID)
	}
	for _, r := range plan.ClipDownloads {
		if err := e.downloadClip(ctx, r); err != nil {
			errs = append(errs, fmt.Errorf("download clip %s: %w", r.Backup.ID, err))
			continue
		}
		changed.ClipsChanged = append(changed.ClipsChanged, r.Backup.ID)
	}

	for _, d := range plan.ClipDeletes {
		if err := e.deleteRemoteClip(ctx, d); err != nil {
			errs = append(errs, fmt.Errorf("delete remote clip %s: %w", d.ID, err))
		}
	}

	if err := e.setLastSyncTime(ctx); err != nil {
		errs = append(errs, err)
	}

	if len(changed.BooksChanged) > 0 || len(changed.ClipsChanged) > 0 {
		e.emitDataChange(changed)
	}

	e.cleanupManifest(ctx, state, &errs)

	if len(errs) > 0 {
		return fmt.Errorf("sync pass finished with %d error(s): %w", len(errs), errors.Join(errs...))
	}
	return nil
}

// drainQueue pushes pending offline mutations to the remote. Item
// failures are recorded on the item itself, never raised: broader retry
// is the next pass's job.
func (e *Engine) drainQueue(ctx context.Context) {
	items, err := e.queue.ListPending(ctx, e.cfg.QueueRetryCeiling)
	if err != nil {
		e.log.Error(ctx, "failed to list pending queue items", "error", err)
		return
	}

	for _, item := range items {
		if err := e.applyQueueItem(ctx, item); err != nil {
			e.log.Warn(ctx, "queue item failed", "type", item.Type, "id", item.ID, "error", err)
			if qerr := e.queue.MarkFailed(ctx, item.Type, item.ID, err.Error(), e.cfg.QueueRetryCeiling); qerr != nil {
				e.log.Error(ctx, "failed to record queue failure", "error", qerr)
			}
			continue
		}
		if qerr := e.queue.MarkDone(ctx, item.Type, item.ID); qerr != nil {
			e.log.Error(ctx, "failed to remove finished queue item", "error", qerr)
		}
	}
}

func (e *Engine) applyQueueItem(ctx context.Context, item models.QueueItem) error {
	switch {
	case item.Type == models.EntityBook && item.Op == models.OpUpsert:
		b, err := e.books.GetByID(ctx, item.ID)
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return e.uploadBook(ctx, *b)

	case item.Type == models.EntityBook && item.Op == models.OpDelete:
		return e.removeRemoteEntity(ctx, models.EntityBook, item.ID)

	case item.Type == models.EntityClip && item.Op == models.OpUpsert:
		c, err := e.clips.GetByID(ctx, item.ID)
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return e.uploadClip(ctx, *c, e.manifestClipFiles(ctx, item.ID))

	case item.Type == models.EntityClip && item.Op == models.OpDelete:
		return e.removeRemoteEntity(ctx, models.EntityClip, item.ID)

	default:
		return fmt.Errorf("unknown queue operation %s/%s", item.Type, item.Op)
	}
}

// removeRemoteEntity deletes an entity's remote files using the
// manifest's file ids, then drops the manifest entry.
func (e *Engine) removeRemoteEntity(ctx context.Context, t models.EntityType, id string) error {
	m, err := e.manifest.Get(ctx, t, id)
	if errors.Is(err, common.ErrorNotFound) {
		// never uploaded, nothing to remove
		return nil
	}
	if err != nil {
		return err
	}

	if m.RemoteFileID != "" {
		if err := e.store.DeleteFile(ctx, m.RemoteFileID); err != nil {
			return err
		}
	}
	if m.RemoteAudioFileID != "" {
		if err := e.store.DeleteFile(ctx, m.RemoteAudioFileID); err != nil {
			return err
		}
	}
	return e.manifest.Delete(ctx, t, id)
}

// gatherState builds the planner snapshot. Listing failures abort the
// pass; per-file download failures are collected and the file skipped;
// unparsable backups are logged and skipped — they reappear next pass.
func (e *Engine) gatherState(ctx context.Context, errs *[]error) (*SyncState, error) {
	bks, err := e.books.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list local books: %w", err)
	}
	cls, err := e.clips.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list local clips: %w", err)
	}
	man, err := e.manifest.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list manifest: %w", err)
	}

	state := &SyncState{Books: bks, Clips: cls, Manifest: man}

	bookFiles, err := e.store.ListFiles(ctx, e.cfg.BooksFolder)
	if err != nil {
		return nil, fmt.Errorf("list remote books: %w", err)
	}
	for _, f := range bookFiles {
		kind, _, ext, ok := models.ParseBackupName(f.Name)
		if !ok || kind != models.EntityBook || ext != "json" {
			continue
		}
		data, err := e.store.DownloadFile(ctx, f.ID)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("download %s: %w", f.Name, err))
			continue
		}
		bb, err := models.DecodeBookBackup(data)
		if err != nil {
			e.log.Warn(ctx, "skipping unparsable book backup", "file", f.Name, "error", err)
			continue
		}
		state.RemoteBooks = append(state.RemoteBooks, models.RemoteBook{
			Backup: bb, FileID: f.ID, ModifiedAt: f.ModifiedAt,
		})
	}

	clipFiles, err := e.store.ListFiles(ctx, e.cfg.ClipsFolder)
	if err != nil {
		return nil, fmt.Errorf("list remote clips: %w", err)
	}

	// a clip's audio file is paired with its metadata file by id
	audioByID := make(map[string]string)
	for _, f := range clipFiles {
		kind, id, ext, ok := models.ParseBackupName(f.Name)
		if ok && kind == models.EntityClip && ext == "mp3" {
			audioByID[id] = f.ID
		}
	}
	for _, f := range clipFiles {
		kind, id, ext, ok := models.ParseBackupName(f.Name)
		if !ok || kind != models.EntityClip || ext != "json" {
			continue
		}
		data, err := e.store.DownloadFile(ctx, f.ID)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("download %s: %w", f.Name, err))
			continue
		}
		cb, err := models.DecodeClipBackup(data)
		if err != nil {
			e.log.Warn(ctx, "skipping unparsable clip backup", "file", f.Name, "error", err)
			continue
		}
		state.RemoteClips = append(state.RemoteClips, models.RemoteClip{
			Backup: cb, FileID: f.ID, AudioFileID: audioByID[id], ModifiedAt: f.ModifiedAt,
		})
	}

	return state, nil
}

func (e *Engine) uploadBook(ctx context.Context, b models.Book) error {
	payload, err := models.EncodeBookBackup(b.Backup())
	if err != nil {
		return fmt.Errorf("encode book backup: %w", err)
	}

	res, err := e.store.UploadFile(ctx, e.cfg.BooksFolder, models.BookBackupName(b.ID), payload)
	if err != nil {
		return err
	}

	return e.manifest.Upsert(ctx, &models.ManifestEntry{
		Type:            models.EntityBook,
		ID:              b.ID,
		LocalUpdatedAt:  b.UpdatedAt,
		RemoteUpdatedAt: res.ModifiedAt,
		RemoteFileID:    res.ID,
	})
}

// uploadClip is the two-phase upload treated as one logical unit:
// remove stale remote files, upload metadata, upload the audio payload,
// and only then write the manifest entry. A failed audio upload rolls
// back the metadata file so the clip never exists remotely half-made.
func (e *Engine) uploadClip(ctx context.Context, c models.Clip, prevFileIDs []string) error {
	if c.URI == "" {
		return fmt.Errorf("clip %s has no audio file", c.ID)
	}

	info, err := os.Stat(c.URI)
	if err != nil {
		return fmt.Errorf("stat clip audio: %w", err)
	}
	if info.Size() > e.cfg.MaxClipPayloadBytes {
		return fmt.Errorf("clip audio %s is %d bytes: %w", c.URI, info.Size(), common.ErrorPayloadTooLarge)
	}

	for _, id := range prevFileIDs {
		if id == "" {
			continue
		}
		if err := e.store.DeleteFile(ctx, id); err != nil {
			return fmt.Errorf("remove stale remote file %s: %w", id, err)
		}
	}

	payload, err := models.EncodeClipBackup(c.Backup())
	if err != nil {
		return fmt.Errorf("encode clip backup: %w", err)
	}

	metaRes, err := e.store.UploadFile(ctx, e.cfg.ClipsFolder, models.ClipBackupName(c.ID), payload)
	if err != nil {
		return err
	}

	audio, err := os.ReadFile(c.URI)
	if err != nil {
		return e.rollbackClipMeta(ctx, c.ID, metaRes.ID, fmt.Errorf("read clip audio: %w", err))
	}

	audioRes, err := e.store.UploadFile(ctx, e.cfg.ClipsFolder, models.ClipAudioName(c.ID), audio)
	if err != nil {
		return e.rollbackClipMeta(ctx, c.ID, metaRes.ID, err)
	}

	return e.manifest.Upsert(ctx, &models.ManifestEntry{
		Type:              models.EntityClip,
		ID:                c.ID,
		LocalUpdatedAt:    c.UpdatedAt,
		RemoteUpdatedAt:   metaRes.ModifiedAt,
		RemoteFileID:      metaRes.ID,
		RemoteAudioFileID: audioRes.ID,
	})
}

// rollbackClipMeta compensates a half-done clip upload by deleting the
// already-uploaded metadata file, with bounded retries. If the rollback
// itself fails the orphan is reported, not silently dropped.
func (e *Engine) rollbackClipMeta(ctx context.Context, clipID, fileID string, cause error) error {
	e.log.Warn(ctx, "rolling back clip metadata upload", "clip", clipID, "file", fileID, "cause", cause)

	backoff := retry.WithMaxRetries(rollbackAttempts, retry.NewConstant(100*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		return retry.RetryableError(e.store.DeleteFile(ctx, fileID))
	})
	if err != nil {
		return fmt.Errorf("clip %s upload failed (%v); rollback also failed, orphaned metadata file %s: %w",
			clipID, cause, fileID, err)
	}
	return cause
}

func (e *Engine) downloadBook(ctx context.Context, r models.RemoteBook) error {
	b, err := r.Backup.Book()
	if err != nil {
		return err
	}

	// the backup's uri names a file on whatever device uploaded it;
	// keep the local binary if we have one, otherwise restore archived
	existing, err := e.books.GetByID(ctx, b.ID)
	switch {
	case err == nil:
		b.URI = existing.URI
	case errors.Is(err, common.ErrorNotFound):
		b.URI = ""
	default:
		return err
	}

	if err := e.books.Save(ctx, &b); err != nil {
		return err
	}

	return e.manifest.Upsert(ctx, &models.ManifestEntry{
		Type:            models.EntityBook,
		ID:              b.ID,
		LocalUpdatedAt:  b.UpdatedAt,
		RemoteUpdatedAt: r.ModifiedAt,
		RemoteFileID:    r.FileID,
	})
}

func (e *Engine) downloadClip(ctx context.Context, r models.RemoteClip) error {
	c := r.Backup.Clip()

	if r.AudioFileID != "" {
		audio, err := e.store.DownloadFile(ctx, r.AudioFileID)
		if err != nil {
			return err
		}
		p, err := filex.SaveFile(e.cfg.MediaDir, models.ClipAudioName(c.ID), audio)
		if err != nil {
			return err
		}
		c.URI = p
	} else if existing, err := e.clips.GetByID(ctx, c.ID); err == nil {
		c.URI = existing.URI
	}

	if err := e.clips.Save(ctx, &c); err != nil {
		return err
	}

	return e.manifest.Upsert(ctx, &models.ManifestEntry{
		Type:              models.EntityClip,
		ID:                c.ID,
		LocalUpdatedAt:    c.UpdatedAt,
		RemoteUpdatedAt:   r.ModifiedAt,
		RemoteFileID:      r.FileID,
		RemoteAudioFileID: r.AudioFileID,
	})
}

func (e *Engine) applyBookMerge(ctx context.Context, m models.BookMerge) error {
	now := e.clock.Now().UnixMilli()
	merged, resolution := MergeBook(m.Local, m.Remote.Backup, now)
	e.log.Info(ctx, "resolved book conflict", "resolution", resolution)

	if err := e.books.Save(ctx, &merged); err != nil {
		return err
	}
	return e.uploadBook(ctx, merged)
}

func (e *Engine) applyClipMerge(ctx context.Context, m models.ClipMerge) error {
	now := e.clock.Now().UnixMilli()
	merged, resolution := MergeClip(m.Local, m.Remote.Backup, now)
	e.log.Info(ctx, "resolved clip conflict", "resolution", resolution)

	if err := e.clips.Save(ctx, &merged); err != nil {
		return err
	}
	return e.uploadClip(ctx, merged, []string{m.Remote.FileID, m.Remote.AudioFileID})
}

func (e *Engine) deleteRemoteClip(ctx context.Context, d models.ClipDelete) error {
	if d.FileID != "" {
		if err := e.store.DeleteFile(ctx, d.FileID); err != nil {
			return err
		}
	}
	if d.AudioFileID != "" {
		if err := e.store.DeleteFile(ctx, d.AudioFileID); err != nil {
			return err
		}
	}
	return e.manifest.Delete(ctx, models.EntityClip, d.ID)
}

// cleanupManifest drops entries whose entity exists in neither the
// local nor the remote snapshot: the deletion is fully reconciled on
// both sides.
func (e *Engine) cleanupManifest(ctx context.Context, state *SyncState, errs *[]error) {
	localBooks := state.localBookIDs()
	localClips := state.localClipIDs()

	remoteBooks := make(map[string]struct{}, len(state.RemoteBooks))
	for _, r := range state.RemoteBooks {
		remoteBooks[r.Backup.ID] = struct{}{}
	}
	remoteClips := make(map[string]struct{}, len(state.RemoteClips))
	for _, r := range state.RemoteClips {
		remoteClips[r.Backup.ID] = struct{}{}
	}

	for key := range state.Manifest {
		var local, rem bool
		switch key.Type {
		case models.EntityBook:
			_, local = localBooks[key.ID]
			_, rem = remoteBooks[key.ID]
		case models.EntityClip:
			_, local = localClips[key.ID]
			_, rem = remoteClips[key.ID]
		}
		if local || rem {
			continue
		}
		if err := e.manifest.Delete(ctx, key.Type, key.ID); err != nil {
			*errs = append(*errs, err)
		}
	}
}

func (e *Engine) setLastSyncTime(ctx context.Context) error {
	now := strconv.FormatInt(e.clock.Now().UnixMilli(), 10)
	return e.meta.Set(ctx, meta.KeyLastSyncTime, []byte(now))
}

// manifestClipFiles returns the remote file ids the manifest knows for
// a clip, for pre-upload cleanup. Nil when the clip was never synced.
func (e *Engine) manifestClipFiles(ctx context.Context, id string) []string {
	m, err := e.manifest.Get(ctx, models.EntityClip, id)
	if err != nil {
		return nil
	}
	return []string{m.RemoteFileID, m.RemoteAudioFileID}
}

// previousClipFiles looks up a clip's existing remote files in the
// snapshot, falling back to the manifest entry.
func previousClipFiles(state *SyncState, id string) []string {
	for _, r := range state.RemoteClips {
		if r.Backup.ID == id {
			return []string{r.FileID, r.AudioFileID}
		}
	}
	if m, ok := state.manifestFor(models.EntityClip, id); ok {
		return []string{m.RemoteFileID, m.RemoteAudioFileID}
	}
	return nil
}

func (e *Engine) emitStatus(ctx context.Context, syncing bool, errStr string) {
	counts, err := e.queue.Counts(ctx)
	if err != nil {
		e.log.Warn(ctx, "failed to count queue items", "error", err)
	}

	st := models.Status{IsSyncing: syncing, PendingCount: counts.Pending, Error: errStr}

	e.mu.Lock()
	listeners := make([]func(models.Status), len(e.statusListeners))
	copy(listeners, e.statusListeners)
	e.mu.Unlock()

	for _, fn := range listeners {
		fn(st)
	}
}

func (e *Engine) emitDataChange(dc models.DataChange) {
	e.mu.Lock()
	listeners := make([]func(models.DataChange), len(e.dataListeners))
	copy(listeners, e.dataListeners)
	e.mu.Unlock()

	for _, fn := range listeners {
		fn(dc)
	}
}
