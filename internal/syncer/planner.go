package syncer

import (
	"encoding/base64"

	"github.com/viktorsm/audiokeep/internal/models"
)

// Plan computes the sync plan for a snapshot. Pure: no I/O, no side
// effects, deterministic for a given state.
//
// Each entity kind runs a two-phase scan. The push phase classifies
// local entities as uploads or merges; the pull phase classifies the
// remaining remote entities as downloads; clips additionally get a
// deletion phase that propagates local deletions. All timestamp
// comparisons are strict — equal means "not changed" — and a missing
// timestamp is zero.
func Plan(state SyncState) models.SyncPlan {
	var plan models.SyncPlan
	planBooks(state, &plan)
	planClips(state, &plan)
	return plan
}

func planBooks(state SyncState, plan *models.SyncPlan) {
	remoteByID := make(map[string]models.RemoteBook, len(state.RemoteBooks))
	for _, r := range state.RemoteBooks {
		remoteByID[r.Backup.ID] = r
	}

	// ids the push phase classified; the pull phase skips them so the
	// plan sets stay disjoint
	pushed := make(map[string]struct{})

	for _, b := range state.Books {
		m, ok := state.manifestFor(models.EntityBook, b.ID)
		switch {
		case !ok:
			// never reconciled: new locally
			plan.BookUploads = append(plan.BookUploads, b)
			pushed[b.ID] = struct{}{}
		case b.UpdatedAt > m.LocalUpdatedAt:
			r, found := remoteByID[b.ID]
			if found && r.ModifiedAt > m.RemoteUpdatedAt {
				// both sides changed since last sync
				plan.BookMerges = append(plan.BookMerges, models.BookMerge{Local: b, Remote: r})
			} else {
				plan.BookUploads = append(plan.BookUploads, b)
			}
			pushed[b.ID] = struct{}{}
		}
	}

	localByID := make(map[string]models.Book, len(state.Books))
	for _, b := range state.Books {
		localByID[b.ID] = b
	}

	for _, r := range state.RemoteBooks {
		if _, ok := pushed[r.Backup.ID]; ok {
			continue
		}

		m, ok := state.manifestFor(models.EntityBook, r.Backup.ID)
		if !ok {
			// new remotely — unless the same audio content already lives
			// here under a different id (added independently on two
			// devices before either synced)
			if hasFingerprintTwin(state.Books, r.Backup) {
				continue
			}
			plan.BookDownloads = append(plan.BookDownloads, r)
			continue
		}

		if r.ModifiedAt <= m.RemoteUpdatedAt {
			continue
		}
		local, exists := localByID[r.Backup.ID]
		if !exists || local.UpdatedAt <= m.LocalUpdatedAt {
			plan.BookDownloads = append(plan.BookDownloads, r)
		}
	}
}

func planClips(state SyncState, plan *models.SyncPlan) {
	remoteByID := make(map[string]models.RemoteClip, len(state.RemoteClips))
	for _, r := range state.RemoteClips {
		remoteByID[r.Backup.ID] = r
	}

	pushed := make(map[string]struct{})

	for _, c := range state.Clips {
		m, ok := state.manifestFor(models.EntityClip, c.ID)
		switch {
		case !ok:
			plan.ClipUploads = append(plan.ClipUploads, c)
			pushed[c.ID] = struct{}{}
		case c.UpdatedAt > m.LocalUpdatedAt:
			r, found := remoteByID[c.ID]
			if found && r.ModifiedAt > m.RemoteUpdatedAt {
				plan.ClipMerges = append(plan.ClipMerges, models.ClipMerge{Local: c, Remote: r})
			} else {
				plan.ClipUploads = append(plan.ClipUploads, c)
			}
			pushed[c.ID] = struct{}{}
		}
	}

	localIDs := state.localClipIDs()
	localByID := make(map[string]models.Clip, len(state.Clips))
	for _, c := range state.Clips {
		localByID[c.ID] = c
	}

	for _, r := range state.RemoteClips {
		if _, ok := pushed[r.Backup.ID]; ok {
			continue
		}

		m, ok := state.manifestFor(models.EntityClip, r.Backup.ID)
		if !ok {
			// no manifest and no local row: never seen here, new from
			// remote — not a deletion
			plan.ClipDownloads = append(plan.ClipDownloads, r)
			continue
		}

		if _, exists := localIDs[r.Backup.ID]; !exists {
			// manifest says we synced it before and the local row is
			// gone: the deletion must propagate, taking both files
			plan.ClipDeletes = append(plan.ClipDeletes, models.ClipDelete{
				ID:          r.Backup.ID,
				FileID:      r.FileID,
				AudioFileID: r.AudioFileID,
			})
			continue
		}

		if r.ModifiedAt <= m.RemoteUpdatedAt {
			continue
		}
		if local := localByID[r.Backup.ID]; local.UpdatedAt <= m.LocalUpdatedAt {
			plan.ClipDownloads = append(plan.ClipDownloads, r)
		}
	}
}

// hasFingerprintTwin reports whether any local book under a different id
// carries the same (file_size, fingerprint) content as the remote
// backup. An undecodable fingerprint never matches.
func hasFingerprintTwin(local []models.Book, bb models.BookBackup) bool {
	if bb.Fingerprint == "" {
		return false
	}
	sample, err := base64.StdEncoding.DecodeString(bb.Fingerprint)
	if err != nil || len(sample) == 0 {
		return false
	}
	for _, b := range local {
		if b.ID != bb.ID && b.SameContent(bb.FileSize, sample) {
			return true
		}
	}
	return false
}
