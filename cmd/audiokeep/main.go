// Command audiokeep synchronizes the local audiobook library with the
// remote backup store.
//
// Usage:
//
//	audiokeep [flags] [command]
//
// Commands:
//
//	sync          run one interactive sync pass (default)
//	autosync      sync periodically until interrupted
//	status        print queue and last-sync information
//	queue         list pending mutations
//	retry-failed  resurrect dead queue items
//	add           add a local audio file to the library
//	position      record listening progress for a book
//	metadata      set a book's title, artist and artwork
//	archive       detach a book from its local file
//	hide          hide a book everywhere
//	clip          cut a clip from a book
//	note          edit a clip's note
//	transcribe    attach a transcription to a clip
//	delete-clip   delete a clip everywhere
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	_ "modernc.org/sqlite"

	"github.com/viktorsm/audiokeep/internal/auth"
	"github.com/viktorsm/audiokeep/internal/buildinfo"
	"github.com/viktorsm/audiokeep/internal/config"
	"github.com/viktorsm/audiokeep/internal/library"
	"github.com/viktorsm/audiokeep/internal/localdb"
	"github.com/viktorsm/audiokeep/internal/logging"
	"github.com/viktorsm/audiokeep/internal/models"
	"github.com/viktorsm/audiokeep/internal/remote"
	"github.com/viktorsm/audiokeep/internal/syncer"
)

const autoSyncInterval = 5 * time.Minute

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	log := logging.NewDefault(slog.LevelInfo)
	clock := clockwork.NewRealClock()

	repos, err := localdb.InitDatabase(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer repos.DB.Close()

	store, err := remote.NewS3Store(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init remote store: %w", err)
	}

	provider := auth.NewTokenFileProvider(cfg.TokenPath, clock)

	engine := syncer.NewEngine(cfg, syncer.Deps{
		Books:    repos.Books,
		Clips:    repos.Clips,
		Manifest: repos.Manifest,
		Meta:     repos.Meta,
		Queue:    repos.Queue,
		Store:    store,
		Auth:     provider,
		Clock:    clock,
		Logger:   log,
	})
	engine.OnStatusChange(func(st models.Status) {
		if st.Error != "" {
			log.Warn(ctx, "sync status", "syncing", st.IsSyncing, "pending", st.PendingCount, "error", st.Error)
			return
		}
		log.Info(ctx, "sync status", "syncing", st.IsSyncing, "pending", st.PendingCount)
	})

	args := nonFlagArgs()
	cmd := "sync"
	if len(args) > 0 {
		cmd = args[0]
		args = args[1:]
	}

	switch cmd {
	case "sync":
		return engine.SyncNow(ctx)
	case "autosync":
		return runAutoSync(ctx, engine, log)
	case "status":
		return printStatus(ctx, engine, repos)
	case "queue":
		return printQueue(ctx, cfg, repos)
	case "retry-failed":
		n, err := engine.RetryFailed(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("resurrected %d item(s)\n", n)
		return nil
	default:
		svc := library.NewService(repos.DB, clock, log)
		return runLibraryCommand(ctx, svc, cmd, args)
	}
}

func runAutoSync(ctx context.Context, engine *syncer.Engine, log logging.Logger) error {
	if err := engine.SyncNow(ctx); err != nil {
		log.Warn(ctx, "initial sync failed", "error", err)
	}

	ticker := time.NewTicker(autoSyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := engine.AutoSync(ctx); err != nil {
				log.Warn(ctx, "auto sync failed", "error", err)
			}
		}
	}
}

func printStatus(ctx context.Context, engine *syncer.Engine, repos *localdb.Repositories) error {
	counts, err := repos.Queue.Counts(ctx)
	if err != nil {
		return err
	}

	last, err := engine.LastSyncTime(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("pending: %d\ndead: %d\n", counts.Pending, counts.Dead)
	if last == 0 {
		fmt.Println("last sync: never")
	} else {
		fmt.Printf("last sync: %s\n", time.UnixMilli(last).Local().Format(time.RFC3339))
	}
	return nil
}

func printQueue(ctx context.Context, cfg *config.Config, repos *localdb.Repositories) error {
	items, err := repos.Queue.ListPending(ctx, cfg.QueueRetryCeiling)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("queue is empty")
		return nil
	}

	for _, item := range items {
		line := fmt.Sprintf("%s %s %s attempts=%d", item.Type, item.Op, item.ID, item.Attempts)
		if item.LastError != "" {
			line += " last_error=" + item.LastError
		}
		fmt.Println(line)
	}
	return nil
}

// fingerprintSampleSize is how many leading bytes of an audio file make
// up its content fingerprint. Every device must use the same length for
// the dedup match to work.
const fingerprintSampleSize = 4096

// runLibraryCommand dispatches the catalogue write commands. Each one
// persists the change and queues it for the next sync pass.
func runLibraryCommand(ctx context.Context, svc *library.Service, cmd string, args []string) error {
	switch cmd {
	case "add":
		if len(args) < 1 || len(args) > 2 {
			return errors.New("usage: add <file> [duration-ms]")
		}
		var duration int64
		if len(args) == 2 {
			d, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("bad duration %q: %w", args[1], err)
			}
			duration = d
		}
		size, sample, err := fingerprintFile(args[0])
		if err != nil {
			return err
		}
		b, err := svc.AddBook(ctx, args[0], filepath.Base(args[0]), duration, size, sample)
		if err != nil {
			return err
		}
		fmt.Printf("added book %s\n", b.ID)
		return nil

	case "position":
		if len(args) != 2 {
			return errors.New("usage: position <book-id> <millis>")
		}
		pos, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("bad position %q: %w", args[1], err)
		}
		return svc.SetPosition(ctx, args[0], pos)

	case "metadata":
		if len(args) != 4 {
			return errors.New("usage: metadata <book-id> <title> <artist> <artwork>")
		}
		return svc.UpdateMetadata(ctx, args[0], args[1], args[2], args[3])

	case "archive":
		if len(args) != 1 {
			return errors.New("usage: archive <book-id>")
		}
		return svc.ArchiveBook(ctx, args[0])

	case "hide":
		if len(args) != 1 {
			return errors.New("usage: hide <book-id>")
		}
		return svc.HideBook(ctx, args[0])

	case "clip":
		if len(args) < 4 {
			return errors.New("usage: clip <book-id> <file> <start-ms> <duration-ms> [note]")
		}
		start, err := strconv.ParseInt(args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("bad start %q: %w", args[2], err)
		}
		duration, err := strconv.ParseInt(args[3], 10, 64)
		if err != nil {
			return fmt.Errorf("bad duration %q: %w", args[3], err)
		}
		c, err := svc.AddClip(ctx, args[0], args[1], start, duration, strings.Join(args[4:], " "))
		if err != nil {
			return err
		}
		fmt.Printf("added clip %s\n", c.ID)
		return nil

	case "note":
		if len(args) < 2 {
			return errors.New("usage: note <clip-id> <text>")
		}
		return svc.SaveNote(ctx, args[0], strings.Join(args[1:], " "))

	case "transcribe":
		if len(args) < 2 {
			return errors.New("usage: transcribe <clip-id> <text>")
		}
		return svc.SetTranscription(ctx, args[0], strings.Join(args[1:], " "))

	case "delete-clip":
		if len(args) != 1 {
			return errors.New("usage: delete-clip <clip-id>")
		}
		return svc.DeleteClip(ctx, args[0])

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// fingerprintFile reads a local audio file's content identity: its size
// and a fixed-length prefix sample. Files shorter than the sample length
// contribute their whole content.
func fingerprintFile(path string) (int64, []byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, nil, fmt.Errorf("stat %s: %w", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sample := make([]byte, fingerprintSampleSize)
	n, err := io.ReadFull(f, sample)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return 0, nil, fmt.Errorf("read %s: %w", path, err)
	}
	return info.Size(), sample[:n], nil
}

// nonFlagArgs returns the positional arguments, skipping flags and
// their values. A separate-form flag ("-d other.db") owns the next
// argument; an inline-form flag ("-d=other.db") does not.
func nonFlagArgs() []string {
	var out []string
	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		if strings.HasPrefix(args[i], "-") {
			if !strings.Contains(args[i], "=") {
				i++ // skip the flag's value
			}
			continue
		}
		out = append(out, args[i])
	}
	return out
}
