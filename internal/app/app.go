package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"destiny2-go/internal/bungie"
	"destiny2-go/internal/config"
	"destiny2-go/internal/d2"
	"destiny2-go/internal/fs"
	"destiny2-go/internal/manifest"

	"golang.org/x/sync/errgroup"
)

// lookupConcurrency bounds the parallel lookups issued by LookupAll.
const lookupConcurrency = 4

// D2App is the application layer between the CLI and the API client and
// manifest store. It constructs all dependencies from config, opens the
// manifest on first use, and logs the operation outcome on Close.
type D2App struct {
	cfg      *config.Config
	client   *bungie.Client
	manifest *manifest.SQLiteManifest
	logger   d2.Logger
	op       *Operation
	logFile  io.Closer
}

// NewD2App creates a fully wired D2App from the given config.
// operation identifies the CLI command being run (e.g. "Profile", "UpdateManifest").
// The caller must call Close when done.
func NewD2App(cfg *config.Config, operation string) (*D2App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ids := d2.UUIDGenerator{}
	op := NewOperation(operation, ids.New())

	slogger, logFile, err := newLogger(cfg.LogDir, op.ID)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	httpClient := &http.Client{Timeout: time.Duration(cfg.API.TimeoutSeconds) * time.Second}
	client, err := bungie.NewClient(httpClient, cfg.API.BaseURL, cfg.API.APIKey, logger, d2.LoggerTracer{Logger: logger}, ids)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating api client: %w", err)
	}
	client.SetDeserializationDebugging(cfg.API.DebugJSON)

	logger.Debug("operation started", "operation", op.Name)

	return &D2App{
		cfg:     cfg,
		client:  client,
		logger:  logger,
		op:      op,
		logFile: logFile,
	}, nil
}

// API returns the platform client.
func (a *D2App) API() d2.API {
	return a.client
}

// Manifest opens the local manifest database on first use.
func (a *D2App) Manifest() (*manifest.SQLiteManifest, error) {
	if a.manifest != nil {
		return a.manifest, nil
	}
	m, err := manifest.NewManifestFromSettings(a.cfg, a.logger)
	if err != nil {
		return nil, fmt.Errorf("opening manifest (run `d2 manifest update` first?): %w", err)
	}
	a.manifest = m
	return m, nil
}

// Fail marks the operation as failed. The error is recorded when the
// operation is logged on Close.
func (a *D2App) Fail(err error) {
	a.op.Fail(err)
}

// Close closes the manifest, logs the operation outcome and closes the log file.
func (a *D2App) Close() error {
	var firstErr error

	if a.manifest != nil {
		if err := a.manifest.Close(); err != nil {
			firstErr = fmt.Errorf("closing manifest: %w", err)
		}
		a.manifest = nil
	}

	args := []any{
		"operation", a.op.Name,
		"status", a.op.Status,
		"duration", a.op.Elapsed().Round(time.Millisecond),
	}
	if a.op.Err != nil {
		args = append(args, "error", a.op.Err)
	}
	a.logger.Info("operation finished", args...)

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}

// ManifestStatus describes the installed manifest database.
type ManifestStatus struct {
	Path      string
	Installed bool
	Version   string
	Size      int64
	ModTime   time.Time
}

// ManifestStatus reports what is installed at the configured db_path.
func (a *D2App) ManifestStatus() (*ManifestStatus, error) {
	status := &ManifestStatus{Path: a.cfg.Manifest.DBPath}

	info, err := os.Stat(status.Path)
	if errors.Is(err, os.ErrNotExist) {
		return status, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat manifest: %w", err)
	}
	status.Installed = true
	status.Size = info.Size()
	status.ModTime = info.ModTime()

	version, err := readVersion(versionPath(status.Path))
	if err != nil {
		return nil, err
	}
	status.Version = version
	return status, nil
}

// ManifestUpdate is the outcome of UpdateManifest.
type ManifestUpdate struct {
	Version     string
	ContentPath string
	Bytes       int64
	Skipped     bool
}

// UpdateManifest fetches the manifest location for the configured locale
// and installs the content database unless the installed version already
// matches. force reinstalls regardless.
func (a *D2App) UpdateManifest(ctx context.Context, force bool) (*ManifestUpdate, error) {
	remote, err := a.client.GetManifest(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching manifest location: %w", err)
	}

	locale := a.cfg.Manifest.Locale
	contentPath, ok := remote.MobileWorldContentPaths[locale]
	if !ok || contentPath == "" {
		return nil, fmt.Errorf("manifest has no content for locale %q", locale)
	}
	update := &ManifestUpdate{Version: remote.Version, ContentPath: contentPath}

	dbPath := a.cfg.Manifest.DBPath
	if !force {
		installed, err := readVersion(versionPath(dbPath))
		if err != nil {
			return nil, err
		}
		if _, statErr := os.Stat(dbPath); statErr == nil && installed == remote.Version {
			a.logger.Info("manifest is current", "version", remote.Version)
			update.Skipped = true
			return update, nil
		}
	}

	// The manifest may be open from an earlier lookup in this operation.
	if a.manifest != nil {
		a.manifest.Close()
		a.manifest = nil
	}

	download := dbPath + ".download"
	defer os.Remove(download)

	if err := a.client.DownloadFile(ctx, contentPath, download); err != nil {
		return nil, fmt.Errorf("downloading manifest content: %w", err)
	}

	written, err := manifest.Install(download, dbPath)
	if err != nil {
		return nil, fmt.Errorf("installing manifest: %w", err)
	}
	update.Bytes = written

	if _, err := fs.WriteFileAtomic(versionPath(dbPath), strings.NewReader(remote.Version+"\n")); err != nil {
		return nil, fmt.Errorf("recording manifest version: %w", err)
	}

	a.logger.Info("manifest installed", "version", remote.Version, "path", dbPath, "bytes", written)
	return update, nil
}

func versionPath(dbPath string) string {
	return dbPath + ".version"
}

func readVersion(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading manifest version: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Lookup resolves hash as a definition of the named kind (see manifest.KindNames).
func (a *D2App) Lookup(ctx context.Context, kind string, hash d2.Hash) (any, error) {
	m, err := a.Manifest()
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(kind) {
	case manifest.ClassKind.Name:
		return m.LoadClass(ctx, hash)
	case manifest.InventoryItemKind.Name:
		return m.LoadInventoryItem(ctx, hash)
	case manifest.PlugKind.Name:
		return m.LoadPlug(ctx, hash)
	case manifest.BucketKind.Name:
		return m.LoadBucket(ctx, hash)
	case manifest.ItemCategoryKind.Name:
		cats, err := m.LoadItemCategories(ctx, []d2.Hash{hash})
		if err != nil {
			return nil, err
		}
		if len(cats) == 0 {
			return nil, fmt.Errorf("%s %s: %w", kind, hash, manifest.ErrNotFound)
		}
		return cats[0], nil
	case manifest.SocketTypeKind.Name:
		return m.LoadSocketType(ctx, hash)
	case manifest.SocketCategoryKind.Name:
		return m.LoadSocketCategory(ctx, hash)
	case manifest.StatKind.Name:
		return m.LoadStat(ctx, hash)
	default:
		return nil, fmt.Errorf("unknown kind %q (want one of %s)", kind, strings.Join(manifest.KindNames(), ", "))
	}
}

// LookupAll resolves each hash as kind, in parallel. Results follow the
// order of hashes; the first failure cancels the rest.
func (a *D2App) LookupAll(ctx context.Context, kind string, hashes []d2.Hash) ([]any, error) {
	if _, err := a.Manifest(); err != nil {
		return nil, err
	}

	defs := make([]any, len(hashes))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(lookupConcurrency)
	for i, h := range hashes {
		g.Go(func() error {
			def, err := a.Lookup(ctx, kind, h)
			if err != nil {
				return err
			}
			defs[i] = def
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return defs, nil
}

// RawJSON returns the stored JSON for hashes in table. A single hash uses
// the single-row query so a missing row reads as one empty document.
func (a *D2App) RawJSON(ctx context.Context, table string, hashes []d2.Hash) ([]string, error) {
	m, err := a.Manifest()
	if err != nil {
		return nil, err
	}
	if len(hashes) == 1 {
		doc, err := m.GetJSON(ctx, table, hashes[0])
		if err != nil {
			return nil, err
		}
		if doc == "" {
			return []string{}, nil
		}
		return []string{doc}, nil
	}
	return m.GetJSONMany(ctx, table, hashes)
}

// ItemsInCategory lists inventory items carrying categoryHash.
func (a *D2App) ItemsInCategory(ctx context.Context, categoryHash d2.Hash) ([]*d2.InventoryItemDefinition, error) {
	m, err := a.Manifest()
	if err != nil {
		return nil, err
	}
	return m.LoadInventoryItemsWithCategory(ctx, categoryHash)
}

// Tables lists the tables in the manifest database.
func (a *D2App) Tables(ctx context.Context) ([]string, error) {
	m, err := a.Manifest()
	if err != nil {
		return nil, err
	}
	return m.TableNames(ctx)
}
