package install

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ioutils "github.com/deckrepo/deckrepo-manager/internal/io"
	"github.com/deckrepo/deckrepo-manager/internal/model"
)

// metaDirName is the hidden metadata subdirectory inside the install root.
const metaDirName = ".manager"

// ErrNotFound is returned by Delete when the target file does not exist.
var ErrNotFound = errors.New("file not found")

// Result is the outcome of an install operation.
//
// Install never returns an error to the caller; all I/O failures are
// converted into OK=false with a descriptive message. Success or failure
// is judged solely by whether the primary asset was placed.
type Result struct {
	OK      bool
	Message string
}

// Installer commits downloaded assets into the install root and owns the
// metadata sidecar store.
//
// Boot-class installs are persistent multi-file: each item lands at
// {root}/{slug}.webm and overwrites only on reinstall of the same slug.
// Suspend-class installs share a single slot; the previous occupant is
// renamed to a .webm.bak backup first.
//
// The Installer takes ownership of the temp files it is handed and
// removes them on every path.
type Installer struct {
	root         string
	images       *ioutils.ImageService
	thumbMaxSize int
	logger       *slog.Logger
}

// New creates an Installer rooted at the given directory.
// thumbMaxSize bounds sidecar thumbnail dimensions in pixels; zero or
// negative disables scaling, thumbnails are only converted to JPEG.
func New(root string, thumbMaxSize int) *Installer {
	return &Installer{
		root:         root,
		images:       ioutils.NewImageService(),
		thumbMaxSize: thumbMaxSize,
		logger:       slog.Default().With("component", "installer"),
	}
}

// Root returns the install root directory.
func (ins *Installer) Root() string {
	return ins.root
}

func (ins *Installer) metaDir() string {
	return filepath.Join(ins.root, metaDirName)
}

// EnsureDirectories idempotently creates the install root and its hidden
// metadata subdirectory. Creation failure is logged, not raised; the
// subsequent copy will fail and surface its own error.
func (ins *Installer) EnsureDirectories() {
	if err := ioutils.EnsureDir(ins.root); err != nil {
		ins.logger.Error("cannot create install root", "path", ins.root, "error", err)
	}
	if err := ioutils.EnsureDir(ins.metaDir()); err != nil {
		ins.logger.Error("cannot create metadata directory", "path", ins.metaDir(), "error", err)
	}
}

// InstallBoot places a boot video at {root}/{slug}.webm.
//
// An existing file with the same slug is overwritten; distinct boot
// videos have distinct slugs, so this only happens on reinstall. The
// temp files are consumed regardless of outcome.
func (ins *Installer) InstallBoot(ctx context.Context, srcPath, slug string, item *model.CatalogItem, thumbPath string) Result {
	defer ins.consumeTemp(srcPath)

	// Slugs are filesystem-safe upstream; sanitizing keeps the filename
	// and the sidecar key in agreement even for a hostile catalog.
	slug = ioutils.SanitizeFileName(slug)

	ins.EnsureDirectories()
	destPath := filepath.Join(ins.root, slug+model.VideoExt)

	if err := ioutils.CopyFile(ctx, srcPath, destPath); err != nil {
		ins.discardThumb(thumbPath)
		return Result{OK: false, Message: fmt.Sprintf("install failed: %v", err)}
	}

	if item != nil {
		ins.saveSidecar(ctx, slug, item, thumbPath)
	} else {
		ins.discardThumb(thumbPath)
	}

	return Result{OK: true, Message: "Installed to " + destPath}
}

// InstallSuspend places a suspend video at the fixed single slot.
//
// An existing occupant is renamed (not copied) to a .webm.bak backup; a
// pre-existing backup is overwritten by the rename. The sidecar key is
// always "suspend", regardless of the source item's slug.
func (ins *Installer) InstallSuspend(ctx context.Context, srcPath string, item *model.CatalogItem, thumbPath string) Result {
	defer ins.consumeTemp(srcPath)

	ins.EnsureDirectories()
	destPath := filepath.Join(ins.root, model.SuspendFileName)

	backedUp := false
	if _, err := os.Stat(destPath); err == nil {
		backupPath := destPath + ".bak"
		if err := os.Rename(destPath, backupPath); err != nil {
			ins.logger.Warn("backup of existing suspend video failed", "error", err)
		} else {
			backedUp = true
		}
	}

	if err := ioutils.CopyFile(ctx, srcPath, destPath); err != nil {
		ins.discardThumb(thumbPath)
		return Result{OK: false, Message: fmt.Sprintf("install failed: %v", err)}
	}

	if item != nil {
		ins.saveSidecar(ctx, model.SuspendSlugKey, item, thumbPath)
	} else {
		ins.discardThumb(thumbPath)
	}

	msg := "Installed to " + destPath
	if backedUp {
		msg += " (backup created)"
	}
	return Result{OK: true, Message: msg}
}

// Install commits a completed download for the given item, selecting the
// install class from the item's kind.
func (ins *Installer) Install(ctx context.Context, item *model.CatalogItem, srcPath, thumbPath string) Result {
	if item.Kind == model.KindBoot {
		return ins.InstallBoot(ctx, srcPath, item.Slug, item, thumbPath)
	}
	return ins.InstallSuspend(ctx, srcPath, item, thumbPath)
}

// ListInstalled scans the install root for video assets and returns them
// sorted by filename ascending.
//
// Sidecar metadata and a local thumbnail path are attached when present;
// a missing or corrupt sidecar leaves the entry with empty metadata.
func (ins *Installer) ListInstalled() ([]model.InstalledEntry, error) {
	entries, err := os.ReadDir(ins.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var out []model.InstalledEntry
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if filepath.Ext(name) != model.VideoExt {
			continue
		}

		kind := model.KindBoot
		key := strings.TrimSuffix(name, model.VideoExt)
		if name == model.SuspendFileName {
			kind = model.KindSuspend
			key = model.SuspendSlugKey
		}

		info, err := e.Info()
		if err != nil {
			continue
		}

		entry := model.InstalledEntry{
			Filename:  name,
			Path:      filepath.Join(ins.root, name),
			Kind:      kind,
			SizeBytes: info.Size(),
		}

		entry.Meta = ins.readSidecar(key)
		thumbPath := filepath.Join(ins.metaDir(), key+".jpg")
		if _, err := os.Stat(thumbPath); err == nil {
			entry.ThumbnailPath = thumbPath
		}

		out = append(out, entry)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Filename < out[j].Filename
	})
	return out, nil
}

// Delete removes an installed file and, best-effort, its sidecars.
//
// Returns ErrNotFound when the target does not exist; no filesystem
// changes are made in that case.
func (ins *Installer) Delete(filename string) error {
	path := filepath.Join(ins.root, filename)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, filename)
		}
		return err
	}

	if err := os.Remove(path); err != nil {
		return err
	}

	key := strings.TrimSuffix(filename, model.VideoExt)
	if filename == model.SuspendFileName {
		key = model.SuspendSlugKey
	}

	for _, ext := range []string{".json", ".jpg"} {
		sidecar := filepath.Join(ins.metaDir(), key+ext)
		if err := os.Remove(sidecar); err != nil && !os.IsNotExist(err) {
			ins.logger.Warn("cannot remove sidecar", "path", sidecar, "error", err)
		}
	}

	return nil
}

// consumeTemp removes a temp file handed to the installer.
func (ins *Installer) consumeTemp(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		ins.logger.Warn("cannot remove temp file", "path", path, "error", err)
	}
}

func (ins *Installer) discardThumb(thumbPath string) {
	ins.consumeTemp(thumbPath)
}
