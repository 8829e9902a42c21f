package install

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	ioutils "github.com/deckrepo/deckrepo-manager/internal/io"
	"github.com/deckrepo/deckrepo-manager/internal/model"
)

// sidecarDoc is the on-disk shape of a metadata sidecar, one JSON
// document per installed slug under the .manager directory.
type sidecarDoc struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	Downloads   int    `json:"downloads"`
	Likes       int    `json:"likes"`
	Thumbnail   string `json:"thumbnail"`
}

func toSidecarDoc(item *model.CatalogItem) sidecarDoc {
	return sidecarDoc{
		ID:          item.ID,
		Slug:        item.Slug,
		Type:        item.Kind.String(),
		Title:       item.Title,
		Author:      item.Author,
		Description: item.Description,
		Downloads:   item.Downloads,
		Likes:       item.Likes,
		Thumbnail:   item.ThumbnailURL,
	}
}

func (d sidecarDoc) toItem() *model.CatalogItem {
	kind := model.KindSuspend
	if d.Type == string(model.KindBoot) {
		kind = model.KindBoot
	}
	return &model.CatalogItem{
		ID:           d.ID,
		Slug:         d.Slug,
		Kind:         kind,
		Title:        d.Title,
		Author:       d.Author,
		Description:  d.Description,
		Downloads:    d.Downloads,
		Likes:        d.Likes,
		ThumbnailURL: d.Thumbnail,
	}
}

// saveSidecar writes the descriptor JSON and moves the thumbnail temp
// file into the metadata directory under the given key.
//
// Sidecar writing is best-effort: failures are logged and never fail the
// install. The thumbnail temp file is consumed either way.
func (ins *Installer) saveSidecar(ctx context.Context, key string, item *model.CatalogItem, thumbPath string) {
	jsonPath := filepath.Join(ins.metaDir(), key+".json")

	data, err := json.Marshal(toSidecarDoc(item))
	if err == nil {
		err = ioutils.WriteFile(ctx, jsonPath, data)
	}
	if err != nil {
		ins.logger.Warn("sidecar write failed", "key", key, "error", err)
	}

	if thumbPath == "" {
		return
	}
	if err := ins.placeThumbnail(ctx, key, thumbPath); err != nil {
		ins.logger.Warn("sidecar thumbnail failed", "key", key, "error", err)
		ins.discardThumb(thumbPath)
	}
}

// placeThumbnail normalizes the downloaded thumbnail to JPEG and moves
// it to {metaDir}/{key}.jpg, replacing any existing file. A positive
// thumbMaxSize additionally bounds the dimensions; zero or negative
// only converts the format.
//
// When the image cannot be decoded the raw bytes are moved as-is so the
// library view still has something to show.
func (ins *Installer) placeThumbnail(ctx context.Context, key, thumbPath string) error {
	destPath := filepath.Join(ins.metaDir(), key+".jpg")

	raw, err := os.ReadFile(thumbPath)
	if err != nil {
		return err
	}

	var jpg []byte
	if ins.thumbMaxSize > 0 {
		jpg, err = ins.images.ResizeImage(ctx, raw, ins.thumbMaxSize, ins.thumbMaxSize)
	} else {
		jpg, err = ins.images.ConvertToJPEG(ctx, raw)
	}
	if err != nil {
		return ioutils.MoveFile(ctx, thumbPath, destPath)
	}

	if err := ioutils.WriteFile(ctx, destPath, jpg); err != nil {
		return err
	}
	ins.consumeTemp(thumbPath)
	return nil
}

// readSidecar loads the sidecar document for a key. Missing or corrupt
// sidecars yield nil.
func (ins *Installer) readSidecar(key string) *model.CatalogItem {
	data, err := os.ReadFile(filepath.Join(ins.metaDir(), key+".json"))
	if err != nil {
		return nil
	}
	var doc sidecarDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil
	}
	return doc.toItem()
}
