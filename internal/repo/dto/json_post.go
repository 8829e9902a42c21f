package dto

import (
	"encoding/json"

	"github.com/deckrepo/deckrepo-manager/internal/model"
)

// Document is the top-level catalog response shape.
type Document struct {
	Posts []Post `json:"posts"`
}

// Post is one deserialized catalog entry as served by the repo API.
type Post struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Downloads   int    `json:"downloads"`
	Likes       int    `json:"likes"`
	Video       string `json:"video"`
	Thumbnail   string `json:"thumbnail"`
	User        *User  `json:"user"`
}

// User is the nested submitter record.
type User struct {
	SteamName string `json:"steam_name"`
}

// ParseDocument decodes a catalog response body.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ToItem converts a Post to a model.CatalogItem.
//
// downloadURL is used as the video URL when the post does not carry a
// direct one; the repo serves assets through a redirecting download
// endpoint keyed by post id.
func (p *Post) ToItem(downloadURL string) model.CatalogItem {
	kind := model.KindSuspend
	if p.Type == string(model.KindBoot) {
		kind = model.KindBoot
	}

	slug := p.Slug
	if slug == "" {
		slug = "unknown"
	}

	author := ""
	if p.User != nil {
		author = p.User.SteamName
	}

	videoURL := p.Video
	if videoURL == "" {
		videoURL = downloadURL
	}

	return model.CatalogItem{
		ID:           p.ID,
		Slug:         slug,
		Kind:         kind,
		Title:        p.Title,
		Author:       author,
		Description:  p.Description,
		Downloads:    p.Downloads,
		Likes:        p.Likes,
		VideoURL:     videoURL,
		ThumbnailURL: p.Thumbnail,
	}
}
