package remote

import "github.com/mmcdole/mediabox/internal/domain"

// albumQueryResponse is the payload of GET /album/query
type albumQueryResponse struct {
	Albums      []domain.Album `json:"albums"`
	NoMoreAlbum bool           `json:"no_more_albums"`
}

// mediaQueryResponse is the payload of GET /media/query
type mediaQueryResponse struct {
	Media       []domain.MediaItem `json:"media"`
	NoMoreMedia bool               `json:"no_more_media"`
}

type createAlbumRequest struct {
	Name string `json:"name"`
}

type renameAlbumRequest struct {
	AlbumID string `json:"album_id"`
	NewName string `json:"new_name"`
}

type deleteAlbumsRequest struct {
	AlbumIDs []string `json:"album_ids"`
}

type addMediaRequest struct {
	MediaURL string `json:"media_url"`
}

type deleteMediaRequest struct {
	MediaIDs []string `json:"media_ids"`
}

// errorResponse covers both error shapes the service emits.
// FastAPI-style handlers use "detail", the rest use "message".
type errorResponse struct {
	Detail  any    `json:"detail"`
	Message string `json:"message"`
}

func (e errorResponse) text() string {
	if s, ok := e.Detail.(string); ok && s != "" {
		return s
	}
	return e.Message
}
