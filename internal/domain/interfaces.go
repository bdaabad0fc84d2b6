package domain

import "context"

// AlbumClient: network operations on albums.
type AlbumClient interface {
	QueryAlbums(ctx context.Context, q Query) (Page[Album], error)
	CreateAlbum(ctx context.Context, name string) (Album, error)
	RenameAlbum(ctx context.Context, id, newName string) error
	DeleteAlbums(ctx context.Context, ids []string) error
}

// MediaClient: network operations on media items.
type MediaClient interface {
	QueryMedia(ctx context.Context, q Query) (Page[MediaItem], error)
	AddMedia(ctx context.Context, url string) (MediaItem, error)
	DeleteMedia(ctx context.Context, ids []string) error
}

// AuthClient: credential checks and account maintenance.
type AuthClient interface {
	// Ping fails with ErrUnauthorized when the credentials are invalid
	Ping(ctx context.Context) error

	// SetCredentials replaces the auth context used for every request
	SetCredentials(c Credentials)

	// UploadCookies replaces the server-side cookie file
	UploadCookies(ctx context.Context, path string) error
}

// RemoteAPI combines everything the engine consumes from the media service.
type RemoteAPI interface {
	AlbumClient
	MediaClient
	AuthClient
}

// CredentialStore persists credentials outside the engine.
type CredentialStore interface {
	Load() (Credentials, bool)
	Save(c Credentials) error
	Clear() error
}
