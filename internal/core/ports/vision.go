package ports

import "context"

// PosterReader sends an instruction and an image to an image-understanding
// model and returns its free-text reply.
type PosterReader interface {
	ReadPoster(ctx context.Context, instruction string, image []byte, mimeType string) (string, error)
}
