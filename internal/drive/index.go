package drive

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/minevcs/minevcs/internal/domain"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// Index reads metadata about uploaded worlds.
type Index struct {
	srv *drive.Service
}

// NewIndex creates an Index using client for requests. Extra options are
// passed to the Drive service, e.g. a custom endpoint.
func NewIndex(ctx context.Context, client *http.Client, opts ...option.ClientOption) (*Index, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(client)}, opts...)
	srv, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create drive client: %w", err)
	}
	return &Index{srv: srv}, nil
}

// ArchiveName returns the Drive file name a world is uploaded as
func ArchiveName(world string) string {
	return world + ".zip"
}

// LatestUpload returns the modification time of the newest upload of world.
// It returns domain.ErrNoRemoteCopy when the world was never uploaded.
func (i *Index) LatestUpload(ctx context.Context, world string) (time.Time, error) {
	query := fmt.Sprintf("name = '%s' and 'root' in parents and trashed = false", quote(ArchiveName(world)))
	res, err := i.srv.Files.List().
		Q(query).
		Fields("files(id, name, modifiedTime)").
		OrderBy("modifiedTime desc").
		PageSize(1).
		Context(ctx).
		Do()
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to query drive: %w", err)
	}
	if len(res.Files) == 0 {
		return time.Time{}, fmt.Errorf("%w: %s", domain.ErrNoRemoteCopy, ArchiveName(world))
	}

	modified, err := time.Parse(time.RFC3339, res.Files[0].ModifiedTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse last upload time: %w", err)
	}
	return modified, nil
}

// quote escapes a value for use inside a single-quoted Drive query literal
func quote(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}
