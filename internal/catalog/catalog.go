// Package catalog reads the local nihil image catalog from the Docker
// daemon. The naming convention is by repository: any locally available
// image whose repository contains "nihil" belongs to the catalog. Results
// are always a fresh daemon query, ordered newest first so the
// auto-create path can pick the latest build by taking the first entry.
package catalog

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"

	"github.com/thenullpigeons/nihil/internal/model"
)

// DefaultImage is the published nihil tool image, used by doctor checks
// and offered as the conventional pull target.
const DefaultImage = "ghcr.io/thenullpigeons/nihil-images:latest"

// namingKey is the substring a repository must contain to count as a
// nihil image.
const namingKey = "nihil"

// Engine is the daemon capability set the catalog consumes.
// *client.Client satisfies it.
type Engine interface {
	// ImageList returns a snapshot of locally available images.
	ImageList(ctx context.Context, options image.ListOptions) ([]image.Summary, error)

	// ImagePull pulls an image from a registry. The returned stream
	// carries pull progress and must be drained to completion.
	ImagePull(ctx context.Context, refStr string, options image.PullOptions) (io.ReadCloser, error)
}

// Reader lists and fetches nihil images. It holds no state beyond its
// engine handle.
type Reader struct {
	engine Engine
	logger *log.Logger
}

// NewReader creates a catalog reader. A nil logger falls back to the
// package default.
func NewReader(engine Engine, logger *log.Logger) *Reader {
	if logger == nil {
		logger = log.Default()
	}
	return &Reader{engine: engine, logger: logger}
}

// ListManaged returns all locally available nihil images, one record per
// matching repository:tag, ordered by creation time descending. An empty
// catalog is a valid, non-error result.
func (r *Reader) ListManaged(ctx context.Context) ([]model.ImageRecord, error) {
	summaries, err := r.engine.ImageList(ctx, image.ListOptions{})
	if err != nil {
		return nil, wrapEngineErr("failed to list images", err)
	}

	var records []model.ImageRecord
	for _, s := range summaries {
		for _, tag := range s.RepoTags {
			repo, version, ok := splitRepoTag(tag)
			if !ok || !strings.Contains(repo, namingKey) {
				continue
			}
			records = append(records, model.ImageRecord{
				Repository: repo,
				Tag:        version,
				ID:         s.ID,
				Size:       s.Size,
				CreatedAt:  time.Unix(s.Created, 0),
			})
		}
	}

	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		}
		return records[i].Reference() < records[j].Reference()
	})

	return records, nil
}

// EnsureImage makes sure ref is available locally, pulling it from the
// registry when missing. Pull progress is consumed silently; the pull is
// done when the stream ends.
func (r *Reader) EnsureImage(ctx context.Context, ref string) error {
	present, err := r.HasImage(ctx, ref)
	if err != nil {
		return err
	}
	if present {
		return nil
	}

	r.logger.Info("image not found locally, pulling", "image", ref)

	rc, err := r.engine.ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return model.WrapError(model.KindNoImage,
			fmt.Sprintf("failed to pull image %q", ref), err)
	}
	defer rc.Close()

	if _, err := io.Copy(io.Discard, rc); err != nil {
		return model.WrapError(model.KindNoImage,
			fmt.Sprintf("pull of image %q did not complete", ref), err)
	}

	r.logger.Info("image pulled", "image", ref)
	return nil
}

// HasImage reports whether ref exists locally, using a server-side
// reference filter.
func (r *Reader) HasImage(ctx context.Context, ref string) (bool, error) {
	summaries, err := r.engine.ImageList(ctx, image.ListOptions{
		Filters: filters.NewArgs(filters.Arg("reference", ref)),
	})
	if err != nil {
		return false, wrapEngineErr(fmt.Sprintf("failed to look up image %q", ref), err)
	}
	return len(summaries) > 0, nil
}

// splitRepoTag splits a "repository:tag" reference at the last colon.
// A colon followed by a "/" belongs to a registry port, not a tag.
func splitRepoTag(repoTag string) (repo, tag string, ok bool) {
	i := strings.LastIndex(repoTag, ":")
	if i < 0 || strings.Contains(repoTag[i+1:], "/") {
		return "", "", false
	}
	return repoTag[:i], repoTag[i+1:], true
}

// wrapEngineErr classifies a daemon error the same way the lifecycle
// manager does: connection failures are engine-unavailable, the rest
// stays general.
func wrapEngineErr(message string, err error) *model.CLIError {
	if client.IsErrConnectionFailed(err) {
		return model.WrapError(model.KindEngineUnavailable,
			"lost connection to the Docker daemon", err)
	}
	return model.WrapError(model.KindGeneral, message, err)
}
