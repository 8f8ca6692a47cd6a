package file

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/nekogravitycat/spot-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/spot-booking-backend/internal/pkg/storage"
)

const (
	thumbnailWidth  = 200
	thumbnailHeight = 200

	// DefaultMaxBytes caps uploads when no limit is configured.
	DefaultMaxBytes int64 = 5 << 20
)

// allowedTypes maps accepted MIME types to the extension files are stored under.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

type UploadInput struct {
	Filename string
	Content  io.Reader
	UserID   string
}

type Service interface {
	Upload(ctx context.Context, in UploadInput) (*File, error)
	Delete(ctx context.Context, id, callerID string) error
	Get(ctx context.Context, id string) (*File, error)
	Download(ctx context.Context, id string) (io.ReadCloser, *File, error)
	DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *File, error)
}

type service struct {
	repo     Repository
	storage  storage.Storage
	imgProc  *storage.ImageProcessor
	maxBytes int64
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(repo Repository, store storage.Storage, maxBytes int64, logger *slog.Logger) Service {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		repo:     repo,
		storage:  store,
		imgProc:  storage.NewImageProcessor(),
		maxBytes: maxBytes,
		logger:   logger.With("component", "file"),
		now:      time.Now,
	}
}

func (s *service) Upload(ctx context.Context, in UploadInput) (*File, error) {
	// Read one byte past the limit to detect oversized content.
	data, err := io.ReadAll(io.LimitReader(in.Content, s.maxBytes+1))
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to read file content: %w", err))
	}
	if int64(len(data)) > s.maxBytes {
		return nil, ErrTooLarge
	}

	mtype := mimetype.Detect(data)
	ext, ok := allowedTypes[mtype.String()]
	if !ok {
		return nil, ErrUnsupportedType
	}

	thumb, err := s.imgProc.GenerateThumbnail(bytes.NewReader(data), thumbnailWidth, thumbnailHeight)
	if err != nil {
		return nil, ErrInvalidImage
	}

	fileID := uuid.New().String()

	// Sharding path: upload/ab/UUID.ext
	shard := fileID[:2]
	storagePath := path.Join("upload", shard, fileID+ext)
	thumbPath := path.Join("upload", shard, fileID+"_thumb.jpg")

	if err := s.storage.Save(ctx, storagePath, bytes.NewReader(data)); err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to save file to storage: %w", err))
	}
	if err := s.storage.Save(ctx, thumbPath, thumb); err != nil {
		s.cleanup(ctx, storagePath)
		return nil, apperror.Internal(fmt.Errorf("failed to save thumbnail to storage: %w", err))
	}

	f := &File{
		ID:            fileID,
		UserID:        in.UserID,
		Filename:      sanitizeFilename(in.Filename, ext),
		StoragePath:   storagePath,
		ThumbnailPath: &thumbPath,
		ContentType:   mtype.String(),
		Size:          int64(len(data)),
		CreatedAt:     s.now().UTC(),
	}

	if err := s.repo.Create(ctx, f); err != nil {
		s.cleanup(ctx, storagePath, thumbPath)
		return nil, apperror.Classify(err)
	}

	s.logger.InfoContext(ctx, "file uploaded", "file_id", f.ID, "user_id", f.UserID, "size", f.Size, "content_type", f.ContentType)
	return f, nil
}

// cleanup removes stored objects after a failed upload or on delete.
func (s *service) cleanup(ctx context.Context, paths ...string) {
	ctx = context.WithoutCancel(ctx)
	for _, p := range paths {
		if err := s.storage.Delete(ctx, p); err != nil {
			s.logger.WarnContext(ctx, "failed to remove stored object", "path", p, "error", err)
		}
	}
}

func (s *service) Delete(ctx context.Context, id, callerID string) error {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return apperror.Classify(err)
	}
	if f.UserID != callerID {
		return ErrForbidden
	}

	if err := s.repo.Delete(context.WithoutCancel(ctx), id); err != nil {
		return apperror.Classify(err)
	}

	paths := []string{f.StoragePath}
	if f.ThumbnailPath != nil {
		paths = append(paths, *f.ThumbnailPath)
	}
	s.cleanup(ctx, paths...)
	return nil
}

func (s *service) Get(ctx context.Context, id string) (*File, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Classify(err)
	}
	return f, nil
}

func (s *service) Download(ctx context.Context, id string) (io.ReadCloser, *File, error) {
	f, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	stream, err := s.storage.Get(ctx, f.StoragePath)
	if err != nil {
		return nil, nil, apperror.Internal(fmt.Errorf("failed to retrieve file from storage: %w", err))
	}
	return stream, f, nil
}

func (s *service) DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *File, error) {
	f, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if f.ThumbnailPath == nil {
		return nil, nil, ErrThumbnailNotFound
	}

	stream, err := s.storage.Get(ctx, *f.ThumbnailPath)
	if err != nil {
		return nil, nil, apperror.Internal(fmt.Errorf("failed to retrieve thumbnail from storage: %w", err))
	}
	return stream, f, nil
}

// sanitizeFilename keeps the base name of the client's filename, falling back
// to a generic one. It is only used for Content-Disposition.
func sanitizeFilename(name, ext string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		if r == '"' || r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
	if name == "" || name == "." || name == "/" {
		return "image" + ext
	}
	return name
}
