// Package dataset accepts uploaded tabular files, profiles them and keeps the
// resulting profiles.
//
// Processing steps:
//   - validate the file name and size
//   - turn the upload into text (XLSX workbooks are flattened through the
//     Excel adapter, everything else is decoded with BOM detection)
//   - dedupe on the SHA-256 of the raw bytes
//   - profile, optionally keep the raw file, persist the record
//
// Deleting a profile also removes its kept raw file.
package dataset

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"tabscout/domain/core"
	"tabscout/domain/profile"
	"tabscout/internal"
	apperrors "tabscout/internal/errors"
	"tabscout/ports"
)

// Listing bounds
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Processor handles upload validation, profiling and persistence
type Processor struct {
	profiler    ports.Profiler
	repository  ports.ProfileRepository
	fileStorage FileStorage
	config      *StorageConfig
	logger      *internal.Logger
}

// FileStorage defines the interface for raw upload storage
type FileStorage interface {
	Store(ctx context.Context, r io.Reader, filename string) (string, error)
	Open(ctx context.Context, filePath string) (io.ReadCloser, error)
	Delete(ctx context.Context, filePath string) error
	Exists(ctx context.Context, filePath string) (bool, error)
}

// StorageConfig holds upload limits and raw file retention settings
type StorageConfig struct {
	BasePath          string   // Directory for kept uploads
	MaxFileSize       int64    // Maximum upload size in bytes
	AllowedExtensions []string // Lower-case, with leading dot
	ChunkSize         int      // Copy buffer size
	KeepUploads       bool     // Keep the raw file after profiling
}

// DefaultStorageConfig returns sensible defaults
func DefaultStorageConfig() *StorageConfig {
	return &StorageConfig{
		BasePath:          "uploads",
		MaxFileSize:       50 * 1024 * 1024, // 50MB
		AllowedExtensions: []string{".csv", ".tsv", ".txt", ".psv", ".xlsx"},
		ChunkSize:         1024 * 1024, // 1MB
		KeepUploads:       false,
	}
}

// Upload is one file handed to the processor
type Upload struct {
	FileName string
	Content  io.Reader
	Size     int64 // Declared size, 0 when unknown
}

// NewProcessor creates a processor with the default storage config
func NewProcessor(profiler ports.Profiler, repository ports.ProfileRepository, fileStorage FileStorage, logger *internal.Logger) *Processor {
	return NewProcessorWithConfig(profiler, repository, fileStorage, logger, DefaultStorageConfig())
}

// NewProcessorWithConfig creates a processor with a custom storage config
func NewProcessorWithConfig(profiler ports.Profiler, repository ports.ProfileRepository, fileStorage FileStorage, logger *internal.Logger, config *StorageConfig) *Processor {
	if config == nil {
		config = DefaultStorageConfig()
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Processor{
		profiler:    profiler,
		repository:  repository,
		fileStorage: fileStorage,
		config:      config,
		logger:      logger.Component("DatasetProcessor"),
	}
}

// ProcessUpload profiles an uploaded file and stores the result. A file whose
// bytes were already profiled returns the stored record.
func (p *Processor) ProcessUpload(ctx context.Context, upload *Upload) (*profile.Record, error) {
	if err := p.validateUpload(upload); err != nil {
		return nil, err
	}
	p.logger.Info("Processing upload %s", upload.FileName)
	start := time.Now()

	raw, err := p.readUpload(upload)
	if err != nil {
		return nil, err
	}

	hash := core.NewHash(raw)
	existing, err := p.repository.GetByHash(ctx, hash)
	if err == nil {
		p.logger.Info("Upload %s matches stored profile %s (hash %s)", upload.FileName, existing.ID, hash.Short())
		return existing, nil
	}
	if !core.IsNotFoundError(err) {
		return nil, apperrors.DatabaseError("failed to look up profile by hash", err)
	}

	text, err := ToText(upload.FileName, raw)
	if err != nil {
		return nil, err
	}

	result, err := p.profiler.Profile(ctx, text, upload.FileName)
	if err != nil {
		p.logger.Warn("Profiling %s failed: %v", upload.FileName, err)
		return nil, err
	}

	record := profile.NewRecord(hash, *result)
	if p.config.KeepUploads && p.fileStorage != nil {
		path, err := p.fileStorage.Store(ctx, bytes.NewReader(raw), upload.FileName)
		if err != nil {
			p.logger.Warn("Could not keep raw upload %s: %v", upload.FileName, err)
		} else {
			record.RawPath = path
			p.logger.Debug("Raw upload %s kept at %s", upload.FileName, path)
		}
	}

	if err := p.repository.Save(ctx, record); err != nil {
		// A concurrent upload of the same bytes may have won the unique hash.
		p.removeRaw(ctx, record.RawPath)
		if stored, lookupErr := p.repository.GetByHash(ctx, hash); lookupErr == nil {
			p.logger.Info("Upload %s was stored concurrently as %s", upload.FileName, stored.ID)
			return stored, nil
		}
		return nil, apperrors.DatabaseError("failed to save profile", err)
	}

	p.logger.Info("Profiled %s as %s: %d rows, %d columns in %s",
		upload.FileName, record.ID, result.RowCount, len(result.Columns), time.Since(start).Round(time.Millisecond))
	return record, nil
}

// Get loads one stored profile
func (p *Processor) Get(ctx context.Context, id string) (*profile.Record, error) {
	parsed, err := core.ParseID(id)
	if err != nil {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid profile id %q", id))
	}
	record, err := p.repository.GetByID(ctx, parsed)
	if err != nil {
		return nil, p.repositoryError(err, "failed to load profile")
	}
	return record, nil
}

// List returns stored profiles, newest first. limit is clamped to
// [1, MaxListLimit]; zero or negative means DefaultListLimit.
func (p *Processor) List(ctx context.Context, limit, offset int) ([]*profile.Record, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	records, err := p.repository.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.DatabaseError("failed to list profiles", err)
	}
	return records, nil
}

// Delete removes a stored profile and its kept raw upload
func (p *Processor) Delete(ctx context.Context, id string) error {
	record, err := p.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := p.repository.Delete(ctx, record.ID); err != nil {
		return p.repositoryError(err, "failed to delete profile")
	}
	p.removeRaw(ctx, record.RawPath)
	p.logger.Info("Deleted profile %s", record.ID)
	return nil
}

// OpenRaw returns the kept raw upload of a stored profile. The caller closes
// the reader.
func (p *Processor) OpenRaw(ctx context.Context, id string) (*profile.Record, io.ReadCloser, error) {
	record, err := p.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if record.RawPath == "" || p.fileStorage == nil {
		return nil, nil, apperrors.NotFound("raw upload")
	}
	exists, err := p.fileStorage.Exists(ctx, record.RawPath)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to check raw upload")
	}
	if !exists {
		return nil, nil, apperrors.NotFound("raw upload")
	}
	rc, err := p.fileStorage.Open(ctx, record.RawPath)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to open raw upload")
	}
	return record, rc, nil
}

func (p *Processor) removeRaw(ctx context.Context, path string) {
	if path == "" || p.fileStorage == nil {
		return
	}
	if err := p.fileStorage.Delete(ctx, path); err != nil {
		p.logger.Warn("Could not remove raw upload %s: %v", path, err)
	}
}

func (p *Processor) repositoryError(err error, message string) error {
	if core.IsNotFoundError(err) {
		return apperrors.WithCode(apperrors.CodeNotFound, err)
	}
	return apperrors.DatabaseError(message, err)
}

// validateUpload checks the name, extension and declared size
func (p *Processor) validateUpload(upload *Upload) error {
	if upload == nil || upload.Content == nil {
		return apperrors.InvalidInput("no file provided")
	}
	if strings.TrimSpace(upload.FileName) == "" {
		return apperrors.InvalidInput("no filename provided")
	}
	if err := p.validateFileExtension(upload.FileName); err != nil {
		return err
	}
	if upload.Size > p.config.MaxFileSize {
		return p.tooLarge(upload.Size)
	}
	return nil
}

func (p *Processor) validateFileExtension(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range p.config.AllowedExtensions {
		if ext == allowed {
			return nil
		}
	}
	return apperrors.InvalidInput(fmt.Sprintf("unsupported file extension %q, expected one of %s",
		ext, strings.Join(p.config.AllowedExtensions, ", ")))
}

func (p *Processor) tooLarge(size int64) error {
	return apperrors.InvalidInput(fmt.Sprintf("file size %d bytes exceeds maximum allowed size %d bytes", size, p.config.MaxFileSize))
}

// readUpload reads at most MaxFileSize bytes; a longer stream is rejected
// even when the declared size was smaller.
func (p *Processor) readUpload(upload *Upload) ([]byte, error) {
	var buf bytes.Buffer
	if upload.Size > 0 {
		buf.Grow(int(upload.Size))
	}
	n, err := io.CopyBuffer(&buf, io.LimitReader(upload.Content, p.config.MaxFileSize+1), make([]byte, p.chunkSize()))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to read upload")
	}
	if n > p.config.MaxFileSize {
		return nil, p.tooLarge(n)
	}
	return buf.Bytes(), nil
}

func (p *Processor) chunkSize() int {
	if p.config.ChunkSize <= 0 {
		return 32 * 1024
	}
	return p.config.ChunkSize
}
