package database

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/shupe-carboni/pricebook-service/internal/storage"
)

// Archive is the bookkeeping row for one archived workbook upload.
type Archive struct {
	ID          string    `json:"id"` // arc_{uuid}
	Series      string    `json:"series"`
	Kind        string    `json:"kind"` // 'pricebook' | 'price_update'
	Filename    string    `json:"filename"`
	ArchivePath string    `json:"archive_path"` // storage key
	ContentType *string   `json:"content_type"`
	FileSize    *int64    `json:"file_size"`
	Checksum    string    `json:"checksum"` // SHA-256
	UploadedAt  time.Time `json:"uploaded_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateArchive records an archived workbook.
func CreateArchive(ctx context.Context, archive *Archive) error {
	pool := Pool()

	archive.CreatedAt = time.Now()

	_, err := pool.Exec(ctx, `
		INSERT INTO archives (
			id, series, kind, filename, archive_path,
			content_type, file_size, checksum, uploaded_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING
	`,
		archive.ID, archive.Series, archive.Kind, archive.Filename,
		archive.ArchivePath, archive.ContentType, archive.FileSize,
		archive.Checksum, archive.UploadedAt, archive.CreatedAt,
	)
	return err
}

// GetArchiveByChecksum looks up an archive by checksum for deduplication.
// Returns nil when no archive matches.
func GetArchiveByChecksum(ctx context.Context, checksum string) (*Archive, error) {
	var archive Archive
	err := Pool().QueryRow(ctx, `
		SELECT id, series, kind, filename, archive_path,
		       content_type, file_size, checksum, uploaded_at, created_at
		FROM archives
		WHERE checksum = $1
		LIMIT 1
	`, checksum).Scan(
		&archive.ID, &archive.Series, &archive.Kind, &archive.Filename,
		&archive.ArchivePath, &archive.ContentType, &archive.FileSize,
		&archive.Checksum, &archive.UploadedAt, &archive.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &archive, nil
}

// ArchiveWorkbook stores workbook bytes via the storage backend and records
// the archive row. A workbook already archived under the same checksum is
// reused rather than stored twice.
func ArchiveWorkbook(ctx context.Context, store storage.Storage, series, kind, filename string, content []byte) (*Archive, error) {
	checksum := CalculateChecksum(content)

	if existing, err := GetArchiveByChecksum(ctx, checksum); err == nil && existing != nil {
		return existing, nil
	}

	now := time.Now()
	size := int64(len(content))
	contentType := "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	key := fmt.Sprintf("%s/%s/%s_%s", kind, series, now.Format("20060102T150405"), filename)
	if series == "" {
		key = fmt.Sprintf("%s/%s_%s", kind, now.Format("20060102T150405"), filename)
	}
	err := store.Put(ctx, key, content, &storage.Metadata{
		ContentType:  contentType,
		OriginalName: filename,
		Series:       series,
		UploadedAt:   now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store workbook: %w", err)
	}

	archive := &Archive{
		ID:          GenerateArchiveID(),
		Series:      series,
		Kind:        kind,
		Filename:    filename,
		ArchivePath: key,
		ContentType: &contentType,
		FileSize:    &size,
		Checksum:    checksum,
		UploadedAt:  now,
	}
	if err := CreateArchive(ctx, archive); err != nil {
		return nil, err
	}
	return archive, nil
}

// CalculateChecksum calculates the SHA-256 checksum for data.
func CalculateChecksum(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// GenerateArchiveID generates a new archive ID with the arc_ prefix.
func GenerateArchiveID() string {
	return fmt.Sprintf("arc_%s", uuid.New().String())
}
