// Package storage archives delivered digests in Postgres so later runs can
// skip already-published stories.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"newsbrief/internal/news"
)

const tagSeparator = ", "

// Archive wraps the gorm handle. All methods are safe on a nil receiver so
// callers can treat the archive as optional.
type Archive struct {
	gdb *gorm.DB
}

// Open connects to Postgres, pings, and migrates the digest tables.
func Open(ctx context.Context, databaseURL, appLogLevel string) (*Archive, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("database url is required")
	}

	gdb, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(resolveGormLogLevel(appLogLevel)),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open gorm database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("get gorm sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(4)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := gdb.WithContext(ctx).Exec("CREATE SCHEMA IF NOT EXISTS newsbrief").Error; err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	if err := gdb.WithContext(ctx).AutoMigrate(autoMigrateModels()...); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("auto-migrate digest tables: %w", err)
	}

	return &Archive{gdb: gdb}, nil
}

func (a *Archive) Close() error {
	if a == nil || a.gdb == nil {
		return nil
	}
	sqlDB, err := a.gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveDigest persists a digest together with its items in one transaction.
func (a *Archive) SaveDigest(ctx context.Context, digest *news.Digest) error {
	if a == nil || a.gdb == nil {
		return nil
	}
	if digest == nil {
		return fmt.Errorf("digest is nil")
	}

	record := toRecord(digest)
	if err := a.gdb.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("save digest: %w", err)
	}
	return nil
}

// RecentDigests returns the newest digests first, items included.
func (a *Archive) RecentDigests(ctx context.Context, limit int) ([]news.Digest, error) {
	if a == nil || a.gdb == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	var records []DigestRecord
	err := a.gdb.WithContext(ctx).
		Preload("Items").
		Order("generated_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("load digests: %w", err)
	}

	digests := make([]news.Digest, 0, len(records))
	for _, record := range records {
		digests = append(digests, fromRecord(record))
	}
	return digests, nil
}

// PublishedURLs returns the URLs of every archived item, for collector
// skip-lists. A nil archive yields an empty set.
func (a *Archive) PublishedURLs(ctx context.Context) (map[string]struct{}, error) {
	if a == nil || a.gdb == nil {
		return map[string]struct{}{}, nil
	}

	var urls []string
	err := a.gdb.WithContext(ctx).
		Model(&ItemRecord{}).
		Distinct("url").
		Pluck("url", &urls).Error
	if err != nil {
		return nil, fmt.Errorf("load published urls: %w", err)
	}

	seen := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		seen[u] = struct{}{}
	}
	return seen, nil
}

func toRecord(digest *news.Digest) *DigestRecord {
	record := &DigestRecord{
		GeneratedAt: digest.GeneratedAt,
		Region:      digest.Region,
		Summary:     digest.Summary,
		Items:       make([]ItemRecord, 0, len(digest.Items)),
	}
	for _, item := range digest.Items {
		row := ItemRecord{
			Source:      item.Source,
			Title:       item.Title,
			Description: item.Description,
			Region:      item.Region,
			URL:         item.URL,
			Category:    item.Category,
			Language:    item.Language,
			Sentiment:   item.Sentiment,
			Tags:        strings.Join(item.Tags, tagSeparator),
		}
		if !item.PublishedAt.IsZero() {
			published := item.PublishedAt
			row.PublishedAt = &published
		}
		record.Items = append(record.Items, row)
	}
	return record
}

func fromRecord(record DigestRecord) news.Digest {
	digest := news.Digest{
		GeneratedAt: record.GeneratedAt,
		Region:      record.Region,
		Summary:     record.Summary,
		Items:       make([]news.Item, 0, len(record.Items)),
	}
	for _, row := range record.Items {
		item := news.Item{
			Source:      row.Source,
			Title:       row.Title,
			Description: row.Description,
			Region:      row.Region,
			URL:         row.URL,
			Category:    row.Category,
			Language:    row.Language,
			Sentiment:   row.Sentiment,
		}
		if row.PublishedAt != nil {
			item.PublishedAt = *row.PublishedAt
		}
		if row.Tags != "" {
			item.Tags = strings.Split(row.Tags, tagSeparator)
		}
		digest.Items = append(digest.Items, item)
	}
	return digest
}

func resolveGormLogLevel(appLogLevel string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(appLogLevel)) {
	case "trace", "debug":
		return logger.Info
	case "error", "fatal", "panic":
		return logger.Error
	default:
		return logger.Warn
	}
}
