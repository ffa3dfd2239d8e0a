package storage

import "time"

// DigestRecord maps newsbrief.digests.
type DigestRecord struct {
	DigestID    int64        `gorm:"column:digest_id;primaryKey;autoIncrement"`
	GeneratedAt time.Time    `gorm:"column:generated_at;type:timestamptz;not null"`
	Region      string       `gorm:"column:region;type:text;not null;default:''"`
	Summary     string       `gorm:"column:summary;type:text;not null"`
	Items       []ItemRecord `gorm:"foreignKey:DigestID"`
	CreatedAt   time.Time    `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
}

func (DigestRecord) TableName() string { return "newsbrief.digests" }

// ItemRecord maps newsbrief.digest_items.
type ItemRecord struct {
	ItemID      int64      `gorm:"column:item_id;primaryKey;autoIncrement"`
	DigestID    int64      `gorm:"column:digest_id;type:bigint;not null;index"`
	Source      string     `gorm:"column:source;type:text;not null"`
	Title       string     `gorm:"column:title;type:text;not null"`
	Description string     `gorm:"column:description;type:text;not null;default:''"`
	PublishedAt *time.Time `gorm:"column:published_at;type:timestamptz"`
	Region      string     `gorm:"column:region;type:text;not null"`
	URL         string     `gorm:"column:url;type:text;not null;index"`
	Category    string     `gorm:"column:category;type:text;not null;default:''"`
	Language    string     `gorm:"column:language;type:text;not null;default:''"`
	Sentiment   *float64   `gorm:"column:sentiment;type:double precision"`
	Tags        string     `gorm:"column:tags;type:text;not null;default:''"`
	CreatedAt   time.Time  `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
}

func (ItemRecord) TableName() string { return "newsbrief.digest_items" }

func autoMigrateModels() []any {
	return []any{
		&DigestRecord{},
		&ItemRecord{},
	}
}
