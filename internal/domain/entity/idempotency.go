package entity

import "time"

// IdempotencyKey stores processed requests to prevent duplicates
type IdempotencyKey struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Key          string    `gorm:"size:255;not null;uniqueIndex:idx_idempotency_key_actor"`
	ActorID      int64     `gorm:"not null;uniqueIndex:idx_idempotency_key_actor"`
	Endpoint     string    `gorm:"size:255;not null"`
	ResponseCode int       `gorm:"not null"`
	ResponseBody string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	ExpiresAt    time.Time `gorm:"not null;index"`
}

// TableName returns the table name for IdempotencyKey
func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// IsExpired checks if the idempotency key has expired
func (i *IdempotencyKey) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
