// internal/model/campaign.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type Campaign struct {
	ID            uuid.UUID `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	OwnerID       string    `db:"owner_id" json:"ownerId"`
	CustomerCount int       `db:"customer_count" json:"customerCount"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}
