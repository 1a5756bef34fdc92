package catalog

import "time"

// ReviewStatus marks a review as visible or soft-deleted. Soft-deleted
// reviews stay in the product's review slice until an admin hard-deletes
// them.
type ReviewStatus string

const (
	ReviewActive  ReviewStatus = "active"
	ReviewDeleted ReviewStatus = "deleted"
)

// Review is embedded in its product record, one per (user, product).
type Review struct {
	UserID    string       `json:"user_id"`
	UserName  string       `json:"user_name"`
	Rating    int          `json:"rating"`
	Comment   string       `json:"comment"`
	Status    ReviewStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
