package models

// Follow is a directed edge meaning the follower receives the followed
// user's posts in their feed. The composite unique index makes duplicate
// edges impossible at the storage level, so concurrent follow requests are
// resolved by the database rather than by application-level checks.
type Follow struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	FollowerID uint `json:"follower_id" gorm:"index;uniqueIndex:idx_follower_followed;not null"`
	FollowedID uint `json:"followed_id" gorm:"index;uniqueIndex:idx_follower_followed;not null"`
	Follower   User `json:"-" gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	Followed   User `json:"-" gorm:"foreignKey:FollowedID;constraint:OnDelete:CASCADE"`
}
