package domain

import "time"

// Meme is a user-posted image with caption, tags, likes, and comments.
type Meme struct {
	ID        string
	CreatorID string
	ImageURL  string
	Caption   string
	Tags      []string
	Likes     []string
	Comments  []Comment
	CreatedAt time.Time
	UpdatedAt time.Time

	// Creator is populated on read paths that join the accounts table.
	Creator *AccountRef
}

// AccountRef is the minimal account projection embedded in other entities.
type AccountRef struct {
	ID        string
	Username  string
	AvatarURL *string
}

// Comment is a single comment attached to a meme.
type Comment struct {
	ID        string
	MemeID    string
	AuthorID  string
	Text      string
	CreatedAt time.Time

	Author *AccountRef
}

// LikedBy reports whether the account already likes this meme.
func (m Meme) LikedBy(accountID string) bool {
	for _, id := range m.Likes {
		if id == accountID {
			return true
		}
	}
	return false
}
