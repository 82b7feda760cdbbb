package idea

// Collection is the store collection ideas live in.
const Collection = "idea"

// CreateRequest is the payload for submitting a new idea.
type CreateRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Maker       string   `json:"maker" binding:"required"`
	Website     string   `json:"website,omitempty"`
	Tags        []string `json:"tags"`
	Thumbnail   string   `json:"thumbnail,omitempty"`
}

// CommentRequest is the payload for commenting on an idea.
type CommentRequest struct {
	Author string `json:"author" binding:"required"`
	Text   string `json:"text" binding:"required"`
}
