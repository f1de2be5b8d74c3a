package dto

type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

type CreateBlogPostRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Slug        string `json:"slug" validate:"required,max=255"`
	Content     string `json:"content" validate:"required"`
	Excerpt     string `json:"excerpt" validate:"max=512"`
	IsPublished *bool  `json:"is_published"`
}

// UpdateBlogPostRequest is a partial update: nil fields are left unchanged.
type UpdateBlogPostRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=255"`
	Slug        *string `json:"slug" validate:"omitempty,max=255"`
	Content     *string `json:"content"`
	Excerpt     *string `json:"excerpt" validate:"omitempty,max=512"`
	IsPublished *bool   `json:"is_published"`
}

type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"max=255"`
	Body    string `json:"body" validate:"required,max=10000"`
}

type SetSettingRequest struct {
	Value string `json:"value"`
}
