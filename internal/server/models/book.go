package models

// Book is a catalog entry. Price is stored in minor units (cents).
type Book struct {
	ID          int64  `db:"id" json:"id"`
	Title       string `db:"title" json:"title"`
	Author      string `db:"author" json:"author"`
	Description string `db:"description" json:"description,omitempty"`
	Price       int64  `db:"price" json:"price"`
	CoverImage  string `db:"cover_image" json:"cover_image,omitempty"`
}
