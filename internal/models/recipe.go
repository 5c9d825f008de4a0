package models

import "time"

type RecipeType string

const (
	RecipeTypeBreakfast RecipeType = "Breakfast"
	RecipeTypeLunch     RecipeType = "Lunch"
	RecipeTypeDinner    RecipeType = "Dinner"
	RecipeTypeSnacks    RecipeType = "Snacks"
)

func (t RecipeType) Valid() bool {
	switch t {
	case RecipeTypeBreakfast, RecipeTypeLunch, RecipeTypeDinner, RecipeTypeSnacks:
		return true
	}
	return false
}

type Recipe struct {
	ID           string
	AuthorID     string
	Title        string
	Description  string
	Ingredients  string
	Instructions string
	CookTime     int // minutes
	Type         RecipeType
	TagIDs       []string // ordered as submitted
	PhotoURL     *string
	PhotoKey     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Tag struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Favorite is a (user, recipe) join row, unique per pair.
// It is created and destroyed by toggling, never updated.
type Favorite struct {
	UserID    string
	RecipeID  string
	CreatedAt time.Time
}
