package dto

// CategoryRequest carries the type and color of a category to create or the
// new values for an update
type CategoryRequest struct {
	Type  string `json:"type"`
	Color string `json:"color"`
}

// CategoryInfo represents category data in responses
type CategoryInfo struct {
	Type  string `json:"type"`
	Color string `json:"color"`
}

// DeleteCategoriesRequest lists the category types to delete
type DeleteCategoriesRequest struct {
	Types []string `json:"types"`
}

// CountResult is a confirmation message plus the number of transactions the
// operation touched
type CountResult struct {
	Message string `json:"message"`
	Count   int64  `json:"count"`
}
