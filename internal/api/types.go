package api

type registerRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150,username"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type setPasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

type avatarRequest struct {
	Avatar string `json:"avatar" binding:"required"`
}

type recipeIngredientRequest struct {
	ID     uint `json:"id"`
	Amount int  `json:"amount"`
}

// createRecipeRequest is the flat authoring payload. List invariants
// (non-empty, duplicate-free, amount bounds) belong to the service, so the
// lists carry no binding rules here.
type createRecipeRequest struct {
	Name        string                    `json:"name" binding:"required,max=256"`
	Text        string                    `json:"text" binding:"required"`
	Image       string                    `json:"image"`
	CookingTime int                       `json:"cooking_time"`
	Tags        []uint                    `json:"tags"`
	Ingredients []recipeIngredientRequest `json:"ingredients"`
}

// updateRecipeRequest distinguishes omitted fields (nil) from supplied
// ones; a present tags/ingredients list replaces the stored set wholesale.
type updateRecipeRequest struct {
	Name        *string                   `json:"name" binding:"omitempty,max=256"`
	Text        *string                   `json:"text"`
	Image       *string                   `json:"image"`
	CookingTime *int                      `json:"cooking_time"`
	Tags        []uint                    `json:"tags"`
	Ingredients []recipeIngredientRequest `json:"ingredients"`
}

type listResponse struct {
	Count   int64       `json:"count"`
	Results interface{} `json:"results"`
}
