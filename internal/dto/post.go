package dto

type SubmitPostRequest struct {
	ImageURL string `json:"imageURL"`
	Caption  string `json:"caption"`
	Prompt   string `json:"prompt"`
}

type ReactRequest struct {
	Kind string `json:"kind" binding:"required"`
}
