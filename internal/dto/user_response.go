package dto

type LoginResponse struct {
	Token string `json:"token"`
}

type UserResponse struct {
	ID         int64  `json:"id"`
	ExternalID string `json:"external_id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
}
