package dto

// RefreshReq is the body of /refresh and /logout.
type RefreshReq struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
