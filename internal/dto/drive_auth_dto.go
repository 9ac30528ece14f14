package dto

type DriveCallbackQuery struct {
	State string `query:"state" validate:"required"`
	Code  string `query:"code" validate:"required"`
}

type DriveAuthStatus struct {
	Authorized bool   `json:"authorized"`
	Mode       string `json:"mode"`
}
