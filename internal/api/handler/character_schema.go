package handler

// messageResponse is the envelope for confirmations and all 4xx/5xx responses.
type messageResponse struct {
	Message string `json:"message"`
}

type createCharacterRequest struct {
	Name     string `json:"name"     validate:"required"`
	RealName string `json:"realName" validate:"required"`
	Universe string `json:"universe" validate:"required"`
}

// updateCharacterRequest is a partial update; empty strings count as absent.
type updateCharacterRequest struct {
	Name     string `json:"name"`
	RealName string `json:"realName"`
	Universe string `json:"universe"`
}

// characterResponse mirrors domain.Character on the wire.
type characterResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	RealName string `json:"realName"`
	Universe string `json:"universe"`
}
