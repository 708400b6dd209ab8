package catalog

type AddRoomRequest struct {
	Number string `json:"number" binding:"required"`
	Type   string `json:"type" binding:"required"`
}

type SetAvailabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}
