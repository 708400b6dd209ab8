package reservation

type CreateReservationRequest struct {
	RoomID   int64  `json:"room_id" binding:"required"`
	Checkin  string `json:"checkin" binding:"required"`
	Checkout string `json:"checkout" binding:"required"`
}

type ReservationResponse struct {
	ID        int64  `json:"id"`
	Code      string `json:"code"`
	RoomID    int64  `json:"room_id"`
	Checkin   string `json:"checkin"`
	Checkout  string `json:"checkout"`
	CreatedAt string `json:"created_at"`
}
