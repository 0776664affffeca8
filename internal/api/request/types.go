package request

// AddPlayerRequest is the request body for adding a player
type AddPlayerRequest struct {
	Name string `json:"name"`
}

// AddActionRequest is the request body for adding or overwriting an action
type AddActionRequest struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// UpdateActionRequest is the request body for renaming an action and setting its points
type UpdateActionRequest struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// AssignRequest is the request body for awarding an action to a player
type AssignRequest struct {
	Player string `json:"player"`
	Action string `json:"action"`
}

// PasswordRequest is the request body for admin setup and login
type PasswordRequest struct {
	Password string `json:"password"`
}
