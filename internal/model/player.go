package model

type Player struct {
	ID    string `json:"id"`
	Color Color  `json:"color"`
}

// Seats holds the players of one game. An empty ID is an open seat.
type Seats struct {
	White Player `json:"white"`
	Black Player `json:"black"`
}

// ColorOf returns the color playerID is seated as.
func (s Seats) ColorOf(playerID string) (Color, bool) {
	switch {
	case playerID == "":
		return "", false
	case s.White.ID == playerID:
		return White, true
	case s.Black.ID == playerID:
		return Black, true
	}
	return "", false
}

func (s Seats) Full() bool {
	return s.White.ID != "" && s.Black.ID != ""
}

// Swapped returns the seats with colors exchanged.
func (s Seats) Swapped() Seats {
	return Seats{
		White: Player{ID: s.Black.ID, Color: White},
		Black: Player{ID: s.White.ID, Color: Black},
	}
}
