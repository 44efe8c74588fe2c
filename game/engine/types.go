package engine

// Phase represents where a game is in its lifecycle
type Phase string

const (
	Playing Phase = "playing"
	Won     Phase = "won"
	Lost    Phase = "lost"

	// MineValue marks a cell holding a mine
	MineValue = -1

	// Validation constants
	MinDimension = 1

	// Layout characters for fixed boards
	LayoutMine  = '*'
	LayoutEmpty = '.'
)

// Cell represents a single grid cell
type Cell struct {
	Value    int  `json:"value"` // -1 for a mine, otherwise adjacent mine count
	Revealed bool `json:"revealed"`
	Flagged  bool `json:"flagged"`
}

// IsMine reports whether the cell holds a mine
func (c Cell) IsMine() bool {
	return c.Value == MineValue
}

// Grid is a rows x cols board of cells
type Grid [][]Cell

// Rows returns the number of rows
func (g Grid) Rows() int {
	return len(g)
}

// Cols returns the number of columns
func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Clone returns an independent deep copy of the grid
func (g Grid) Clone() Grid {
	if g == nil {
		return nil
	}
	out := make(Grid, len(g))
	for i, row := range g {
		out[i] = make([]Cell, len(row))
		copy(out[i], row)
	}
	return out
}

// Position represents row,col coordinates
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// GameConfig describes a board to generate
type GameConfig struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Rows        int    `json:"rows"`
	Cols        int    `json:"cols"`
	Mines       int    `json:"mines"`

	// Layout pins mine positions, one string per row using '*' and '.'.
	// When empty, mines are placed at random.
	Layout []string `json:"layout,omitempty"`

	// Seed makes random placement reproducible; zero picks a random seed.
	Seed uint64 `json:"seed,omitempty"`
}

// GameState represents the complete game state
type GameState struct {
	Grid      Grid   `json:"grid"`
	GameOver  bool   `json:"game_over"`
	GameWon   bool   `json:"game_won"`
	MineCount int    `json:"mine_count"`
	FlagCount int    `json:"flag_count"`
	GameID    string `json:"game_id"`
	Rows      int    `json:"rows"`
	Cols      int    `json:"cols"`
}

// Clone returns an independent deep copy of the state
func (gs *GameState) Clone() *GameState {
	if gs == nil {
		return nil
	}
	out := *gs
	out.Grid = gs.Grid.Clone()
	return &out
}

// Phase derives the lifecycle phase from the terminal flags
func (gs *GameState) Phase() Phase {
	switch {
	case gs.GameWon:
		return Won
	case gs.GameOver:
		return Lost
	default:
		return Playing
	}
}

// RemainingMines is the mine counter shown to players: mines minus flags
func (gs *GameState) RemainingMines() int {
	return gs.MineCount - gs.FlagCount
}
