package bot

import "github.com/greenfelt/cardroom/internal/game"

// Folder never puts a chip in voluntarily: it takes free cards and folds
// to any bet. Blinds off a stack at the table minimum rate.
type Folder struct{}

func (Folder) Decide(_ *game.TableView, legal game.LegalActions) game.PlayerAction {
	return checkOrFold(legal)
}
