package droptoken

// ConnectLength is the number of consecutive tokens that wins the game.
const ConnectLength = 4

// minTokensToWin is the fewest tokens on a board that can contain a winning line.
const minTokensToWin = 2*ConnectLength - 1

// horizontal, vertical and both diagonals; the opposite direction is walked by negation.
var directions = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}

// Wins reports whether the token placed at last completes a line of ConnectLength.
// Only lines through last are checked, which matches a full board scan as long as
// the board had no winning line before the placement.
func Wins(board Board, last Position, token Token) bool {
	if token == Empty || board.At(last.Row, last.Column) != token {
		return false
	}

	if board.Count() < minTokensToWin {
		return false
	}

	for _, d := range directions {
		count := 1 +
			board.countInDirection(last, d[0], d[1], token) +
			board.countInDirection(last, -d[0], -d[1], token)
		if count >= ConnectLength {
			return true
		}
	}

	return false
}

func (that Board) countInDirection(from Position, deltaRow, deltaColumn int, token Token) int {
	count := 0
	row, column := from.Row+deltaRow, from.Column+deltaColumn
	for that.At(row, column) == token {
		count++
		row += deltaRow
		column += deltaColumn
	}

	return count
}
