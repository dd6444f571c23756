package model

// Perft counts the leaves of the legal move tree of the given depth, with player
// moving first and the sides alternating.
func Perft(b *Board, player Player, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	var nodes uint64
	for m := range legalMoveSeq(b, player) {
		if depth == 1 {
			nodes++
			continue
		}
		nodes += Perft(ApplyMove(b, m), player.Opponent(), depth-1)
	}
	return nodes
}

type PerftEntry struct {
	Move  Move
	Nodes uint64
}

// PerftDivide splits Perft by root move, in generation order.
func PerftDivide(b *Board, player Player, depth int) []PerftEntry {
	if depth <= 0 {
		return nil
	}
	var entries []PerftEntry
	for m := range legalMoveSeq(b, player) {
		entries = append(entries, PerftEntry{
			Move:  m,
			Nodes: Perft(ApplyMove(b, m), player.Opponent(), depth-1),
		})
	}
	return entries
}
