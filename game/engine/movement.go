package engine

import "fmt"

// step resolves a single move: blocked check, commit, tile effect,
// delivery and termination, in that order
func (e *GameEngine) step(dir Direction) Outcome {
	s := e.state
	s.Notice = ""

	target := s.Actor.Add(dir)
	if !e.walkable(target) {
		s.Notice = e.messages.Blocked
		e.log(e.messages.BlockedLog)
		return OutcomeBlocked
	}

	s.Actor = target
	s.MovesUsed++
	s.MovesRemaining = max(s.MovesRemaining-1, 0)

	switch s.Grid[target.Row][target.Col] {
	case Collectible:
		e.collect(target, e.messages.Pickup)
	case Boost:
		e.boost(target, e.messages.Boost)
	case Slide:
		e.slide(dir)
	}

	e.deliver()
	e.checkTermination()
	return OutcomeMoved
}

// slide carries the actor one extra cell in the same direction
func (e *GameEngine) slide(dir Direction) {
	s := e.state
	next := s.Actor.Add(dir)
	if !e.walkable(next) || s.MovesRemaining <= 0 {
		return
	}

	s.MovesRemaining--
	s.MovesUsed++
	s.Actor = next
	e.log(e.messages.Slide)

	switch s.Grid[next.Row][next.Col] {
	case Collectible:
		e.collect(next, e.messages.SlidePickup)
	case Boost:
		e.boost(next, e.messages.SlideBoost)
	}
}

func (e *GameEngine) collect(p Position, message string) {
	s := e.state
	s.Grid[p.Row][p.Col] = Empty
	s.Bag++
	s.Score += CollectibleScore
	e.log(message)
}

func (e *GameEngine) boost(p Position, message string) {
	s := e.state
	s.Grid[p.Row][p.Col] = Empty
	s.MovesRemaining = min(s.MovesRemaining+BoostMoves, e.config.MaxMoves)
	s.Score += BoostScore
	s.Notice = e.messages.BoostNotice
	e.log(message)
}

func (e *GameEngine) deliver() {
	s := e.state
	if !e.dropPoints[s.Actor] || s.Bag == 0 {
		return
	}
	n := s.Bag
	s.Delivered += n
	s.Score += n * DeliveryScorePerItem
	s.Bag = 0
	s.Notice = e.messages.DeliveredOK
	e.log(fmt.Sprintf(e.messages.Delivered, n))
}

// checkTermination evaluates win before lose
func (e *GameEngine) checkTermination() {
	s := e.state
	switch {
	case s.Delivered >= e.totalCollectibles:
		s.Over = true
		s.Won = true
		s.Status = e.messages.Victory
		s.Notice = e.messages.VictoryOK
		e.log(s.Status)
	case s.MovesRemaining <= 0:
		s.Over = true
		s.Status = e.messages.TimeUp
		s.Notice = e.messages.TimeUpOK
		e.log(s.Status)
	}
}

func (e *GameEngine) walkable(p Position) bool {
	return walkableIn(e.state.Grid, p)
}

func (e *GameEngine) log(message string) {
	e.state.Log.Push(LogEntry{Timestamp: e.clock(), Message: message})
}
