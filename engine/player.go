package engine

import "fmt"

// Player is a record in the game's arena. Its state is mutated only by Game
// methods; consumers read it through the accessors.
type Player struct {
	id    PlayerID
	name  string
	role  Role
	coins int

	extraAction      bool     // bribe granted another action this turn
	lastArrestTarget PlayerID // anti-repeat for arrest
}

func (p *Player) ID() PlayerID { return p.id }
func (p *Player) Name() string { return p.name }
func (p *Player) Role() Role   { return p.role }
func (p *Player) Coins() int   { return p.coins }

// ExtraActionPending reports whether a bribe left the player another action
// before the turn advances.
func (p *Player) ExtraActionPending() bool { return p.extraAction }

// LastArrestTarget returns the player most recently arrested by p, or NoPlayer.
func (p *Player) LastArrestTarget() PlayerID { return p.lastArrestTarget }

// ---------------------------------------------------------------------------
// Economy primitives. The bank mirrors the inverse of every transfer.
// ---------------------------------------------------------------------------

// spend removes amount coins from p and pays them into the bank.
func (g *Game) spend(p *Player, amount int) error {
	if amount < 0 {
		return fmt.Errorf("%w: negative amount %d", ErrInsufficientFunds, amount)
	}
	if p.coins < amount {
		return fmt.Errorf("%w: %s has %d coins, needs %d", ErrInsufficientFunds, p.name, p.coins, amount)
	}
	p.coins -= amount
	g.bank += amount
	return nil
}

// gain pays amount coins from the bank to p. Bank supply never blocks it.
func (g *Game) gain(p *Player, amount int) {
	p.coins += amount
	g.bank -= amount
}

// forfeit takes up to amount coins from p into the bank and returns what was
// actually taken.
func (g *Game) forfeit(p *Player, amount int) int {
	if amount > p.coins {
		amount = p.coins
	}
	if amount <= 0 {
		return 0
	}
	p.coins -= amount
	g.bank += amount
	return amount
}

// requireFunds checks that p could spend amount without mutating anything.
func requireFunds(p *Player, amount int) error {
	if p.coins < amount {
		return fmt.Errorf("%w: %s has %d coins, needs %d", ErrInsufficientFunds, p.name, p.coins, amount)
	}
	return nil
}
