package engine

import "strings"

// PlayerID is a stable handle into a Game's player arena. Handles are never
// reused, so an eliminated player keeps its ID and can be reinstated.
type PlayerID int

// NoPlayer marks the absence of a player (e.g. an untargeted action).
const NoPlayer PlayerID = -1

// Role is the closed set of player roles. Dispatch is by tag.
type Role uint8

const (
	RoleCommoner   Role = iota // 0: base behaviour only
	RoleTaxBooster             // 1: tax +3, proactive tax block, tax cancel
	RoleInspector              // 2: proactive arrest block, free inspect
	RoleInvestor               // 3: invest, sanction compensation
	RoleDefender               // 4: block coup, arrest refund
	RoleArbiter                // 5: cancel bribe, sanction surcharge
	RoleSustainer              // 6: start-of-turn bonus, arrest penalty
	numRoles
)

var roleNames = [numRoles]string{
	RoleCommoner:   "Commoner",
	RoleTaxBooster: "TaxBooster",
	RoleInspector:  "Inspector",
	RoleInvestor:   "Investor",
	RoleDefender:   "Defender",
	RoleArbiter:    "Arbiter",
	RoleSustainer:  "Sustainer",
}

// String returns the display name of the role.
func (r Role) String() string {
	if r >= numRoles {
		return "Unknown"
	}
	return roleNames[r]
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool { return r < numRoles }

// ParseRole resolves a role from its name, case-insensitively. Dashes,
// underscores and spaces are ignored, so "tax-booster" and "TaxBooster" match.
func ParseRole(s string) (Role, bool) {
	key := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(s))
	for r := Role(0); r < numRoles; r++ {
		if strings.ToLower(roleNames[r]) == key {
			return r, true
		}
	}
	return RoleCommoner, false
}

// Roles returns all roles that carry special behaviour (excludes Commoner).
func Roles() []Role {
	return []Role{RoleTaxBooster, RoleInspector, RoleInvestor, RoleDefender, RoleArbiter, RoleSustainer}
}

// ActionKind identifies an action that can be registered in the log.
type ActionKind uint8

const (
	ActionGather      ActionKind = iota // 0
	ActionTax                           // 1
	ActionBribe                         // 2
	ActionArrest                        // 3
	ActionSanction                      // 4
	ActionCoup                          // 5
	ActionInvest                        // 6: Investor
	ActionBlockTax                      // 7: TaxBooster, proactive
	ActionBlockArrest                   // 8: Inspector, proactive
	ActionInspect                       // 9: Inspector, free
	ActionBlockCoup                     // 10: Defender, reactive
	ActionCancelBribe                   // 11: Arbiter, reactive
	ActionCancelTax                     // 12: TaxBooster, reactive
	ActionBonus                         // 13: Sustainer start-of-turn income

	NumActionKinds
)

var actionNames = [NumActionKinds]string{
	ActionGather:      "Gather",
	ActionTax:         "Tax",
	ActionBribe:       "Bribe",
	ActionArrest:      "Arrest",
	ActionSanction:    "Sanction",
	ActionCoup:        "Coup",
	ActionInvest:      "Invest",
	ActionBlockTax:    "BlockedTax",
	ActionBlockArrest: "BlockedArrest",
	ActionInspect:     "Inspect",
	ActionBlockCoup:   "BlockCoup",
	ActionCancelBribe: "BlockBribe",
	ActionCancelTax:   "CancelTax",
	ActionBonus:       "Bonus",
}

// String returns the label used in the formatted action log.
func (k ActionKind) String() string {
	if k >= NumActionKinds {
		return ""
	}
	return actionNames[k]
}

// ParseActionKind resolves an action kind from a snake_case or CamelCase name
// ("block_coup", "BlockCoup"). Log labels such as "BlockBribe" are not
// accepted; use the operation name ("cancel_bribe").
func ParseActionKind(s string) (ActionKind, bool) {
	key := strings.ReplaceAll(strings.ToLower(s), "_", "")
	for k, name := range actionKeys {
		if name == key {
			return ActionKind(k), true
		}
	}
	return 0, false
}

var actionKeys = [NumActionKinds]string{
	ActionGather:      "gather",
	ActionTax:         "tax",
	ActionBribe:       "bribe",
	ActionArrest:      "arrest",
	ActionSanction:    "sanction",
	ActionCoup:        "coup",
	ActionInvest:      "invest",
	ActionBlockTax:    "blocktax",
	ActionBlockArrest: "blockarrest",
	ActionInspect:     "inspect",
	ActionBlockCoup:   "blockcoup",
	ActionCancelBribe: "cancelbribe",
	ActionCancelTax:   "canceltax",
	ActionBonus:       "bonus",
}

// Targeted reports whether the action kind requires a target player.
func (k ActionKind) Targeted() bool {
	switch k {
	case ActionArrest, ActionSanction, ActionCoup, ActionBlockTax, ActionBlockArrest,
		ActionInspect, ActionBlockCoup, ActionCancelBribe, ActionCancelTax:
		return true
	}
	return false
}

// Reactive reports whether the action is an out-of-turn veto.
func (k ActionKind) Reactive() bool {
	return k == ActionBlockCoup || k == ActionCancelBribe || k == ActionCancelTax
}

// Action is a caller-issued request dispatched by Game.Apply.
type Action struct {
	Kind   ActionKind
	Actor  PlayerID
	Target PlayerID // NoPlayer for untargeted kinds
}

// ActionRecord is one entry of the undo log.
type ActionRecord struct {
	Actor  PlayerID
	Kind   ActionKind
	Target PlayerID
	Turn   int // monotonic turn number at registration
	Amount int // coins gained or spent by the action, where relevant
}

// ActionSet is a bitmask of action kinds.
type ActionSet uint32

// Has reports whether k is in the set.
func (s ActionSet) Has(k ActionKind) bool { return s&(1<<k) != 0 }

func (s *ActionSet) add(k ActionKind) { *s |= 1 << k }

// List returns the kinds in the set in ascending order.
func (s ActionSet) List() []ActionKind {
	var out []ActionKind
	for k := ActionKind(0); k < NumActionKinds; k++ {
		if s.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

// Block is a bitfield of one-shot restrictions held by the Game.
type Block uint8

const (
	BlockArrest   Block = 1 << 0
	BlockSanction Block = 1 << 1
	BlockTax      Block = 1 << 2
	BlockBribe    Block = 1 << 3
)
