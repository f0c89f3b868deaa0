package diplomacy

// Broadcast is the recipient identifier the engine uses for press sent to
// every power at once.
const Broadcast = "GLOBAL"

// OrderWaive is the adjustment-phase order that abstains from building or
// disbanding.
const OrderWaive = "WAIVE"

// Message is a single press message between two powers (or from one power to
// everyone via the Broadcast recipient).
type Message struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Content   string `json:"message"`
	Phase     string `json:"phase"`
}

// PowerStanding is a per-power score snapshot: supply centers, units and
// accumulated welfare points.
type PowerStanding struct {
	Name          string `json:"name"`
	Abbrev        string `json:"abbrev"`
	Units         int    `json:"units"`
	Centers       int    `json:"centers"`
	WelfarePoints int    `json:"welfare_points"`
}

// Rules captures the ruleset toggles that alter agent behavior and prompt
// content. Ablations are named prompt-content switches; the orchestrator
// passes them through without interpreting them.
type Rules struct {
	// Welfare enables the welfare-diplomacy variant, where disbanding units
	// in adjustment phases earns welfare points.
	Welfare bool
	// NoPress disables negotiation entirely. Validated responses always
	// carry an empty messages map when set.
	NoPress bool
	// Ablations lists the enabled prompt-content toggles.
	Ablations map[string]bool
}

// PhaseRecord is one processed phase in the exported game history.
type PhaseRecord struct {
	Name      string              `json:"name"`
	Orders    map[string][]string `json:"orders"`
	Messages  []Message           `json:"messages"`
	Standings []PowerStanding     `json:"standings,omitempty"`
}

// GameHistory is the full saved-game object handed to the persistence
// collaborator at termination.
type GameHistory struct {
	ID     string        `json:"id"`
	Map    string        `json:"map"`
	Phases []PhaseRecord `json:"phases"`
}

// Game is the rules-engine collaborator. Implementations own all legality
// and resolution logic; the orchestrator treats phase identifiers opaquely
// and is the sole writer of game state. Agents only ever read through it.
type Game interface {
	// Powers returns every power in a stable iteration order.
	Powers() []string

	// CurrentPhase returns the engine's phase label, e.g. "S1901M".
	CurrentPhase() string

	// LegalOrders returns the full location -> legal order strings mapping
	// for the current phase.
	LegalOrders() map[string][]string

	// OrderableLocations returns the locations the given power can order
	// this phase.
	OrderableLocations(power string) []string

	// ValidOrder reports whether the engine considers the order legal for
	// the power in the current phase.
	ValidOrder(power string, order string) bool

	// SetOrders submits a power's orders for the current phase, replacing
	// any previous submission.
	SetOrders(power string, orders []string) error

	// AddMessage records one press message for the current phase.
	AddMessage(msg Message) error

	// ProcessPhase resolves the submitted orders and advances to the next
	// phase.
	ProcessPhase() error

	// IsDone reports whether the game has ended.
	IsDone() bool

	// ForceFinish ends the game immediately, regardless of board state.
	ForceFinish() error

	// Standings returns the per-power score snapshot.
	Standings() []PowerStanding

	// Render returns a renderable board snapshot (SVG or text).
	Render() string

	// History returns the accumulated saved-game object.
	History() *GameHistory
}
