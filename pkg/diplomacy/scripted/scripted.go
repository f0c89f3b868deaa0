// Package scripted provides a deterministic stand-in for the external rules
// engine. It replays a fixed board: movement phases keep every unit in place,
// adjustment phases apply disbands and award welfare points. It performs no
// adjacency or conflict resolution; legality is membership in a static
// per-location order table. It exists so the orchestrator and agents can be
// exercised end-to-end without a live engine process.
package scripted

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/MikeDean2367/welfare-diplomacy/pkg/diplomacy"
)

var standardUnits = map[string][]string{
	"AUSTRIA": {"VIE", "BUD"},
	"ENGLAND": {"LON", "EDI"},
	"FRANCE":  {"PAR", "MAR"},
	"GERMANY": {"MUN", "BER"},
	"ITALY":   {"VEN", "ROM"},
	"RUSSIA":  {"MOS", "WAR"},
	"TURKEY":  {"CON", "ANK"},
}

var standardMoves = map[string][]string{
	"VIE": {"TYR", "GAL"},
	"BUD": {"SER", "RUM"},
	"LON": {"NTH", "ENG"},
	"EDI": {"NWG", "YOR"},
	"PAR": {"BUR", "PIC"},
	"MAR": {"SPA", "PIE"},
	"MUN": {"TYR", "BOH"},
	"BER": {"KIE", "SIL"},
	"VEN": {"TYR", "APU"},
	"ROM": {"NAP", "TUS"},
	"MOS": {"UKR", "STP"},
	"WAR": {"GAL", "SIL"},
	"CON": {"BUL", "SMY"},
	"ANK": {"ARM", "BLA"},
}

// Game is an in-memory diplomacy.Game fixture.
type Game struct {
	mapName  string
	powers   []string
	units    map[string][]string // power -> unit locations
	moves    map[string][]string // location -> movement targets
	welfare  map[string]int
	centers  map[string]int
	year     int
	season   int // 0 spring movement, 1 fall movement, 2 winter adjustments
	done     bool
	history  *diplomacy.GameHistory
	pending  map[string][]string
	messages []diplomacy.Message
}

type Option func(*Game)

// WithUnits overrides the starting board (power -> unit locations).
func WithUnits(units map[string][]string) Option {
	return func(g *Game) {
		g.units = map[string][]string{}
		g.powers = g.powers[:0]
		for power, locs := range units {
			g.units[power] = append([]string(nil), locs...)
			g.powers = append(g.powers, power)
		}
		sort.Strings(g.powers)
	}
}

// WithMoves overrides the location -> movement target table.
func WithMoves(moves map[string][]string) Option {
	return func(g *Game) {
		g.moves = moves
	}
}

// WithMapName sets the map name recorded in the exported history.
func WithMapName(name string) Option {
	return func(g *Game) {
		g.mapName = name
	}
}

// NewGame builds a scripted game on the standard seven-power board, starting
// in spring 1901.
func NewGame(options ...Option) *Game {
	g := &Game{
		mapName: "standard_welfare",
		units:   map[string][]string{},
		moves:   standardMoves,
		welfare: map[string]int{},
		centers: map[string]int{},
		year:    1901,
		pending: map[string][]string{},
	}
	for power, locs := range standardUnits {
		g.units[power] = append([]string(nil), locs...)
		g.powers = append(g.powers, power)
	}
	sort.Strings(g.powers)

	for _, o := range options {
		o(g)
	}

	for _, power := range g.powers {
		g.centers[power] = len(g.units[power])
	}
	g.history = &diplomacy.GameHistory{Map: g.mapName}
	return g
}

func (g *Game) Powers() []string {
	return append([]string(nil), g.powers...)
}

func (g *Game) CurrentPhase() string {
	if g.done {
		return "COMPLETED"
	}
	switch g.season {
	case 0:
		return fmt.Sprintf("S%04dM", g.year)
	case 1:
		return fmt.Sprintf("F%04dM", g.year)
	default:
		return fmt.Sprintf("W%04dA", g.year)
	}
}

func (g *Game) adjustments() bool {
	return g.season == 2
}

func (g *Game) LegalOrders() map[string][]string {
	ret := map[string][]string{}
	for _, locs := range g.units {
		for _, loc := range locs {
			ret[loc] = g.legalForLocation(loc)
		}
	}
	return ret
}

func (g *Game) legalForLocation(loc string) []string {
	if g.adjustments() {
		return []string{"A " + loc + " D"}
	}
	orders := []string{"A " + loc + " H"}
	for _, target := range g.moves[loc] {
		orders = append(orders, "A "+loc+" "+target)
	}
	return orders
}

func (g *Game) OrderableLocations(power string) []string {
	return append([]string(nil), g.units[power]...)
}

func (g *Game) ValidOrder(power string, order string) bool {
	if g.adjustments() && order == diplomacy.OrderWaive {
		return true
	}
	fields := strings.Fields(order)
	if len(fields) < 2 {
		return false
	}
	loc := fields[1]
	found := false
	for _, l := range g.units[power] {
		if l == loc {
			found = true
		}
	}
	if !found {
		return false
	}
	for _, legal := range g.legalForLocation(loc) {
		if legal == order {
			return true
		}
	}
	return false
}

func (g *Game) SetOrders(power string, orders []string) error {
	if _, ok := g.units[power]; !ok {
		return errors.Errorf("unknown power %q", power)
	}
	g.pending[power] = append([]string(nil), orders...)
	return nil
}

func (g *Game) AddMessage(msg diplomacy.Message) error {
	if msg.Recipient != diplomacy.Broadcast {
		if _, ok := g.units[msg.Recipient]; !ok {
			return errors.Errorf("unknown recipient %q", msg.Recipient)
		}
	}
	g.messages = append(g.messages, msg)
	return nil
}

func (g *Game) ProcessPhase() error {
	if g.done {
		return errors.New("game is already finished")
	}

	if g.adjustments() {
		g.applyDisbands()
	}

	record := diplomacy.PhaseRecord{
		Name:      g.CurrentPhase(),
		Orders:    map[string][]string{},
		Messages:  g.messages,
		Standings: g.Standings(),
	}
	for power, orders := range g.pending {
		record.Orders[power] = orders
	}
	g.history.Phases = append(g.history.Phases, record)

	g.pending = map[string][]string{}
	g.messages = nil

	g.season++
	if g.season > 2 {
		g.season = 0
		g.year++
	}
	return nil
}

// applyDisbands removes units with a submitted disband order and awards one
// welfare point per disband.
func (g *Game) applyDisbands() {
	for power, orders := range g.pending {
		for _, order := range orders {
			fields := strings.Fields(order)
			if len(fields) != 3 || fields[2] != "D" {
				continue
			}
			loc := fields[1]
			kept := g.units[power][:0]
			for _, l := range g.units[power] {
				if l != loc {
					kept = append(kept, l)
				} else {
					g.welfare[power]++
				}
			}
			g.units[power] = kept
		}
	}
}

func (g *Game) IsDone() bool {
	return g.done
}

func (g *Game) ForceFinish() error {
	g.done = true
	return nil
}

func (g *Game) Standings() []diplomacy.PowerStanding {
	ret := make([]diplomacy.PowerStanding, 0, len(g.powers))
	for _, power := range g.powers {
		abbrev := power
		if len(abbrev) > 3 {
			abbrev = abbrev[:3]
		}
		ret = append(ret, diplomacy.PowerStanding{
			Name:          power,
			Abbrev:        abbrev,
			Units:         len(g.units[power]),
			Centers:       g.centers[power],
			WelfarePoints: g.welfare[power],
		})
	}
	return ret
}

func (g *Game) Render() string {
	var sb strings.Builder
	sb.WriteString(g.CurrentPhase())
	for _, power := range g.powers {
		sb.WriteString(fmt.Sprintf("\n%s: %s", power, strings.Join(g.units[power], " ")))
	}
	return sb.String()
}

func (g *Game) History() *diplomacy.GameHistory {
	return g.history
}

var _ diplomacy.Game = (*Game)(nil)
