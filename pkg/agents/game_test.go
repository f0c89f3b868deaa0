package agents

import (
	"github.com/MikeDean2367/welfare-diplomacy/pkg/diplomacy"
)

// fakeGame is a minimal diplomacy.Game for agent tests: a fixed phase
// label, a fixed legal-order table, and no resolution.
type fakeGame struct {
	phase     string
	powers    []string
	legal     map[string][]string
	orderable map[string][]string

	orders   map[string][]string
	messages []diplomacy.Message
	done     bool
}

func newFakeGame(phase string) *fakeGame {
	return &fakeGame{
		phase:     phase,
		powers:    []string{"AUSTRIA", "FRANCE", "GERMANY"},
		legal:     map[string][]string{},
		orderable: map[string][]string{},
		orders:    map[string][]string{},
	}
}

func (g *fakeGame) Powers() []string             { return g.powers }
func (g *fakeGame) CurrentPhase() string         { return g.phase }
func (g *fakeGame) LegalOrders() map[string][]string { return g.legal }

func (g *fakeGame) OrderableLocations(power string) []string {
	return g.orderable[power]
}

func (g *fakeGame) ValidOrder(power string, order string) bool {
	for _, loc := range g.orderable[power] {
		for _, legal := range g.legal[loc] {
			if legal == order {
				return true
			}
		}
	}
	return false
}

func (g *fakeGame) SetOrders(power string, orders []string) error {
	g.orders[power] = orders
	return nil
}

func (g *fakeGame) AddMessage(msg diplomacy.Message) error {
	g.messages = append(g.messages, msg)
	return nil
}

func (g *fakeGame) ProcessPhase() error { return nil }
func (g *fakeGame) IsDone() bool        { return g.done }
func (g *fakeGame) ForceFinish() error  { g.done = true; return nil }

func (g *fakeGame) Standings() []diplomacy.PowerStanding { return nil }
func (g *fakeGame) Render() string                       { return g.phase }
func (g *fakeGame) History() *diplomacy.GameHistory      { return &diplomacy.GameHistory{} }

var _ diplomacy.Game = (*fakeGame)(nil)
