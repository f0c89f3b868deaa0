package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MikeDean2367/welfare-diplomacy/pkg/diplomacy"
)

func testParams() Params {
	return Params{
		Power:            "GERMANY",
		Phase:            "S1901M",
		LegalOrders:      map[string][]string{"MUN": {"A MUN H", "A MUN TYR"}},
		MessageRound:     1,
		MaxMessageRounds: 3,
		FinalYear:        1910,
		Rules:            diplomacy.Rules{Welfare: true},
	}
}

func TestSystemPromptMentionsPowerAndRules(t *testing.T) {
	p := testParams()
	prompt := SystemPrompt(p)
	assert.Contains(t, prompt, "GERMANY")
	assert.Contains(t, prompt, "welfare")
	assert.Contains(t, prompt, "1910")
	assert.Contains(t, prompt, `"reasoning"`)

	p.Rules.NoPress = true
	assert.Contains(t, SystemPrompt(p), "Messaging is disabled")
}

func TestSystemPromptNoReasoningAblation(t *testing.T) {
	p := testParams()
	p.Rules.Ablations = map[string]bool{AblationNoReasoning: true}
	prompt := SystemPrompt(p)
	assert.NotContains(t, prompt, `"reasoning"`)
	assert.Contains(t, prompt, `"orders"`)
}

func TestUserPromptListsLegalOrders(t *testing.T) {
	p := testParams()
	prompt := UserPrompt(p)
	assert.Contains(t, prompt, "S1901M")
	assert.Contains(t, prompt, "A MUN H, A MUN TYR")

	p.Rules.Ablations = map[string]bool{AblationNoOrderHints: true}
	assert.NotContains(t, UserPrompt(p), "A MUN H")
}
