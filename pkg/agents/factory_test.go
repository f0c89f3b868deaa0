package agents

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeDean2367/welfare-diplomacy/pkg/policy"
)

func TestNewAgentBaselines(t *testing.T) {
	a, err := NewAgent("random", Config{Rand: rand.New(rand.NewSource(1))})
	require.NoError(t, err)
	assert.IsType(t, &RandomAgent{}, a)

	a, err = NewAgent("retreats", Config{})
	require.NoError(t, err)
	assert.IsType(t, &ManualAgent{}, a)

	a, err = NewAgent("policy", Config{Translator: policy.VocabTranslator{1: "A PAR H"}})
	require.NoError(t, err)
	assert.IsType(t, &ScriptedPolicyAgent{}, a)
}

func TestNewAgentIsCaseInsensitive(t *testing.T) {
	a, err := NewAgent("RANDOM", Config{Rand: rand.New(rand.NewSource(1))})
	require.NoError(t, err)
	assert.IsType(t, &RandomAgent{}, a)
}

func TestNewAgentUnknownModelFails(t *testing.T) {
	_, err := NewAgent("clairvoyant-9000", Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown model name")
}

func TestNewAgentManualRequiresScript(t *testing.T) {
	_, err := NewAgent("manual", Config{})
	assert.Error(t, err)
}

func TestNewAgentPolicyRequiresVocabulary(t *testing.T) {
	_, err := NewAgent("policy", Config{})
	assert.Error(t, err)
}

func TestNewAgentOpenAIRequiresKey(t *testing.T) {
	_, err := NewAgent("gpt-4-0613", Config{})
	assert.Error(t, err)
}

func TestForceRetreatScriptIsValid(t *testing.T) {
	assert.NoError(t, ForceRetreatScript.Validate())
}
