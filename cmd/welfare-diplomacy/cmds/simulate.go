package cmds

import (
	"context"
	"math/rand"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MikeDean2367/welfare-diplomacy/pkg/agents"
	"github.com/MikeDean2367/welfare-diplomacy/pkg/diplomacy"
	"github.com/MikeDean2367/welfare-diplomacy/pkg/diplomacy/scripted"
	"github.com/MikeDean2367/welfare-diplomacy/pkg/events"
	"github.com/MikeDean2367/welfare-diplomacy/pkg/export"
	"github.com/MikeDean2367/welfare-diplomacy/pkg/orchestrator"
)

type simulateSettings struct {
	mapName          string
	seed             int64
	maxYears         int
	maxMessageRounds int
	model            string
	scriptPath       string
	outputFolder     string
	noSave           bool
	noPress          bool
	dropIllegal      bool
	parallel         bool
	temperature      float64
	topP             float64
}

// NewSimulateCommand builds the simulate subcommand: one full game with the
// given model driving every power.
//
// The scripted in-memory engine stands in for a live rules engine; an
// adapter for an external engine plugs in behind the diplomacy.Game
// interface.
func NewSimulateCommand() *cobra.Command {
	s := &simulateSettings{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate a game of welfare Diplomacy with the given parameters",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd, s)
		},
	}

	cmd.Flags().StringVar(&s.mapName, "map", "standard_welfare", "Map name")
	cmd.Flags().Int64Var(&s.seed, "seed", 0, "Random seed")
	cmd.Flags().IntVar(&s.maxYears, "max-years", 10, "Game years to play after 1900")
	cmd.Flags().IntVar(&s.maxMessageRounds, "max-message-rounds", 1, "Negotiation rounds per phase")
	cmd.Flags().StringVar(&s.model, "model", "random", "Model name driving every power (random, retreats, manual, policy, gpt-4-..., ollama:...)")
	cmd.Flags().StringVar(&s.scriptPath, "manual-script", "", "Order script file for the manual agent")
	cmd.Flags().StringVar(&s.outputFolder, "output-folder", "games", "Folder for saved games")
	cmd.Flags().BoolVar(&s.noSave, "no-save", false, "Skip exporting the saved game")
	cmd.Flags().BoolVar(&s.noPress, "no-press", false, "Disable messaging")
	cmd.Flags().BoolVar(&s.dropIllegal, "drop-illegal-orders", false, "Filter illegal orders before submission")
	cmd.Flags().BoolVar(&s.parallel, "parallel", false, "Gather agent responses concurrently within a phase")
	cmd.Flags().Float64Var(&s.temperature, "temperature", 0.7, "Sampling temperature for API agents")
	cmd.Flags().Float64Var(&s.topP, "top-p", 1.0, "Nucleus sampling for API agents")

	return cmd
}

func runSimulate(cmd *cobra.Command, s *simulateSettings) error {
	runID := uuid.NewString()
	rules := diplomacy.Rules{
		Welfare: s.mapName == "standard_welfare",
		NoPress: s.noPress,
	}

	game := scripted.NewGame(scripted.WithMapName(s.mapName))

	log.Info().
		Str("run_id", runID).
		Str("map", s.mapName).
		Str("model", s.model).
		Int("max_years", s.maxYears).
		Int("max_message_rounds", s.maxMessageRounds).
		Msg("starting simulation")

	agentsByPower := map[string]agents.Agent{}
	for i, power := range game.Powers() {
		agent, err := agents.NewAgent(s.model, agents.Config{
			Rand:         rand.New(rand.NewSource(s.seed + int64(i))),
			ScriptPath:   s.scriptPath,
			OpenAIAPIKey: viper.GetString("openai-api-key"),
			Temperature:  s.temperature,
			TopP:         s.topP,
		})
		if err != nil {
			return err
		}
		agentsByPower[power] = agent
	}

	bus := events.NewBus("telemetry", log.Logger)
	defer func() { _ = bus.Close() }()
	go consumeTelemetry(cmd.Context(), bus)

	options := []orchestrator.Option{orchestrator.WithSink(bus.Sink())}
	if !s.noSave {
		options = append(options, orchestrator.WithPersister(
			export.NewFilePersister(s.outputFolder, runID)))
	}

	o, err := orchestrator.New(game, agentsByPower, orchestrator.Config{
		RunID:             runID,
		FinalYear:         1900 + s.maxYears,
		MaxMessageRounds:  s.maxMessageRounds,
		Rules:             rules,
		DropIllegalOrders: s.dropIllegal,
		Parallel:          s.parallel,
	}, options...)
	if err != nil {
		return err
	}

	return o.Run(cmd.Context())
}

// consumeTelemetry drains the bus so publishing never blocks, echoing
// events at debug level.
func consumeTelemetry(ctx context.Context, bus *events.Bus) {
	messages, err := bus.Subscriber().Subscribe(ctx, bus.Topic())
	if err != nil {
		log.Warn().Err(err).Msg("telemetry subscription failed")
		return
	}
	for msg := range messages {
		log.Debug().
			Str("event_type", msg.Metadata.Get("event_type")).
			RawJSON("event", msg.Payload).
			Msg("telemetry")
		msg.Ack()
	}
}
