package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"starops-sim/internal/admin"
	"starops-sim/internal/logging"
	"starops-sim/internal/mission"
	"starops-sim/internal/sim"
)

var (
	simPrintOnly   bool
	simMissionPath string
	simSchemaPath  string
	simTick        time.Duration
	simDuration    time.Duration
	simLogFile     string
	simTUI         bool
	simSeed        int64
	simAdminAddr   string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a scripted battle mission",
	Long:  "simulate loads a mission document and runs the battle in real time, writing action and state logs.",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logging.New()

		def, err := mission.Load(simMissionPath, simSchemaPath)
		if err != nil {
			return err
		}

		battleID := os.Getenv("BATTLE_ID")
		if battleID == "" {
			battleID = uuid.New().String()
		}

		tickInterval := simTick
		if envTick := os.Getenv("TICK_INTERVAL"); envTick != "" {
			d, err := time.ParseDuration(envTick)
			if err != nil {
				return err
			}
			tickInterval = d
		}

		var tui *sim.TUIWriter
		var writers sim.Writers
		cleanup := func() {}
		if simTUI {
			tui = sim.NewTUIWriter(def)
			writers = sim.Writers{Actions: tui, Messages: tui, Hud: tui, State: tui}
			cleanup = func() { tui.Close() }
		} else {
			writers, cleanup, err = newWriters(def, simPrintOnly, simLogFile)
			if err != nil {
				return err
			}
		}
		defer cleanup()

		simulator := sim.NewSimulator(battleID, def, writers, tickInterval, simSeed)
		if tui != nil {
			tui.SetPauser(simulator.TogglePause)
			tui.SetCraftSource(simulator.CraftSnapshot)
		}

		baseCtx := logging.NewContext(context.Background(), log)
		var ctx context.Context
		var cancel context.CancelFunc
		if simDuration > 0 {
			ctx, cancel = context.WithTimeout(baseCtx, simDuration)
		} else {
			ctx, cancel = context.WithCancel(baseCtx)
		}
		defer cancel()

		srv := admin.NewServer(simulator)
		go func() {
			log.Info("admin UI listening", "addr", simAdminAddr)
			if err := srv.Start(simAdminAddr); err != nil {
				log.Error("admin server failed", "err", err)
			}
		}()

		go simulator.Run(ctx)

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sigs:
		case <-ctx.Done():
		}

		cancel()
		log.Info("battle stopped", "state", simulator.MissionState())
		return nil
	},
}

func init() {
	simulateCmd.Flags().BoolVar(&simPrintOnly, "print-only", false, "Print battle logs to STDOUT instead of writing to DB")
	simulateCmd.Flags().StringVar(&simMissionPath, "mission", "config/mission.yaml", "Path to mission YAML document")
	simulateCmd.Flags().StringVar(&simSchemaPath, "schema", "schemas/mission.cue", "Path to CUE schema file")
	simulateCmd.Flags().DurationVar(&simTick, "tick", 100*time.Millisecond, "Battle tick interval (e.g. 100ms, 1s)")
	simulateCmd.Flags().DurationVar(&simDuration, "duration", 0, "Stop the battle after this long (0 runs until interrupted)")
	simulateCmd.Flags().StringVar(&simLogFile, "log-file", "", "Path to export battle logs (JSONL)")
	simulateCmd.Flags().BoolVar(&simTUI, "tui", false, "Render the battle in a terminal UI")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 0, "Seed for squad placement randomness")
	simulateCmd.Flags().StringVar(&simAdminAddr, "admin-addr", ":8080", "Admin UI listen address")
}
