package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/KirkDiggler/dnd-test-dialog/internal/config"
	"github.com/KirkDiggler/dnd-test-dialog/internal/domain/dialog"
	"github.com/KirkDiggler/dnd-test-dialog/internal/events"
	"github.com/KirkDiggler/dnd-test-dialog/internal/repositories/testresults"
	"github.com/KirkDiggler/dnd-test-dialog/internal/scripts/catalog"
	"github.com/KirkDiggler/dnd-test-dialog/internal/services/testdialog"
)

// resolve-test runs a test through its scripts without a dialog and prints
// the result, which is handy for checking a script catalog.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	catalogPath := flag.String("catalog", cfg.Dialog.ScriptsPath, "script catalog file")
	actorID := flag.String("actor", "", "acting actor id")
	subject := flag.String("subject", "", "what is being tested")
	difficulty := flag.String("difficulty", "", "starting difficulty")
	modifier := flag.Int("modifier", 0, "starting modifier")
	rollMode := flag.String("roll-mode", string(cfg.RollMode()), "roll mode")
	targets := flag.String("targets", "", "comma separated target actor ids")
	skipTargets := flag.Bool("skip-targets", false, "ignore targets")
	flag.Parse()

	scripts, err := catalog.Load(*catalogPath)
	if err != nil {
		log.Fatalf("Failed to load script catalog: %v", err)
	}

	selection := catalog.NewSelection()
	if *targets != "" {
		var selected []dialog.Target
		for _, id := range strings.Split(*targets, ",") {
			target, err := scripts.Target(strings.TrimSpace(id))
			if err != nil {
				log.Fatalf("Unknown target %q: %v", id, err)
			}
			selected = append(selected, target)
		}
		selection.Set(selected)
	}

	service := testdialog.NewService(&testdialog.ServiceConfig{
		ScriptSource: scripts,
		Targets:      selection,
		Actors:       scripts,
		Repository:   testresults.NewInMemoryRepository(),
		Bus:          events.NewBus(),
		RollMode:     cfg.RollMode(),
	})

	fields := dialog.Fields{dialog.FieldModifier: *modifier}
	if *difficulty != "" {
		fields[dialog.FieldDifficulty] = *difficulty
	}

	ctx := context.Background()
	req, err := service.Setup(ctx, &testdialog.SetupInput{
		ActorID: *actorID,
		Subject: *subject,
		Options: dialog.SetupOptions{
			Fields:      fields,
			SkipTargets: *skipTargets,
		},
	})
	if err != nil {
		log.Fatalf("Failed to set up test: %v", err)
	}

	result, err := service.Bypass(ctx, req, &testdialog.AwaitOptions{
		RollMode: dialog.RollMode(*rollMode),
	})
	if err != nil {
		log.Fatalf("Failed to resolve test: %v", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}
	fmt.Fprintln(os.Stdout, string(out))
}
