// Command eu4save is a thin CLI over the eu4save library: a path argument
// plus one of the subcommands named in §6 (fmt/melt are fully wired; csv,
// debug, deducer, and json are minimal stubs that exercise the same
// pipeline). It exists to drive the library end to end, not as a product
// surface in its own right.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/paradoxgg/eu4save"
	"github.com/paradoxgg/eu4save/format"
	"github.com/paradoxgg/eu4save/query"
	"github.com/paradoxgg/eu4save/resolver"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := run(os.Args[1:]); err != nil {
		log.Error().Err(err).Msg("eu4save failed")
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: eu4save <csv|debug|deducer|fmt|json|melt> <path>")
	}

	cmd, path := args[0], args[1]

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	opts := []eu4save.Option{eu4save.WithPolicy(format.PolicyDefault)}
	if tokenPath := os.Getenv("EU4SAVE_TOKENS"); tokenPath != "" {
		f, err := os.Open(tokenPath)
		if err != nil {
			return fmt.Errorf("open token file %s: %w", tokenPath, err)
		}
		defer f.Close()

		r, err := resolver.Load(f)
		if err != nil {
			return fmt.Errorf("load token file %s: %w", tokenPath, err)
		}
		opts = append(opts, eu4save.WithResolver(r), eu4save.WithPolicy(format.PolicyError))
	}

	save, err := eu4save.Open(data, opts...)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	log.Debug().Str("encoding", save.Encoding.String()).Str("path", path).Msg("opened save")

	switch cmd {
	case "melt", "fmt":
		return runMelt(save)
	case "json":
		return runJSON(save)
	case "debug":
		return runDebug(save)
	case "csv":
		return runCSV(save)
	case "deducer":
		return runDeducer(save)
	default:
		return fmt.Errorf("unrecognized subcommand %q", cmd)
	}
}

func runMelt(save *eu4save.Save) error {
	out, err := save.Melt("")
	if err != nil {
		out, err = save.Melt("gamestate")
	}
	if err != nil {
		return err
	}

	_, err = os.Stdout.Write(out)

	return err
}

func runJSON(save *eu4save.Save) error {
	meta, err := save.Meta()
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(meta)
}

func runDebug(save *eu4save.Save) error {
	gs, err := save.GameState()
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "countries=%d provinces=%d trade_nodes=%d\n",
		len(gs.Countries), len(gs.Provinces), len(gs.TradeNodes))

	return nil
}

func runCSV(save *eu4save.Save) error {
	gs, err := save.GameState()
	if err != nil {
		return err
	}

	owners := query.ComputeProvinceOwners(gs)

	w := os.Stdout
	fmt.Fprintln(w, "province,tag,date")
	for _, ch := range owners.Changes {
		fmt.Fprintf(w, "%d,%s,%s\n", ch.Province, ch.Tag.String(), ch.Date.String())
	}

	return nil
}

func runDeducer(save *eu4save.Save) error {
	meta, err := save.Meta()
	if err != nil {
		return err
	}
	gs, err := save.GameState()
	if err != nil {
		return err
	}

	owners := query.ComputeProvinceOwners(gs)
	events := query.ComputeNationEvents(gs, owners, gs.StartDate)

	players := query.ComputePlayerHistories(gs, events, meta)
	for _, ph := range players {
		fmt.Fprintf(os.Stdout, "%s: players=%v initial=%s\n", ph.Tag.String(), ph.Players, ph.Initial.String())
	}

	return nil
}
