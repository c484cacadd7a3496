/*
Copyright (C) 2024  Carl-Philip Hänsch

    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package main

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/dc0d/onexit"

	"github.com/launix-de/memkv/aol"
	"github.com/launix-de/memkv/internal/logging"
	"github.com/launix-de/memkv/kv"
	"github.com/launix-de/memkv/store"
)

const newprompt = "\033[32m>\033[0m "
const resultprompt = "\033[31m=\033[0m "

func main() {
	dir := flag.String("dir", "./data", "log directory")
	files := flag.Int("files", 8, "number of append-only log files")
	buckets := flag.Int("buckets", 16, "number of in-memory shard buckets")
	debug := flag.Bool("debug", false, "enable debug logging")
	noRecover := flag.Bool("no-recover", false, "skip crash recovery on startup")
	flag.Parse()

	logger := logging.New(*debug)

	fmt.Print(`memkv Copyright (C) 2024   Carl-Philip Hänsch
    This program comes with ABSOLUTELY NO WARRANTY;
    This is free software, and you are welcome to redistribute it
    under certain conditions;
`)

	inner := store.NewShardedMap(store.Config{Buckets: *buckets})
	a, err := aol.Open(aol.Config{
		Dir:               *dir,
		Files:             *files,
		Recover:           !*noRecover,
		WatchUnknownFiles: true,
		Logger:            &logger,
	}, inner)
	if err != nil {
		fmt.Println("could not open log:", err)
		return
	}
	onexit.Register(func() {
		if err := a.Close(); err != nil {
			logger.Error().Err(err).Msg("error closing log on exit")
		}
	})
	defer onexit.Exit(0)

	repl(a)
}

// repl is a minimal put/get/remove/stats shell over an AOL.
func repl(a *aol.AOL) {
	l, err := readline.NewEx(&readline.Config{
		Prompt:            newprompt,
		HistoryFile:       ".memkv-history.tmp",
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		panic(err)
	}
	defer l.Close()
	l.CaptureExitSignal()

	for {
		line, err := l.Readline()
		if err == readline.ErrInterrupt {
			continue
		} else if err == io.EOF {
			break
		} else if err != nil {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		handleLine(a, line)
	}
}

func handleLine(a *aol.AOL, line string) {
	fields := strings.Fields(line)
	cmd := strings.ToLower(fields[0])

	switch cmd {
	case "put":
		if len(fields) < 3 {
			fmt.Println("usage: put <key> <kind> <payload>  (kind: null|int|text|link)")
			return
		}
		k, err := kv.KeyFromString(fields[1])
		if err != nil {
			fmt.Println("bad key:", err)
			return
		}
		obj, err := parsePutObject(fields[2], fields[3:])
		if err != nil {
			fmt.Println("bad payload:", err)
			return
		}
		prev, err := a.Put(k, obj)
		if err != nil {
			fmt.Println("put failed:", err)
			return
		}
		fmt.Println(resultprompt, "previous:", prev.String())

	case "get":
		if len(fields) != 2 {
			fmt.Println("usage: get <key>")
			return
		}
		k, err := kv.KeyFromString(fields[1])
		if err != nil {
			fmt.Println("bad key:", err)
			return
		}
		fmt.Println(resultprompt, a.Get(k).String())

	case "remove", "rm", "delete":
		if len(fields) != 2 {
			fmt.Println("usage: remove <key>")
			return
		}
		k, err := kv.KeyFromString(fields[1])
		if err != nil {
			fmt.Println("bad key:", err)
			return
		}
		prev, err := a.Remove(k)
		if err != nil {
			fmt.Println("remove failed:", err)
			return
		}
		fmt.Println(resultprompt, "removed:", prev.String())

	case "stats":
		stats, err := a.Stats()
		if err != nil {
			fmt.Println("stats failed:", err)
			return
		}
		fmt.Println(resultprompt, stats.String())

	case "exit", "quit":
		onexit.Exit(0)

	default:
		fmt.Println("unknown command:", cmd, "(expected put/get/remove/stats/exit)")
	}
}

// parsePutObject builds the kv.Object for a "put <key> <kind> <payload...>"
// command. List and Map are not reachable from this shell: composing their
// nested payloads in a single line of text isn't worth the parser it would
// take, and nothing about the store requires the CLI to cover every kind.
func parsePutObject(kind string, payload []string) (kv.Object, error) {
	switch strings.ToLower(kind) {
	case "null":
		return kv.Null, nil
	case "int":
		if len(payload) != 1 {
			return kv.Object{}, fmt.Errorf("usage: put <key> int <n>")
		}
		n, err := strconv.ParseInt(payload[0], 10, 64)
		if err != nil {
			return kv.Object{}, err
		}
		return kv.NewInt(n), nil
	case "text":
		if len(payload) < 1 {
			return kv.Object{}, fmt.Errorf("usage: put <key> text <words...>")
		}
		return kv.NewText(strings.Join(payload, " ")), nil
	case "link":
		if len(payload) != 1 {
			return kv.Object{}, fmt.Errorf("usage: put <key> link <target-key>")
		}
		return kv.NewLink(payload[0]), nil
	default:
		return kv.Object{}, fmt.Errorf("unknown kind %q (expected null|int|text|link)", kind)
	}
}
