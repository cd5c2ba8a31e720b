package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/EinfachAndy/oha/pkg/tpht"
	"github.com/peterh/liner"
)

func run() error {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		return err
	}

	tbl, err := tpht.New(tpht.Config{
		KeySize:       cfg.KeySize,
		ValueSize:     cfg.ValueSize,
		MaxElems:      cfg.MaxElems,
		MaxLoadFactor: cfg.MaxLoadFactor,
		Resizable:     cfg.Resizable,
	})
	if err != nil {
		return fmt.Errorf("creating table: %w", err)
	}

	defer tbl.Close()

	r := &repl{cfg: cfg, tbl: tbl}

	return r.run()
}

type repl struct {
	cfg  config
	tbl  *tpht.Table
	line *liner.State
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".ohactl_history")
}

func (r *repl) run() error {
	r.line = liner.NewLiner()
	defer r.line.Close()

	r.line.SetCtrlCAborts(true)
	r.line.SetCompleter(r.completer)

	if f, err := os.Open(historyFile()); err == nil {
		r.line.ReadHistory(f)
		f.Close()
	}

	fmt.Printf("ohactl - tpht CLI (key_size=%d, value_size=%d, max_elems=%d)\n", r.cfg.KeySize, r.cfg.ValueSize, r.cfg.MaxElems)
	fmt.Println("Type 'help' for available commands.")
	fmt.Println()

	for {
		input, err := r.line.Prompt("ohactl> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Println("\nBye!")

				break
			}

			return fmt.Errorf("reading input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		r.line.AppendHistory(input)

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "exit", "quit", "q":
			fmt.Println("Bye!")
			r.saveHistory()

			return nil

		case "help", "?":
			r.printHelp()

		case "insert", "put":
			r.cmdInsert(args)

		case "get":
			r.cmdGet(args)

		case "del", "delete", "remove":
			r.cmdDelete(args)

		case "slot":
			r.cmdSlot(args)

		case "setslot":
			r.cmdSetSlot(args)

		case "touch":
			r.cmdTouch(args)

		case "time":
			r.cmdTime(args)

		case "sweep":
			r.cmdSweep(args)

		case "len":
			fmt.Println(r.tbl.Len())

		default:
			fmt.Printf("unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}

	r.saveHistory()

	return nil
}

func (r *repl) saveHistory() {
	path := historyFile()
	if path == "" {
		return
	}

	f, err := os.Create(path) //nolint:gosec // path is derived from the user's own home dir
	if err != nil {
		return
	}
	defer f.Close()

	r.line.WriteHistory(f)
}

func (r *repl) completer(line string) []string {
	commands := []string{"insert", "get", "del", "slot", "setslot", "touch", "time", "sweep", "len", "help", "exit"}

	var out []string

	for _, c := range commands {
		if strings.HasPrefix(c, line) {
			out = append(out, c)
		}
	}

	return out
}

func (r *repl) printHelp() {
	fmt.Print(`Commands:
  insert <key> <value> [slot]   Insert or fetch an entry
  get <key>                     Retrieve an entry by key
  del <key>                     Delete an entry
  slot <timeout> <max-elems>    Register a new timeout slot
  setslot <key> <slot>          Move a key into a timeout slot
  touch <key> <timestamp>       Update an entry's timeout timestamp
  time <timestamp>              Advance the table's global clock
  sweep [limit]                 Report and evict expired entries
  len                           Count live entries
  help                          Show this help
  exit / quit / q               Exit
`)
}

func (r *repl) fixedBytes(s string, size int) ([]byte, error) {
	b := []byte(s)
	if len(b) > size {
		return nil, fmt.Errorf("%q is %d bytes, exceeds fixed size %d", s, len(b), size)
	}

	out := make([]byte, size)
	copy(out, b)

	return out, nil
}

func (r *repl) cmdInsert(args []string) {
	if len(args) < 2 {
		fmt.Println("usage: insert <key> <value> [slot]")

		return
	}

	key, err := r.fixedBytes(args[0], r.cfg.KeySize)
	if err != nil {
		fmt.Println("error:", err)

		return
	}

	value, err := r.fixedBytes(args[1], r.cfg.ValueSize)
	if err != nil {
		fmt.Println("error:", err)

		return
	}

	var slotID uint8

	if len(args) > 2 {
		n, err := strconv.ParseUint(args[2], 10, 8)
		if err != nil {
			fmt.Println("error: invalid slot:", err)

			return
		}

		slotID = uint8(n)
	}

	v, err := r.tbl.Insert(key, value, slotID)
	if err != nil {
		fmt.Println("error:", err)

		return
	}

	fmt.Printf("ok: %q\n", strings.TrimRight(string(v), "\x00"))
}

func (r *repl) cmdGet(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: get <key>")

		return
	}

	key, err := r.fixedBytes(args[0], r.cfg.KeySize)
	if err != nil {
		fmt.Println("error:", err)

		return
	}

	v, ok := r.tbl.Lookup(key)
	if !ok {
		fmt.Println("not found")

		return
	}

	fmt.Printf("%q\n", strings.TrimRight(string(v), "\x00"))
}

func (r *repl) cmdDelete(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: del <key>")

		return
	}

	key, err := r.fixedBytes(args[0], r.cfg.KeySize)
	if err != nil {
		fmt.Println("error:", err)

		return
	}

	_, ok := r.tbl.Remove(key)
	if !ok {
		fmt.Println("not found")

		return
	}

	fmt.Println("ok")
}

func (r *repl) cmdSlot(args []string) {
	if len(args) != 2 {
		fmt.Println("usage: slot <timeout> <max-elems>")

		return
	}

	timeout, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Println("error: invalid timeout:", err)

		return
	}

	maxElems, err := strconv.ParseUint(args[1], 10, 32)
	if err != nil {
		fmt.Println("error: invalid max-elems:", err)

		return
	}

	slotID, err := r.tbl.AddTimeoutSlot(timeout, uint32(maxElems), true)
	if err != nil {
		fmt.Println("error:", err)

		return
	}

	fmt.Println("slot id:", slotID)
}

func (r *repl) cmdSetSlot(args []string) {
	if len(args) != 2 {
		fmt.Println("usage: setslot <key> <slot>")

		return
	}

	key, err := r.fixedBytes(args[0], r.cfg.KeySize)
	if err != nil {
		fmt.Println("error:", err)

		return
	}

	n, err := strconv.ParseUint(args[1], 10, 8)
	if err != nil {
		fmt.Println("error: invalid slot:", err)

		return
	}

	ok, err := r.tbl.SetTimeoutSlot(key, uint8(n))
	if err != nil {
		fmt.Println("error:", err)

		return
	}

	if !ok {
		fmt.Println("not found")

		return
	}

	fmt.Println("ok")
}

func (r *repl) cmdTouch(args []string) {
	if len(args) != 2 {
		fmt.Println("usage: touch <key> <timestamp>")

		return
	}

	key, err := r.fixedBytes(args[0], r.cfg.KeySize)
	if err != nil {
		fmt.Println("error:", err)

		return
	}

	ts, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		fmt.Println("error: invalid timestamp:", err)

		return
	}

	if !r.tbl.UpdateTimeForEntry(key, ts) {
		fmt.Println("not found or not enrolled in a timeout slot")

		return
	}

	fmt.Println("ok")
}

func (r *repl) cmdTime(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: time <timestamp>")

		return
	}

	ts, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Println("error: invalid timestamp:", err)

		return
	}

	if err := r.tbl.IncreaseGlobalTime(ts); err != nil {
		fmt.Println("error:", err)

		return
	}

	fmt.Println("ok")
}

func (r *repl) cmdSweep(args []string) {
	limit := 100

	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Println("error: invalid limit:", err)

			return
		}

		limit = n
	}

	entries := r.tbl.NextTimeoutEntries(limit)
	if len(entries) == 0 {
		fmt.Println("nothing expired")

		return
	}

	for _, e := range entries {
		fmt.Printf("%q -> %q\n", strings.TrimRight(string(e.Key), "\x00"), strings.TrimRight(string(e.Value), "\x00"))
	}
}
