// handlers_qset.go implements the QS.* commands over named quicksets.
//
// Lazy Creation
// =============
//
// Commands that add counts (QS.ADD, QS.SUM, QS.BATCH, QS.UNIQUE) and
// QS.RESIZE create a missing key from the server defaults, the way Redis
// creates a hash on HSET. QS.CREATE builds one with explicit options and
// fails if the key exists. Commands that only remove state (QS.DELETE,
// QS.DERANK, QS.CLEAR) are no-ops on a missing key.
//
// Read commands on a missing key reply as if the set were empty: zero,
// or an empty array. QS.INFO is the exception and reports the missing key.
//
// Members
// =======
//
// Members are integers. A member outside the set's [clip, span] domain is
// ignored by writes and reads as zero, the same as the library does. Only a
// member that does not parse as an integer is an error.
//
// Concurrency Strategy
// ====================
//
// Writes run under Mutate or Update (exclusive shard lock), reads under View
// (shared shard lock).

package main

import (
	"io"
	"strconv"
	"strings"

	"qset.lopezb.com/internal/quickset"
	"qset.lopezb.com/internal/resp"
)

// lookup runs fn with the set under key and reports whether it exists.
func (app *application) lookup(key string, fn func(set *quickset.Set)) bool {
	found := false
	app.store.View(key, func(set *quickset.Set) {
		if set != nil {
			found = true
			fn(set)
		}
	})
	return found
}

// mutate runs fn with the set under key, creating it from the defaults if
// needed. On failure it writes the error reply and returns false.
func (app *application) mutate(w io.Writer, key string, fn func(set *quickset.Set)) bool {
	if err := app.store.Mutate(key, app.newDefaultSet, fn); err != nil {
		app.setErrorResponse(w, err)
		return false
	}
	return true
}

// handleQSCreate handles the QS.CREATE command.
// Syntax: QS.CREATE key [MODE minsum|winsum] [CLIP n] [SPAN n] [SLOT n]
// [HIGH n] [FREQ n] [FIFO]
//
// Options not given are taken from the server defaults. SPAN may not exceed
// the server's -max-span.
func (app *application) handleQSCreate(w io.Writer, args []string) {
	if len(args) < 1 {
		app.wrongNumberOfArgsResponse(w, "QS.CREATE")
		return
	}

	key := args[0]
	cfg := app.defaults

	opts := args[1:]
	for i := 0; i < len(opts); i++ {
		opt := strings.ToUpper(opts[i])

		if opt == "FIFO" {
			cfg.FIFO = true
			continue
		}

		if i+1 >= len(opts) {
			app.syntaxErrorResponse(w)
			return
		}
		val := opts[i+1]
		i++

		if opt == "MODE" {
			cfg.Mode = quickset.Mode(strings.ToLower(val))
			continue
		}

		n, err := strconv.Atoi(val)
		if err != nil {
			app.notIntegerResponse(w)
			return
		}

		switch opt {
		case "CLIP":
			cfg.Clip = n
		case "SPAN":
			cfg.Span = n
		case "SLOT":
			cfg.Slot = n
		case "HIGH":
			cfg.High = n
		case "FREQ":
			cfg.Freq = n
		default:
			app.syntaxErrorResponse(w)
			return
		}
	}

	if cfg.Span > app.config.maxSpan {
		app.spanLimitResponse(w, cfg.Span)
		return
	}

	created, err := app.store.Create(key, func() (*quickset.Set, error) {
		return quickset.New(cfg)
	})
	if err != nil {
		app.setErrorResponse(w, err)
		return
	}
	if !created {
		_ = app.writeErrorResponse(w, "ERR key already exists")
		return
	}

	_ = app.writeSimpleStringResponse(w, "OK")
}

// handleQSAdd handles the QS.ADD command.
// Syntax: QS.ADD key member count
//
// Overwrites the member's counter. Counts above the set's ceiling are
// ignored.
func (app *application) handleQSAdd(w io.Writer, args []string) {
	if len(args) != 3 {
		app.wrongNumberOfArgsResponse(w, "QS.ADD")
		return
	}

	member, ok := parseMember(args[1])
	if !ok {
		app.notIntegerResponse(w)
		return
	}
	count, ok := parseCount(args[2])
	if !ok {
		app.notIntegerResponse(w)
		return
	}

	if app.mutate(w, args[0], func(set *quickset.Set) { set.Add(member, count) }) {
		_ = app.writeSimpleStringResponse(w, "OK")
	}
}

// handleQSSum handles the QS.SUM command.
// Syntax: QS.SUM key member [increment]
//
// Adds increment (default 1) to the member's counter, updates the rank
// window and replies with the counter afterwards. An increment that would
// push the counter past the ceiling is dropped.
func (app *application) handleQSSum(w io.Writer, args []string) {
	if len(args) != 2 && len(args) != 3 {
		app.wrongNumberOfArgsResponse(w, "QS.SUM")
		return
	}

	member, ok := parseMember(args[1])
	if !ok {
		app.notIntegerResponse(w)
		return
	}
	incr := uint32(1)
	if len(args) == 3 {
		if incr, ok = parseCount(args[2]); !ok {
			app.notIntegerResponse(w)
			return
		}
	}

	var count uint32
	if app.mutate(w, args[0], func(set *quickset.Set) {
		set.Sum(member, incr)
		count = set.Get(member)
	}) {
		_ = app.writeIntegerResponse(w, int64(count))
	}
}

// handleQSBatch handles the QS.BATCH command.
// Syntax: QS.BATCH key member [member ...] [WEIGHTS w [w ...]]
//
// Sums every member in order. Weights are reused cyclically when there are
// fewer weights than members; without WEIGHTS each member counts once.
func (app *application) handleQSBatch(w io.Writer, args []string) {
	if len(args) < 2 {
		app.wrongNumberOfArgsResponse(w, "QS.BATCH")
		return
	}

	rest := args[1:]
	var weights []uint32
	for i, a := range rest {
		if !strings.EqualFold(a, "WEIGHTS") {
			continue
		}
		if i == 0 || i == len(rest)-1 {
			app.syntaxErrorResponse(w)
			return
		}
		weights = make([]uint32, 0, len(rest)-i-1)
		for _, s := range rest[i+1:] {
			n, ok := parseCount(s)
			if !ok {
				app.notIntegerResponse(w)
				return
			}
			weights = append(weights, n)
		}
		rest = rest[:i]
		break
	}

	members, ok := parseMembers(rest)
	if !ok {
		app.notIntegerResponse(w)
		return
	}

	if app.mutate(w, args[0], func(set *quickset.Set) { set.Batch(members, weights) }) {
		_ = app.writeSimpleStringResponse(w, "OK")
	}
}

// handleQSUnique handles the QS.UNIQUE command.
// Syntax: QS.UNIQUE key member [member ...]
//
// Sets each member's counter to 1. The rank window is not touched.
func (app *application) handleQSUnique(w io.Writer, args []string) {
	if len(args) < 2 {
		app.wrongNumberOfArgsResponse(w, "QS.UNIQUE")
		return
	}

	members, ok := parseMembers(args[1:])
	if !ok {
		app.notIntegerResponse(w)
		return
	}

	if app.mutate(w, args[0], func(set *quickset.Set) { set.Unique(members) }) {
		_ = app.writeSimpleStringResponse(w, "OK")
	}
}

// handleQSGet handles the QS.GET command.
// Syntax: QS.GET key member
func (app *application) handleQSGet(w io.Writer, args []string) {
	if len(args) != 2 {
		app.wrongNumberOfArgsResponse(w, "QS.GET")
		return
	}

	member, ok := parseMember(args[1])
	if !ok {
		app.notIntegerResponse(w)
		return
	}

	var count uint32
	app.lookup(args[0], func(set *quickset.Set) { count = set.Get(member) })
	_ = app.writeIntegerResponse(w, int64(count))
}

// handleQSHas handles the QS.HAS command.
// Syntax: QS.HAS key member
func (app *application) handleQSHas(w io.Writer, args []string) {
	if len(args) != 2 {
		app.wrongNumberOfArgsResponse(w, "QS.HAS")
		return
	}

	member, ok := parseMember(args[1])
	if !ok {
		app.notIntegerResponse(w)
		return
	}

	has := false
	app.lookup(args[0], func(set *quickset.Set) { has = set.Has(member) })
	if has {
		_ = app.writeIntegerResponse(w, 1)
		return
	}
	_ = app.writeIntegerResponse(w, 0)
}

// handleQSDelete handles the QS.DELETE command.
// Syntax: QS.DELETE key member
//
// Zeroes the member's counter. The rank window is left as is; use
// QS.DERANK to drop a ranked member.
func (app *application) handleQSDelete(w io.Writer, args []string) {
	if len(args) != 2 {
		app.wrongNumberOfArgsResponse(w, "QS.DELETE")
		return
	}

	member, ok := parseMember(args[1])
	if !ok {
		app.notIntegerResponse(w)
		return
	}

	app.store.Update(args[0], func(set *quickset.Set) { set.Delete(member) })
	_ = app.writeSimpleStringResponse(w, "OK")
}

// handleQSCard handles the QS.CARD command.
// Syntax: QS.CARD key
//
// Replies with the number of members holding a nonzero count.
func (app *application) handleQSCard(w io.Writer, args []string) {
	if len(args) != 1 {
		app.wrongNumberOfArgsResponse(w, "QS.CARD")
		return
	}

	n := 0
	app.lookup(args[0], func(set *quickset.Set) { n = set.Len() })
	_ = app.writeIntegerResponse(w, int64(n))
}

// readLimit validates the arguments of the extraction commands, which all
// share the form CMD key [limit].
func (app *application) readLimit(w io.Writer, name string, args []string) (int, bool) {
	if len(args) != 1 && len(args) != 2 {
		app.wrongNumberOfArgsResponse(w, name)
		return 0, false
	}
	limit, ok := parseLimit(args[1:])
	if !ok {
		app.notIntegerResponse(w)
		return 0, false
	}
	return limit, true
}

// handleQSKeys handles the QS.KEYS command.
// Syntax: QS.KEYS key [limit]
//
// Replies with the members holding a nonzero count, ascending. A limit
// restricts the scan to the first limit counters of the buffer.
func (app *application) handleQSKeys(w io.Writer, args []string) {
	limit, ok := app.readLimit(w, "QS.KEYS", args)
	if !ok {
		return
	}

	keys := []int{}
	app.lookup(args[0], func(set *quickset.Set) { keys = set.Keys(limit) })
	_ = app.writeIntegerArrayResponse(w, keys)
}

// handleQSValues handles the QS.VALUES command.
// Syntax: QS.VALUES key [limit]
func (app *application) handleQSValues(w io.Writer, args []string) {
	limit, ok := app.readLimit(w, "QS.VALUES", args)
	if !ok {
		return
	}

	values := []uint32{}
	app.lookup(args[0], func(set *quickset.Set) { values = set.Values(limit) })
	_ = app.writeCountArrayResponse(w, values)
}

// handleQSEntries handles the QS.ENTRIES command.
// Syntax: QS.ENTRIES key [limit]
//
// Replies with [member, count] pairs for counts above the set's freq
// threshold.
func (app *application) handleQSEntries(w io.Writer, args []string) {
	limit, ok := app.readLimit(w, "QS.ENTRIES", args)
	if !ok {
		return
	}

	entries := []quickset.Entry{}
	app.lookup(args[0], func(set *quickset.Set) { entries = set.Entries(limit) })
	_ = app.writeEntriesResponse(w, entries)
}

// handleQSSorted handles the QS.SORTED command.
// Syntax: QS.SORTED key [limit]
//
// Replies with every member repeated count times, ascending. The reply
// holds as many elements as the sum of the counts, so it is refused before
// anything is allocated when that sum exceeds resp.MaxArrayLen.
func (app *application) handleQSSorted(w io.Writer, args []string) {
	limit, ok := app.readLimit(w, "QS.SORTED", args)
	if !ok {
		return
	}

	sorted := []int{}
	var total uint64
	app.lookup(args[0], func(set *quickset.Set) {
		if total = set.Total(limit); total <= resp.MaxArrayLen {
			sorted = set.Sorted(limit)
		}
	})
	if total > resp.MaxArrayLen {
		app.replyTooLargeResponse(w, total)
		return
	}
	_ = app.writeIntegerArrayResponse(w, sorted)
}

// handleQSTop handles the QS.TOP command.
// Syntax: QS.TOP key [k]
//
// Replies with the occupied rank window slots as [member, count] pairs.
// Winsum sets reply best first; minsum sets reply in slot order.
func (app *application) handleQSTop(w io.Writer, args []string) {
	k, ok := app.readLimit(w, "QS.TOP", args)
	if !ok {
		return
	}

	top := []quickset.Entry{}
	app.lookup(args[0], func(set *quickset.Set) { top = set.Top(k) })
	_ = app.writeEntriesResponse(w, top)
}

// handleQSTopK handles the QS.TOPK command.
// Syntax: QS.TOPK key [k]
//
// Replies with the raw member column of the first k window slots, empty
// slots included.
func (app *application) handleQSTopK(w io.Writer, args []string) {
	k, ok := app.readLimit(w, "QS.TOPK", args)
	if !ok {
		return
	}

	keys := []int{}
	app.lookup(args[0], func(set *quickset.Set) { keys = set.TopK(k) })
	_ = app.writeIntegerArrayResponse(w, keys)
}

// handleQSTopV handles the QS.TOPV command.
// Syntax: QS.TOPV key [k]
func (app *application) handleQSTopV(w io.Writer, args []string) {
	k, ok := app.readLimit(w, "QS.TOPV", args)
	if !ok {
		return
	}

	counts := []uint32{}
	app.lookup(args[0], func(set *quickset.Set) { counts = set.TopV(k) })
	_ = app.writeCountArrayResponse(w, counts)
}

// handleQSDerank handles the QS.DERANK command.
// Syntax: QS.DERANK key member
//
// Zeroes the member's counter and removes it from the rank window.
func (app *application) handleQSDerank(w io.Writer, args []string) {
	if len(args) != 2 {
		app.wrongNumberOfArgsResponse(w, "QS.DERANK")
		return
	}

	member, ok := parseMember(args[1])
	if !ok {
		app.notIntegerResponse(w)
		return
	}

	app.store.Update(args[0], func(set *quickset.Set) { set.Derank(member) })
	_ = app.writeSimpleStringResponse(w, "OK")
}

// handleQSResize handles the QS.RESIZE command.
// Syntax: QS.RESIZE key slots
//
// Changes the rank window capacity, keeping the ranked members that fit.
func (app *application) handleQSResize(w io.Writer, args []string) {
	if len(args) != 2 {
		app.wrongNumberOfArgsResponse(w, "QS.RESIZE")
		return
	}

	n, err := strconv.Atoi(args[1])
	if err != nil {
		app.notIntegerResponse(w)
		return
	}

	var resizeErr error
	if !app.mutate(w, args[0], func(set *quickset.Set) { resizeErr = set.Resize(n) }) {
		return
	}
	if resizeErr != nil {
		app.setErrorResponse(w, resizeErr)
		return
	}
	_ = app.writeSimpleStringResponse(w, "OK")
}

// handleQSClear handles the QS.CLEAR command.
// Syntax: QS.CLEAR key [RANK | SLOTS n]
//
// Without options, zeroes every counter and keeps the rank window. RANK
// also empties the window. SLOTS n also replaces the window with n empty
// slots.
func (app *application) handleQSClear(w io.Writer, args []string) {
	if len(args) < 1 || len(args) > 3 {
		app.wrongNumberOfArgsResponse(w, "QS.CLEAR")
		return
	}

	var op func(set *quickset.Set) error

	switch {
	case len(args) == 1:
		op = func(set *quickset.Set) error { set.Clear(); return nil }
	case len(args) == 2 && strings.EqualFold(args[1], "RANK"):
		op = func(set *quickset.Set) error { set.ClearRank(); return nil }
	case len(args) == 3 && strings.EqualFold(args[1], "SLOTS"):
		n, err := strconv.Atoi(args[2])
		if err != nil {
			app.notIntegerResponse(w)
			return
		}
		op = func(set *quickset.Set) error { return set.ClearSlots(n) }
	default:
		app.syntaxErrorResponse(w)
		return
	}

	var err error
	app.store.Update(args[0], func(set *quickset.Set) { err = op(set) })
	if err != nil {
		app.setErrorResponse(w, err)
		return
	}
	_ = app.writeSimpleStringResponse(w, "OK")
}

// handleQSInfo handles the QS.INFO command.
// Syntax: QS.INFO key
//
// Replies with alternating field names and values.
func (app *application) handleQSInfo(w io.Writer, args []string) {
	if len(args) != 1 {
		app.wrongNumberOfArgsResponse(w, "QS.INFO")
		return
	}

	var info setInfo
	if !app.lookup(args[0], func(set *quickset.Set) { info = describeSet(args[0], set) }) {
		_ = app.writeErrorResponse(w, "ERR no such key")
		return
	}

	fifo := int64(0)
	if info.FIFO {
		fifo = 1
	}

	buf := appendArrayHeader(make([]byte, 0, 256), 26)
	buf = appendBulk(buf, "mode")
	buf = appendBulk(buf, string(info.Mode))
	buf = appendBulk(buf, "fifo")
	buf = appendInt(buf, fifo)
	buf = appendBulk(buf, "clip")
	buf = appendInt(buf, int64(info.Clip))
	buf = appendBulk(buf, "span")
	buf = appendInt(buf, int64(info.Span))
	buf = appendBulk(buf, "slot")
	buf = appendInt(buf, int64(info.Slot))
	buf = appendBulk(buf, "high")
	buf = appendInt(buf, int64(info.High))
	buf = appendBulk(buf, "freq")
	buf = appendInt(buf, int64(info.Freq))
	buf = appendBulk(buf, "key_width")
	buf = appendBulk(buf, info.KeyWidth)
	buf = appendBulk(buf, "count_width")
	buf = appendBulk(buf, info.ValWidth)
	buf = appendBulk(buf, "len")
	buf = appendInt(buf, int64(info.Len))
	buf = appendBulk(buf, "min")
	buf = appendInt(buf, int64(info.Min))
	buf = appendBulk(buf, "max")
	buf = appendInt(buf, int64(info.Max))
	buf = appendBulk(buf, "footprint")
	buf = appendInt(buf, int64(info.Footprint))

	_, _ = w.Write(buf)
}
