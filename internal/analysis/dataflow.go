package analysis

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/ramtk/ram/internal/hir"
	"github.com/ramtk/ram/internal/types"
)

// DataFlowValue is one location a def/use set, a liveness set, or a
// writer→reader edge refers to: a memory address, or the accumulator.
type DataFlowValue struct {
	IsAccumulator bool
	Address       int64
}

func (v DataFlowValue) String() string {
	if v.IsAccumulator {
		return "acc"
	}
	return fmt.Sprintf("mem[%d]", v.Address)
}

// VariableSet is a set of DataFlowValue, used for def/use/live_in/live_out.
type VariableSet map[DataFlowValue]bool

func cloneSet(s VariableSet) VariableSet {
	out := make(VariableSet, len(s))
	for v := range s {
		out[v] = true
	}
	return out
}

func setsEqual(a, b VariableSet) bool {
	if len(a) != len(b) {
		return false
	}
	for v := range a {
		if !b[v] {
			return false
		}
	}
	return true
}

// DataFlowEdge connects the instruction that wrote a value to one that
// later reads it, gated by CFG reachability.
type DataFlowEdge struct {
	Writer, Reader int
	Value          DataFlowValue
}

// BlockLiveness holds the def/use/live_in/live_out sets computed for one
// basic block (indexed the same way as ControlFlowGraph.BasicBlocks).
type BlockLiveness struct {
	Def, Use, LiveIn, LiveOut VariableSet
}

// DataFlowGraph is the result of DataFlowAnalysis: the per-block and
// per-instruction def/use classification, the liveness fixed point computed
// from it, and the writer→reader edges derived from matching addresses.
type DataFlowGraph struct {
	Edges []DataFlowEdge

	// BlockLiveness holds {def, use, live_in, live_out} for each basic
	// block, keyed by its index into the owning ControlFlowGraph's
	// BasicBlocks slice.
	BlockLiveness map[int]BlockLiveness

	// DefAt, UseAt, LiveBefore and LiveAfter hold the instruction-level
	// counterparts, keyed by instruction index.
	DefAt, UseAt, LiveBefore, LiveAfter map[int]VariableSet

	reads  map[int][]int64 // instruction -> addresses it reads
	writes map[int][]int64 // instruction -> addresses it writes
}

// IsDefinedAt reports whether v is defined at instruction idx.
func (g *DataFlowGraph) IsDefinedAt(idx int, v DataFlowValue) bool { return g.DefAt[idx][v] }

// IsUsedAt reports whether v is used at instruction idx.
func (g *DataFlowGraph) IsUsedAt(idx int, v DataFlowValue) bool { return g.UseAt[idx][v] }

// IsLiveBefore reports whether v is live immediately before instruction idx
// executes.
func (g *DataFlowGraph) IsLiveBefore(idx int, v DataFlowValue) bool { return g.LiveBefore[idx][v] }

// IsLiveAfter reports whether v is live immediately after instruction idx
// executes.
func (g *DataFlowGraph) IsLiveAfter(idx int, v DataFlowValue) bool { return g.LiveAfter[idx][v] }

// UninitializedReads returns every (address, instruction) pair where an
// address is read before any instruction writes it, walking instructions in
// CFG topological order (program order when the CFG has a cycle). The check
// is not path-sensitive: a write anywhere earlier in that order counts.
func (g *DataFlowGraph) UninitializedReads(cfg *ControlFlowGraph) []struct {
	Address     int64
	Instruction int
} {
	order, ok := cfg.TopologicalSort()
	if !ok {
		order = make([]int, cfg.NodeCount)
		for i := range order {
			order[i] = i
		}
	}

	initialized := map[int64]bool{}
	var findings []struct {
		Address     int64
		Instruction int
	}
	for _, n := range order {
		for _, addr := range g.reads[n] {
			if !initialized[addr] {
				findings = append(findings, struct {
					Address     int64
					Instruction int
				}{Address: addr, Instruction: n})
			}
		}
		for _, addr := range g.writes[n] {
			initialized[addr] = true
		}
	}
	return findings
}

// UnusedWrites returns every address written somewhere in the body but read
// nowhere, paired with the instruction that wrote it (the first writer, in
// instruction order).
func (g *DataFlowGraph) UnusedWrites() []struct {
	Address     int64
	Instruction int
} {
	readAddrs := map[int64]bool{}
	for _, addrs := range g.reads {
		for _, a := range addrs {
			readAddrs[a] = true
		}
	}

	var nodes []int
	for n := range g.writes {
		nodes = append(nodes, n)
	}
	sort.Ints(nodes)

	var findings []struct {
		Address     int64
		Instruction int
	}
	seen := map[int64]bool{}
	for _, n := range nodes {
		for _, a := range g.writes[n] {
			if readAddrs[a] || seen[a] {
				continue
			}
			seen[a] = true
			findings = append(findings, struct {
				Address     int64
				Instruction int
			}{Address: a, Instruction: n})
		}
	}
	return findings
}

// DataFlowAnalysis classifies each instruction's def/use variables, computes
// the live_in/live_out fixed point over basic blocks and the resulting
// per-instruction liveness, builds the writer/reader graph gated by CFG
// reachability, and reports uninitialized-read warnings and unused-write
// advice.
type DataFlowAnalysis struct{}

func (DataFlowAnalysis) Name() string { return "DataFlowAnalysis" }
func (DataFlowAnalysis) Description() string {
	return "tracks memory reads/writes per instruction and flags uninitialized reads and unused writes"
}
func (DataFlowAnalysis) Dependencies() []reflect.Type {
	return []reflect.Type{DependencyOf[ControlFlowAnalysis]()}
}
func (DataFlowAnalysis) Priority() uint32 { return 0 }

func (DataFlowAnalysis) Run(ctx *Context) (any, error) {
	cfg, err := GetResult[ControlFlowAnalysis, *ControlFlowGraph](ctx)
	if err != nil {
		return nil, err
	}

	body := ctx.Body()
	g := &DataFlowGraph{
		reads:         map[int][]int64{},
		writes:        map[int][]int64{},
		BlockLiveness: map[int]BlockLiveness{},
		DefAt:         map[int]VariableSet{},
		UseAt:         map[int]VariableSet{},
		LiveBefore:    map[int]VariableSet{},
		LiveAfter:     map[int]VariableSet{},
	}

	for i, instr := range body.Instructions {
		addr, ok := literalAddress(body, instr.Operand)
		if !ok {
			continue
		}
		switch instr.Opcode {
		case "LOAD", "ADD", "SUB", "MUL", "DIV", "WRITE":
			g.reads[i] = append(g.reads[i], addr)
		case "STORE", "READ":
			g.writes[i] = append(g.writes[i], addr)
		}
	}

	for writer, addrs := range g.writes {
		for _, addr := range addrs {
			for reader, readAddrs := range g.reads {
				if reader == writer {
					continue
				}
				for _, ra := range readAddrs {
					if ra == addr && cfg.HasPath(writer, reader) {
						g.Edges = append(g.Edges, DataFlowEdge{
							Writer: writer, Reader: reader,
							Value: DataFlowValue{Address: addr},
						})
					}
				}
			}
		}
	}

	computeLiveness(body, cfg, g)

	for _, f := range g.UninitializedReads(cfg) {
		msg := fmt.Sprintf("memory address %d is read at instruction %d before any instruction writes it", f.Address, f.Instruction)
		ctx.Warning(msg, "initialize the address with STORE before reading it", types.TextRange{})
	}
	for _, f := range g.UnusedWrites() {
		msg := fmt.Sprintf("memory address %d, written at instruction %d, is never read", f.Address, f.Instruction)
		ctx.Info(msg, "", types.TextRange{})
	}

	return g, nil
}

// computeLiveness classifies each instruction's def/use variables, unions
// them into per-block def/use sets, runs the live_in/live_out fixed point
// over the block graph, and walks each block backward to derive
// live_before/live_after for every instruction in it.
func computeLiveness(body *hir.Body, cfg *ControlFlowGraph, g *DataFlowGraph) {
	blocks := cfg.BasicBlocks
	if len(blocks) == 0 {
		return
	}

	blockOf := map[int]int{}
	for bi, blk := range blocks {
		for _, n := range blk.Nodes {
			blockOf[n] = bi
		}
	}

	blockDef := make([]VariableSet, len(blocks))
	blockUse := make([]VariableSet, len(blocks))
	for bi, blk := range blocks {
		blockDef[bi] = VariableSet{}
		blockUse[bi] = VariableSet{}
		for _, n := range blk.Nodes {
			def, use := instructionDefUse(body, body.Instructions[n])
			g.DefAt[n] = def
			g.UseAt[n] = use
			for v := range def {
				blockDef[bi][v] = true
			}
			for v := range use {
				blockUse[bi][v] = true
			}
		}
	}

	succs := make([][]int, len(blocks))
	for bi, blk := range blocks {
		seen := map[int]bool{}
		for _, e := range cfg.Successors(blk.Exit()) {
			tb := blockOf[e.To]
			if !seen[tb] {
				seen[tb] = true
				succs[bi] = append(succs[bi], tb)
			}
		}
	}

	liveIn := make([]VariableSet, len(blocks))
	liveOut := make([]VariableSet, len(blocks))
	for bi := range blocks {
		liveIn[bi] = VariableSet{}
		liveOut[bi] = VariableSet{}
	}

	for changed := true; changed; {
		changed = false
		for bi := range blocks {
			// live_out(B) = union of live_in(S) over successors S
			newOut := VariableSet{}
			for _, s := range succs[bi] {
				for v := range liveIn[s] {
					newOut[v] = true
				}
			}
			if !setsEqual(newOut, liveOut[bi]) {
				liveOut[bi] = newOut
				changed = true
			}

			// live_in(B) = use(B) ∪ (live_out(B) \ def(B))
			newIn := cloneSet(blockUse[bi])
			for v := range liveOut[bi] {
				if !blockDef[bi][v] {
					newIn[v] = true
				}
			}
			if !setsEqual(newIn, liveIn[bi]) {
				liveIn[bi] = newIn
				changed = true
			}
		}
	}

	for bi, blk := range blocks {
		g.BlockLiveness[bi] = BlockLiveness{
			Def: blockDef[bi], Use: blockUse[bi],
			LiveIn: liveIn[bi], LiveOut: liveOut[bi],
		}

		live := cloneSet(liveOut[bi])
		for i := len(blk.Nodes) - 1; i >= 0; i-- {
			n := blk.Nodes[i]
			g.LiveAfter[n] = cloneSet(live)
			for v := range g.DefAt[n] {
				delete(live, v)
			}
			for v := range g.UseAt[n] {
				live[v] = true
			}
			g.LiveBefore[n] = cloneSet(live)
		}
	}
}

// instructionDefUse classifies the variables one instruction defines and
// uses: LOAD defines the accumulator and uses its memory operand; STORE
// defines its memory operand and uses the accumulator; ADD/SUB/MUL/DIV both
// define and use the accumulator, plus use the memory operand; READ defines
// its memory operand; WRITE uses its memory operand; JZERO/JGTZ use the
// accumulator to decide the branch; JUMP and HALT define and use nothing.
// Operands that aren't plain integer literals (array accesses, label
// references) aren't tracked as a def/use variable, matching the address
// tracking data-flow performs elsewhere in this pass.
func instructionDefUse(body *hir.Body, instr hir.Instruction) (def, use VariableSet) {
	def, use = VariableSet{}, VariableSet{}
	acc := DataFlowValue{IsAccumulator: true}
	addr, hasAddr := literalAddress(body, instr.Operand)
	mem := DataFlowValue{Address: addr}

	switch instr.Opcode {
	case "LOAD":
		def[acc] = true
		if hasAddr {
			use[mem] = true
		}
	case "STORE":
		if hasAddr {
			def[mem] = true
		}
		use[acc] = true
	case "ADD", "SUB", "MUL", "DIV":
		def[acc] = true
		use[acc] = true
		if hasAddr {
			use[mem] = true
		}
	case "READ":
		if hasAddr {
			def[mem] = true
		}
	case "WRITE":
		if hasAddr {
			use[mem] = true
		}
	case "JZERO", "JGTZ":
		use[acc] = true
	}
	return def, use
}

// literalAddress extracts the address an operand names, when it is a plain
// integer literal (directly, or wrapped in a MemoryRef). Array accesses and
// label-named addresses are not tracked — data-flow here only follows
// addresses a reader can compare for equality without resolving anything at
// analysis time.
func literalAddress(body *hir.Body, operand *types.ExprID) (int64, bool) {
	if operand == nil {
		return 0, false
	}
	expr, ok := body.Expr(*operand)
	if !ok {
		return 0, false
	}
	if expr.Kind == hir.ExprMemoryRef {
		if expr.MemoryRef.Mode == hir.Immediate {
			return 0, false
		}
		expr, ok = body.Expr(expr.MemoryRef.Address)
		if !ok {
			return 0, false
		}
	}
	if expr.Kind == hir.ExprLiteral && expr.Literal.Kind == hir.LiteralInt {
		return expr.Literal.Int, true
	}
	return 0, false
}
