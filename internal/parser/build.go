package parser

import "github.com/ramtk/ram/internal/syntax"

// Build replays an event log into a green tree plus the flat list of
// diagnostics recorded along the way. A Placeholder/StartNodeBefore event
// may be chained via ForwardTo (set by CompletedMarker.Precede) to an
// outer node recorded later in the log; Build follows that chain and
// starts the outer node first, so the resulting tree nests correctly even
// though the inner node's Start event was recorded first.
func Build(events []Event) (*syntax.GreenNode, []SyntaxError) {
	b := syntax.NewTreeBuilder()
	var errors []SyntaxError
	consumed := make([]bool, len(events))

	for i := 0; i < len(events); i++ {
		if consumed[i] {
			continue
		}
		e := events[i]
		switch e.kind {
		case evPlaceholder, evStartNodeBefore:
			kinds := collectForwardChain(events, i, consumed)
			for k := len(kinds) - 1; k >= 0; k-- {
				b.StartNode(kinds[k])
			}
		case evFinishNode:
			b.FinishNode()
		case evToken:
			b.Token(e.TokenKind, e.TokenText)
		case evError:
			errors = append(errors, *e.Error)
		}
	}

	return b.Finish(), errors
}

// collectForwardChain walks the forward-parent chain starting at i,
// returning the node kinds encountered in the order they were recorded
// (innermost first). Tombstoned links (abandoned markers with nothing
// forwarding to them) contribute no kind.
func collectForwardChain(events []Event, start int, consumed []bool) []syntax.Kind {
	var kinds []syntax.Kind
	idx := start
	for {
		consumed[idx] = true
		ev := events[idx]
		if ev.NodeKind != tombstone {
			kinds = append(kinds, ev.NodeKind)
		}
		if ev.ForwardTo == 0 {
			break
		}
		idx += ev.ForwardTo
	}
	return kinds
}
